package fsutil

// File and directory permission constants.
// These follow standard Unix permission conventions and are used for every
// cache, config and download file wikidump writes.
const (
	// Default file modes.
	FileModeDefault = 0o644 // -rw-r--r--: Default for regular files
	FileModeSecure  = 0o600 // -rw-------: For config files that may hold a custom mirror URL

	// Directory modes.
	DirModeDefault = 0o755 // drwxr-xr-x: Default for directories
	DirModePrivate = 0o700 // drwx------: For private directories (owner only)
)
