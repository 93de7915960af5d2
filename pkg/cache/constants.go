package cache

import (
	"os"

	"github.com/glorpus-work/wikidump/pkg/fsutil"
)

const (
	// Extension marks index cache files inside the cache directory.
	Extension = ".wiki_dump_cache"

	// separator joins the normalized mirror name and the creation date.
	separator = "__"

	// dateLayout is the YYYYMMDD date embedded in cache file names.
	dateLayout = "20060102"

	// CacheDirPerm is the permission mode for created cache directories.
	CacheDirPerm os.FileMode = fsutil.DirModeDefault

	// FallbackDir is the relative cache directory NewStore uses when the user
	// cache directory cannot be resolved.
	FallbackDir = "wikidump-cache"
)
