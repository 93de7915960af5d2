package hook

// HookType represents the type of hook.
type HookType string

// Supported hook types.
const (
	DownloadComplete   HookType = "download-complete"
	DecompressComplete HookType = "decompress-complete"
)

// Types lists the supported hook types in pipeline order.
var Types = []HookType{DownloadComplete, DecompressComplete}

// Valid reports whether t is a supported hook type.
func (t HookType) Valid() bool {
	switch t {
	case DownloadComplete, DecompressComplete:
		return true
	default:
		return false
	}
}

// Hook represents a hook script with its type and content.
type Hook struct {
	Type    HookType
	Content string
}

// HookContext contains information passed to hooks.
type HookContext struct {
	Source      string
	Destination string
	// Failed and Error describe the outcome of the stage that just ended.
	Failed bool
	Error  string
	Vars   map[string]interface{}
}

// HookManager defines the interface for managing hooks.
type HookManager interface {
	// Execute runs the specified hook type with the given context
	Execute(hookType HookType, ctx HookContext) error

	// AddHook adds a new hook
	AddHook(hook Hook) error

	// RemoveHook removes a hook of the specified type
	RemoveHook(hookType HookType) error

	// HasHook checks if a hook of the specified type exists
	HasHook(hookType HookType) bool
}
