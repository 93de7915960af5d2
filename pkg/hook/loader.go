package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HookFileExtension is the extension of hook script files.
const HookFileExtension = ".tengo"

// LoadHookFile reads a script from path and registers it for hookType.
func LoadHookFile(manager HookManager, hookType HookType, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrHookLoad, path, err)
	}
	return manager.AddHook(Hook{Type: hookType, Content: string(content)})
}

// LoadHooksFromDir registers every <hook-type>.tengo script found in dir.
// Files with other names are ignored and a missing dir loads nothing.
func LoadHooksFromDir(manager HookManager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read hooks directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != HookFileExtension {
			continue
		}

		hookType := HookType(strings.TrimSuffix(entry.Name(), HookFileExtension))
		if !hookType.Valid() {
			continue
		}

		if err := LoadHookFile(manager, hookType, filepath.Join(dir, entry.Name())); err != nil {
			return fmt.Errorf("error adding hook %s: %w", hookType, err)
		}
	}

	return nil
}

// HookTemplate generates a template for a hook script
func HookTemplate(hookType HookType) string {
	switch hookType {
	case DownloadComplete:
		return `// Download-complete hook
// This script runs once the download stage of a file has ended
// Available variables:
// - source: string - URL the file was fetched from
// - destination: string - path the file will be written to
// - stage: string - "download-complete"
// - failed: bool - true when the download or its verification failed
// - errorMessage: string - the failure message, empty on success
//
// Assign a non-empty string to the top-level err variable to mark the stage as failed.

fmt := import("fmt")

if failed {
    fmt.println("download of " + source + " failed: " + errorMessage)
}
`

	case DecompressComplete:
		return `// Decompress-complete hook
// This script runs once the destination file has been written
// Available variables: same as the download-complete hook

os := import("os")

err := ""
if !failed {
    info := os.stat(destination)
    if is_error(info) || info.size == 0 {
        err = "empty output: " + destination
    }
}
`

	default:
		return "// Unknown hook type: " + string(hookType)
	}
}
