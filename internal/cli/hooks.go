package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wikidump/pkg/config"
	"github.com/glorpus-work/wikidump/pkg/hook"
)

// NewHooksCmd creates the hooks command with subcommands.
func NewHooksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hooks",
		Short: "Work with completion hook scripts",
		Long: `Completion hooks are tengo scripts run when the download or the
decompress stage of a file ends. They are configured under settings.hooks or
passed to the download command with --on-download-complete and
--on-decompress-complete.`,
	}

	cmd.AddCommand(newHooksTemplateCmd())

	return cmd
}

func newHooksTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "template TYPE",
		Short:     "Print a starter script for a hook type",
		Args:      cobra.ExactArgs(1),
		ValidArgs: hookTypeNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			hookType := hook.HookType(args[0])
			if !hookType.Valid() {
				return hook.ErrUnsupportedHookEvent(args[0])
			}
			_, err := fmt.Fprint(cmd.OutOrStdout(), hook.HookTemplate(hookType))
			return err
		},
	}

	return cmd
}

func hookTypeNames() []string {
	names := make([]string, 0, len(hook.Types))
	for _, t := range hook.Types {
		names = append(names, string(t))
	}
	return names
}

// loadHooks registers the configured hook scripts. Scripts in the hooks directory
// are loaded first; explicit paths from the config and then from flags replace them.
func loadHooks(cfg *config.Config, onDownloadComplete, onDecompressComplete string) (*hook.DefaultHookManager, error) {
	manager := hook.NewHookManager()

	if dir := cfg.Settings.Hooks.Dir; dir != "" {
		if err := hook.LoadHooksFromDir(manager, dir); err != nil {
			return nil, err
		}
	}

	scripts := map[hook.HookType][]string{
		hook.DownloadComplete:   {cfg.Settings.Hooks.DownloadComplete, onDownloadComplete},
		hook.DecompressComplete: {cfg.Settings.Hooks.DecompressComplete, onDecompressComplete},
	}
	for _, hookType := range hook.Types {
		for _, path := range scripts[hookType] {
			if path == "" {
				continue
			}
			if err := hook.LoadHookFile(manager, hookType, path); err != nil {
				return nil, err
			}
		}
	}

	return manager, nil
}
