package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wikidump/pkg/cache"
)

// NewCacheCmd creates the cache command with subcommands
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the index cache",
		Long:  "Clean, show information about, and locate the cached mirror indexes",
	}

	cmd.AddCommand(
		newCacheCleanCmd(),
		newCacheInfoCmd(),
		newCacheDirCmd(),
	)

	return cmd
}

func newCacheCleanCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Clean the index cache",
		Long: `Remove cached indexes that were not created today.
With --all every cache file is removed, including today's.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheClean(cmd, all)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every cached index")

	return cmd
}

func newCacheInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show cache information",
		Long:  "Display size and file counts of the index cache",
		Args:  cobra.NoArgs,
		RunE:  runCacheInfo,
	}

	return cmd
}

func newCacheDirCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Show cache directory path",
		Long:  "Display the path to the index cache directory",
		Args:  cobra.NoArgs,
		RunE:  runCacheDir,
	}

	return cmd
}

func newCacheOperation() (*cache.CacheOperation, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return cache.NewCacheOperation(newIndexStore(cfg)), nil
}

func runCacheClean(cmd *cobra.Command, all bool) error {
	cacheOp, err := newCacheOperation()
	if err != nil {
		return err
	}

	result, err := cacheOp.Clean(all)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), result)
	return nil
}

func runCacheInfo(cmd *cobra.Command, _ []string) error {
	cacheOp, err := newCacheOperation()
	if err != nil {
		return err
	}

	info, err := cacheOp.GetInfo()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), info)
	return nil
}

func runCacheDir(cmd *cobra.Command, _ []string) error {
	cacheOp, err := newCacheOperation()
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cacheOp.GetDirectory())
	return nil
}
