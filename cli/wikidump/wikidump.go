package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wikidump/internal/cli"
)

var (
	configPath string
	verbose    bool
	mirrorKey  string
	cacheDir   string
	noCache    bool
	logFormat  string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := newRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		cancel()
		os.Exit(1)
	}

	cancel()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikidump",
		Short: "Browse and download Wikimedia dumps",
		Long: `wikidump browses the dump index of a Wikimedia mirror and downloads dump files:
- Mirrors: pick one of the known mirrors or configure your own
- Index: list wikis, jobs and files, cached once per day
- Downloads: parallel, SHA-1 verified and decompressed on the fly`,
		SilenceUsage: true,
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: auto-detect)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&mirrorKey, "mirror", "", "mirror key to use (see 'wikidump mirrors')")
	cmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "index cache directory")
	cmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "always fetch the index from the mirror")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (text, json)")

	// Set up CLI variables
	cli.ConfigPath = &configPath
	cli.Verbose = &verbose
	cli.MirrorKey = &mirrorKey
	cli.CacheDir = &cacheDir
	cli.NoCache = &noCache
	cli.LogFormat = &logFormat

	// Add subcommands
	cmd.AddCommand(
		cli.NewMirrorsCmd(),
		cli.NewWikisCmd(),
		cli.NewJobsCmd(),
		cli.NewFilesCmd(),
		cli.NewDownloadCmd(),
		cli.NewCacheCmd(),
		cli.NewConfigCmd(),
		cli.NewHooksCmd(),
		cli.NewVersionCmd(),
	)

	return cmd
}
