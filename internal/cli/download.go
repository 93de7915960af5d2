package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/glorpus-work/wikidump/internal/logger"
	"github.com/glorpus-work/wikidump/pkg/catalog"
	"github.com/glorpus-work/wikidump/pkg/download"
	"github.com/glorpus-work/wikidump/pkg/dump"
	"github.com/glorpus-work/wikidump/pkg/errutils"
	"github.com/glorpus-work/wikidump/pkg/fsutil"
	"github.com/glorpus-work/wikidump/pkg/hook"
)

type downloadOptions struct {
	regex                bool
	all                  bool
	output               string
	dir                  string
	noDecompress         bool
	noProgress           bool
	onDownloadComplete   string
	onDecompressComplete string
	metricsAddr          string
}

// NewDownloadCmd creates the download command.
func NewDownloadCmd() *cobra.Command {
	var opts downloadOptions

	cmd := &cobra.Command{
		Use:   "download WIKI JOB [NAME...]",
		Short: "Download dump files",
		Long: `Download one or more files of a dump job from the active mirror.

Files are fetched in parallel, verified against the SHA-1 published in the
index and decompressed when their name ends in .gz or .bz2. Use --regex to
treat NAME as a regular expression selecting the first matching file in name
order, or --all to select every match. --all without NAME downloads the whole job.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDownload(cmd, args[0], args[1], args[2:], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.regex, "regex", false, "Treat NAME arguments as regular expressions")
	cmd.Flags().BoolVar(&opts.all, "all", false, "Download every matching file, or the whole job without NAME")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (single file only)")
	cmd.Flags().StringVar(&opts.dir, "dir", "", "Output directory (defaults to settings.download_dir or the working directory)")
	cmd.Flags().BoolVar(&opts.noDecompress, "no-decompress", false, "Keep files compressed")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Do not render progress bars")
	cmd.Flags().StringVar(&opts.onDownloadComplete, "on-download-complete", "", "Tengo script run when a download stage ends")
	cmd.Flags().StringVar(&opts.onDecompressComplete, "on-decompress-complete", "", "Tengo script run when a decompress stage ends")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while downloading")

	return cmd
}

func runDownload(cmd *cobra.Command, wikiName, jobName string, names []string, opts downloadOptions) error {
	if len(names) == 0 && !opts.all {
		return fmt.Errorf("no file names given, use --all to download the whole job: %w", errutils.ErrDownloadFailed)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	hooks, err := loadHooks(cfg, opts.onDownloadComplete, opts.onDecompressComplete)
	if err != nil {
		return err
	}

	metricsAddr := opts.metricsAddr
	if metricsAddr == "" {
		metricsAddr = cfg.Settings.MetricsAddr
	}
	metrics, stopMetrics, err := startMetrics(metricsAddr)
	if err != nil {
		return fmt.Errorf("failed to serve metrics: %w", err)
	}
	defer stopMetrics()

	var ui *progressUI
	if !opts.noProgress {
		ui = newProgressUI(cmd.ErrOrStderr())
		defer ui.stop()
	}

	ctx := cmd.Context()
	manager := download.NewManager(cfg.Settings.UserAgent, download.WithMetrics(metrics))
	client, err := newDumpClient(ctx, cfg, manager, ui.indexProgress())
	ui.indexDone(err)
	if err != nil {
		return err
	}

	job, err := client.Job(wikiName, jobName)
	if err != nil {
		return err
	}
	files, err := selectFiles(job, names, opts.regex, opts.all)
	if err != nil {
		return err
	}
	if opts.output != "" && len(files) != 1 {
		return fmt.Errorf("--output needs exactly one file, %d selected: %w", len(files), errutils.ErrInvalidPath)
	}

	dir, err := downloadDir(opts.dir, cfg.Settings.DownloadDir)
	if err != nil {
		return err
	}

	tasks := make([]*download.Task, 0, len(files))
	var startErr error
	for _, file := range files {
		task, err := startDownload(ctx, client, ui, hooks, file, downloadTarget{
			wiki:         wikiName,
			job:          jobName,
			output:       opts.output,
			dir:          dir,
			noDecompress: opts.noDecompress,
			chunkSize:    cfg.Settings.ChunkSize,
		})
		if err != nil {
			startErr = err
			break
		}
		tasks = append(tasks, task)
	}

	return awaitDownloads(ctx, files, tasks, startErr, ui)
}

type downloadTarget struct {
	wiki         string
	job          string
	output       string
	dir          string
	noDecompress bool
	chunkSize    int
}

func startDownload(ctx context.Context, client *dump.Client, ui *progressUI, hooks *hook.DefaultHookManager, file *catalog.File, target downloadTarget) (*download.Task, error) {
	source, err := client.FileURL(file)
	if err != nil {
		return nil, err
	}
	destination := target.output
	if destination == "" {
		destination = filepath.Join(target.dir, download.ResolveDestination(source, !target.noDecompress))
	}

	hookCtx := hook.HookContext{
		Source:      source,
		Destination: destination,
		Vars:        map[string]interface{}{"wiki": target.wiki, "job": target.job, "file": file.Name},
	}
	taskHooks := ui.track(file.Name, file.Size, hooks.Hooks(hookCtx, download.Hooks{}))

	return client.Download(ctx, file, dump.DownloadOptions{
		Destination:    destination,
		KeepCompressed: target.noDecompress,
		ChunkSize:      target.chunkSize,
		Hooks:          taskHooks,
	})
}

// awaitDownloads waits for every started task and reports each outcome. tasks[i]
// belongs to files[i]; when startErr is set, files[len(tasks)] could not be started
// and the remaining files were skipped.
func awaitDownloads(ctx context.Context, files []*catalog.File, tasks []*download.Task, startErr error, ui *progressUI) error {
	if err := download.WaitAll(ctx, tasks...); err != nil && ctx.Err() != nil {
		return err
	}

	// WaitAll returns at the first failure; collect every outcome.
	outcomes := make([]error, len(tasks))
	for i, task := range tasks {
		outcomes[i] = task.Wait()
	}
	ui.stop()

	var errs []error
	for i, task := range tasks {
		if err := outcomes[i]; err != nil {
			logger.Error("Download failed", logger.Fields{"file": files[i].Name, "error": err})
			errs = append(errs, fmt.Errorf("%s: %w", files[i].Name, err))
			continue
		}
		logger.Success("Downloaded", logger.Fields{"file": files[i].Name, "destination": task.Destination})
	}

	if startErr != nil {
		failed := files[len(tasks)]
		logger.Error("Download could not be started", logger.Fields{"file": failed.Name, "error": startErr})
		errs = append(errs, fmt.Errorf("%s: %w", failed.Name, startErr))
		if skipped := len(files) - len(tasks) - 1; skipped > 0 {
			logger.Warn("Skipped remaining downloads", logger.Fields{"count": skipped})
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d of %d downloads failed: %w", len(errs), len(files), errors.Join(errs...))
	}
	return nil
}

// selectFiles resolves NAME arguments against a job. Without names every file is selected.
func selectFiles(job *catalog.Job, names []string, useRegex, all bool) ([]*catalog.File, error) {
	if len(names) == 0 {
		files := make([]*catalog.File, 0, len(job.Files))
		for _, name := range job.FileNames() {
			file, _ := job.File(name)
			files = append(files, file)
		}
		if len(files) == 0 {
			return nil, errutils.ErrNotFoundWithName("files in job", job.Name)
		}
		return files, nil
	}

	var files []*catalog.File
	seen := make(map[string]bool)
	add := func(file *catalog.File) {
		if !seen[file.Name] {
			seen[file.Name] = true
			files = append(files, file)
		}
	}

	for _, name := range names {
		if !useRegex {
			file, err := job.File(name)
			if err != nil {
				return nil, err
			}
			add(file)
			continue
		}

		re, err := regexp.Compile(name)
		if err != nil {
			return nil, fmt.Errorf("invalid file pattern %q: %w", name, err)
		}
		if !all {
			file, err := job.FileMatching(re)
			if err != nil {
				return nil, err
			}
			add(file)
			continue
		}
		matches := job.FilesMatching(re)
		if len(matches) == 0 {
			return nil, errutils.ErrNotFoundWithName("file matching", name)
		}
		for _, file := range matches {
			add(file)
		}
	}
	return files, nil
}

func downloadDir(flagDir, configDir string) (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if configDir != "" {
		return configDir, nil
	}
	return fsutil.GetDownloadDir()
}
