package cli

import (
	"fmt"
	"regexp"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewFilesCmd creates the files command.
func NewFilesCmd() *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "files [WIKI [JOB]]",
		Short: "List downloadable files",
		Long: `List files in the index of the active mirror.

Without arguments every file of every wiki is listed. WIKI and JOB narrow the
listing and --match keeps only file names matching a regular expression.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFiles(cmd, args, match)
		},
	}

	cmd.Flags().StringVar(&match, "match", "", "Only list file names matching a regular expression")

	return cmd
}

func runFiles(cmd *cobra.Command, args []string, match string) error {
	var re *regexp.Regexp
	if match != "" {
		var err error
		if re, err = regexp.Compile(match); err != nil {
			return fmt.Errorf("invalid --match expression: %w", err)
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newDumpClient(cmd.Context(), cfg, nil, nil)
	if err != nil {
		return err
	}

	var wikiFilter, jobFilter string
	if len(args) > 0 {
		wikiFilter = args[0]
		if _, err := client.Wiki(wikiFilter); err != nil {
			return err
		}
	}
	if len(args) > 1 {
		jobFilter = args[1]
		if _, err := client.Job(wikiFilter, jobFilter); err != nil {
			return err
		}
	}

	t := newTable(cmd.OutOrStdout(), table.Row{"Wiki", "Job", "File", "Size", "SHA1"})
	var count int
	var total int64
	for p := range client.Files() {
		if wikiFilter != "" && p.Wiki != wikiFilter {
			continue
		}
		if jobFilter != "" && p.Job != jobFilter {
			continue
		}
		if re != nil && !re.MatchString(p.File) {
			continue
		}
		file, err := client.File(p.Wiki, p.Job, p.File)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{p.Wiki, p.Job, p.File, file.Size, file.SHA1})
		count++
		total += file.Size
	}

	if count == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No files found")
		return nil
	}
	t.AppendFooter(table.Row{"", "", fileCount(count), total, ""})
	t.Render()
	return nil
}

func fileCount(n int) string {
	if n == 1 {
		return "1 file"
	}
	return fmt.Sprintf("%d files", n)
}
