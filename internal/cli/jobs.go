package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewJobsCmd creates the jobs command.
func NewJobsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs WIKI",
		Short: "List dump jobs of a wiki",
		Args:  cobra.ExactArgs(1),
		RunE:  runJobs,
	}

	return cmd
}

func runJobs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newDumpClient(cmd.Context(), cfg, nil, nil)
	if err != nil {
		return err
	}

	wiki, err := client.Wiki(args[0])
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), table.Row{"Job", "Status", "Updated", "Files"})
	for _, name := range wiki.JobNames() {
		job, _ := wiki.Job(name)
		t.AppendRow(table.Row{name, job.Status, job.Updated, len(job.Files)})
	}
	t.Render()
	return nil
}
