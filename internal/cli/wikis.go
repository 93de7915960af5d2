package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewWikisCmd creates the wikis command.
func NewWikisCmd() *cobra.Command {
	var versionConstraint string

	cmd := &cobra.Command{
		Use:   "wikis",
		Short: "List wikis in the mirror index",
		Long: `List every wiki published in the index of the active mirror.

Use --version to keep only wikis whose MediaWiki version satisfies a
constraint such as ">= 1.41". Wikis with unparsable versions never match.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWikis(cmd, versionConstraint)
		},
	}

	cmd.Flags().StringVar(&versionConstraint, "version", "", "Only list wikis matching a version constraint")

	return cmd
}

func runWikis(cmd *cobra.Command, versionConstraint string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client, err := newDumpClient(cmd.Context(), cfg, nil, nil)
	if err != nil {
		return err
	}

	names := client.Wikis()
	if versionConstraint != "" {
		names, err = client.Catalog().WikisMatching(versionConstraint)
		if err != nil {
			return fmt.Errorf("invalid version constraint: %w", err)
		}
	}

	if len(names) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No wikis found")
		return nil
	}

	t := newTable(cmd.OutOrStdout(), table.Row{"Wiki", "Version", "Jobs"})
	for _, name := range names {
		wiki, err := client.Wiki(name)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{name, wiki.Version, len(wiki.Jobs)})
	}
	t.Render()
	return nil
}
