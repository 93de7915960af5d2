package cli

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/glorpus-work/wikidump/pkg/mirror"
)

// NewMirrorsCmd creates the mirrors command.
func NewMirrorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mirrors",
		Short: "List known mirrors",
		Long:  "List the built-in dump mirrors. The active mirror is marked with an asterisk.",
		Args:  cobra.NoArgs,
		RunE:  runMirrors,
	}

	return cmd
}

func runMirrors(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	active, err := cfg.ResolveMirror()
	if err != nil {
		return err
	}

	t := newTable(cmd.OutOrStdout(), table.Row{"", "Key", "Name", "Index URL"})
	found := false
	for _, key := range mirror.Keys() {
		m, _ := mirror.Lookup(key)
		marker := ""
		if m == active {
			marker = "*"
			found = true
		}
		t.AppendRow(table.Row{marker, key, m.Name, m.IndexURL})
	}
	if !found {
		t.AppendRow(table.Row{"*", "(custom)", active.Name, active.IndexURL})
	}
	t.Render()
	return nil
}
