package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the plugins registered under the extension point",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h := o.newHost()
			loader := h.Loader()
			if err := loader.Init(); err != nil {
				return err
			}

			entries := h.WorkingSet().IterEntries(loader.EntryPoint())
			p := newPrinter(cmd.OutOrStdout(), o.plain)
			p.title(fmt.Sprintf("Plugins under %s (%d registered, %d active)", loader.EntryPoint(), len(entries), len(loader.IDs())))

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				status := "active"
				if !h.Config().IsPluginEnabled(e.ID) {
					status = "disabled"
				}
				rows = append(rows, []string{
					e.ID,
					status,
					e.Kind.String(),
					fmt.Sprintf("%s %s", e.Dist.Name, e.Dist.Version),
					e.Dist.Location,
				})
			}
			p.table([]string{"ID", "STATUS", "KIND", "DISTRIBUTION", "LOCATION"}, rows)
			return nil
		},
	}
}
