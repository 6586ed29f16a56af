package cmd

import (
	"fmt"
	"strconv"

	"puzzle/host"

	"github.com/spf13/cobra"
)

func newSignalsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "signals",
		Short: "List the signals known after plugin initialization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStartedHost(cmd, func(h *host.Host) error {
				ns := h.Signals().Namespace()
				names := ns.Names()

				p := newPrinter(cmd.OutOrStdout(), o.plain)
				p.title(fmt.Sprintf("Signals (%d)", len(names)))

				rows := make([][]string, 0, len(names))
				for _, name := range names {
					rows = append(rows, []string{name, strconv.Itoa(ns.Signal(name).Len())})
				}
				p.table([]string{"SIGNAL", "RECEIVERS"}, rows)
				return nil
			})
		},
	}
}

func newStatusCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Initialize the plugins and show the host status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withStartedHost(cmd, func(h *host.Host) error {
				fmt.Fprint(cmd.OutOrStdout(), h.Status())
				return nil
			})
		},
	}
}
