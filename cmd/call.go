package cmd

import (
	"fmt"

	"puzzle/host"

	"github.com/spf13/cobra"
)

func newCallCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "call <signal> [key=value ...]",
		Short: "Call the single plugin answering a signal and print its result",
		Long:  "call initializes the enabled plugins and sends the signal to its only receiver. When no plugin or more than one plugin listens for the signal, a warning is logged and <none> is printed.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := parseKwargs(args[1:])
			if err != nil {
				return err
			}

			return o.withStartedHost(cmd, func(h *host.Host) error {
				result, err := h.Call(args[0], kw)
				if err != nil {
					return fmt.Errorf("signal %s: %w", args[0], err)
				}
				return newPrinter(cmd.OutOrStdout(), o.plain).value(result)
			})
		},
	}
}

func newSendCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "send <signal> [key=value ...]",
		Short: "Broadcast a signal to every plugin listening for it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kw, err := parseKwargs(args[1:])
			if err != nil {
				return err
			}

			return o.withStartedHost(cmd, func(h *host.Host) error {
				receivers := h.Signals().Signal(args[0]).Len()
				if err := h.Send(args[0], kw); err != nil {
					return fmt.Errorf("signal %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sent %s to %d receiver(s)\n", args[0], receivers)
				return nil
			})
		},
	}
}
