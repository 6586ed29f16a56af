package cmd

import (
	"fmt"
	"os"

	"puzzle/host"
	"puzzle/internal/config"
	"puzzle/internal/logging"
	"puzzle/internal/version"
	"puzzle/plugin"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// rootOptions holds the global flag values and the state built from them
type rootOptions struct {
	configPath string
	logLevel   string
	enable     []string
	plain      bool

	workingSet plugin.WorkingSet
	cfg        *config.Config
	log        *zap.SugaredLogger
	restoreLog func()
}

// NewRootCmd creates the top-level command discovering plugins in the
// default working set
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd(plugin.DefaultWorkingSet())
	return root
}

func newRootCmd(ws plugin.WorkingSet) (*cobra.Command, *rootOptions) {
	o := &rootOptions{workingSet: ws}

	root := &cobra.Command{
		Use:     "puzzle",
		Short:   "Load plugins and dispatch signals between them",
		Long:    "puzzle discovers the plugins registered under an extension point, initializes the enabled ones and lets you call or broadcast the signals they answer.",
		Version: version.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			o.teardown()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "puzzle.yaml", "path to configuration file (defaults apply when missing)")
	pf.StringVar(&o.logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
	pf.StringSliceVar(&o.enable, "enable", nil, "plugin ids to enable, overriding the config (\"*\" enables all)")
	pf.BoolVar(&o.plain, "plain", false, "disable styled output")

	root.AddCommand(newListCmd(o))
	root.AddCommand(newCallCmd(o))
	root.AddCommand(newSendCmd(o))
	root.AddCommand(newSignalsCmd(o))
	root.AddCommand(newStatusCmd(o))
	root.AddCommand(newConfigCmd(o))

	return root, o
}

// Execute runs the root command and exits with the correct code.
func Execute() {
	root, o := newRootCmd(plugin.DefaultWorkingSet())
	if err := execute(root, o); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// execute runs root and tears the logger down whether or not the command
// failed. cobra skips PersistentPostRun when RunE returns an error.
func execute(root *cobra.Command, o *rootOptions) error {
	defer o.teardown()
	return root.Execute()
}

// setup loads the configuration, applies flag overrides and installs the logger
func (o *rootOptions) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if cmd.Flags().Changed("enable") {
		cfg.EnabledPlugins = o.enable
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}

	o.cfg = cfg
	o.log = log
	o.restoreLog = logging.Install(log)
	return nil
}

// teardown syncs the logger and restores the previous global one. It is
// safe to call more than once.
func (o *rootOptions) teardown() {
	if o.log != nil {
		_ = o.log.Sync()
		o.log = nil
	}
	if o.restoreLog != nil {
		o.restoreLog()
		o.restoreLog = nil
	}
}

func (o *rootOptions) newHost() *host.Host {
	return host.New(o.cfg, o.log, host.WithWorkingSet(o.workingSet))
}

// withStartedHost starts a host, runs fn and stops the host again
func (o *rootOptions) withStartedHost(cmd *cobra.Command, fn func(h *host.Host) error) error {
	h := o.newHost()
	if err := h.Start(cmd.Context()); err != nil {
		return err
	}

	fnErr := fn(h)
	if err := h.Stop(); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}
