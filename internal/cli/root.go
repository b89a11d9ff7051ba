package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/config"
	"github.com/Makepad-fr/tada/internal/logging"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "todo",
		Short: "A todo list backed by a remote API",
		Long: `todo - manage one owner's todo list on a remote API.

Run without a subcommand for the interactive list.`,
		Args:              usageArgs(cobra.NoArgs),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
		RunE:              a.runInteractive,
	}

	root.SetFlagErrorFunc(flagError)

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ./tada.toml)")
	pf.IntVar(&a.userID, "user-id", 0, "owner id used for every API call")
	pf.StringVar(&a.apiURL, "api-url", "", "todo API base URL")
	pf.StringVar(&a.theme, "theme", "", "classic, neon or mono")
	pf.StringVar(&a.logFile, "log-file", "", "log file for the interactive app")
	pf.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error")

	root.AddCommand(
		newListCmd(a),
		newAddCmd(a),
		newRemoveCmd(a),
		newClearCompletedCmd(a),
		newAuthCmd(a),
		newServeCmd(a),
		newConfigCmd(a),
	)
	return root
}

// loadConfig layers flags over config.Load and validates the result.
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("user-id") {
		cfg.UserID = a.userID
	}
	if flags.Changed("api-url") {
		cfg.APIURL = a.apiURL
	}
	if flags.Changed("theme") {
		cfg.Theme = a.theme
	}
	if flags.Changed("log-file") {
		cfg.LogFile = a.logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return usageErr("config: %v", err)
	}
	a.cfg = cfg
	ui.SetTheme(cfg.Theme)
	return nil
}

func (a *app) runInteractive(cmd *cobra.Command, _ []string) error {
	logger, closer, err := logging.New(logging.Options{
		Path:            a.cfg.LogFile,
		Level:           a.cfg.LogLevel,
		Prefix:          "tada",
		ReportTimestamp: true,
		Fallback:        io.Discard,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	opts := tui.Options{UserID: a.cfg.UserID, Logger: logger, Context: cmd.Context()}
	if a.cfg.Configured() {
		c, err := a.client(logger)
		if err != nil {
			return err
		}
		opts.Client = c
	}
	logger.Info("starting", "user_id", a.cfg.UserID, "api_url", a.cfg.APIURL)
	return tui.Run(tui.New(opts))
}

// usageArgs reports positional-argument mistakes as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &exitError{code: 2, err: err}
		}
		return nil
	}
}

func flagError(_ *cobra.Command, err error) error {
	return &exitError{code: 2, err: err}
}
