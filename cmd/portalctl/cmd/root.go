package cmd

import (
	"context"
	"os"

	"github.com/jrsteele09/go-tutor-portal/api"
	"github.com/jrsteele09/go-tutor-portal/internal/config"
	"github.com/jrsteele09/go-tutor-portal/internal/logger"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

type ConfigLoader func(ctx context.Context) (config.Config, error)

type RootOption func(r *rootOptions)

type rootOptions struct {
	loadConfig ConfigLoader
	appHooks   []func(app *App)
}

// WithConfigLoader replaces how configuration is read. Defaults to config.New.
func WithConfigLoader(l ConfigLoader) RootOption {
	return func(r *rootOptions) {
		r.loadConfig = l
	}
}

// WithAppHook runs fn on the App after it is wired, before any command runs.
func WithAppHook(fn func(app *App)) RootOption {
	return func(r *rootOptions) {
		r.appHooks = append(r.appHooks, fn)
	}
}

// NewRootCmd builds the portalctl command tree.
func NewRootCmd(options ...RootOption) *cobra.Command {
	opts := &rootOptions{loadConfig: config.New}
	for _, opt := range options {
		opt(opts)
	}

	var (
		logLevel string
		pretty   bool
	)

	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Tutor Portal CLI",
		Long: `portalctl is the command-line client for the tutoring portal. It keeps a
login session on disk, shows the user or admin dashboard, and builds the
link to the tutoring chat.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			cfg, err := opts.loadConfig(ctx)
			if err != nil {
				return err
			}

			level := cfg.GetLogLevel()
			if logLevel != "" {
				level = logLevel
			}
			logger.Init(logger.Options{Level: level, Pretty: pretty})

			app, err := NewApp(cfg)
			if err != nil {
				return err
			}
			for _, hook := range opts.appHooks {
				hook(app)
			}
			cmd.SetContext(InjectApp(ctx, app))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error); overrides PORTAL_LOG_LEVEL")
	root.PersistentFlags().BoolVar(&pretty, "pretty-logs", true, "Human readable log output")

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newRegisterCmd(),
		newActivateCmd(),
		newStatusCmd(),
		newDashboardCmd(),
		newTokenCmd(),
		newChatCmd(),
		newAccountCmd(),
		newAdminCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		pterm.Error.Println(errorMessage(err))
		os.Exit(1)
	}
}

// errorMessage is the text shown for a failed command. A rejected token gets
// a hint to log in again.
func errorMessage(err error) string {
	msg := api.Message(err)
	if api.IsUnauthorized(err) {
		msg += " (run `portalctl login`)"
	}
	return msg
}
