package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raflibima25/go-electroshop/internal/cli/commands"
	"github.com/raflibima25/go-electroshop/internal/cli/output"
	"github.com/raflibima25/go-electroshop/internal/cli/session"
	"github.com/raflibima25/go-electroshop/internal/config"
	"github.com/raflibima25/go-electroshop/internal/logger"
)

var version = "dev" // Will be set during build

type rootOptions struct {
	store session.Store
	in    io.Reader
	out   io.Writer
	err   io.Writer
	env   func() (*config.Config, error)
}

// Option customizes the root command, mostly for tests
type Option func(*rootOptions)

// WithStore replaces the configured session backend
func WithStore(store session.Store) Option {
	return func(o *rootOptions) {
		o.store = store
	}
}

// WithOutput redirects command output and notifications
func WithOutput(out, errOut io.Writer) Option {
	return func(o *rootOptions) {
		o.out = out
		o.err = errOut
	}
}

// WithInput sets the reader used for prompts
func WithInput(in io.Reader) Option {
	return func(o *rootOptions) {
		o.in = in
	}
}

// WithConfig bypasses environment loading
func WithConfig(cfg *config.Config) Option {
	return func(o *rootOptions) {
		o.env = func() (*config.Config, error) { return cfg, nil }
	}
}

// NewRootCmd builds the electroshop command tree
func NewRootCmd(opts ...Option) *cobra.Command {
	o := &rootOptions{
		in:  os.Stdin,
		out: os.Stdout,
		err: os.Stderr,
	}
	for _, opt := range opts {
		opt(o)
	}

	var (
		apiURL   string
		format   string
		logLevel string
		noColor  bool
		app      *commands.App
	)

	rootCmd := &cobra.Command{
		Use:   "electroshop",
		Short: "ElectroShop - Electronics storefront client",
		Long: `ElectroShop CLI - Browse products and manage your cart from the terminal.

Configuration is read from the environment and from .env files
(ELECTROSHOP_API_URL, ELECTROSHOP_SESSION_BACKEND, LOG_LEVEL, ...).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}

			var cfg *config.Config
			var err error
			if o.env != nil {
				cfg, err = o.env()
			} else {
				cfg, err = config.Load(cmd.Context())
			}
			if err != nil {
				return err
			}

			if apiURL != "" {
				cfg.API.BaseURL = apiURL
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}

			outputFormat, err := output.ParseFormat(format)
			if err != nil {
				return err
			}

			log := logger.New(o.err, cfg.Logging.Level, cfg.Logging.Format)

			app, err = commands.NewApp(cmd.Context(), commands.Deps{
				Config:  cfg,
				Logger:  log,
				Store:   o.store,
				Format:  outputFormat,
				In:      o.in,
				Out:     o.out,
				Err:     o.err,
				NoColor: noColor,
			})
			if err != nil {
				return err
			}

			cmd.SetContext(commands.WithApp(cmd.Context(), app))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides ELECTROSHOP_API_URL)")
	rootCmd.PersistentFlags().StringVarP(&format, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored notifications")

	rootCmd.SetIn(o.in)
	rootCmd.SetOut(o.out)
	rootCmd.SetErr(o.err)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "electroshop version %s\n", version)
		},
	})

	rootCmd.AddCommand(commands.NewLoginCmd())
	rootCmd.AddCommand(commands.NewLogoutCmd())
	rootCmd.AddCommand(commands.NewWhoamiCmd())
	rootCmd.AddCommand(commands.NewOpenCmd())
	rootCmd.AddCommand(commands.NewProductCmd())
	rootCmd.AddCommand(commands.NewCartCmd())

	closeAfterRun(rootCmd, func() error {
		if app == nil {
			return nil
		}
		a := app
		app = nil
		return a.Close()
	})

	return rootCmd
}

// closeAfterRun wraps every RunE so the App built in PersistentPreRunE is
// closed whether or not the command succeeds
func closeAfterRun(cmd *cobra.Command, closeApp func() error) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(c *cobra.Command, args []string) (err error) {
			defer func() {
				if cerr := closeApp(); err == nil {
					err = cerr
				}
			}()
			return run(c, args)
		}
	}

	for _, sub := range cmd.Commands() {
		closeAfterRun(sub, closeApp)
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
