// Package cli implements the keyrx-tray command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/keyrx/keyrx-tray/internal/app"
	"github.com/keyrx/keyrx-tray/internal/config"
	"github.com/keyrx/keyrx-tray/internal/prefs"
	"github.com/keyrx/keyrx-tray/internal/tray"
	"github.com/keyrx/keyrx-tray/internal/tui"
)

type options struct {
	configPath string
	apiURL     string
	webUIURL   string
	mock       bool
	poll       time.Duration
	tui        bool
}

// Execute runs the CLI.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "keyrx-tray",
		Short: "System tray client for the KeyRx keyboard remapping daemon",
		Long: `keyrx-tray shows the KeyRx daemon's state in the system tray and lets you
toggle remapping and switch profiles. Quitting the tray leaves the daemon running.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTray(cmd, opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default ~/.config/keyrx/tray.toml)")
	pf.StringVar(&opts.apiURL, "api-url", "", "daemon API URL (overrides KEYRX_API_URL)")
	pf.StringVar(&opts.webUIURL, "web-ui", "", "web UI URL (overrides KEYRX_WEB_UI)")
	pf.BoolVar(&opts.mock, "mock", false, "use the built-in mock daemon")

	root.Flags().DurationVar(&opts.poll, "poll", 0, "poll interval, e.g. 5s (default 5s)")
	root.Flags().BoolVar(&opts.tui, "tui", false, "run the terminal view instead of the tray icon")

	// Subcommands (alphabetical)
	root.AddCommand(newDisableCommand(opts))
	root.AddCommand(newEnableCommand(opts))
	root.AddCommand(newLogsCommand(opts))
	root.AddCommand(newProfileCommand(opts))
	root.AddCommand(newStatusCommand(opts))
	root.AddCommand(newVersionCommand())
	return root
}

func (o *options) config(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	overrides := config.Overrides{
		APIBaseURL:   o.apiURL,
		WebUIURL:     o.webUIURL,
		PollInterval: o.poll,
	}
	if cmd.Flags().Changed("mock") {
		overrides.MockMode = &o.mock
	}
	cfg, err = cfg.Apply(overrides)
	if err != nil {
		return config.Config{}, fmt.Errorf("apply flags: %w", err)
	}
	return cfg, nil
}

// engine builds an engine for one-shot commands, logging to stderr only.
func (o *options) engine(cmd *cobra.Command) (*app.Engine, io.Closer, error) {
	cfg, err := o.config(cmd)
	if err != nil {
		return nil, nil, err
	}
	closer, err := app.SetupLogging("", true)
	if err != nil {
		return nil, nil, err
	}
	transport, err := app.NewTransport(cfg)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return app.New(cfg, transport), closer, nil
}

func runTray(cmd *cobra.Command, opts *options) error {
	cfg, err := opts.config(cmd)
	if err != nil {
		return err
	}
	closer, err := app.SetupLogging(cfg.LogFile, !opts.tui)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	transport, err := app.NewTransport(cfg)
	if err != nil {
		return err
	}
	engine := app.New(cfg, transport)

	ctx := cmd.Context()
	live := prefs.NewLive(prefs.Load(cfg.PrefsPath))
	go func() {
		if err := prefs.Watch(ctx, cfg.PrefsPath, live.Set); err != nil {
			log.Printf("preferences will not reload: %v", err)
		}
	}()

	if cfg.MockMode {
		log.Printf("starting in mock mode")
	} else {
		log.Printf("starting, daemon at %s", cfg.APIBaseURL)
	}

	if opts.tui {
		return tui.Run(ctx, engine, live, cfg.PrefsPath)
	}
	return tray.Run(ctx, engine, live)
}
