package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/qntx/userdb/internal/config"
	"github.com/qntx/userdb/internal/logging"
	"github.com/qntx/userdb/internal/menu"
	"github.com/qntx/userdb/internal/prompt"
	"github.com/qntx/userdb/internal/store"
	"github.com/qntx/userdb/internal/telemetry"
	"github.com/qntx/userdb/internal/tui"
	"github.com/qntx/userdb/internal/ui"
)

// app bundles what a command needs once configuration is resolved.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	store   *store.Store
	printer *ui.Printer
	otel    *telemetry.Providers
}

// openApp resolves configuration, opens the database and makes sure the
// users table exists. The caller closes the returned app.
func openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	opts := []store.Option{store.WithLogger(logger)}
	var providers *telemetry.Providers
	if cfg.Telemetry.Stdout {
		if providers, err = telemetry.NewStdout(cmd.ErrOrStderr()); err != nil {
			return nil, fmt.Errorf("telemetry: %w", err)
		}
		opts = append(opts, store.WithTracer(providers.Tracer()), store.WithMeter(providers.Meter()))
	}

	s, err := store.Open(cmd.Context(), cfg.Database.Path, opts...)
	if err == nil {
		if err = s.EnsureSchema(cmd.Context()); err != nil {
			_ = s.Close()
		}
	}
	if err != nil {
		_ = shutdownTelemetry(cmd.Context(), providers)
		return nil, err
	}
	logger.Debug("database ready", "path", s.Path())

	out := cmd.OutOrStdout()
	return &app{
		cfg:     cfg,
		log:     logger,
		store:   s,
		printer: ui.NewPrinter(out, cfg.Menu.Plain || !isTerminal(out)),
		otel:    providers,
	}, nil
}

// Close closes the store and flushes telemetry, even after an interrupt.
func (a *app) Close() error {
	return errors.Join(a.store.Close(), shutdownTelemetry(context.Background(), a.otel))
}

func shutdownTelemetry(ctx context.Context, p *telemetry.Providers) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	return p.Shutdown(ctx)
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(flags.config)
	switch {
	case errors.Is(err, config.ErrConfigNotFound) && flags.config == "":
		cfg = config.Default()
	case err != nil:
		return nil, fmt.Errorf("config: %w", err)
	}

	lookup, err := config.LoadEnv(config.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	applyFlagOverrides(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()

	if f.Changed("db") {
		cfg.Database.Path = flags.db
	}
	if f.Changed("log-level") {
		cfg.Log.Level = flags.logLevel
	}
	if f.Changed("keep-going") {
		cfg.Menu.KeepGoing = flags.keepGoing
	}
	if f.Changed("plain") {
		cfg.Menu.Plain = flags.plain
	}
	if f.Changed("telemetry") {
		cfg.Telemetry.Stdout = flags.telemetry
	}
}

// newPrompter picks huh forms for a terminal and line prompts otherwise.
func newPrompter(in io.Reader, out io.Writer, plain bool) menu.Prompter {
	if !plain && isTerminal(in) && isTerminal(out) {
		return tui.Form{}
	}
	return prompt.NewLine(in, out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func runMenu(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	m := &menu.Menu{
		Records:   a.store,
		Prompter:  newPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), a.printer.Plain()),
		Printer:   a.printer,
		KeepGoing: a.cfg.Menu.KeepGoing,
	}
	return m.Run(cmd.Context())
}
