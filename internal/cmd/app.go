package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/harrison/neuroscreen/internal/analytics"
	"github.com/harrison/neuroscreen/internal/config"
	"github.com/harrison/neuroscreen/internal/display"
	"github.com/harrison/neuroscreen/internal/logger"
	"github.com/harrison/neuroscreen/internal/questionnaire"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/store"
	"github.com/harrison/neuroscreen/internal/tts"
	"github.com/spf13/cobra"
)

// app bundles what every subcommand needs: resolved config, the opened
// store, a logger and the usage tracker.
type app struct {
	cfg     *config.Config
	dataDir string
	store   *store.Store
	tracker *analytics.Tracker
	log     logger.Logger
	console *logger.ConsoleLogger
	out     io.Writer
	errOut  io.Writer
	color   bool
	closers []func() error
}

// newApp loads configuration (file, then flags), opens the store and wires
// logging for cmd.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	dataDir := ""
	if cfg.Store != "memory" {
		if dataDir, err = cfg.ResolveDataDir(); err != nil {
			return nil, err
		}
	}

	a := &app{
		cfg:     cfg,
		dataDir: dataDir,
		out:     cmd.OutOrStdout(),
		errOut:  cmd.ErrOrStderr(),
	}
	a.color = display.ColorEnabled(a.out, cfg.Color)

	console := logger.NewConsoleLogger(a.errOut, cfg.LogLevel)
	console.SetColor(display.ColorEnabled(a.errOut, cfg.Color))
	a.console = console
	a.log = console
	if cfg.LogDir != "" {
		fl, err := logger.NewFileLogger(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, fl.Close)
		a.log = logger.Tee(console, fl)
		a.log.LogDebug("writing log to " + fl.Path())
	}

	st, err := store.Open(cfg.Store, dataDir)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open %s store: %w", cfg.Store, err)
	}
	a.store = st
	a.closers = append(a.closers, st.Close)
	a.log.LogDebug(fmt.Sprintf("using %s store in %q", cfg.Store, dataDir))

	var opts []analytics.Option
	if !cfg.Analytics.Enabled {
		opts = append(opts, analytics.Disabled())
	}
	a.tracker = analytics.New(st, opts...)

	return a, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return nil, err
		}
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	var dataDir, storeKind, logLevel, color *string
	if flags.Changed("data-dir") {
		v, _ := flags.GetString("data-dir")
		dataDir = &v
	}
	if flags.Changed("store") {
		v, _ := flags.GetString("store")
		storeKind = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		logLevel = &v
	}
	if flags.Changed("color") {
		v, _ := flags.GetString("color")
		color = &v
	}
	cfg.MergeWithFlags(dataDir, storeKind, logLevel, color)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Close releases the store and log files in reverse order of opening.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	return errors.Join(errs...)
}

// track bumps a usage counter. Failures are logged, never returned.
func (a *app) track(ctx context.Context, c analytics.Counter) {
	if err := a.tracker.Increment(ctx, c); err != nil {
		a.log.LogWarn(fmt.Sprintf("usage counter %s not updated: %v", c, err))
	}
}

// session opens and loads the questionnaire controller for i. Store
// failures degrade to memory and are reported once, after loading.
func (a *app) session(ctx context.Context, i questions.Instrument) (*questionnaire.Controller, error) {
	c, err := questionnaire.New(i, a.store,
		questionnaire.WithLogger(a.log),
		questionnaire.WithInMemoryFallback(),
		questionnaire.WithOnSubmit(func(i questions.Instrument, _ store.SubmissionRecord) {
			a.track(context.Background(), analytics.CompletionCounter(i))
		}),
	)
	if err != nil {
		return nil, err
	}
	if err := <-c.Start(ctx); err != nil {
		return nil, err
	}
	a.reportWarnings(c, 0)
	return c, nil
}

// voice returns a read-aloud announcer when force is set or the config
// enables it, and the server is reachable. Both results are nil otherwise.
func (a *app) voice(force bool) (*tts.Announcer, *tts.Client) {
	cfg := a.cfg.TTS
	if !force && !cfg.Enabled {
		return nil, nil
	}
	cfg.Enabled = true

	client := tts.NewClient(cfg)
	if !client.IsAvailable() {
		a.log.LogWarn(fmt.Sprintf("speech server at %s is not reachable; continuing without read-aloud", cfg.BaseURL))
		return nil, nil
	}
	a.log.LogDebug(fmt.Sprintf("reading questions aloud via %s (voice %s)", cfg.BaseURL, cfg.Voice))
	return tts.NewAnnouncer(client), client
}

// reportWarnings displays controller warnings raised after the first seen.
// It returns the new total so callers can report incrementally.
func (a *app) reportWarnings(c *questionnaire.Controller, seen int) int {
	warnings := c.Warnings()
	if len(warnings) > seen {
		display.PersistenceWarning(warnings[seen:]).Display(a.errOut, a.color)
	}
	return len(warnings)
}

// withApp adapts a RunE that needs an app.
func withApp(run func(cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()
		return run(cmd, a, args)
	}
}

// instrumentArg parses the instrument positional argument.
func instrumentArg(args []string) (questions.Instrument, error) {
	return questions.ParseInstrument(args[0])
}

// instrumentNames lists the accepted instrument arguments for completion.
func instrumentNames() []string {
	var names []string
	for _, i := range questions.Instruments() {
		names = append(names, string(i))
	}
	return names
}
