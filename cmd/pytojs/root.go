package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/valdisz/PyToJs/pkg/cache"
	"github.com/valdisz/PyToJs/pkg/config"
	"github.com/valdisz/PyToJs/pkg/logger"
	"github.com/valdisz/PyToJs/pkg/report"
	"github.com/valdisz/PyToJs/pkg/telemetry"
	"github.com/valdisz/PyToJs/pkg/transpile"
)

// app is the state shared by all subcommands.
type app struct {
	configPath string
	trace      string
	logLevel   string
	noCache    bool

	cfg      *config.Config
	cache    *cache.Cache
	pipeline *transpile.Pipeline
	stderr   *report.Printer
	shutdown func(context.Context) error
	started  time.Time
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "pytojs",
		Short:         "Translate Python source to JavaScript",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, args)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", "", "config file (default $"+config.EnvPath+")")
	flags.StringVar(&a.trace, "trace", "", "trace exporter: none, stdout or otlp (overrides config)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	flags.BoolVar(&a.noCache, "no-cache", false, "disable the translation cache")

	root.AddCommand(
		newTranslateCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newReplCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	a.started = time.Now()
	if a.stderr == nil {
		a.stderr = report.NewPrinter(os.Stderr)
	}

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.trace != "" {
		cfg.Telemetry.TraceExporter = a.trace
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	lc, err := cfg.LoggerConfig()
	if err != nil {
		return err
	}
	if err := logger.Init(lc); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger.LogTranslatorStart(cmd.Name(), args)

	a.shutdown, err = telemetry.Init(cmd.Context(), cfg.TelemetryConfig(version))
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	opts := transpile.Options{
		Translate:      cfg.TranslateOptions(),
		ValidateOutput: cfg.Translator.ValidateOutput,
		IncludePrelude: cfg.Translator.IncludePrelude,
	}
	if cfg.Cache.Enabled && !a.noCache {
		a.cache, err = cache.Open(cache.Config{Dir: cfg.Cache.Dir, Logger: logger.WithGroup("cache")})
		if err != nil {
			return err
		}
		opts.Cache = a.cache
	}
	a.pipeline = transpile.New(opts)
	return nil
}

func (a *app) teardown(ctx context.Context) error {
	var firstErr error
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			firstErr = err
		}
		a.cache = nil
	}
	if a.shutdown != nil {
		if ctx == nil {
			ctx = context.Background()
		}
		if err := a.shutdown(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("shutdown telemetry: %w", err)
		}
		a.shutdown = nil
	}
	logger.LogTranslatorComplete(firstErr == nil, time.Since(a.started))
	return firstErr
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "pytojs version %s\n", version)
			return nil
		},
	}
}
