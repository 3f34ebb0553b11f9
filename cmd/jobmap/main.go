// Package main implements the jobmap command, which converts scheduler job
// definitions exported in map notation into JSON.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/c360/jobmap/config"
	"github.com/c360/jobmap/errors"
	"github.com/c360/jobmap/metric"
	"github.com/c360/jobmap/output/file"
	"github.com/c360/jobmap/processor/convert"
	"github.com/c360/jobmap/processor/normalize"
	"github.com/c360/jobmap/processor/parser"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "jobmap"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil {
		code := errors.ExitCode(err)
		slog.Error("jobmap failed", "error", err, "exit_code", code)
		os.Exit(code)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cli, err := parseFlags(args, stderr)
	if err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errors.WrapInvalid(err, "CLI", "run", "parse flags")
	}
	if err := validateFlags(cli); err != nil {
		return errors.WrapInvalid(err, "CLI", "run", "validate flags")
	}

	if cli.ShowVersion {
		_, _ = fmt.Fprintf(stdout, "%s version %s\n", appName, Version)
		return nil
	}
	if cli.ShowHelp {
		cli.usage()
		return nil
	}

	cfg, err := loadConfig(cli)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format, stderr)
	slog.SetDefault(logger)

	if cli.Validate {
		logger.Info("Configuration is valid", "config_path", cli.ConfigPath)
		return nil
	}

	registry := metric.NewMetricsRegistry()

	converter, err := newConverter(cfg, registry, logger)
	if err != nil {
		return err
	}

	var writer *file.Writer
	if cli.writesFiles() {
		writer, err = file.NewWriter(cfg.Output,
			file.WithLogger(logger),
			file.WithMetrics(registry.CoreMetrics()))
		if err != nil {
			return errors.WrapFatal(err, "CLI", "run", "create output writer")
		}
	}

	b := &batch{
		cfg:       cfg,
		converter: converter,
		writer:    writer,
		request:   cli.Request,
		stdout:    stdout,
		logger:    logger,
		registry:  registry,
	}

	jobs, err := b.collect(cli.Files, stdin)
	if err != nil {
		return err
	}

	logger.Debug("Starting conversion",
		"inputs", len(jobs),
		"workers", cfg.Workers,
		"request_mode", cli.Request,
		"output", outputTarget(writer))

	runErr := b.run(ctx, jobs)

	if cfg.MetricsFile != "" {
		if err := registry.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("Failed to write metrics file", "path", cfg.MetricsFile, "error", err)
			runErr = stderrors.Join(runErr, err)
		}
	}

	return runErr
}

// loadConfig builds configuration from defaults, the config file, JOBMAP_*
// variables and explicit flags, in that order of precedence.
func loadConfig(cli *CLIConfig) (*config.Config, error) {
	loader := config.NewLoader()
	loader.EnableValidation(false)
	if cli.ConfigPath != "" {
		loader.AddLayer(cli.ConfigPath)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, err
	}

	applyFlags(cli, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapFatal(err, "CLI", "loadConfig", "validate configuration")
	}
	return cfg, nil
}

func newConverter(cfg *config.Config, registry *metric.MetricsRegistry, logger *slog.Logger) (*convert.Converter, error) {
	c, err := convert.New(
		convert.WithFormat(cfg.Parser.Format),
		convert.WithParser(parser.NewJavaMapParser(parser.WithExtraDenylist(cfg.Parser.ExtraDenylist...))),
		convert.WithNormalizer(normalize.New(cfg.Normalize)),
		convert.WithMetrics(registry.CoreMetrics()),
		convert.WithLogger(logger),
	)
	if err != nil {
		return nil, errors.WrapFatal(err, "CLI", "newConverter", "create converter")
	}
	return c, nil
}

func outputTarget(w *file.Writer) string {
	if w == nil {
		return "stdout"
	}
	return w.Directory()
}
