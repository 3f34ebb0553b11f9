package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/c360/jobmap/config"
	"github.com/c360/jobmap/processor/convert"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	LogLevel    string
	LogFormat   string
	Format      string
	Indent      int
	OutDir      string
	Workers     int
	MetricsFile string
	Overwrite   bool
	Request     bool
	Validate    bool
	ShowVersion bool
	ShowHelp    bool
	Files       []string

	// names of flags given explicitly; only these override the config
	set   map[string]bool
	usage func()
}

func parseFlags(args []string, stderr io.Writer) (*CLIConfig, error) {
	cfg := &CLIConfig{set: map[string]bool{}}

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.ConfigPath, "config",
		getEnv("JOBMAP_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: JOBMAP_CONFIG)")
	fs.StringVar(&cfg.ConfigPath, "c",
		getEnv("JOBMAP_CONFIG", ""),
		"Path to a JSON or YAML configuration file (env: JOBMAP_CONFIG)")

	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn, error (env: JOBMAP_LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", "", "Log format: json, text (env: JOBMAP_LOG_FORMAT)")
	fs.StringVar(&cfg.Format, "format", "", "Input format: auto, json, javamap (env: JOBMAP_FORMAT)")
	fs.IntVar(&cfg.Indent, "indent", 2, "Spaces per indentation level, 0 for compact (env: JOBMAP_OUTPUT_INDENT)")
	fs.StringVar(&cfg.OutDir, "out-dir", "", "Write <name>.json files here instead of stdout (env: JOBMAP_OUTPUT_DIRECTORY)")
	fs.BoolVar(&cfg.Overwrite, "overwrite", false, "Replace existing output files (env: JOBMAP_OUTPUT_OVERWRITE)")
	fs.IntVar(&cfg.Workers, "workers", 0, "Concurrent conversions (env: JOBMAP_WORKERS)")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this .prom file (env: JOBMAP_METRICS_FILE)")
	fs.BoolVar(&cfg.Request, "request", false, "Treat each input as a deploy request envelope")
	fs.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	fs.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	fs.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")

	fs.Usage = func() {
		printDetailedHelp(fs, stderr)
	}
	cfg.usage = fs.Usage

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		cfg.set[f.Name] = true
	})
	cfg.Files = fs.Args()

	return cfg, nil
}

func validateFlags(cfg *CLIConfig) error {
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if cfg.set["format"] {
		if _, err := convert.ParseFormat(cfg.Format); err != nil {
			return fmt.Errorf("invalid format: %s", cfg.Format)
		}
	}

	if cfg.set["indent"] && (cfg.Indent < 0 || cfg.Indent > 8) {
		return fmt.Errorf("invalid indent: %d", cfg.Indent)
	}

	if cfg.set["workers"] && cfg.Workers <= 0 {
		return fmt.Errorf("invalid workers: %d", cfg.Workers)
	}

	return nil
}

// applyFlags copies explicitly given flags over the loaded configuration
func applyFlags(cli *CLIConfig, cfg *config.Config) {
	if cli.set["log-level"] {
		cfg.Log.Level = cli.LogLevel
	}
	if cli.set["log-format"] {
		cfg.Log.Format = cli.LogFormat
	}
	if cli.set["format"] {
		cfg.Parser.Format = cli.Format
	}
	if cli.set["indent"] {
		cfg.Output.Indent = cli.Indent
	}
	if cli.set["out-dir"] {
		cfg.Output.Directory = cli.OutDir
	}
	if cli.set["overwrite"] {
		cfg.Output.Overwrite = cli.Overwrite
	}
	if cli.set["workers"] {
		cfg.Workers = cli.Workers
	}
	if cli.set["metrics-file"] {
		cfg.MetricsFile = cli.MetricsFile
	}
}

// writesFiles reports whether results go to the output directory rather than stdout
func (c *CLIConfig) writesFiles() bool {
	return c.Request || c.set["out-dir"]
}

func printDetailedHelp(fs *flag.FlagSet, w io.Writer) {
	_, _ = fmt.Fprintf(w, `%s - convert job definitions in map notation to JSON

Usage: %s [options] [file ...]

Reads each file (stdin when none are given), converts it and prints the JSON.
With -out-dir or -request the result is written to <dir>/<name>.json instead.

Options:
`, appName, appName)
	fs.PrintDefaults()
	_, _ = fmt.Fprintf(w, `
Examples:
  # Convert a payload from stdin
  echo '{Job={RunAs=batch}}' | %s

  # Convert many files into a directory, four at a time
  %s -out-dir=defs -workers=4 exports/*.txt

  # Handle a saved deploy request body
  %s -request -config=/etc/jobmap/jobmap.yaml request.json

  # Validate configuration only
  %s -config=jobmap.yaml -validate

Version: %s
Build: %s
`, appName, appName, appName, appName, Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
