package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/c360/jobmap/errors"
	"github.com/c360/jobmap/message"
	"github.com/c360/jobmap/output/file"
	"github.com/c360/jobmap/processor/convert"
	"github.com/c360/jobmap/processor/normalize"
)

const (
	// DefaultEnvPrefix prefixes every environment override.
	DefaultEnvPrefix = "JOBMAP"

	defaultWorkers   = 4
	defaultQueueSize = 100
)

// Config is the complete jobmap configuration
type Config struct {
	Parser       ParserConfig     `json:"parser"       yaml:"parser"`
	Normalize    normalize.Config `json:"normalize"    yaml:"normalize"`
	Output       file.Config      `json:"output"       yaml:"output"`
	Environments []string         `json:"environments" yaml:"environments"`
	Workers      int              `json:"workers"      yaml:"workers"`
	QueueSize    int              `json:"queue_size"   yaml:"queue_size"`
	Log          LogConfig        `json:"log"          yaml:"log"`
	MetricsFile  string           `json:"metrics_file" yaml:"metrics_file"`
}

// ParserConfig configures input decoding
type ParserConfig struct {
	// Format is auto, json or javamap.
	Format string `json:"format" yaml:"format"`
	// ExtraDenylist extends the built-in comma lookahead denylist.
	ExtraDenylist []string `json:"extra_denylist" yaml:"extra_denylist"`
}

// LogConfig configures structured logging
type LogConfig struct {
	Level  string `json:"level"  yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			Format:        convert.FormatAuto,
			ExtraDenylist: []string{},
		},
		Normalize:    normalize.DefaultConfig(),
		Output:       file.DefaultConfig(),
		Environments: slices.Clone(message.DefaultEnvironments),
		Workers:      defaultWorkers,
		QueueSize:    defaultQueueSize,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if _, err := convert.ParseFormat(c.Parser.Format); err != nil {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("parser.format %q must be auto, json or javamap", c.Parser.Format))
	}

	if err := c.Output.Validate(); err != nil {
		return err
	}

	if len(c.Environments) == 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"at least one environment is required")
	}
	for _, env := range c.Environments {
		if strings.TrimSpace(env) == "" {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				"environment names cannot be blank")
		}
	}

	if c.Workers <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "workers must be positive")
	}
	if c.QueueSize <= 0 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "queue_size must be positive")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("log.level %q must be debug, info, warn or error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("log.format %q must be json or text", c.Log.Format))
	}

	if c.MetricsFile != "" && filepath.Ext(c.MetricsFile) != ".prom" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"metrics_file must have .prom extension")
	}

	return nil
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}

// Loader handles configuration loading with layers and overrides
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		layers:     []string{},
		validation: true,
		envPrefix:  DefaultEnvPrefix,
	}
}

// AddLayer adds a configuration file layer. Later layers win.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables Config.Validate after loading.
// Schema checks on each layer always run.
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// SetEnvPrefix changes the environment override prefix
func (l *Loader) SetEnvPrefix(prefix string) {
	l.envPrefix = prefix
}

// LoadFile loads configuration from a single file
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all configuration layers
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	for _, path := range l.layers {
		raw, err := l.loadRaw(path)
		if err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", fmt.Sprintf("load %s", path))
		}
		if err := validateSchema(raw, path); err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", fmt.Sprintf("validate %s", path))
		}
		cfg, err = l.mergeFromMap(cfg, raw)
		if err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", fmt.Sprintf("merge %s", path))
		}
	}

	if err := l.applyEnvOverrides(cfg); err != nil {
		return nil, errors.WrapFatal(err, "Loader", "Load", "apply environment overrides")
	}

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, errors.WrapFatal(err, "Loader", "Load", "validate config")
		}
	}

	return cfg, nil
}

// loadRaw reads a JSON or YAML file into a generic map
func (l *Loader) loadRaw(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
	default:
		if err := validateJSONDepth(data); err != nil {
			return nil, fmt.Errorf("invalid JSON structure: %w", err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	if raw == nil {
		raw = map[string]any{}
	}
	return raw, nil
}

// mergeFromMap merges configuration from a raw map, only overriding fields present in the map
func (l *Loader) mergeFromMap(base *Config, override map[string]any) (*Config, error) {
	baseJSON, err := json.Marshal(base)
	if err != nil {
		return nil, err
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return nil, err
	}

	mergedJSON, err := json.Marshal(deepMergeMaps(baseMap, override))
	if err != nil {
		return nil, err
	}

	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence.
// Lists are replaced, not appended.
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}
		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}
	return result
}

// applyEnvOverrides applies <PREFIX>_* environment variables
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	str := func(name string, dst *string) error {
		key := l.envPrefix + "_" + name
		val := os.Getenv(key)
		if err := validateEnvVar(key, val); err != nil {
			return err
		}
		if val != "" {
			*dst = val
		}
		return nil
	}
	list := func(name string, dst *[]string) error {
		var val string
		if err := str(name, &val); err != nil || val == "" {
			return err
		}
		*dst = splitList(val)
		return nil
	}
	integer := func(name string, dst *int) error {
		var val string
		if err := str(name, &val); err != nil || val == "" {
			return err
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s_%s: %w", l.envPrefix, name, err)
		}
		*dst = n
		return nil
	}
	boolean := func(name string, dst *bool) error {
		var val string
		if err := str(name, &val); err != nil || val == "" {
			return err
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			return fmt.Errorf("%s_%s: %w", l.envPrefix, name, err)
		}
		*dst = b
		return nil
	}

	for _, apply := range []func() error{
		func() error { return str("FORMAT", &cfg.Parser.Format) },
		func() error { return list("EXTRA_DENYLIST", &cfg.Parser.ExtraDenylist) },
		func() error { return str("OUTPUT_DIRECTORY", &cfg.Output.Directory) },
		func() error { return integer("OUTPUT_INDENT", &cfg.Output.Indent) },
		func() error { return boolean("OUTPUT_OVERWRITE", &cfg.Output.Overwrite) },
		func() error { return list("ENVIRONMENTS", &cfg.Environments) },
		func() error { return integer("WORKERS", &cfg.Workers) },
		func() error { return integer("QUEUE_SIZE", &cfg.QueueSize) },
		func() error { return str("LOG_LEVEL", &cfg.Log.Level) },
		func() error { return str("LOG_FORMAT", &cfg.Log.Format) },
		func() error { return str("METRICS_FILE", &cfg.MetricsFile) },
	} {
		if err := apply(); err != nil {
			return err
		}
	}
	return nil
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
