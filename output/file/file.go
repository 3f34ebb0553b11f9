// Package file writes converted definitions into an output directory
package file

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/c360/jobmap/errors"
	"github.com/c360/jobmap/metric"
)

// Config holds configuration for file output
type Config struct {
	Directory string `json:"directory" yaml:"directory"`
	Indent    int    `json:"indent"    yaml:"indent"`
	Overwrite bool   `json:"overwrite" yaml:"overwrite"`
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Directory) == "" {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate", "directory is required")
	}
	if c.Indent < 0 || c.Indent > 8 {
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			"indent must be between 0 and 8")
	}
	return nil
}

// DefaultConfig returns default configuration for file output
func DefaultConfig() Config {
	return Config{
		Directory: "output",
		Indent:    2,
		Overwrite: false,
	}
}

// Option configures a Writer.
type Option func(*Writer)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMetrics records written files.
func WithMetrics(m *metric.Metrics) Option {
	return func(w *Writer) {
		w.metrics = m
	}
}

// Writer stores one file per definition in a directory. Each file is written
// to a temporary name and renamed into place, so readers never see a partial
// file. Safe for concurrent use.
type Writer struct {
	directory string
	overwrite bool
	logger    *slog.Logger
	metrics   *metric.Metrics

	// Serializes the exists check with the rename.
	mu         sync.Mutex
	dirCreated bool

	filesWritten int64
	bytesWritten int64
	errors       int64
}

// NewWriter creates a Writer from configuration. The directory is created on
// first write.
func NewWriter(cfg Config, opts ...Option) (*Writer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &Writer{
		directory: filepath.Clean(cfg.Directory),
		overwrite: cfg.Overwrite,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Directory returns the output directory.
func (w *Writer) Directory() string {
	return w.directory
}

// Path returns where name would be written.
func (w *Writer) Path(name string) string {
	return filepath.Join(w.directory, name)
}

// Write stores data as name inside the output directory. name must be a plain
// file name. An existing file is replaced only when Overwrite is set.
func (w *Writer) Write(name string, data []byte) error {
	if err := validateName(name); err != nil {
		w.fail()
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.ensureDir(); err != nil {
		w.fail()
		return err
	}

	path := w.Path(name)
	if !w.overwrite {
		if _, err := os.Lstat(path); err == nil {
			w.fail()
			return errors.WrapInvalid(
				fmt.Errorf("%w: %s", errors.ErrOutputExists, path),
				"Writer", "Write", "check existing file")
		}
	}

	if err := writeAtomic(w.directory, path, data); err != nil {
		w.fail()
		w.logger.Error("Failed to write output file",
			"component", "file-writer",
			"path", path,
			"error", err)
		return errors.WrapTransient(err, "Writer", "Write", fmt.Sprintf("write %s", name))
	}

	atomic.AddInt64(&w.filesWritten, 1)
	atomic.AddInt64(&w.bytesWritten, int64(len(data)))
	w.metrics.RecordFileWritten(metric.StatusSuccess)

	w.logger.Debug("Output file written",
		"component", "file-writer",
		"path", path,
		"bytes_written", len(data))
	return nil
}

func (w *Writer) fail() {
	atomic.AddInt64(&w.errors, 1)
	w.metrics.RecordFileWritten(metric.StatusError)
}

// ensureDir must be called with mu held.
func (w *Writer) ensureDir() error {
	if w.dirCreated {
		return nil
	}
	if err := os.MkdirAll(w.directory, 0755); err != nil {
		return errors.WrapFatal(err, "Writer", "Write", "create output directory")
	}
	w.dirCreated = true
	return nil
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return cause
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(0644); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return errors.WrapInvalid(errors.ErrInvalidData, "Writer", "Write", "file name required")
	case name == "." || name == "..",
		strings.ContainsAny(name, `/\`),
		strings.ContainsRune(name, 0),
		filepath.Base(name) != name:
		return errors.WrapInvalid(
			fmt.Errorf("%w: %q is not a plain file name", errors.ErrInvalidData, name),
			"Writer", "Write", "validate file name")
	}
	return nil
}

// Stats reports write counters.
type Stats struct {
	FilesWritten int64 `json:"files_written"`
	BytesWritten int64 `json:"bytes_written"`
	Errors       int64 `json:"errors"`
}

// Stats returns current counters.
func (w *Writer) Stats() Stats {
	return Stats{
		FilesWritten: atomic.LoadInt64(&w.filesWritten),
		BytesWritten: atomic.LoadInt64(&w.bytesWritten),
		Errors:       atomic.LoadInt64(&w.errors),
	}
}
