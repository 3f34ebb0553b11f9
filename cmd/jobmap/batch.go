package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/c360/jobmap/config"
	"github.com/c360/jobmap/errors"
	"github.com/c360/jobmap/message"
	"github.com/c360/jobmap/metric"
	"github.com/c360/jobmap/output/file"
	"github.com/c360/jobmap/pkg/worker"
	"github.com/c360/jobmap/processor/convert"
)

const (
	stdinName       = "stdin"
	maxInputSize    = 32 << 20
	poolStopTimeout = 30 * time.Second
)

// job is one input. Workers only touch their own job.
type job struct {
	name string // source path, or "stdin"
	data []byte // preloaded for stdin

	output []byte // rendered JSON, stdout mode
	err    error
	done   bool
}

type batch struct {
	cfg       *config.Config
	converter *convert.Converter
	writer    *file.Writer
	request   bool
	stdout    io.Writer
	logger    *slog.Logger
	registry  *metric.MetricsRegistry
}

// collect builds the job list. With no paths the single job reads stdin.
func (b *batch) collect(paths []string, stdin io.Reader) ([]*job, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(io.LimitReader(stdin, maxInputSize+1))
		if err != nil {
			return nil, errors.WrapTransient(err, "CLI", "collect", "read stdin")
		}
		if len(data) > maxInputSize {
			return nil, errors.WrapInvalid(
				fmt.Errorf("%w: stdin exceeds %d bytes", errors.ErrInvalidData, maxInputSize),
				"CLI", "collect", "read stdin")
		}
		return []*job{{name: stdinName, data: data}}, nil
	}

	jobs := make([]*job, 0, len(paths))
	for _, p := range paths {
		jobs = append(jobs, &job{name: p})
	}
	return jobs, nil
}

// run converts every job on the worker pool and reports results in input order.
func (b *batch) run(ctx context.Context, jobs []*job) error {
	workers := b.cfg.Workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	pool, err := worker.NewPool(workers, b.cfg.QueueSize, b.process,
		worker.WithMetricsRegistry[*job](b.registry, "jobmap_worker"))
	if err != nil {
		return errors.WrapFatal(err, "CLI", "run", "create worker pool")
	}
	if err := pool.Start(ctx); err != nil {
		return errors.WrapFatal(err, "CLI", "run", "start worker pool")
	}

	var submitErr error
	for _, j := range jobs {
		if err := pool.SubmitWait(ctx, j); err != nil {
			submitErr = errors.WrapTransient(err, "CLI", "run", fmt.Sprintf("submit %s", j.name))
			break
		}
	}

	if err := pool.Stop(poolStopTimeout); err != nil {
		b.logger.Warn("Worker pool did not stop cleanly", "error", err)
	}

	stats := pool.Stats()
	b.logger.Debug("Conversion finished",
		"submitted", stats.Submitted,
		"processed", stats.Processed,
		"failed", stats.Failed)

	cause := context.Cause(ctx)
	if cause == nil {
		cause = worker.ErrStopTimeout
	}

	var errs []error
	if submitErr != nil {
		errs = append(errs, submitErr)
	}
	for _, j := range jobs {
		if !j.done {
			if submitErr == nil {
				errs = append(errs, errors.WrapTransient(
					fmt.Errorf("%s: not processed: %w", j.name, cause),
					"CLI", "run", "convert"))
			}
			continue
		}
		if j.err != nil {
			b.logger.Error("Conversion failed", "input", j.name, "error", j.err)
			errs = append(errs, j.err)
			continue
		}
		if j.output != nil {
			if _, err := b.stdout.Write(j.output); err != nil {
				return errors.WrapTransient(err, "CLI", "run", "write stdout")
			}
		}
	}

	if len(errs) > 0 {
		b.logger.Error("Some inputs failed", "failed", len(errs), "total", len(jobs))
	}
	return stderrors.Join(errs...)
}

// process is the worker pool processor. It records the outcome on the job.
func (b *batch) process(ctx context.Context, j *job) error {
	j.err = b.convert(ctx, j)
	j.done = true
	return j.err
}

func (b *batch) convert(ctx context.Context, j *job) error {
	data := j.data
	if data == nil {
		var err error
		if data, err = readInput(j.name); err != nil {
			return err
		}
	}

	name := outputName(j.name)
	if b.request {
		req, err := message.DecodeDeployRequest(data)
		if err != nil {
			return fmt.Errorf("%s: %w", j.name, err)
		}
		if err := req.Validate(b.cfg.Environments); err != nil {
			return fmt.Errorf("%s: %w", j.name, err)
		}
		b.logger.Info("Deploy request accepted", "input", j.name, "request", req)
		data = req.JSONData
		name = req.FileName()
	}

	res, err := b.converter.Convert(ctx, data)
	if err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}

	out, err := res.JSON(b.cfg.Output.Indent)
	if err != nil {
		return errors.WrapInvalid(err, "CLI", "convert", fmt.Sprintf("encode %s", j.name))
	}

	b.logger.Info("Converted definition",
		"input", j.name,
		"id", res.ID,
		"format", res.Format,
		"repaired", res.Repaired,
		"prefixed", res.Stats.Prefixed,
		"escaped", res.Stats.Escaped,
		"duration", res.Duration)

	if b.writer == nil {
		j.output = append(out, '\n')
		return nil
	}

	if err := b.writer.Write(name, append(out, '\n')); err != nil {
		return fmt.Errorf("%s: %w", j.name, err)
	}
	b.logger.Info("Definition saved", "input", j.name, "path", b.writer.Path(name))
	return nil
}

func readInput(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.WrapInvalid(err, "CLI", "readInput", fmt.Sprintf("stat %s", path))
	}
	if !info.Mode().IsRegular() {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s is not a regular file", errors.ErrInvalidData, path),
			"CLI", "readInput", "check input")
	}
	if info.Size() > maxInputSize {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %s exceeds %d bytes", errors.ErrInvalidData, path, maxInputSize),
			"CLI", "readInput", "check input")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapTransient(err, "CLI", "readInput", fmt.Sprintf("read %s", path))
	}
	return data, nil
}

// outputName maps an input path to its output file name: exports/FOLDER.txt -> FOLDER.json
func outputName(input string) string {
	base := filepath.Base(input)
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".json"
}
