// Package batch converts a TypeScript file or directory tree into Swift
// files on a bounded worker group.
//
// Each file is converted on its own and either written atomically or left
// untouched; one failing file never stops the others. Outputs whose content
// is already current are not rewritten.
package batch

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/logger"
	"github.com/teranos/ts2swift/ts/checker"
	"github.com/teranos/ts2swift/typegen"
)

// Options configure a Runner
type Options struct {
	Input  string
	Output string

	// Workers bounds parallel conversions; 0 uses one per CPU
	Workers int

	// Exclude lists directory basename patterns skipped during the walk
	Exclude []string

	SourceExtension string
	TargetExtension string

	Checker checker.Options

	// Host reads source files; defaults to the local filesystem
	Host checker.Host
}

// Runner converts the files named by its options
type Runner struct {
	opts   Options
	gen    typegen.Generator
	logger *zap.SugaredLogger
}

// New creates a Runner that renders with gen
func New(opts Options, gen typegen.Generator) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.SourceExtension == "" {
		opts.SourceExtension = ".ts"
	}
	if opts.TargetExtension == "" {
		opts.TargetExtension = "." + gen.FileExtension()
	}
	if opts.Host == nil {
		opts.Host = checker.OSHost()
	}
	opts.Input = filepath.Clean(opts.Input)
	opts.Output = filepath.Clean(opts.Output)

	return &Runner{
		opts:   opts,
		gen:    gen,
		logger: logger.ComponentLogger("batch"),
	}
}

// Options returns the runner's options with defaults applied
func (r *Runner) Options() Options {
	return r.opts
}

// Run plans and converts every input file
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	jobs, err := r.Plan()
	if err != nil {
		return nil, err
	}
	return r.RunJobs(ctx, jobs)
}

// RunJobs converts jobs with at most Workers in flight. Per-file failures
// are recorded in the summary and returned together once every job has
// finished; cancellation stops scheduling new jobs.
func (r *Runner) RunJobs(ctx context.Context, jobs []Job) (*Summary, error) {
	start := time.Now()
	results := make([]FileResult, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, job := range jobs {
		results[i] = FileResult{Job: job, Status: StatusSkipped}
		if gctx.Err() != nil {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.runJob(job)
			return nil
		})
	}
	waitErr := g.Wait()

	summary := newSummary(results, time.Since(start))
	r.logger.Infow("Batch complete",
		logger.FieldCount, summary.Written,
		logger.FieldFailed, summary.Failed,
		logger.FieldDurationMS, summary.Duration.Milliseconds())

	if waitErr != nil {
		return summary, errors.Wrap(waitErr, "batch cancelled")
	}
	if err := ctx.Err(); err != nil {
		return summary, errors.Wrap(err, "batch cancelled")
	}
	return summary, summary.Err()
}

func (r *Runner) runJob(job Job) FileResult {
	start := time.Now()
	res := FileResult{Job: job}
	if job.PlanErr != nil {
		res.Status, res.Err, res.Duration = StatusFailed, job.PlanErr, time.Since(start)
		return res
	}

	converted, diags, err := r.convert(job)
	res.Diagnostics = diags
	if err != nil {
		res.Status, res.Err, res.Duration = StatusFailed, err, time.Since(start)
		r.logger.Errorw("Conversion failed", logger.FieldFile, job.Source, logger.FieldError, err)
		return res
	}
	res.Enums = converted.Count(typegen.DeclarationEnum)
	res.Structs = converted.Count(typegen.DeclarationStruct)

	content := []byte(converted.Content)
	state, err := typegen.CompareFile(job.Target, content)
	if err == nil && state == typegen.FileCurrent {
		res.Status, res.Duration = StatusUnchanged, time.Since(start)
		r.logger.Debugw("Output unchanged", logger.FieldOutput, job.Target)
		return res
	}

	if err := WriteFileAtomic(job.Target, content); err != nil {
		res.Status, res.Err, res.Duration = StatusFailed, err, time.Since(start)
		r.logger.Errorw("Write failed", logger.FieldOutput, job.Target, logger.FieldError, err)
		return res
	}

	res.Status, res.Duration = StatusWritten, time.Since(start)
	r.logger.Infow("Converted",
		logger.FieldFile, job.Source,
		logger.FieldOutput, job.Target,
		logger.FieldEnums, res.Enums,
		logger.FieldStructs, res.Structs,
		logger.FieldDurationMS, res.Duration.Milliseconds())
	return res
}

// convert builds the program rooted at job.Source and converts its root
// file. Dependency problems are logged and returned as diagnostics.
func (r *Runner) convert(job Job) (*typegen.Result, []error, error) {
	prog, err := checker.NewProgram(job.Source, r.opts.Host, r.opts.Checker)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to convert %s", job.Source)
	}
	for _, d := range prog.Diagnostics {
		r.logger.Warnw("Unresolved dependency", logger.FieldFile, job.Source, logger.FieldError, d)
	}
	return typegen.ConvertProgram(prog, r.gen), prog.Diagnostics, nil
}

// Check converts every input in memory and compares the results with the
// outputs on disk without writing anything
func (r *Runner) Check(ctx context.Context) (*typegen.CheckResult, error) {
	jobs, err := r.Plan()
	if err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		outputs = make(map[string][]byte, len(jobs))
		failed  []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for _, job := range jobs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if job.PlanErr != nil {
				mu.Lock()
				defer mu.Unlock()
				failed = append(failed, job.PlanErr)
				return nil
			}
			converted, _, err := r.convert(job)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, err)
				return nil
			}
			outputs[job.Target] = []byte(converted.Content)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "check cancelled")
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "check cancelled")
	}

	result, err := typegen.CompareOutputs(outputs)
	if len(failed) > 0 {
		err = errors.Join(append(failed, err)...)
	}
	return result, err
}
