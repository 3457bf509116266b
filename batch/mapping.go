package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/teranos/ts2swift/errors"
	"github.com/teranos/ts2swift/logger"
)

// Job is one source file and the output it produces
type Job struct {
	Source string
	Target string

	// PlanErr is set for a directory that could not be listed. The job
	// fails without converting anything.
	PlanErr error
}

// Mode is how the input path is interpreted
type Mode int

const (
	ModeFile Mode = iota
	ModeDirectory
)

func (m Mode) String() string {
	if m == ModeDirectory {
		return "directory"
	}
	return "file"
}

// TargetName replaces the source extension of name with the target one.
// Declaration files drop their .d marker: Foo.d.ts -> Foo.swift.
func TargetName(name, sourceExt, targetExt string) string {
	if stem, ok := strings.CutSuffix(name, ".d"+sourceExt); ok {
		return stem + targetExt
	}
	if stem, ok := strings.CutSuffix(name, sourceExt); ok {
		return stem + targetExt
	}
	return name + targetExt
}

// DetectMode reports whether input is a file or a directory
func DetectMode(input string) (Mode, error) {
	info, err := os.Stat(input)
	if err != nil {
		if os.IsNotExist(err) {
			return ModeFile, errors.WithHint(
				errors.NewNotFoundError("input %s", input),
				"pass --input pointing at a .ts file or a directory of .ts files")
		}
		return ModeFile, errors.Wrapf(err, "failed to stat input %s", input)
	}
	if info.IsDir() {
		return ModeDirectory, nil
	}
	return ModeFile, nil
}

// Plan maps the input to its jobs. A file input writes output directly,
// unless output is an existing directory. A directory input mirrors every
// source file under output; a subdirectory that cannot be read becomes a
// failing job and the walk continues.
func (r *Runner) Plan() ([]Job, error) {
	mode, err := DetectMode(r.opts.Input)
	if err != nil {
		return nil, err
	}

	if mode == ModeFile {
		target := r.opts.Output
		if info, err := os.Stat(target); err == nil && info.IsDir() {
			target = filepath.Join(target, r.targetName(filepath.Base(r.opts.Input)))
		}
		return []Job{{Source: r.opts.Input, Target: target}}, nil
	}

	var jobs []Job
	err = filepath.WalkDir(r.opts.Input, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == r.opts.Input {
				return err
			}
			r.logger.Errorw("Cannot read directory", logger.FieldFile, path, logger.FieldError, err)
			jobs = append(jobs, Job{Source: path, PlanErr: errors.Wrapf(err, "failed to read %s", path)})
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != r.opts.Input && r.excluded(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !r.isSource(path) {
			return nil
		}
		job, err := r.jobFor(path)
		if err != nil {
			return err
		}
		jobs = append(jobs, job)
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to walk %s", r.opts.Input)
	}
	return jobs, nil
}

// jobFor maps a source path under a directory input to its job
func (r *Runner) jobFor(path string) (Job, error) {
	rel, err := filepath.Rel(r.opts.Input, path)
	if err != nil {
		return Job{}, errors.Wrapf(err, "failed to relate %s to %s", path, r.opts.Input)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return Job{}, errors.Wrapf(errors.ErrInvalidRequest, "%s is outside input %s", path, r.opts.Input)
	}
	return Job{
		Source: path,
		Target: filepath.Join(r.opts.Output, filepath.Dir(rel), r.targetName(filepath.Base(rel))),
	}, nil
}

func (r *Runner) targetName(name string) string {
	return TargetName(name, r.opts.SourceExtension, r.opts.TargetExtension)
}

func (r *Runner) isSource(path string) bool {
	return strings.HasSuffix(path, r.opts.SourceExtension)
}

func (r *Runner) excluded(name string) bool {
	for _, pattern := range r.opts.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
