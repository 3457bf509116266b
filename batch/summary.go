package batch

import (
	"time"

	"github.com/teranos/ts2swift/errors"
)

// Status is the outcome of one job
type Status int

const (
	// StatusSkipped jobs were never started because the batch was cancelled
	StatusSkipped Status = iota
	StatusWritten
	StatusUnchanged
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	}
	return "skipped"
}

// FileResult is the outcome of converting one file
type FileResult struct {
	Job
	Status  Status
	Enums   int
	Structs int

	// Diagnostics are non-fatal problems with the file's imports
	Diagnostics []error

	Err      error
	Duration time.Duration
}

// Summary aggregates a batch run. Results are in job order.
type Summary struct {
	Results   []FileResult
	Written   int
	Unchanged int
	Failed    int
	Skipped   int
	Duration  time.Duration
}

func newSummary(results []FileResult, d time.Duration) *Summary {
	s := &Summary{Results: results, Duration: d}
	for _, r := range results {
		switch r.Status {
		case StatusWritten:
			s.Written++
		case StatusUnchanged:
			s.Unchanged++
		case StatusFailed:
			s.Failed++
		default:
			s.Skipped++
		}
	}
	return s
}

// Errors returns the per-file errors in job order
func (s *Summary) Errors() []error {
	var errs []error
	for _, r := range s.Results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errs
}

// Err is nil when no file failed, otherwise one error naming the failure
// count and carrying every per-file error
func (s *Summary) Err() error {
	if s.Failed == 0 {
		return nil
	}
	return errors.Wrapf(errors.Join(s.Errors()...), "%d of %d files failed to convert", s.Failed, len(s.Results))
}
