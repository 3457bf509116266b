package typegen

import (
	"bytes"
	"os"
	"sort"

	"github.com/teranos/ts2swift/errors"
)

// FileState is how freshly generated content compares to a file on disk
type FileState int

const (
	FileCurrent FileState = iota
	FileStale
	FileMissing
)

func (s FileState) String() string {
	switch s {
	case FileCurrent:
		return "current"
	case FileStale:
		return "stale"
	case FileMissing:
		return "missing"
	}
	return "unknown"
}

// CheckResult holds the result of an up-to-date check
type CheckResult struct {
	UpToDate bool
	// Stale are outputs whose content differs from what would be generated
	Stale []string
	// Missing are outputs that do not exist yet
	Missing []string
}

// CompareFile compares content with the file at path
func CompareFile(path string, content []byte) (FileState, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileMissing, nil
		}
		return FileStale, errors.Wrapf(err, "failed to read %s", path)
	}
	if !bytes.Equal(existing, content) {
		return FileStale, nil
	}
	return FileCurrent, nil
}

// CompareOutputs compares generated content, keyed by output path, with
// the files on disk. Paths are reported sorted.
func CompareOutputs(outputs map[string][]byte) (*CheckResult, error) {
	paths := make([]string, 0, len(outputs))
	for path := range outputs {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	result := &CheckResult{}
	var errs []error
	for _, path := range paths {
		state, err := CompareFile(path, outputs[path])
		if err != nil {
			errs = append(errs, err)
		}
		switch state {
		case FileStale:
			result.Stale = append(result.Stale, path)
		case FileMissing:
			result.Missing = append(result.Missing, path)
		}
	}
	result.UpToDate = len(result.Stale) == 0 && len(result.Missing) == 0
	return result, errors.Join(errs...)
}
