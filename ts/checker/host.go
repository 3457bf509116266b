package checker

import (
	"os"
	"path/filepath"

	"github.com/teranos/ts2swift/errors"
)

// Host gives a program access to source files
type Host interface {
	ReadFile(path string) (string, error)
	FileExists(path string) bool
}

type osHost struct{}

// OSHost reads source files from the local filesystem
func OSHost() Host {
	return osHost{}
}

func (osHost) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewNotFoundError("source file %s", path)
		}
		return "", errors.Wrapf(err, "read %s", path)
	}
	return string(data), nil
}

func (osHost) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// MapHost serves source files from memory, keyed by cleaned path
type MapHost map[string]string

// NewMapHost creates an in-memory host from path/content pairs
func NewMapHost(files map[string]string) MapHost {
	h := make(MapHost, len(files))
	for path, content := range files {
		h[filepath.Clean(path)] = content
	}
	return h
}

func (h MapHost) ReadFile(path string) (string, error) {
	content, ok := h[filepath.Clean(path)]
	if !ok {
		return "", errors.NewNotFoundError("source file %s", path)
	}
	return content, nil
}

func (h MapHost) FileExists(path string) bool {
	_, ok := h[filepath.Clean(path)]
	return ok
}
