package commands

import (
	"context"
	"io"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/ts2swift/batch"
	"github.com/teranos/ts2swift/logger"
	"github.com/teranos/ts2swift/watcher"
)

func (a *app) runConvert(cmd *cobra.Command, paths pathFlags, watch bool) error {
	log := logger.ComponentLogger("convert")

	mode, err := batch.DetectMode(paths.input)
	if err != nil {
		log.Errorw("Cannot read input", logger.FieldFile, paths.input, logger.FieldError, err)
		return err
	}
	log.Infow("Converting", "mode", mode.String(), logger.FieldFile, paths.input, logger.FieldOutput, paths.output)

	runner := a.newRunner(paths)
	summary, err := runner.Run(cmd.Context())
	if summary != nil {
		printSummary(cmd.OutOrStdout(), summary)
	}
	if !watch {
		return err
	}
	if err != nil {
		log.Warnw("Initial conversion incomplete", logger.FieldError, err)
	}
	return a.watch(cmd, paths, runner)
}

func printSummary(w io.Writer, s *batch.Summary) {
	files := "files"
	if s.Written+s.Unchanged+s.Failed == 1 {
		files = "file"
	}
	switch {
	case s.Failed > 0:
		pterm.Warning.WithWriter(w).Printfln("Converted %d of %d %s, %d failed",
			s.Written+s.Unchanged, len(s.Results), files, s.Failed)
	case s.Skipped > 0:
		pterm.Warning.WithWriter(w).Printfln("Cancelled after %d of %d %s", s.Written+s.Unchanged, len(s.Results), files)
	default:
		pterm.Success.WithWriter(w).Printfln("Converted %d %s (%d written, %d unchanged) in %s",
			len(s.Results), files, s.Written, s.Unchanged, s.Duration.Round(time.Millisecond))
	}
}

// watch reconverts after every debounced batch of source changes until the
// command's context is cancelled. A change to a loaded config file reloads
// the configuration first.
func (a *app) watch(cmd *cobra.Command, paths pathFlags, runner *batch.Runner) error {
	ctx := cmd.Context()
	log := logger.ComponentLogger("convert")

	configFiles := a.configFiles()
	queue := newChangeQueue()
	w, err := watcher.New(paths.input, watcher.Options{
		Extensions: []string{a.cfg.Batch.SourceExtension},
		Exclude:    a.cfg.Batch.Exclude,
		Files:      configFiles,
		Debounce:   time.Duration(a.cfg.Watch.DebounceMS) * time.Millisecond,
	}, queue.add)
	if err != nil {
		return err
	}
	defer w.Close()

	watchCtx, stop := context.WithCancel(ctx)
	defer stop()
	done := make(chan error, 1)
	go func() { done <- w.Run(watchCtx) }()

	pterm.Info.WithWriter(cmd.OutOrStdout()).Printfln("Watching %s for changes (Ctrl-C to stop)", paths.input)
	for {
		select {
		case <-ctx.Done():
			stop()
			return <-done

		case err := <-done:
			return err

		case <-queue.ready:
			changed := queue.take()
			if len(changed) == 0 {
				continue
			}
			log.Infow("Change detected", logger.FieldCount, len(changed), logger.FieldFile, changed[0])

			if touchesAny(changed, configFiles) {
				if err := a.reloadConfig(cmd); err != nil {
					log.Errorw("Config reload failed, keeping previous settings", logger.FieldError, err)
				} else {
					runner = a.newRunner(paths)
					log.Infow("Config reloaded")
				}
			}

			summary, err := runner.Run(ctx)
			if ctx.Err() != nil {
				stop()
				return <-done
			}
			if summary != nil {
				printSummary(cmd.OutOrStdout(), summary)
			}
			if err != nil {
				log.Errorw("Reconversion incomplete", logger.FieldError, err)
			}
		}
	}
}

// reloadConfig reloads and validates configuration, leaving the current
// one in place on failure
func (a *app) reloadConfig(cmd *cobra.Command) error {
	prevCfg, prevViper := a.cfg, a.viper
	if err := a.loadConfig(cmd); err != nil {
		a.cfg, a.viper = prevCfg, prevViper
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		a.cfg, a.viper = prevCfg, prevViper
		return invalidConfig(err)
	}
	return nil
}

// configFiles are the existing files of the loaded cascade
func (a *app) configFiles() []string {
	var files []string
	if a.cfg == nil || a.cfg.Sources == nil {
		return nil
	}
	for _, f := range a.cfg.Sources.Files {
		if f.Exists {
			files = append(files, filepath.Clean(f.Path))
		}
	}
	return files
}

func touchesAny(changed, files []string) bool {
	for _, f := range files {
		if slices.Contains(changed, f) {
			return true
		}
	}
	return false
}

// changeQueue merges watcher batches that arrive while a conversion runs
type changeQueue struct {
	mu    sync.Mutex
	paths map[string]bool
	ready chan struct{}
}

func newChangeQueue() *changeQueue {
	return &changeQueue{paths: map[string]bool{}, ready: make(chan struct{}, 1)}
}

func (q *changeQueue) add(paths []string) {
	q.mu.Lock()
	for _, p := range paths {
		q.paths[p] = true
	}
	q.mu.Unlock()

	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *changeQueue) take() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.paths))
	for p := range q.paths {
		out = append(out, p)
	}
	q.paths = map[string]bool{}
	sort.Strings(out)
	return out
}
