package converter

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"c2cs/pkg/project"
	"c2cs/pkg/vfs"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// WatchOptions configure Watch.
type WatchOptions struct {
	Options
	Debounce time.Duration
	// OnResult is called after every run with the files actually rewritten.
	OnResult func(res *Result, written []string, err error)
}

// Watch converts p once, then again whenever a source file, an included
// header or a file in an include directory changes. Output is staged in
// memory and only files whose content changed reach the real sink. Watch
// returns when ctx is done.
func Watch(ctx context.Context, p *project.Project, opts WatchOptions) error {
	opts.defaults()
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	log := opts.Logger
	dst := opts.Sink
	staged := vfs.NewMemorySink()

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating file watcher")
	}
	defer w.Close()

	for _, dir := range watchDirs(p) {
		if err := w.Add(dir); err != nil {
			log.Warnf("Not watching %s: %v", dir, err)
		}
	}

	runOnce := func() {
		o := opts.Options
		o.Sink = staged
		res, err := Convert(ctx, p, o)
		var written []string
		if err == nil {
			written, err = staged.Flush(dst)
		}
		if err != nil {
			log.Errorf("Conversion failed: %v", err)
		}
		if opts.OnResult != nil {
			opts.OnResult(res, written, err)
		}
	}
	runOnce()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	trigger := make(chan struct{}, 1)
	schedule := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(opts.Debounce, func() {
			select {
			case trigger <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			log.Debugw("Source changed", "file", ev.Name, "op", ev.Op.String())
			schedule()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnw("File watcher error", "error", err)
		case <-trigger:
			log.Info("Change detected, converting again")
			runOnce()
		}
	}
}

// relevant keeps writes and creations of C sources and headers.
func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	switch filepath.Ext(ev.Name) {
	case ".c", ".h":
		return true
	}
	return false
}

// watchDirs lists the directories holding sources, plus the include
// directories, without duplicates. fsnotify watches directories so that
// editors replacing files on save are still seen.
func watchDirs(p *project.Project) []string {
	seen := map[string]bool{}
	var dirs []string
	add := func(d string) {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	for _, src := range p.Sources() {
		add(filepath.Dir(src))
	}
	for _, inc := range p.Includes() {
		add(inc)
	}
	return dirs
}
