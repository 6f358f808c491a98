package convert

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when the configured debounce is zero.
const DefaultDebounce = 500 * time.Millisecond

// watchTargets holds the absolute paths a watch reacts to.
type watchTargets struct {
	aptDir   string
	patterns []string
	files    map[string]bool
	sources  string
}

// relevant reports whether a change to path should trigger a new run.
func (t *watchTargets) relevant(path string) bool {
	if t.files[path] {
		return true
	}
	if rel, ok := within(t.aptDir, path); ok && matchesAny(t.patterns, rel) {
		return true
	}
	if t.sources != "" {
		if _, ok := within(t.sources, path); ok && strings.EqualFold(filepath.Ext(path), ".java") {
			return true
		}
	}
	return false
}

// within returns path relative to dir in slash form when path lies under dir.
func within(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Watch runs the pipeline once, then again whenever a documentation file,
// the messages file, the catalog or a check source changes. Changes arriving
// within the debounce window are coalesced into one run. onRun receives every
// outcome; run failures do not stop the watch. Watch returns nil when ctx is
// cancelled.
func (c *Converter) Watch(ctx context.Context, onRun func(*Result, error)) error {
	debounce := c.cfg.Watch.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	targets, err := c.watchTargets()
	if err != nil {
		return err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := c.addWatchesRecursive(fsw, targets.aptDir); err != nil {
		return err
	}
	if targets.sources != "" {
		if err := c.addWatchesRecursive(fsw, targets.sources); err != nil {
			return err
		}
	}
	for path := range targets.files {
		dir := filepath.Dir(path)
		if err := fsw.Add(dir); err != nil {
			c.logger.Warn("Failed to watch directory", "path", dir, "error", err)
		}
	}

	c.logger.Info("Watching for changes",
		"apt_dir", targets.aptDir,
		"sources", targets.sources,
		"debounce", debounce)

	onRun(c.Run(ctx))

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					c.handleNewDirectory(fsw, targets, event.Name)
					continue
				}
			}
			if !targets.relevant(event.Name) {
				continue
			}
			c.logger.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("Watcher error", "error", err)

		case <-timer.C:
			if ctx.Err() != nil {
				return nil
			}
			onRun(c.Run(ctx))
		}
	}
}

func (c *Converter) watchTargets() (*watchTargets, error) {
	aptDir, err := filepath.Abs(c.cfg.Input.AptDir)
	if err != nil {
		return nil, fmt.Errorf("resolve documentation directory: %w", err)
	}
	t := &watchTargets{
		aptDir:   aptDir,
		patterns: c.cfg.Input.Patterns,
		files:    make(map[string]bool),
	}
	for _, path := range []string{c.cfg.Input.Catalog, c.cfg.Input.Messages} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		t.files[abs] = true
	}
	if c.cfg.Input.Sources != "" {
		if t.sources, err = filepath.Abs(c.cfg.Input.Sources); err != nil {
			return nil, fmt.Errorf("resolve sources directory: %w", err)
		}
	}
	return t, nil
}

// addWatchesRecursive watches root and every non-hidden directory below it.
func (c *Converter) addWatchesRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			c.logger.Warn("Failed to watch directory", "path", path, "error", err)
		} else {
			c.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

func (c *Converter) handleNewDirectory(fsw *fsnotify.Watcher, t *watchTargets, path string) {
	_, underApt := within(t.aptDir, path)
	underSources := false
	if t.sources != "" {
		_, underSources = within(t.sources, path)
	}
	if !underApt && !underSources {
		return
	}
	if err := c.addWatchesRecursive(fsw, path); err != nil {
		c.logger.Warn("Failed to watch new directory", "path", path, "error", err)
	}
}
