// Package watcher feeds filesystem activity under a module tree into a lint
// session.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/session"
)

// Notifier receives document activity. *session.Session implements it.
type Notifier interface {
	Notify(path string, text []byte, trigger session.Trigger) error
	Close(path string)
}

// Discoverer lists the lintable files under a set of paths.
// *runner.Runner implements it.
type Discoverer interface {
	Discover(paths []string) ([]string, error)
}

// Config contains configuration for the file watcher.
type Config struct {
	// Path is the file or directory to watch.
	Path string

	// Exclude lists glob patterns for directories that are not watched.
	Exclude []string

	// Rescan is an optional cron expression. Each tick re-reads every
	// lintable file, catching changes the event stream missed.
	Rescan string
}

// FileWatcher watches a module tree and notifies the session: every file
// found by the initial scan or created later is opened, writes are saves
// and removals close the document.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	notifier Notifier
	discover Discoverer
	config   Config
	logger   *slog.Logger
	rescan   *Rescanner

	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// New creates a file watcher.
func New(cfg Config, notifier Notifier, discover Discoverer, logger *slog.Logger) (*FileWatcher, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("watch path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	fw := &FileWatcher{
		watcher:  watcher,
		notifier: notifier,
		discover: discover,
		config:   cfg,
		logger:   logger.With("component", "watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}

	if cfg.Rescan != "" {
		fw.rescan, err = NewRescanner(cfg.Rescan, fw.Scan, fw.logger)
		if err != nil {
			_ = watcher.Close()
			return nil, err
		}
	}

	return fw, nil
}

// Watch scans the tree once, then forwards file events until the context
// is canceled or Stop is called.
func (fw *FileWatcher) Watch(ctx context.Context) error {
	fw.mu.Lock()
	if fw.running {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already running")
	}
	fw.running = true
	fw.mu.Unlock()

	defer func() {
		fw.mu.Lock()
		fw.running = false
		fw.mu.Unlock()
		close(fw.doneCh)
	}()

	if err := fw.addPath(fw.config.Path); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}

	if err := fw.scan(session.TriggerOpened); err != nil {
		return fmt.Errorf("initial scan failed: %w", err)
	}

	if fw.rescan != nil {
		fw.rescan.Start()
		defer fw.rescan.Stop()
	}

	fw.logger.Info("file watcher started", "path", fw.config.Path)

	for {
		select {
		case <-ctx.Done():
			fw.logger.Info("file watcher stopped (context cancelled)")
			return nil

		case <-fw.stopCh:
			fw.logger.Info("file watcher stopped")
			return nil

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			fw.handle(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			fw.logger.Error("file watcher error", "error", err)
		}
	}
}

// Running reports whether Watch is processing events.
func (fw *FileWatcher) Running() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

// Stop stops the file watcher.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	running := fw.running
	fw.mu.Unlock()

	if running {
		close(fw.stopCh)
		<-fw.doneCh
	}

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Scan re-reads every lintable file and notifies it as saved.
func (fw *FileWatcher) Scan() error {
	return fw.scan(session.TriggerSaved)
}

func (fw *FileWatcher) scan(trigger session.Trigger) error {
	files, err := fw.discover.Discover([]string{fw.config.Path})
	if err != nil {
		return err
	}
	for _, path := range files {
		fw.notify(path, trigger)
	}
	fw.logger.Debug("scan complete", "files", len(files), "trigger", string(trigger))
	return nil
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod {
		return
	}
	if fw.hidden(event.Name) {
		return
	}

	fw.logger.Debug("file event detected", "path", event.Name, "op", event.Op.String())

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		fw.notifier.Close(event.Name)

	case event.Op&fsnotify.Create != 0:
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			fw.openDirectory(event.Name)
			return
		}
		fw.notify(event.Name, session.TriggerOpened)

	case event.Op&fsnotify.Write != 0:
		fw.notify(event.Name, session.TriggerSaved)
	}
}

// openDirectory watches a directory that appeared under the tree and opens
// the lintable files it already holds, such as a module copied in whole.
func (fw *FileWatcher) openDirectory(dir string) {
	if fw.excluded(filepath.Base(dir)) {
		return
	}
	if err := fw.addDirectory(dir); err != nil {
		fw.logger.Warn("failed to watch new directory", "path", dir, "error", err)
		return
	}
	files, err := fw.discover.Discover([]string{dir})
	if err != nil {
		fw.logger.Warn("failed to scan new directory", "path", dir, "error", err)
		return
	}
	for _, path := range files {
		fw.notify(path, session.TriggerOpened)
	}
	fw.logger.Debug("new directory opened", "path", dir, "files", len(files))
}

func (fw *FileWatcher) notify(path string, trigger session.Trigger) {
	if document.DetectKind(path) == document.KindUnknown {
		return
	}
	text, err := os.ReadFile(path)
	if err != nil {
		fw.logger.Debug("failed to read file", "path", path, "error", err)
		return
	}
	if err := fw.notifier.Notify(path, text, trigger); err != nil {
		fw.logger.Warn("notification rejected", "path", path, "error", err)
	}
}

// addPath adds a file or directory to the watcher.
func (fw *FileWatcher) addPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fw.addDirectory(path)
	}
	return fw.watcher.Add(path)
}

// addDirectory adds a directory and all subdirectories to the watcher.
func (fw *FileWatcher) addDirectory(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && (strings.HasPrefix(d.Name(), ".") || fw.excluded(d.Name())) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %q: %w", path, err)
		}
		return nil
	})
}

func (fw *FileWatcher) excluded(name string) bool {
	for _, pattern := range fw.config.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
