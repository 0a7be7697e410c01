// Package runner lints sets of files and module directories in batch on a
// bounded worker pool.
package runner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/engine"
)

// Config controls discovery and concurrency.
type Config struct {
	// Workers is the pool size. Default: runtime.NumCPU().
	Workers int

	// Exclude lists glob patterns. A pattern matching a file or directory
	// base name, or its slash-separated path relative to the walked root,
	// excludes it.
	Exclude []string

	// Only restricts the run to these files when non-nil. Paths are
	// compared after conversion to absolute form.
	Only []string

	// OnResult, when set, is called from the worker goroutine as each file
	// completes.
	OnResult func(engine.Result)
}

// Runner lints files concurrently with one engine.
type Runner struct {
	engine *engine.Engine
	config Config
	logger *slog.Logger
}

// New creates a runner.
func New(eng *engine.Engine, cfg Config, logger *slog.Logger) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		engine: eng,
		config: cfg,
		logger: logger.With("component", "lint.runner"),
	}
}

// Discover expands paths into the lintable files they contain, sorted and
// without duplicates. Explicitly named files are kept even when an exclude
// pattern matches them.
func (r *Runner) Discover(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", p, err)
		}
		if !info.IsDir() {
			if document.DetectKind(abs) != document.KindUnknown {
				add(abs)
			}
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path != abs && r.excluded(abs, path, d) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if document.DetectKind(path) != document.KindUnknown {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk %s: %w", p, err)
		}
	}

	if r.config.Only != nil {
		only := make(map[string]bool, len(r.config.Only))
		for _, p := range r.config.Only {
			if abs, err := filepath.Abs(p); err == nil {
				only[abs] = true
			}
		}
		kept := files[:0]
		for _, f := range files {
			if only[f] {
				kept = append(kept, f)
			}
		}
		files = kept
	}

	sort.Strings(files)
	return files, nil
}

func (r *Runner) excluded(root, path string, d fs.DirEntry) bool {
	if d.IsDir() && strings.HasPrefix(d.Name(), ".") {
		return true
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range r.config.Exclude {
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Run discovers and lints paths. Results are sorted by path. A file that
// could not be parsed still has a result, carrying the error.
func (r *Runner) Run(ctx context.Context, paths []string) ([]engine.Result, error) {
	files, err := r.Discover(paths)
	if err != nil {
		return nil, err
	}
	return r.LintFiles(ctx, files)
}

// LintFiles lints files on the worker pool.
func (r *Runner) LintFiles(ctx context.Context, files []string) ([]engine.Result, error) {
	start := time.Now()

	pool, err := ants.NewPool(r.config.Workers,
		ants.WithPanicHandler(func(p any) {
			r.logger.Error("worker panic recovered", "panic", p)
		}),
		ants.WithNonblocking(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	results := make([]engine.Result, len(files))
	var wg sync.WaitGroup

	for i, path := range files {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}

		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			results[i] = r.engine.LintFile(ctx, path)
			if r.config.OnResult != nil {
				r.config.OnResult(results[i])
			}
		})
		if err != nil {
			wg.Done()
			wg.Wait()
			return nil, fmt.Errorf("failed to submit %s: %w", path, err)
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// a panicking task leaves its slot empty
	for i := range results {
		if results[i].Path == "" {
			results[i] = engine.Result{Path: files[i], Err: fmt.Errorf("lint of %s aborted", files[i])}
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	r.logger.Info("batch lint complete",
		"files", len(files),
		"workers", r.config.Workers,
		"duration", time.Since(start),
	)
	return results, nil
}
