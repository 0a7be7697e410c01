package resolve

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mercator-hq/modlint/pkg/lint/document"
	"mercator-hq/modlint/pkg/lint/manifest"
)

// MaxManifestDepth is the number of directories examined when looking for the
// enclosing module: the starting directory and its ancestors, ten in total.
const MaxManifestDepth = 10

// AccessTablePath is the access-control table location relative to a module root.
var AccessTablePath = filepath.Join("security", "ir.model.access.csv")

// ErrNotFound is returned when a looked-up resource does not exist. Other
// failures (permissions, parse errors) are returned as distinct errors.
var ErrNotFound = errors.New("not found")

// Manifest is the module descriptor enclosing a document.
type Manifest struct {
	Root  string // module root directory
	Path  string // descriptor file
	Table *manifest.Table
}

// Resolver answers the cross-file questions rules ask. Every call reads the
// filesystem again; nothing is cached between or within passes.
type Resolver struct {
	parser *document.Parser
}

// NewResolver creates a resolver that parses descriptors and initializers
// with p.
func NewResolver(p *document.Parser) *Resolver {
	return &Resolver{parser: p}
}

// SiblingSourceFiles lists the Python files of dir by base name without
// extension, excluding the package initializer, sorted. An unreadable
// directory yields an empty result.
func (r *Resolver) SiblingSourceFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return []string{}
	}

	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".py" || name == document.InitFile {
			continue
		}
		out = append(out, strings.TrimSuffix(name, ".py"))
	}
	sort.Strings(out)
	return out
}

// IsPackage reports whether dir/name is a Python package directory.
func (r *Resolver) IsPackage(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name, document.InitFile))
	return err == nil && !info.IsDir()
}

// PackageInitializer parses dir/__init__.py.
func (r *Resolver) PackageInitializer(ctx context.Context, dir string) (*document.Document, error) {
	path := filepath.Join(dir, document.InitFile)
	if err := checkFile(path); err != nil {
		return nil, err
	}
	doc, err := r.parser.ParseFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("package initializer %s: %w", path, err)
	}
	return doc, nil
}

// NearestManifest walks from the directory of path towards the filesystem
// root, examining at most MaxManifestDepth directories, and returns the first
// module descriptor found.
func (r *Resolver) NearestManifest(ctx context.Context, path string) (*Manifest, error) {
	descriptor, err := FindManifest(path)
	if err != nil {
		return nil, err
	}

	doc, err := r.parser.ParseFile(ctx, descriptor)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", descriptor, err)
	}
	table, ok := manifest.FromDocument(doc)
	if !ok {
		return nil, fmt.Errorf("manifest %s: %w", descriptor, document.ErrNoManifestDict)
	}

	return &Manifest{
		Root:  filepath.Dir(descriptor),
		Path:  descriptor,
		Table: table,
	}, nil
}

// FindManifest locates the descriptor file enclosing path without parsing
// it. path may be a file or a directory.
func FindManifest(path string) (string, error) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}

	for i := 0; i < MaxManifestDepth; i++ {
		for _, name := range document.ManifestFiles {
			candidate := filepath.Join(dir, name)
			err := checkFile(candidate)
			if err == nil {
				return candidate, nil
			}
			if !errors.Is(err, ErrNotFound) {
				return "", err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("manifest for %s: %w", path, ErrNotFound)
}

// AccessTable reads the access-control table of the module rooted at
// moduleRoot.
func (r *Resolver) AccessTable(moduleRoot string) (*AccessTable, error) {
	path := filepath.Join(moduleRoot, AccessTablePath)
	if err := checkFile(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open access table: %w", err)
	}
	defer f.Close()

	table, err := ReadAccessTable(f)
	if err != nil {
		return nil, fmt.Errorf("read access table %s: %w", path, err)
	}
	table.Path = path
	return table, nil
}

// checkFile maps a missing regular file to ErrNotFound.
func checkFile(path string) error {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%s: %w", path, ErrNotFound)
	case err != nil:
		return fmt.Errorf("stat %s: %w", path, err)
	case info.IsDir():
		return fmt.Errorf("%s is a directory: %w", path, ErrNotFound)
	}
	return nil
}
