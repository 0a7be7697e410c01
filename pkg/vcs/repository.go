// Package vcs reads the git worktree around the linted modules so batch runs
// can be restricted to files a change touches.
package vcs

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when no git repository encloses the path.
var ErrNotRepository = errors.New("not inside a git repository")

// CommitInfo contains metadata about a commit.
type CommitInfo struct {
	SHA       string    `json:"sha"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Repository is an opened local git repository.
type Repository struct {
	root string
	repo *gogit.Repository
	mu   sync.RWMutex
}

// Open opens the repository enclosing path, searching parent directories
// for the .git directory.
func Open(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return nil, fmt.Errorf("%s: %w", path, ErrNotRepository)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	return &Repository{
		root: worktree.Filesystem.Root(),
		repo: repo,
	}, nil
}

// Root returns the worktree root directory.
func (r *Repository) Root() string {
	return r.root
}

// ChangedFiles returns the absolute paths of files that are modified,
// added, renamed or untracked in the worktree, sorted. Deleted files are
// omitted since there is nothing to lint.
func (r *Repository) ChangedFiles() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	worktree, err := r.repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}

	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree status: %w", err)
	}

	var files []string
	for name, st := range status {
		if st.Worktree == gogit.Deleted || st.Staging == gogit.Deleted {
			continue
		}
		if st.Worktree == gogit.Unmodified && st.Staging == gogit.Unmodified {
			continue
		}
		files = append(files, filepath.Join(r.root, filepath.FromSlash(name)))
	}
	sort.Strings(files)
	return files, nil
}

// ChangedSince returns the absolute paths of files that differ between the
// commit rev resolves to and HEAD, sorted. Deleted files are omitted.
func (r *Repository) ChangedSince(rev string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fromHash, err := r.repo.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", rev, err)
	}
	fromCommit, err := r.repo.CommitObject(*fromHash)
	if err != nil {
		return nil, fmt.Errorf("failed to get from commit: %w", err)
	}

	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}
	toCommit, err := r.repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD commit: %w", err)
	}

	fromTree, err := fromCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get from tree: %w", err)
	}
	toTree, err := toCommit.Tree()
	if err != nil {
		return nil, fmt.Errorf("failed to get to tree: %w", err)
	}

	changes, err := fromTree.Diff(toTree)
	if err != nil {
		return nil, fmt.Errorf("failed to diff trees: %w", err)
	}

	var files []string
	for _, change := range changes {
		if change.To.Name == "" {
			continue
		}
		files = append(files, filepath.Join(r.root, filepath.FromSlash(change.To.Name)))
	}
	sort.Strings(files)
	return files, nil
}

// HeadCommit returns metadata about the HEAD commit.
func (r *Repository) HeadCommit() (*CommitInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	return &CommitInfo{
		SHA:       commit.Hash.String(),
		Author:    commit.Author.Name,
		Email:     commit.Author.Email,
		Timestamp: commit.Author.When,
		Message:   commit.Message,
	}, nil
}
