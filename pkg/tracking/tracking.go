// Package tracking answers whether a path is tracked by version control.
// The filter engine only sees the Tracker interface; git is an
// implementation detail of Detect.
package tracking

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// Tracker reports whether rel (relative to the scan root, forward slashes)
// is under version control. A directory is tracked when any tracked file
// lies beneath it.
type Tracker interface {
	Tracked(rel string, isDir bool) bool
}

// Nop tracks everything. It is used when no repository is present.
type Nop struct{}

// Tracked always returns true.
func (Nop) Tracked(string, bool) bool { return true }

// Set is a Tracker backed by an explicit list of tracked files.
type Set struct {
	files map[string]struct{}
	dirs  map[string]struct{}
}

// NewSet builds a Set from slash-separated file paths.
func NewSet(files []string) *Set {
	s := &Set{
		files: make(map[string]struct{}, len(files)),
		dirs:  make(map[string]struct{}),
	}
	for _, f := range files {
		f = strings.TrimSuffix(strings.TrimSpace(f), "/")
		if f == "" {
			continue
		}
		s.files[f] = struct{}{}
		for i := strings.LastIndexByte(f, '/'); i > 0; i = strings.LastIndexByte(f[:i], '/') {
			s.dirs[f[:i]] = struct{}{}
		}
	}
	return s
}

// Tracked implements Tracker.
func (s *Set) Tracked(rel string, isDir bool) bool {
	if rel == "" {
		return true
	}
	if isDir {
		_, ok := s.dirs[rel]
		return ok
	}
	_, ok := s.files[rel]
	return ok
}

// Len reports the number of tracked files.
func (s *Set) Len() int { return len(s.files) }

// Detect returns a git-backed Set when root is inside a git work tree and
// Nop otherwise (including when git is not installed).
func Detect(ctx context.Context, root string, logger *zap.Logger) Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := NewGitOperations(root)
	if err := g.CheckGitRepo(ctx); err != nil {
		logger.Debug("No git work tree; tracked-file filtering disabled", zap.String("root", root), zap.Error(err))
		return Nop{}
	}
	files, err := g.ListTrackedFiles(ctx)
	if err != nil {
		logger.Warn("Failed to list tracked files; tracked-file filtering disabled", zap.String("root", root), zap.Error(err))
		return Nop{}
	}
	logger.Debug("Loaded tracked files", zap.Int("count", len(files)))
	return NewSet(files)
}

// GitOperations runs the git commands tracking needs.
type GitOperations struct {
	workingDir string
}

// NewGitOperations creates a GitOperations rooted at workingDir.
func NewGitOperations(workingDir string) *GitOperations {
	return &GitOperations{workingDir: workingDir}
}

// CheckGitRepo fails when workingDir is not inside a git work tree.
func (g *GitOperations) CheckGitRepo(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = g.workingDir
	out, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("not a git repository: %w", err)
	}
	if strings.TrimSpace(string(out)) != "true" {
		return fmt.Errorf("not inside a git work tree")
	}
	return nil
}

// ListTrackedFiles returns index entries below workingDir, relative to it.
func (g *GitOperations) ListTrackedFiles(ctx context.Context) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "ls-files", "-z", "--cached")
	cmd.Dir = g.workingDir
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked files: %w", err)
	}
	var files []string
	for _, raw := range bytes.Split(out, []byte{0}) {
		if len(raw) > 0 {
			files = append(files, string(raw))
		}
	}
	return files, nil
}
