// File: pkg/combine/traversal.go
package combine

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"gptcopy/pkg/filter"

	"go.uber.org/zap"
)

// WalkResult is the outcome of a walk.
type WalkResult struct {
	Files    []FileEntry   // Selected files in path order
	Excluded []ExcludedDir // Directories pruned by user exclude rules
}

// Walker visits the tree below Root with an explicit stack of directories.
// Directory symlinks are never followed; file symlinks are read through.
type Walker struct {
	Root         string
	Engine       *filter.Engine
	CompressSize int // Entry names kept for an ExcludedDir
	Logger       *zap.Logger
}

// Walk collects the selected files. It stops with ctx.Err() when ctx is
// cancelled; unreadable directories and broken symlinks are logged and skipped.
func (w Walker) Walk(ctx context.Context) (WalkResult, error) {
	var result WalkResult
	logger := w.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("Starting file traversal", zap.String("root", w.Root))

	stack := []string{""}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return WalkResult{}, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		absDir := filepath.Join(w.Root, filepath.FromSlash(dir))
		entries, err := os.ReadDir(absDir)
		if err != nil {
			logger.Warn("Cannot read directory", zap.String("path", dir), zap.Error(err))
			continue
		}
		// Reverse order keeps the stack popping in lexical order.
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() > entries[j].Name() })

		for _, entry := range entries {
			rel := path.Join(dir, entry.Name())
			abs := filepath.Join(absDir, entry.Name())

			info, isDir, ok := w.describe(entry, abs, rel, logger)
			if !ok {
				continue
			}

			d := w.Engine.Decide(rel, isDir)
			if isDir {
				if w.Engine.Descend(d) {
					stack = append(stack, rel)
					continue
				}
				if d.ByUser() {
					result.Excluded = append(result.Excluded, w.compress(abs, rel, logger))
				}
				logger.Debug("Skipping excluded directory", zap.String("path", rel), zap.Stringer("source", d.Source))
				continue
			}
			if !d.Included {
				logger.Debug("Skipping excluded file", zap.String("path", rel), zap.Stringer("source", d.Source))
				continue
			}
			result.Files = append(result.Files, FileEntry{Rel: rel, Abs: abs, Size: info.Size()})
		}
	}

	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Rel < result.Files[j].Rel })
	sort.Slice(result.Excluded, func(i, j int) bool { return result.Excluded[i].Rel < result.Excluded[j].Rel })
	logger.Debug("Completed file traversal",
		zap.Int("files", len(result.Files)),
		zap.Int("excludedDirs", len(result.Excluded)))
	return result, nil
}

// describe resolves an entry to regular-file or directory. Symlinks to
// directories, broken symlinks and special files report ok=false.
func (w Walker) describe(entry fs.DirEntry, abs, rel string, logger *zap.Logger) (fs.FileInfo, bool, bool) {
	if entry.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(abs)
		if err != nil {
			logger.Warn("Skipping broken symlink", zap.String("path", rel), zap.Error(err))
			return nil, false, false
		}
		if info.IsDir() {
			logger.Debug("Not following directory symlink", zap.String("path", rel))
			return nil, false, false
		}
		return info, false, info.Mode().IsRegular()
	}
	if entry.IsDir() {
		return nil, true, true
	}
	if !entry.Type().IsRegular() {
		return nil, false, false
	}
	info, err := entry.Info()
	if err != nil {
		logger.Warn("Failed to get file info", zap.String("path", rel), zap.Error(err))
		return nil, false, false
	}
	return info, false, true
}

// compress lists the first entries of a pruned directory for the tree.
func (w Walker) compress(abs, rel string, logger *zap.Logger) ExcludedDir {
	ed := ExcludedDir{Rel: rel}
	entries, err := os.ReadDir(abs)
	if err != nil {
		logger.Debug("Cannot list excluded directory", zap.String("path", rel), zap.Error(err))
		return ed
	}
	limit := w.CompressSize
	if limit <= 0 {
		limit = DefaultTreeCompressItems
	}
	for i, e := range entries {
		if i == limit {
			ed.More = true
			break
		}
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		ed.Entries = append(ed.Entries, name)
	}
	return ed
}
