// File: pkg/combine/worker.go
package combine

import (
	"context"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProcessFilesConcurrently reads files with at most maxWorkers goroutines.
// Each result lands in its input slot, so the output order matches files.
// onDone, when set, is called after each file from the reading goroutine.
func ProcessFilesConcurrently(ctx context.Context, files []FileEntry, maxWorkers int, opts readOptions, onDone func(FileContent), logger *zap.Logger) ([]FileContent, error) {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
		logger.Debug("Adjusted worker count", zap.Int("workers", maxWorkers))
	}

	results := make([]FileContent, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxWorkers)

	logger.Debug("Reading files", zap.Int("files", len(files)), zap.Int("workers", maxWorkers))
	for i, entry := range files {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = ProcessSingleFile(entry, opts, logger)
			if onDone != nil {
				onDone(results[i])
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("All files processed", zap.Int("processedFiles", len(results)))
	return results, nil
}
