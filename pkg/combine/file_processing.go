package combine

import (
	"fmt"
	"os"

	"gptcopy/pkg/tokens"

	"go.uber.org/zap"
)

// readOptions controls how a single file is read.
type readOptions struct {
	maxFileSizeKB int
	counter       tokens.Counter // nil skips token counting
}

// ProcessSingleFile reads one selected file. Failures are per-file: the
// returned FileContent carries a Skipped reason and the error is logged,
// never returned.
func ProcessSingleFile(entry FileEntry, opts readOptions, logger *zap.Logger) FileContent {
	fc := FileContent{Path: entry.Rel}

	if isCommonBinaryExtension(entry.Rel) {
		fc.Skipped = "binary file"
		logger.Warn("Skipping binary file", zap.String("path", entry.Rel))
		return fc
	}
	if opts.maxFileSizeKB > 0 && entry.Size > int64(opts.maxFileSizeKB)*1024 {
		fc.Skipped = fmt.Sprintf("larger than %d KB", opts.maxFileSizeKB)
		logger.Warn("Skipping file due to size limit",
			zap.String("path", entry.Rel),
			zap.Int64("sizeBytes", entry.Size),
			zap.Int("maxSizeKB", opts.maxFileSizeKB))
		return fc
	}

	fileBytes, err := os.ReadFile(entry.Abs)
	if err != nil {
		fc.Skipped = "unreadable"
		logger.Warn("Failed to read file", zap.String("path", entry.Rel), zap.Error(err))
		return fc
	}
	if isBinaryContent(fileBytes) {
		fc.Skipped = "binary file"
		logger.Warn("Skipping binary file", zap.String("path", entry.Rel))
		return fc
	}
	fc.Content = string(fileBytes)

	if opts.counter != nil {
		n, err := opts.counter.CountString(fc.Content)
		if err != nil {
			logger.Warn("Token count unavailable", zap.String("path", entry.Rel), zap.Error(err))
		} else {
			fc.Tokens, fc.Counted = n, true
		}
	}

	logger.Debug("Read file",
		zap.String("path", entry.Rel),
		zap.Int("contentSizeBytes", len(fileBytes)))
	return fc
}
