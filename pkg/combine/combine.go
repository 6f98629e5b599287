package combine

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gptcopy/pkg/filter"
	"gptcopy/pkg/ignore"
	"gptcopy/pkg/tokens"
	"gptcopy/pkg/tracking"

	"go.uber.org/zap"
)

// Streams are the writers of one run. Out receives the document when no
// output file is set; Diag is the diagnostic terminal used for progress.
type Streams struct {
	Out  io.Writer
	Diag io.Writer
}

// RunCombine orchestrates one run: it validates the arguments, builds the
// selection engine, walks the root, reads the selected files and renders
// the result. A *ConfigError is returned before any file is read; per-file
// problems are logged and never fail the run.
func RunCombine(ctx context.Context, args *Arguments, streams Streams, logger *zap.Logger) (Summary, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if streams.Out == nil {
		streams.Out = os.Stdout
	}
	if streams.Diag == nil {
		streams.Diag = os.Stderr
	}
	startTime := time.Now()

	r, err := validate(args)
	if err != nil {
		return Summary{}, err
	}
	logger.Debug("Starting combination process", zap.String("directory", r.root), zap.Bool("force", args.Force))

	engine, err := newEngine(ctx, args, r, logger)
	if err != nil {
		return Summary{}, err
	}

	walk, err := Walker{
		Root:         r.root,
		Engine:       engine,
		CompressSize: args.TreeCompressItems,
		Logger:       logger,
	}.Walk(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to collect files: %w", err)
	}
	warnUnmatched(engine, logger)

	contents, err := readContents(ctx, args, walk.Files, streams.Diag, logger)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to process files: %w", err)
	}

	view := buildView(filepath.Base(r.root), args, walk, contents)
	render := func(w io.Writer) error { return view.write(w) }
	if r.output == "" {
		err = render(streams.Out)
	} else {
		err = WriteCombinedFile(r.output, render, logger)
	}
	if err != nil {
		return Summary{}, fmt.Errorf("failed to write output: %w", err)
	}

	summary := view.summary()
	logger.Debug("Combination process completed",
		zap.Int("selected", summary.Selected),
		zap.Int("written", summary.Written),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("elapsed", time.Since(startTime)))
	return summary, nil
}

// newEngine wires ignore files and version-control tracking into the
// filter. Force mode reads neither.
func newEngine(ctx context.Context, args *Arguments, r resolved, logger *zap.Logger) (*filter.Engine, error) {
	opts := filter.Options{Rules: r.rules, Force: args.Force, Output: r.outputRel()}
	if !args.Force {
		ic, err := ignore.Collector{GlobalFile: args.GlobalIgnore, Logger: logger}.Collect(ctx, r.root)
		if err != nil {
			return nil, fmt.Errorf("failed to load ignore files: %w", err)
		}
		opts.Ignore = ic
		opts.Tracker = tracking.Detect(ctx, r.root, logger)
		logger.Debug("Loaded ignore patterns", zap.Int("totalPatterns", ic.Len()))
	}
	return filter.New(opts), nil
}

// warnUnmatched reports user rules that selected or excluded nothing.
func warnUnmatched(engine *filter.Engine, logger *zap.Logger) {
	unmatched := engine.Unmatched()
	if len(unmatched) == 0 {
		return
	}
	flags := make([]string, len(unmatched))
	for i, r := range unmatched {
		flags[i] = r.Flag()
	}
	logger.Warn("Patterns did not match any path", zap.Strings("patterns", flags))
}

// readContents reads the selected files when the output needs them.
func readContents(ctx context.Context, args *Arguments, files []FileEntry, diag io.Writer, logger *zap.Logger) ([]FileContent, error) {
	if args.TreeOnly && !args.Tokens {
		contents := make([]FileContent, len(files))
		for i, f := range files {
			contents[i] = FileContent{Path: f.Rel}
		}
		return contents, nil
	}

	opts := readOptions{maxFileSizeKB: args.MaxFileSizeKB}
	if args.Tokens {
		opts.counter = args.Counter
		if opts.counter == nil {
			counter, err := tokens.NewCounter(args.Model)
			if err != nil {
				logger.Warn("Tokenizer unavailable; token counts will be missing", zap.Error(err))
			} else {
				opts.counter = counter
			}
		}
	}

	prog := startProgress(args.Progress, diag, len(files))
	defer prog.stop()
	return ProcessFilesConcurrently(ctx, files, args.MaxWorkers, opts, prog.step, logger)
}
