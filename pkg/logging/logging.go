// Package logging builds the zap logger used by the command-line tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// New builds the CLI logger. Entries go to w (the diagnostic stream) with a
// console encoder; debug switches to the development config at Debug level.
func New(w io.Writer, debug bool) *zap.Logger {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = ""
		cfg.EncoderConfig.CallerKey = ""
		cfg.EncoderConfig.StacktraceKey = ""
	}
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg.EncoderConfig), zapcore.AddSync(w), cfg.Level)
	if debug {
		return zap.New(core, zap.AddCaller(), zap.Development())
	}
	return zap.New(core)
}

// Sync flushes logger when w is a terminal or a regular file. Syncing a pipe
// fails with "invalid argument" on some platforms; that error is ignored.
func Sync(logger *zap.Logger, w io.Writer) {
	f, ok := w.(*os.File)
	if !ok || !(term.IsTerminal(int(f.Fd())) || isRegularFile(f)) {
		return
	}
	if err := logger.Sync(); err != nil {
		if !strings.Contains(strings.ToLower(err.Error()), "invalid argument") {
			fmt.Fprintf(f, "Logger sync failed: %v\n", err)
		}
	}
}

// isRegularFile checks if the given file is a regular file.
func isRegularFile(f *os.File) bool {
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return fileInfo.Mode().IsRegular()
}
