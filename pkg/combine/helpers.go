// File: pkg/combine/helpers.go
package combine

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// WriteDocument writes the Markdown document: the fenced tree followed by
// one section per rendered file. Skipped files are listed at the end.
func WriteDocument(w io.Writer, tree string, contents []FileContent, numbered bool) error {
	writer := bufio.NewWriter(w)

	writer.WriteString("# Folder Structure\n\n```\n")
	writer.WriteString(tree)
	writer.WriteString("```\n\n# File Contents\n")

	var skipped []FileContent
	for _, fc := range contents {
		if fc.Skipped != "" {
			skipped = append(skipped, fc)
			continue
		}
		body := fc.Content
		if numbered {
			body = numberLines(body)
		} else if body != "" && !strings.HasSuffix(body, "\n") {
			body += "\n"
		}
		fence := fenceFor(body)
		fmt.Fprintf(writer, "\n## File: `%s`\n\n%s%s\n%s%s\n", fc.Path, fence, languageFor(fc.Path), body, fence)
	}

	if len(skipped) > 0 {
		writer.WriteString("\n# Skipped Files\n\n")
		for _, fc := range skipped {
			fmt.Fprintf(writer, "- `%s` (%s)\n", fc.Path, fc.Skipped)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to write content: %w", err)
	}
	return nil
}

// numberLines prefixes each line with its zero-padded number. The width is
// the digit count of the file's line count.
func numberLines(content string) string {
	if content == "" {
		return ""
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	width := len(strconv.Itoa(len(lines)))

	var b strings.Builder
	b.Grow(len(content) + len(lines)*(width+2))
	for i, line := range lines {
		fmt.Fprintf(&b, "%0*d: %s\n", width, i+1, line)
	}
	return b.String()
}

// fenceFor returns a backtick fence longer than any backtick run in body.
func fenceFor(body string) string {
	longest, run := 0, 0
	for i := 0; i < len(body); i++ {
		if body[i] == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// WriteCombinedFile renders into a temporary file next to outputPath and
// renames it into place, so an interrupted run never leaves a partial file.
func WriteCombinedFile(outputPath string, render func(io.Writer) error, logger *zap.Logger) error {
	logger.Debug("Writing combined content to output file", zap.String("combinedFile", outputPath))

	dir := filepath.Dir(outputPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(outputPath)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		if rmErr := os.Remove(tmpName); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Warn("Failed to remove temporary output", zap.String("path", tmpName), zap.Error(rmErr))
		}
	}

	if err := tmp.Chmod(0o644); err != nil {
		logger.Debug("Failed to set output permissions", zap.String("path", tmpName), zap.Error(err))
	}
	if err := render(tmp); err != nil {
		tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Rename(tmpName, outputPath); err != nil {
		cleanup()
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	return nil
}
