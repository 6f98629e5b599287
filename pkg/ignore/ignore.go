// Package ignore collects per-directory ignore files and answers, for any
// path below the scan root, whether those rules exclude it.
package ignore

import (
	"bufio"
	"bytes"
	"os"
	"path"
	"strings"

	"gptcopy/pkg/pattern"

	"go.uber.org/zap"
)

// DefaultFileName is the ignore file looked up in every directory.
const DefaultFileName = ".gitignore"

// IgnorePattern pairs a compiled pattern with metadata about its origin.
type IgnorePattern struct {
	Pattern *pattern.Pattern // Compiled pattern; Negate marks '!' lines.
	Line    string           // Original pattern line.
	LineNo  int              // Line number in the source (1-based).
	Source  string           // Ignore file path relative to the scan root.
}

// RuleSet is the ordered pattern list of one ignore file, scoped to the
// directory that contains it. Base is relative to the scan root ("" for the
// root itself).
type RuleSet struct {
	Base     string
	Patterns []*IgnorePattern
}

// NewRuleSet returns an empty rule set rooted at base.
func NewRuleSet(base string) *RuleSet {
	return &RuleSet{Base: pattern.Normalize(base)}
}

// CompileIgnoreLines compiles pattern lines and appends them to the set.
// Blank lines and comments are skipped; malformed lines are reported through
// logger and skipped.
func (rs *RuleSet) CompileIgnoreLines(source string, logger *zap.Logger, lines ...string) {
	if logger == nil {
		logger = zap.NewNop()
	}
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		p, err := pattern.Compile(trimmed)
		if err != nil {
			logger.Warn("Skipping malformed ignore pattern",
				zap.String("file", source),
				zap.Int("lineNo", i+1),
				zap.Error(err))
			continue
		}
		rs.Patterns = append(rs.Patterns, &IgnorePattern{
			Pattern: p,
			Line:    line,
			LineNo:  i + 1,
			Source:  source,
		})
	}
}

// CompileIgnoreFile reads an ignore file and appends its patterns.
func (rs *RuleSet) CompileIgnoreFile(fpath, source string, logger *zap.Logger) error {
	content, err := os.ReadFile(fpath)
	if err != nil {
		return err
	}
	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	rs.CompileIgnoreLines(source, logger, lines...)
	return nil
}

// MatchesPathWithPattern evaluates the set against rel (relative to the scan
// root) and returns the last matching pattern, if any. matched is true when
// that pattern ignores the path, false when it is a negation.
func (rs *RuleSet) MatchesPathWithPattern(rel string, isDir bool) (matched bool, last *IgnorePattern) {
	local, ok := relativeTo(rs.Base, rel)
	if !ok {
		return false, nil
	}
	for _, ip := range rs.Patterns {
		if ip.Pattern.Match(local, isDir) {
			last = ip
		}
	}
	if last == nil {
		return false, nil
	}
	return !last.Pattern.Negate, last
}

// relativeTo strips base from rel. It fails when rel is not strictly below base.
func relativeTo(base, rel string) (string, bool) {
	if base == "" {
		return rel, rel != ""
	}
	if !strings.HasPrefix(rel, base+"/") {
		return "", false
	}
	return rel[len(base)+1:], true
}

// parentDir returns the slash-separated parent of rel ("" for top-level entries).
func parentDir(rel string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
