// File: pkg/ignore/collector.go
package ignore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// builtinSource labels patterns that do not come from a file.
const builtinSource = "<builtin>"

// builtinPatterns are applied at the scan root before any ignore file.
var builtinPatterns = []string{".git/"}

// Context maps each directory to the rule sets in effect for its entries.
// The zero value and Disabled() never ignore anything.
type Context struct {
	sets     map[string]*RuleSet // keyed by directory relative to root
	disabled bool
}

// Disabled returns a context that ignores nothing. Used in force mode.
func Disabled() *Context {
	return &Context{disabled: true}
}

// NewContext builds a context from explicit rule sets, keyed by their Base.
// Sets sharing a Base are merged in argument order.
func NewContext(sets ...*RuleSet) *Context {
	c := &Context{sets: make(map[string]*RuleSet, len(sets))}
	for _, rs := range sets {
		c.add(rs)
	}
	return c
}

func (c *Context) add(rs *RuleSet) {
	if rs == nil || len(rs.Patterns) == 0 {
		return
	}
	if existing, ok := c.sets[rs.Base]; ok {
		existing.Patterns = append(existing.Patterns, rs.Patterns...)
		return
	}
	c.sets[rs.Base] = rs
}

// Chain returns the rule sets that apply to entries directly under dir,
// ordered from the root down to dir itself.
func (c *Context) Chain(dir string) []*RuleSet {
	if c == nil || c.disabled || len(c.sets) == 0 {
		return nil
	}
	var chain []*RuleSet
	if rs, ok := c.sets[""]; ok {
		chain = append(chain, rs)
	}
	if dir == "" {
		return chain
	}
	parts := strings.Split(dir, "/")
	for i := range parts {
		if rs, ok := c.sets[strings.Join(parts[:i+1], "/")]; ok {
			chain = append(chain, rs)
		}
	}
	return chain
}

// MatchesPath reports whether rel is ignored.
func (c *Context) MatchesPath(rel string, isDir bool) bool {
	matched, _ := c.MatchesPathWithPattern(rel, isDir)
	return matched
}

// MatchesPathWithPattern applies the cumulative chain for rel's parent
// directory. The last matching pattern across the chain decides, so deeper
// ignore files override their ancestors.
func (c *Context) MatchesPathWithPattern(rel string, isDir bool) (bool, *IgnorePattern) {
	if rel == "" {
		return false, nil
	}
	var (
		matched bool
		last    *IgnorePattern
	)
	for _, rs := range c.Chain(parentDir(rel)) {
		m, ip := rs.MatchesPathWithPattern(rel, isDir)
		if ip != nil {
			matched, last = m, ip
		}
	}
	return matched, last
}

// Len reports the number of loaded patterns.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, rs := range c.sets {
		n += len(rs.Patterns)
	}
	return n
}

// Collector discovers ignore files below a scan root.
type Collector struct {
	FileName   string // Ignore file name; DefaultFileName when empty.
	GlobalFile string // Optional ignore file applied at the root before any discovered file.
	Logger     *zap.Logger
}

// Collect walks root and loads every ignore file it can reach. Directories
// already ignored by an ancestor's rules are not descended into. Unreadable
// ignore files and directories are logged and skipped.
func (col Collector) Collect(ctx context.Context, root string) (*Context, error) {
	logger := col.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	name := col.FileName
	if name == "" {
		name = DefaultFileName
	}

	c := NewContext()
	builtin := NewRuleSet("")
	builtin.CompileIgnoreLines(builtinSource, logger, builtinPatterns...)
	c.add(builtin)
	if col.GlobalFile != "" {
		global := NewRuleSet("")
		if err := global.CompileIgnoreFile(col.GlobalFile, col.GlobalFile, logger); err != nil {
			logger.Warn("Skipping unreadable global ignore file", zap.String("file", col.GlobalFile), zap.Error(err))
		} else {
			c.sets[""].Patterns = append(c.sets[""].Patterns, global.Patterns...)
		}
	}

	stack := []string{""}
	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		absDir := filepath.Join(root, filepath.FromSlash(dir))

		source := path.Join(dir, name)
		rs := NewRuleSet(dir)
		err := rs.CompileIgnoreFile(filepath.Join(absDir, name), source, logger)
		switch {
		case err == nil:
			logger.Debug("Loaded ignore file", zap.String("file", source), zap.Int("patterns", len(rs.Patterns)))
			if dir == "" {
				// Merge into the builtin root set so order stays builtin-first.
				c.sets[""].Patterns = append(c.sets[""].Patterns, rs.Patterns...)
			} else {
				c.add(rs)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			logger.Warn("Skipping unreadable ignore file", zap.String("file", source), zap.Error(err))
		}

		entries, err := os.ReadDir(absDir)
		if err != nil {
			logger.Warn("Cannot read directory while collecting ignore files", zap.String("directory", absDir), zap.Error(err))
			continue
		}
		// Reverse order keeps the stack popping in lexical order.
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() > entries[j].Name() })
		for _, entry := range entries {
			if !entry.IsDir() {
				continue // symlinks to directories report false here and are never followed
			}
			child := path.Join(dir, entry.Name())
			if c.MatchesPath(child, true) {
				continue
			}
			stack = append(stack, child)
		}
	}
	return c, nil
}
