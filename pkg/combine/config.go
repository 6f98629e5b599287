// File: pkg/combine/config.go
package combine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gptcopy/pkg/filter"
	"gptcopy/pkg/pattern"
)

// ConfigError reports a problem with the invocation itself: a bad root path
// or a malformed pattern. It is returned before any file is read.
type ConfigError struct {
	Op  string // What was being validated
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// resolved is the validated form of Arguments.
type resolved struct {
	root   string // Absolute root
	output string // Absolute output path, empty for the primary writer
	rules  []filter.Rule
}

// validate checks the root and compiles the rules.
func validate(args *Arguments) (resolved, error) {
	var r resolved
	if args.Root == "" {
		args.Root = "."
	}
	root, err := filepath.Abs(args.Root)
	if err != nil {
		return r, &ConfigError{Op: "resolve root", Err: err}
	}
	info, err := os.Stat(root)
	if err != nil {
		return r, &ConfigError{Op: "root directory", Err: err}
	}
	if !info.IsDir() {
		return r, &ConfigError{Op: "root directory", Err: fmt.Errorf("%s is not a directory", root)}
	}
	r.root = root

	rules, err := filter.CompileRules(args.Rules)
	if err != nil {
		return r, &ConfigError{Op: "pattern", Err: err}
	}
	r.rules = rules

	if args.Output != "" {
		out, err := filepath.Abs(args.Output)
		if err != nil {
			return r, &ConfigError{Op: "resolve output", Err: err}
		}
		r.output = out
	}
	if args.TreeCompressItems <= 0 {
		args.TreeCompressItems = DefaultTreeCompressItems
	}
	return r, nil
}

// outputRel returns the output path relative to root when it lies inside it.
func (r resolved) outputRel() string {
	if r.output == "" {
		return ""
	}
	rel, err := filepath.Rel(r.root, r.output)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return pattern.Normalize(rel)
}
