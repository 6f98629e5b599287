package filter

import (
	"fmt"
	"strings"

	"gptcopy/pkg/pattern"
)

// RuleKind tags a user rule.
type RuleKind int

const (
	Include RuleKind = iota
	Exclude
	// ExcludeDir is sugar for Exclude with a trailing slash. It only exists
	// on RuleArg; compiled rules carry Exclude.
	ExcludeDir
)

func (k RuleKind) String() string {
	switch k {
	case Include:
		return "include"
	case Exclude:
		return "exclude"
	case ExcludeDir:
		return "exclude-dir"
	default:
		return "unknown"
	}
}

// RuleArg is one user-supplied pattern in command-line order.
type RuleArg struct {
	Kind  RuleKind
	Value string
}

// Rule is a compiled user rule. Index is its position in the merged ordered
// list; higher indexes win.
type Rule struct {
	Kind    RuleKind
	Pattern *pattern.Pattern
	Index   int
}

// Flag renders the rule the way it would be written on the command line.
func (r Rule) Flag() string {
	name := "--include"
	if r.Kind == Exclude {
		name = "--exclude"
	}
	return fmt.Sprintf("%s '%s'", name, r.Pattern.Raw)
}

// CompileRules compiles args in order. The first malformed pattern aborts
// with a *pattern.PatternError.
func CompileRules(args []RuleArg) ([]Rule, error) {
	rules := make([]Rule, 0, len(args))
	for _, arg := range args {
		kind, raw := arg.Kind, arg.Value
		if kind == ExcludeDir {
			name := strings.Trim(pattern.Normalize(raw), "/")
			if name == "" {
				return nil, &pattern.PatternError{Pattern: raw, Reason: "empty directory name"}
			}
			kind, raw = Exclude, name+"/"
		}
		p, err := pattern.Compile(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, Rule{Kind: kind, Pattern: p, Index: len(rules)})
	}
	return rules, nil
}
