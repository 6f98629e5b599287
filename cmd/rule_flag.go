package cmd

import (
	"fmt"
	"strings"

	"gptcopy/pkg/filter"

	"github.com/spf13/pflag"
)

// ruleFlagValue appends to a list shared by --include, --exclude and
// --exclude-dir. pflag calls Set in argument order, so the list keeps the
// interleaving the user typed.
type ruleFlagValue struct {
	target *[]filter.RuleArg
	kind   filter.RuleKind
}

func (value *ruleFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("no rule list for %s pattern %q", value.kind, input)
	}
	*value.target = append(*value.target, filter.RuleArg{Kind: value.kind, Value: input})
	return nil
}

// String lists the values given for this flag only.
func (value *ruleFlagValue) String() string {
	if value == nil || value.target == nil {
		return "[]"
	}
	var values []string
	for _, r := range *value.target {
		if r.Kind == value.kind {
			values = append(values, r.Value)
		}
	}
	return "[" + strings.Join(values, ",") + "]"
}

func (value *ruleFlagValue) Type() string {
	return "stringArray"
}

func registerRuleFlag(flagSet *pflag.FlagSet, target *[]filter.RuleArg, kind filter.RuleKind, name, shorthand, usage string) {
	flagSet.VarP(&ruleFlagValue{target: target, kind: kind}, name, shorthand, usage)
}
