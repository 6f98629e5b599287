package cmd

import (
	"context"

	"gptcopy/pkg/config"
	"gptcopy/pkg/filter"
	"gptcopy/pkg/tokens"
	"gptcopy/pkg/version"

	"github.com/spf13/cobra"
)

// rootOptions collects the flag values of one invocation.
type rootOptions struct {
	output     string
	rules      []filter.RuleArg
	force      bool
	noNumber   bool
	treeOnly   bool
	tokens     bool
	topN       int
	configPath string
	debug      bool
	progress   bool

	counter tokens.Counter // Overrides the tokenizer in tests
}

// NewRootCmd builds the gptcopy command.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootOptions{})
}

func newRootCmd(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gptcopy [ROOT]",
		Short: "Combine a source tree into one Markdown document",
		Long: `gptcopy walks ROOT (default: the current directory), selects files using
.gitignore rules, git tracking and ordered --include/--exclude patterns, and
writes a Markdown document with the folder structure and the file contents,
ready to paste into a language model prompt.

Patterns are evaluated in command-line order and the last match wins.`,
		Example: `  gptcopy . -o context.md
  gptcopy src -e 'tests/*' -i 'tests/deep/**'
  gptcopy --exclude-dir node_modules --tokens --top-n 10`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, args)
		},
	}
	rootCmd.SetVersionTemplate(version.Get().Short() + "\n")

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", "", "Write the document to this file instead of standard output")
	registerRuleFlag(flags, &opts.rules, filter.Include, "include", "i", "Include paths matching the glob pattern (repeatable)")
	registerRuleFlag(flags, &opts.rules, filter.Exclude, "exclude", "e", "Exclude paths matching the glob pattern (repeatable)")
	registerRuleFlag(flags, &opts.rules, filter.ExcludeDir, "exclude-dir", "", "Exclude directories with this name (same as --exclude 'NAME/')")
	flags.BoolVarP(&opts.force, "force", "f", false, "Ignore .gitignore rules and git tracking")
	flags.BoolVar(&opts.noNumber, "no-number", false, "Do not prefix file content lines with line numbers")
	flags.BoolVar(&opts.tokens, "tokens", false, "Report token counts in the tree instead of writing file contents")
	flags.IntVar(&opts.topN, "top-n", 0, "With --tokens, list only the N files with the most tokens")
	flags.BoolVar(&opts.treeOnly, "tree-only", false, "Write only the folder structure")
	flags.BoolVar(&opts.progress, "progress", true, "Show a spinner on an interactive terminal while files are read")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default: .gptcopy.yaml in ROOT, then $HOME)")

	// Keys also settable from the config file and GPTCOPY_* variables.
	d := config.DefaultSettings
	flags.Int(config.KeyWorkers, d.Workers, "Concurrent file readers (0 uses the number of CPUs)")
	flags.String(config.KeyModel, d.Model, "Tokenizer model for --tokens")
	flags.Int(config.KeyMaxFileSizeKB, d.MaxFileSizeKB, "Omit contents of files larger than this many KB (0 = unlimited)")
	flags.Int(config.KeyTreeCompressItems, d.TreeCompressItems, "Entries listed under an excluded directory in the tree")
	flags.String(config.KeyGlobalIgnore, d.GlobalIgnore, "Extra ignore file applied at ROOT")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}
