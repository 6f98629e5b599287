package cmd

import (
	"os"

	"gptcopy/pkg/combine"
	"gptcopy/pkg/config"
	"gptcopy/pkg/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// run resolves the configuration and starts the combine process. Warnings
// go to the command's error stream so standard output stays a clean document.
func (o *rootOptions) run(cmd *cobra.Command, args []string) error {
	logger := logging.New(cmd.ErrOrStderr(), o.debug)
	defer logging.Sync(logger, cmd.ErrOrStderr())

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	searchDirs := []string{root}
	if home, err := os.UserHomeDir(); err == nil {
		searchDirs = append(searchDirs, home)
	}
	settings, used, err := config.Load(config.Options{
		ExplicitPath: o.configPath,
		SearchDirs:   searchDirs,
		Flags:        cmd.Flags(),
	})
	if err != nil {
		return err
	}
	if used != "" {
		logger.Debug("Loaded configuration", zap.String("file", used))
	}

	summary, err := combine.RunCombine(cmd.Context(), &combine.Arguments{
		Root:              root,
		Output:            o.output,
		Rules:             o.rules,
		Force:             o.force,
		NoNumber:          o.noNumber,
		TreeOnly:          o.treeOnly,
		Tokens:            o.tokens,
		TopN:              o.topN,
		Model:             settings.Model,
		MaxFileSizeKB:     settings.MaxFileSizeKB,
		MaxWorkers:        settings.Workers,
		TreeCompressItems: settings.TreeCompressItems,
		GlobalIgnore:      settings.GlobalIgnore,
		Progress:          o.progress,
		Counter:           o.counter,
	}, combine.Streams{Out: cmd.OutOrStdout(), Diag: cmd.ErrOrStderr()}, logger)
	if err != nil {
		return err
	}

	if o.output != "" {
		logger.Info("Output written",
			zap.String("file", o.output),
			zap.Int("files", summary.Written),
			zap.Int("skipped", summary.Skipped))
	}
	return nil
}
