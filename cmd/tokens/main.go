// Command tokens prints the token count of a file or of standard input.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gptcopy/pkg/tokens"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newTokensCmd(tokens.NewCounter).ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newTokensCmd(newCounter func(model string) (tokens.Counter, error)) *cobra.Command {
	var model string
	tokensCmd := &cobra.Command{
		Use:          "tokens [FILE]",
		Short:        "Print the number of tokens in FILE or standard input",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				input = f
			}
			data, err := io.ReadAll(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			counter, err := newCounter(model)
			if err != nil {
				return err
			}
			n, err := tokens.Count(counter, data)
			if err != nil {
				return fmt.Errorf("count tokens: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), n)
			return nil
		},
	}
	tokensCmd.Flags().StringVar(&model, "model", tokens.DefaultModel, "Tokenizer model")
	return tokensCmd
}
