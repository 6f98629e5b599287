// File: cmd/version.go
package cmd

import (
	"fmt"

	"gptcopy/pkg/version"

	"github.com/spf13/cobra"
)

// newVersionCmd builds the version command.
// It prints build metadata; --short prints only the version number.
// The root command's --version flag prints the short "gptcopy, version" form.
func newVersionCmd() *cobra.Command {
	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Display the version of gptcopy",
		Long:  `Display the version, commit and build information of the gptcopy CLI tool.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			short, err := cmd.Flags().GetBool("short")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}

			v := version.Get()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), v.Version)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), v.String())
			}
			return nil
		},
	}
	versionCmd.Flags().BoolP("short", "s", false, "Print the version number only")
	return versionCmd
}
