package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var compilerFamiliesCmd = &cobra.Command{
	Use:   "families",
	Short: "List the compiler families supported on this platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range reg.SupportedFamilyNames() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	compilerCmd.AddCommand(compilerFamiliesCmd)
}
