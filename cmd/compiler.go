package cmd

import (
	"github.com/spf13/cobra"
)

var compilerCmd = &cobra.Command{
	Use:   "compiler",
	Short: "Manage configured compilers",
}

func init() {
	rootCmd.AddCommand(compilerCmd)
}
