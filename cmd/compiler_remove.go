package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-build/quarry/internal/cspec"
)

var removeScope string

var compilerRemoveCmd = &cobra.Command{
	Use:     "remove <spec>",
	Aliases: []string{"rm"},
	Short:   "Remove matching compilers from the configuration",
	Long: `Remove every configured compiler satisfying the spec from one writable
scope, or from all writable scopes when none is given. Compilers
declared as externals in the packages section are not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := cspec.Parse(args[0])
		if err != nil {
			return err
		}
		removed, err := reg.Remove(spec, removeScope)
		if err != nil {
			return err
		}
		if !removed {
			return fmt.Errorf("no configured compilers match %s", spec)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed compilers matching %s\n", spec)
		return nil
	},
}

func init() {
	compilerRemoveCmd.Flags().StringVar(&removeScope, "scope", "", "config scope to modify")
	compilerCmd.AddCommand(compilerRemoveCmd)
}
