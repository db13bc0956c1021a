package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/quarry-build/quarry/internal/registry"
)

var listScope string

var compilerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured compilers",
	Long: `List every compiler visible from the configuration scopes, grouped
by operating system and target. Use --scope to inspect a single scope.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		compilers, err := reg.AllCompilers(listScope, true)
		if err != nil {
			return err
		}
		if len(compilers) == 0 {
			return &registry.NoCompilersError{}
		}

		byArch := map[string][]string{}
		for _, c := range compilers {
			arch := c.OperatingSystem + "-" + c.Target
			byArch[arch] = append(byArch[arch], c.Spec.String())
		}
		arches := make([]string, 0, len(byArch))
		for arch := range byArch {
			arches = append(arches, arch)
		}
		sort.Strings(arches)

		out := cmd.OutOrStdout()
		for _, arch := range arches {
			fmt.Fprintf(out, "%s:\n", arch)
			specs := byArch[arch]
			sort.Strings(specs)
			for _, spec := range specs {
				fmt.Fprintf(out, "  %s\n", spec)
			}
		}
		return nil
	},
}

func init() {
	compilerListCmd.Flags().StringVar(&listScope, "scope", "", "config scope to read")
	compilerCmd.AddCommand(compilerListCmd)
}
