package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarry-build/quarry/internal/cspec"
	"github.com/quarry-build/quarry/internal/registry"
)

var infoScope string

var compilerInfoCmd = &cobra.Command{
	Use:   "info <spec>",
	Short: "Show the configuration of matching compilers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := cspec.Parse(args[0])
		if err != nil {
			return err
		}
		compilers, err := reg.Find(spec, infoScope)
		if err != nil {
			return err
		}
		if len(compilers) == 0 {
			return &registry.NoCompilerForSpecError{Spec: spec}
		}

		out := cmd.OutOrStdout()
		for _, c := range compilers {
			fmt.Fprintf(out, "%s:\n", c.Spec)
			fmt.Fprintf(out, "  os: %s\n", c.OperatingSystem)
			fmt.Fprintf(out, "  target: %s\n", c.Target)
			fmt.Fprintf(out, "  paths:\n")
			fmt.Fprintf(out, "    cc: %s\n", orNone(c.CC))
			fmt.Fprintf(out, "    cxx: %s\n", orNone(c.CXX))
			fmt.Fprintf(out, "    f77: %s\n", orNone(c.F77))
			fmt.Fprintf(out, "    fc: %s\n", orNone(c.FC))
			if len(c.Flags) > 0 {
				fmt.Fprintf(out, "  flags:\n")
				keys := make([]string, 0, len(c.Flags))
				for k := range c.Flags {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				for _, k := range keys {
					fmt.Fprintf(out, "    %s: %s\n", k, c.Flags[k])
				}
			}
			if len(c.Modules) > 0 {
				fmt.Fprintf(out, "  modules: %s\n", strings.Join(c.Modules, ", "))
			}
			if registry.IsMixedToolchain(c) {
				fmt.Fprintf(out, "  note: tools come from more than one vendor toolchain\n")
			}

			arch := cspec.ArchSpec{OS: c.OperatingSystem, Target: c.Target}
			dupes, err := reg.Duplicates(c.Spec, &arch)
			if err != nil {
				return err
			}
			if countDefinitions(dupes) > 1 {
				dupErr := &registry.DuplicateCompilerError{Spec: c.Spec, Arch: arch, Files: dupes}
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", dupErr)
			}
		}
		return nil
	},
}

func countDefinitions(files map[string][]*registry.Compiler) int {
	n := 0
	for _, cs := range files {
		n += len(cs)
	}
	return n
}

func orNone(path string) string {
	if path == "" {
		return "None"
	}
	return path
}

func init() {
	compilerInfoCmd.Flags().StringVar(&infoScope, "scope", "", "config scope to read")
	compilerCmd.AddCommand(compilerInfoCmd)
}
