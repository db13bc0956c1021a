package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quarry-build/quarry/internal/registry"
	"github.com/quarry-build/quarry/internal/tracing"
)

var (
	findScope   string
	findPaths   []string
	findMixed   bool
	findWorkers int
	findTrace   string
)

var compilerFindCmd = &cobra.Command{
	Use:     "find [dir]...",
	Aliases: []string{"detect"},
	Short:   "Find compilers on this machine and add them to the configuration",
	Long: `Scan PATH (or the given directories) for compiler executables, probe
each candidate for its version and record the ones not already
configured.

Examples:
  # Scan PATH
  quarry compiler find

  # Scan specific directories
  quarry compiler find /opt/gcc/bin /opt/llvm/bin

  # Borrow gfortran into clang toolchains lacking Fortran
  quarry compiler find --mixed-toolchain

  # Export a trace of the detection run
  quarry compiler find --trace traces.jsonl`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tracingCfg := tracing.DefaultConfig()
		if findTrace != "" {
			tracingCfg.Enabled = true
			tracingCfg.FilePath = findTrace
		}
		provider, err := tracing.NewProvider(tracingCfg)
		if err != nil {
			return err
		}
		defer func() { _ = provider.Shutdown(cmd.Context()) }()

		paths := append([]string{}, findPaths...)
		paths = append(paths, args...)

		fresh, err := reg.DetectCompilers(cmd.Context(), registry.FindOptions{
			PathHints:      paths,
			Scope:          findScope,
			MixedToolchain: findMixed,
			MaxWorkers:     findWorkers,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(fresh) == 0 {
			fmt.Fprintln(out, "no new compilers found")
			return nil
		}
		fmt.Fprintf(out, "added %d new compiler(s):\n", len(fresh))
		for _, c := range fresh {
			fmt.Fprintf(out, "  %s (%s-%s)\n", c.Spec, c.OperatingSystem, c.Target)
		}
		return nil
	},
}

func init() {
	compilerFindCmd.Flags().StringVar(&findScope, "scope", "", "config scope to write to")
	compilerFindCmd.Flags().StringSliceVar(&findPaths, "path", nil, "directory to scan (repeatable)")
	compilerFindCmd.Flags().BoolVar(&findMixed, "mixed-toolchain", false,
		"allow mixing gcc Fortran into clang toolchains")
	compilerFindCmd.Flags().IntVar(&findWorkers, "workers", 0, "max concurrent probes")
	compilerFindCmd.Flags().StringVar(&findTrace, "trace", "", "write a JSONL trace of the run")
	compilerCmd.AddCommand(compilerFindCmd)
}
