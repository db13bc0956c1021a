package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarry-build/quarry/internal/config"
	"github.com/quarry-build/quarry/internal/detect"
	"github.com/quarry-build/quarry/internal/log"
	"github.com/quarry-build/quarry/internal/registry"
)

var (
	version = "dev"

	scopeDir string
	debug    bool
	logFile  string

	store      *config.Store
	reg        *registry.Registry
	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "quarry",
	Short: "Compiler configuration for source-based builds",
	Long: `Quarry manages the compiler toolchains available to source-based
builds: it finds compilers on the host, records them in layered YAML
configuration scopes and answers queries against them.`,
	Version:           version,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&scopeDir, "scope-dir", "",
		"extra config scope directory, highest priority")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"log at debug level")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"log file (default: ~/.local/state/quarry/quarry.log)")
}

func setup(*cobra.Command, []string) error {
	path := logFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolving home directory: %w", err)
		}
		dir := filepath.Join(home, ".local", "state", "quarry")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		path = filepath.Join(dir, "quarry.log")
	}
	cleanup, err := log.Init(path)
	if err != nil {
		return err
	}
	logCleanup = cleanup
	if !debug {
		log.SetMinLevel(log.LevelInfo)
	}

	scopes, err := config.DefaultScopes()
	if err != nil {
		return err
	}
	if scopeDir != "" {
		scopes = append([]config.Scope{
			{Name: "custom", Dir: scopeDir, Writable: true},
		}, scopes...)
	}
	store, err = config.NewStore(scopes...)
	if err != nil {
		return err
	}

	reg = registry.New(store, registry.WithDetector(detect.NewScanner()))
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
