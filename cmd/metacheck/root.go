// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlagValues holds the global flags shared by every subcommand.
type rootFlagValues struct {
	configPath string
	verbose    bool
	dir        string
}

func newRootCommand(app *App, flags *rootFlagValues) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "metacheck",
		Short: "Validate token and contract registry metadata",
		Long: TitleStyle.Render("metacheck") + SubtitleStyle.Render(" - Validate token and contract registry metadata") + `

metacheck checks the documents of a token and contract metadata registry
against the registry's shape rules: required fields and bounds, hex and
hash formats, logo images and file naming.

A registry keeps token documents under tokens/ and contract documents
under contracts/, both below the configured metadata directory.

` + SubtitleStyle.Render("Examples:") + `
  metacheck check --all                      Check every document
  metacheck check --changed                  Check documents changed since git.base_ref
  metacheck check metadata/tokens/<id>.json  Check a single document
  metacheck schema generate                  Write the JSON Schema files
  metacheck watch                            Re-check documents as they change`,
	}

	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/metacheck/config.cue, then ./metacheck.cue)")
	rootCmd.PersistentFlags().StringVarP(&flags.dir, "dir", "C", "", "metadata directory (overrides metadata_dir)")

	rootCmd.AddCommand(newCheckCommand(app, flags))
	rootCmd.AddCommand(newSchemaCommand(app, flags))
	rootCmd.AddCommand(newWatchCommand(app, flags))
	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Main runs the CLI with the process arguments and returns the exit status.
func Main() int {
	return NewApp(Dependencies{}).Run(context.Background(), os.Args[1:])
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Main())
}
