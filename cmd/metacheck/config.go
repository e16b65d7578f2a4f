// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tokenregistry/metacheck/internal/config"
)

// newConfigCommand creates the `metacheck config` command tree.
func newConfigCommand(app *App, rootFlags *rootFlagValues) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage metacheck configuration",
		Long: `Manage metacheck configuration.

Configuration is read from the first of:
  - the --config flag
  - ` + "`<user config dir>`" + `/metacheck/config.cue
  - ./metacheck.cue
Environment variables prefixed with METACHECK_ override file values
(e.g. METACHECK_JOBS=8, METACHECK_GIT_BASE_REF=main).`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: rootFlags.configPath})
			if err != nil {
				return usageError(err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, path, err := config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: rootFlags.configPath})
			if err != nil {
				return usageError(err)
			}
			if path == "" {
				fmt.Fprintln(app.stdout, SubtitleStyle.Render("(none, using defaults)"))
				return nil
			}
			fmt.Fprintln(app.stdout, path)
			return nil
		},
	})

	var local bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.LocalConfigFileName
			if !local {
				dir, err := config.ConfigDir()
				if err != nil {
					return ioError(err)
				}
				path = filepath.Join(dir, config.ConfigFileName)
			}

			written, err := config.WriteDefault(path)
			if err != nil {
				return ioError(err)
			}
			if !written {
				fmt.Fprintln(app.stdout, WarningStyle.Render("!")+" configuration already exists: "+CmdStyle.Render(path))
				return nil
			}
			fmt.Fprintln(app.stdout, SuccessStyle.Render("✓")+" created "+CmdStyle.Render(path))
			return nil
		},
	}
	initCmd.Flags().BoolVar(&local, "local", false, "write ./metacheck.cue instead of the user configuration")
	cfgCmd.AddCommand(initCmd)

	return cfgCmd
}
