package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JoobyPM/codetabs/internal/config"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage codetabs configuration",
		Long: `The config command group manages codetabs configuration.

Configuration is loaded from multiple sources with the following precedence (highest to lowest):
1. CLI flags (--env-mode, --storage-backend, --log-level, etc.)
2. Environment variables (CODETABS_ENV_MODE, CODETABS_TRUNCATE_LENGTH, etc.)
3. Project config (.codetabs.yaml in repo root)
4. Global config (~/.config/codetabs/config.yaml)
5. Built-in defaults`,
	}
	cmd.AddCommand(a.newConfigShowCmd(), a.newConfigInitCmd())
	return cmd
}

func (a *app) newConfigShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show resolved configuration",
		Long: `Display the fully resolved configuration after applying all sources,
followed by the config files that were found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(cmd, output, outputYAML, outputJSON); err != nil {
				return err
			}
			if output == outputJSON {
				return encode(cmd.OutOrStdout(), outputJSON, a.cfg)
			}

			w := cmd.OutOrStdout()
			fmt.Fprint(w, a.cfg.String())

			global, project := config.DiscoveredPaths()
			fmt.Fprintln(w, "\n# Configuration sources:")
			if global != "" {
				fmt.Fprintf(w, "# - Global: %s\n", global)
			} else {
				fmt.Fprintln(w, "# - Global: (not found)")
			}
			if project != "" {
				fmt.Fprintf(w, "# - Project: %s\n", project)
			} else {
				fmt.Fprintln(w, "# - Project: (not found)")
			}
			if a.flagConfigPath != "" {
				fmt.Fprintf(w, "# - Explicit: %s\n", a.flagConfigPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputYAML, "Output format (yaml, json)")
	return cmd
}

func (a *app) newConfigInitCmd() *cobra.Command {
	var (
		global bool
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the resolved configuration to a file",
		Long: `Write the resolved configuration to .codetabs.yaml in the current
directory, or to the global config file with --global.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			save := func() error { return a.cfg.SaveTo(config.ProjectConfigFile) }
			target := config.ProjectConfigFile
			if global {
				save = a.cfg.SaveGlobal
				target = "global config"
			} else if _, err := os.Stat(config.ProjectConfigFile); err == nil && !force {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: config already exists: %s\n", config.ProjectConfigFile)
				fmt.Fprintln(cmd.ErrOrStderr(), "Use --force to overwrite")
				return exitErr(exitValidation, "config already exists")
			}

			if err := save(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return exitErr(exitWrite, "failed to write config")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s\n", target)
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "Write ~/.config/codetabs/config.yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing project config")
	return cmd
}
