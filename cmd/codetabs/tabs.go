package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/JoobyPM/codetabs/internal/tabs"
)

// Render formats.
const (
	formatHTML     = "html"
	formatTerminal = "terminal"
)

func (a *app) newTabsCmd() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "Manage and render tabbed code panes",
		Long: `The tabs command group manages the tab manifest (codetabs.yaml) and renders
it. Each pane has a name, an optional language, inline content or a file,
and an optional caption with [label](target) links.`,
	}
	cmd.PersistentFlags().StringVar(&manifestPath, "manifest", "", "Custom manifest path")

	cmd.AddCommand(
		a.newTabsInitCmd(&manifestPath),
		a.newTabsAddCmd(&manifestPath),
		a.newTabsListCmd(&manifestPath),
		a.newTabsRenderCmd(&manifestPath),
	)
	return cmd
}

func (a *app) newTabsInitCmd(manifestPath *string) *cobra.Command {
	var (
		title  string
		force  bool
		sample bool
		seed   uint64
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new manifest in the current directory",
		Long: `Initialize a new codetabs.yaml manifest in the current directory.
With --sample the manifest gets placeholder panes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := tabs.DefaultFilename
			if *manifestPath != "" {
				path = *manifestPath
			}

			m := tabs.NewManifest(title)
			if sample {
				// A zero seed picks a random one.
				m = tabs.SampleManifest(gofakeit.New(seed))
				if title != "" {
					m.Title = title
				}
			}

			err := m.Create(path, force)
			if errors.Is(err, tabs.ErrManifestExists) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				fmt.Fprintln(cmd.ErrOrStderr(), "Use --force to overwrite")
				return exitErr(exitValidation, "manifest already exists")
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: failed to write manifest: %v\n", err)
				return exitErr(exitWrite, "failed to write manifest")
			}
			a.log.WithField("path", path).Debug("created manifest")
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Title of the tab set")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing manifest")
	cmd.Flags().BoolVar(&sample, "sample", false, "Add placeholder panes")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for placeholder text (0 is random)")
	return cmd
}

// loadManifest discovers and loads the manifest, mapping failures to exit
// codes.
func loadManifest(cmd *cobra.Command, explicit string) (*tabs.Manifest, string, error) {
	path, err := tabs.Discover(explicit)
	if err != nil {
		if errors.Is(err, tabs.ErrManifestNotFound) {
			fmt.Fprintln(cmd.ErrOrStderr(), "Error: manifest not found")
			fmt.Fprintln(cmd.ErrOrStderr(), "Run 'codetabs tabs init' to create one")
			return nil, "", exitErr(exitNotFound, "manifest not found")
		}
		return nil, "", err
	}

	m, err := tabs.Load(path)
	if err != nil {
		if errors.Is(err, tabs.ErrInvalidYAML) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return nil, "", exitErr(exitValidation, "invalid YAML")
		}
		return nil, "", err
	}
	return m, path, nil
}

func (a *app) newTabsAddCmd(manifestPath *string) *cobra.Command {
	var entry tabs.Entry

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a pane to the manifest",
		Long: `Add a pane with inline --content or a --file path relative to the manifest.
The language is inferred from the file or pane name when not given.`,
		Example: `  codetabs tabs add sketch.js --file src/sketch.js --caption "Try it in [the editor](https://editor.p5js.org)"
  codetabs tabs add shell --language bash --content "npm install"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, path, err := loadManifest(cmd, *manifestPath)
			if err != nil {
				return err
			}

			entry.Name = args[0]
			if err := m.AddPane(entry); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return exitErr(exitValidation, "invalid pane")
			}

			if err := m.Save(path); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: failed to write manifest: %v\n", err)
				return exitErr(exitWrite, "failed to write manifest")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added %s to %s\n", entry.Name, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&entry.File, "file", "", "File with the pane content")
	cmd.Flags().StringVar(&entry.Content, "content", "", "Inline pane content")
	cmd.Flags().StringVar(&entry.Language, "language", "", "Language class for highlighting")
	cmd.Flags().StringVar(&entry.Caption, "caption", "", "Caption shown under the code")
	return cmd
}

func (a *app) newTabsListCmd(manifestPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List panes in the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(cmd, output, outputText, outputJSON, outputYAML); err != nil {
				return err
			}
			m, path, err := loadManifest(cmd, *manifestPath)
			if err != nil {
				return err
			}
			set, err := a.buildSet(cmd, m, path, "")
			if err != nil {
				return err
			}

			if output != outputText {
				return encode(cmd.OutOrStdout(), output, set)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Panes in %s:\n\n", path)
			for _, p := range set.Panes {
				marker := " "
				if set.IsActive(p) {
					marker = "*"
				}
				lang := p.Language
				if lang == "" {
					lang = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s  [%s]\n", marker, p.Name, lang)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nTotal: %d pane(s)\n", len(set.Panes))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json, yaml)")
	return cmd
}

// buildSet resolves m into a tab set and applies the active override.
func (a *app) buildSet(cmd *cobra.Command, m *tabs.Manifest, path, active string) (*tabs.Set, error) {
	set, err := m.ToSet(filepath.Dir(path))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, tabs.ErrUnknownPane) {
			return nil, exitErr(exitNotFound, "pane not found")
		}
		return nil, exitErr(exitValidation, "invalid manifest")
	}
	if active != "" {
		if err := set.Select(active); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return nil, exitErr(exitNotFound, "pane not found")
		}
	}
	return set, nil
}

func (a *app) newTabsRenderCmd(manifestPath *string) *cobra.Command {
	var (
		format    string
		active    string
		className string
		prefix    string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the tab set as HTML or in the terminal",
		Long: `Render the manifest as HTML markup or as styled terminal output.

HTML output escapes code, keeps the raw text for the copy button and runs
captions through widow prevention and link parsing. Highlighting is left to
the page: each code block carries a language-<name> class.

Terminal output shows the active pane sized to the terminal when one is
present. Captions are truncated to text.truncate_length.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != formatHTML && format != formatTerminal {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid format %q (want html, terminal)\n", format)
				return exitErr(exitValidation, "invalid format")
			}

			m, path, err := loadManifest(cmd, *manifestPath)
			if err != nil {
				return err
			}
			set, err := a.buildSet(cmd, m, path, active)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if outPath != "" {
				f, err := os.Create(outPath) //nolint:gosec // Path from user flag
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return exitErr(exitWrite, "failed to create output")
				}
				defer f.Close()
				w = f
			}

			if format == formatHTML {
				if err := tabs.RenderHTML(w, set, tabs.HTMLOptions{ClassName: className, ClassPrefix: prefix}); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return exitErr(exitWrite, "failed to write output")
				}
				return nil
			}

			e, err := a.environment(cmd)
			if err != nil {
				return err
			}
			defer a.close() //nolint:errcheck // Display metrics only

			opts := tabs.TerminalOptions{CaptionLength: a.cfg.Text.TruncateLength}
			if width, _, ok := e.WindowSize(); ok {
				opts.Width = width
			}
			fmt.Fprint(w, tabs.RenderTerminal(set, opts))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatHTML, "Render format (html, terminal)")
	cmd.Flags().StringVar(&active, "active", "", "Pane to show as active")
	cmd.Flags().StringVar(&className, "class", "", "Extra class for the root element")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Class prefix (default codetabs)")
	cmd.Flags().StringVar(&outPath, "out", "", "Write to file instead of stdout")
	return cmd
}
