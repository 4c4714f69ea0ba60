package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/JoobyPM/codetabs/internal/stringutil"
)

// textCmd builds a command that applies fn to its text input.
func textCmd(use, short, long string, fn func(string) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), fn(text))
			return nil
		},
	}
}

func (a *app) newEscapeCmd() *cobra.Command {
	return textCmd("escape [text...]", "Escape &, < and > for HTML",
		`Replace & with &amp;, < with &lt; and > with &gt;.
Quotes are left alone. Escaping twice escapes the ampersands again.`,
		stringutil.EscapeHTML)
}

func (a *app) newTitleCmd() *cobra.Command {
	return textCmd("title [slug...]", "Convert a slug into a title",
		`Replace underscores with spaces and title-case the result.
Minor words (a, and, of, the, ...) stay lower case unless they open or close
the title, and words with manual casing like iPhone are kept as is.`,
		stringutil.TitleCase)
}

func (a *app) newSlugCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slug [title...]",
		Short: "Join titles into a lower-case slug",
		Long: `Join the titles with hyphens, turn whitespace and underscores into hyphens
and lower-case the result. Without arguments each stdin line is a title.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			titles, err := readLines(cmd, args)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), stringutil.Slugify(titles...))
			return nil
		},
	}
}

func (a *app) newWidontCmd() *cobra.Command {
	return textCmd("widont [text...]", "Keep the last two words together",
		`Join the last two words with a no-break space so the final word never
wraps alone. A hyphenated last word gets no-break hyphens instead.`,
		stringutil.Widont)
}

func (a *app) newLinksCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "links [text...]",
		Short: "Turn [label](target) into anchors",
		Long: `Rewrite every [label](target) into <a href="target">label</a>.
Labels and targets are not escaped. With --plain the link becomes
"label (target)" for plain text output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			if plain {
				fmt.Fprintln(cmd.OutOrStdout(), stringutil.PlainLinks(text))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), stringutil.ParseLinks(text))
			return nil
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Write links as plain text")
	return cmd
}

func (a *app) newTruncateCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "truncate [text...]",
		Short: "Shorten text without cutting URLs or emails",
		Long: `Truncate text to --length characters and append an ellipsis.
A URL or email address that starts within the limit is kept whole even if it
runs past it. The default length comes from text.truncate_length.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("length") {
				length = a.cfg.Text.TruncateLength
			}
			if length < 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: --length must not be negative, got %d\n", length)
				return exitErr(exitValidation, "invalid length")
			}
			a.log.WithField("length", length).Debug("truncating")
			fmt.Fprintln(cmd.OutOrStdout(), stringutil.Truncate(text, length))
			return nil
		},
	}
	cmd.Flags().IntVarP(&length, "length", "n", 0, "Maximum length in characters (default from config)")
	return cmd
}

func (a *app) newMonthsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "months [number]",
		Short: "Print month names",
		Long:  "Print all twelve month names, or the name of month 1-12.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkOutput(cmd, output, outputText, outputJSON, outputYAML); err != nil {
				return err
			}

			names := stringutil.Months[:]
			if len(args) == 1 {
				m, err := strconv.Atoi(args[0])
				if err != nil || stringutil.MonthName(time.Month(m)) == "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: month must be 1-12, got %q\n", args[0])
					return exitErr(exitValidation, "invalid month")
				}
				names = []string{stringutil.MonthName(time.Month(m))}
			}

			if output != outputText {
				return encode(cmd.OutOrStdout(), output, names)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json, yaml)")
	return cmd
}
