package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JoobyPM/codetabs/internal/numeric"
	"github.com/JoobyPM/codetabs/internal/ordering"
	"github.com/JoobyPM/codetabs/internal/stringutil"
)

func (a *app) newRemapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remap <n> <start1> <stop1> <start2> <stop2>",
		Short: "Map a number from one range onto another",
		Long: `Map n from [start1, stop1] onto [start2, stop2]. Values outside the
source range are clamped to its ends. An empty source range maps to start2.`,
		Args: cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v [5]float64
			for i, arg := range args {
				f, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: not a number: %q\n", arg)
					return exitErr(exitValidation, "invalid number")
				}
				v[i] = f
			}
			out := numeric.Map(v[0], v[1], v[2], v[3], v[4])
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(out, 'g', -1, 64))
			return nil
		},
	}
}

func (a *app) newShuffleCmd() *cobra.Command {
	var seed uint64

	cmd := &cobra.Command{
		Use:   "shuffle [item...]",
		Short: "Shuffle items uniformly",
		Long: `Print the items in random order, one per line. Without arguments each
stdin line is an item. --seed makes the order reproducible.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := readLines(cmd, args)
			if err != nil {
				return err
			}

			var rng *rand.Rand
			if cmd.Flags().Changed("seed") {
				rng = rand.New(rand.NewPCG(seed, seed)) //nolint:gosec // Not security sensitive
			}
			for _, item := range ordering.Shuffle(items, rng) {
				fmt.Fprintln(cmd.OutOrStdout(), item)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for a reproducible order")
	return cmd
}

func (a *app) newSortCmd() *cobra.Command {
	var (
		order string
		key   string
	)

	cmd := &cobra.Command{
		Use:   "sort [file]",
		Short: "Reorder a YAML mapping or list by a priority list",
		Long: `Read a YAML document from file or stdin and reorder it by --order.

For a mapping, keys named in --order come first in that order and the rest
keep their document order. For a list of mappings, items are ranked by the
value under --key. Items not named in --order keep their relative order.`,
		Example: `  codetabs sort --order name,version package.yaml
  codetabs sort --order go,js --key language panes.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readYAML(cmd, args)
			if err != nil {
				return err
			}

			priorities := splitList(order)
			sorted, err := ordering.SortYAMLMapping(doc, priorities)
			if errors.Is(err, ordering.ErrNotMapping) {
				sorted, err = ordering.SortYAMLSequence(doc, priorities, key)
			}
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return exitErr(exitValidation, "cannot sort document")
			}
			return encode(cmd.OutOrStdout(), outputYAML, sorted)
		},
	}
	cmd.Flags().StringVar(&order, "order", "", "Comma-separated priority list")
	cmd.Flags().StringVar(&key, "key", "", "Field that ranks list items")
	return cmd
}

func (a *app) newTransformCmd() *cobra.Command {
	var (
		widont bool
		links  bool
	)

	cmd := &cobra.Command{
		Use:   "transform [file]",
		Short: "Apply widont and link parsing to every YAML value",
		Long: `Read a YAML document from file or stdin and rewrite every value that is a
string. Keys and non-string values are left alone. Without flags both
--widont and --links are applied, widont first.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readYAML(cmd, args)
			if err != nil {
				return err
			}
			if !widont && !links {
				widont, links = true, true
			}

			var fns []func(any) any
			if widont {
				fns = append(fns, stringutil.WidontValue)
			}
			if links {
				fns = append(fns, stringutil.ParseLinksValue)
			}

			n, err := transformValues(doc, fns)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return exitErr(exitValidation, "cannot transform document")
			}
			a.log.WithField("changed", n).Debug("transformed values")
			return encode(cmd.OutOrStdout(), outputYAML, doc)
		},
	}
	cmd.Flags().BoolVar(&widont, "widont", false, "Keep the last two words of each value together")
	cmd.Flags().BoolVar(&links, "links", false, "Turn [label](target) into anchors")
	return cmd
}

// readYAML parses the document in args[0], or stdin.
func (a *app) readYAML(cmd *cobra.Command, args []string) (*yaml.Node, error) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	data, err := readInput(cmd, path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return nil, exitErr(exitNotFound, "cannot read input")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid YAML: %v\n", err)
		return nil, exitErr(exitValidation, "invalid YAML")
	}
	if doc.Kind == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: empty document")
		return nil, exitErr(exitValidation, "empty document")
	}
	return &doc, nil
}

// transformValues applies fns in order to every scalar value under node,
// skipping mapping keys. It returns the number of changed scalars.
func transformValues(node *yaml.Node, fns []func(any) any) (int, error) {
	switch node.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		total := 0
		for _, child := range node.Content {
			n, err := transformValues(child, fns)
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil
	case yaml.MappingNode:
		total := 0
		for i := 1; i < len(node.Content); i += 2 {
			n, err := transformValues(node.Content[i], fns)
			if err != nil {
				return total, err
			}
			total += n
		}
		return total, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return 0, fmt.Errorf("decode line %d: %w", node.Line, err)
		}
		out := v
		for _, fn := range fns {
			out = fn(out)
		}
		s, ok := out.(string)
		if !ok || s == node.Value {
			return 0, nil
		}
		node.Value = s
		return 1, nil
	default:
		return 0, nil
	}
}

// splitList splits a comma-separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
