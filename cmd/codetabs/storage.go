package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JoobyPM/codetabs/internal/storage"
)

// Storage scopes.
const (
	scopeSession = "session"
	scopeLocal   = "local"
)

func (a *app) newWinCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "win",
		Short: "Print the terminal window size",
		Long: `Print the width and height of the terminal in cells.
In a headless environment there is no display and "unavailable" is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(cmd, output, outputText, outputJSON, outputYAML); err != nil {
				return err
			}
			e, err := a.environment(cmd)
			if err != nil {
				return err
			}
			defer a.close() //nolint:errcheck // Nothing to flush for a size query

			w, h, ok := e.WindowSize()
			if output != outputText {
				return encode(cmd.OutOrStdout(), output, windowSize{Available: ok, Width: w, Height: h})
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "unavailable")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d %d\n", w, h)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json, yaml)")
	return cmd
}

type windowSize struct {
	Available bool `json:"available" yaml:"available"`
	Width     int  `json:"width" yaml:"width"`
	Height    int  `json:"height" yaml:"height"`
}

func (a *app) newStorageCmd() *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Read and write key-value storage",
		Long: `The storage command group works with the two storage scopes:

  session  lives as long as the codetabs process
  local    persists in the storage directory (file or sqlite backend)

Storage only exists in the present environment. Use --env-mode present when
output is not a terminal.`,
	}
	cmd.PersistentFlags().StringVar(&scope, "scope", scopeLocal, "Storage scope: session or local")

	cmd.AddCommand(
		a.newStorageGetCmd(&scope),
		a.newStorageSetCmd(&scope),
		a.newStorageRmCmd(&scope),
		a.newStorageListCmd(&scope),
		a.newStorageClearCmd(&scope),
	)
	return cmd
}

// store returns the store for scope. The absent environment has none.
// Callers defer a.close().
func (a *app) store(cmd *cobra.Command, scope string) (storage.Store, error) {
	if scope != scopeSession && scope != scopeLocal {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid scope %q (want session or local)\n", scope)
		return nil, exitErr(exitValidation, "invalid scope")
	}

	e, err := a.environment(cmd)
	if err != nil {
		return nil, err
	}

	s := e.LocalStorage()
	if scope == scopeSession {
		s = e.SessionStorage()
	}
	if s == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error: storage is unavailable in a headless environment")
		fmt.Fprintln(cmd.ErrOrStderr(), "Use --env-mode present to enable it")
		return nil, exitErr(exitValidation, "storage unavailable")
	}
	return s, nil
}

func (a *app) newStorageGetCmd(scope *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the value stored under key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd, *scope)
			if err != nil {
				return err
			}
			defer a.close() //nolint:errcheck // Read only

			v, err := s.Get(args[0])
			if errors.Is(err, storage.ErrNotFound) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: key not found: %s\n", args[0])
				return exitErr(exitNotFound, "key not found")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func (a *app) newStorageSetCmd(scope *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store value under key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd, *scope)
			if err != nil {
				return err
			}
			if err := s.Set(args[0], args[1]); err != nil {
				a.close() //nolint:errcheck // Already failing
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return exitErr(exitWrite, "failed to write storage")
			}
			a.log.WithField("key", args[0]).WithField("scope", *scope).Debug("stored value")
			return a.close()
		},
	}
}

func (a *app) newStorageRmCmd(scope *string) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <key>...",
		Aliases: []string{"remove"},
		Short:   "Remove keys",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.store(cmd, *scope)
			if err != nil {
				return err
			}
			for _, key := range args {
				if err := s.Remove(key); err != nil {
					a.close() //nolint:errcheck // Already failing
					fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
					return exitErr(exitWrite, "failed to write storage")
				}
			}
			return a.close()
		},
	}
}

func (a *app) newStorageListCmd(scope *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored keys and values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkOutput(cmd, output, outputText, outputJSON, outputYAML); err != nil {
				return err
			}
			s, err := a.store(cmd, *scope)
			if err != nil {
				return err
			}
			defer a.close() //nolint:errcheck // Read only

			keys, err := s.Keys()
			if err != nil {
				return err
			}
			items := make(map[string]string, len(keys))
			for _, k := range keys {
				v, err := s.Get(k)
				if err != nil {
					return err
				}
				items[k] = v
			}

			if output != outputText {
				return encode(cmd.OutOrStdout(), output, items)
			}
			if len(keys) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No keys in %s storage\n", *scope)
				return nil
			}
			for _, k := range keys {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", k, items[k])
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "Output format (text, json, yaml)")
	return cmd
}

func (a *app) newStorageClearCmd(scope *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.store(cmd, *scope)
			if err != nil {
				return err
			}
			n, err := s.Len()
			if err == nil {
				err = s.Clear()
			}
			if err != nil {
				a.close() //nolint:errcheck // Already failing
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				return exitErr(exitWrite, "failed to write storage")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d key(s)\n", n)
			return a.close()
		},
	}
}
