// Package main provides the CLI entry point for codetabs.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JoobyPM/codetabs/internal/config"
	"github.com/JoobyPM/codetabs/internal/env"
	"github.com/JoobyPM/codetabs/internal/logging"
)

// Output format constants.
const (
	outputJSON = "json"
	outputYAML = "yaml"
	outputText = "text"
)

// Exit codes. Commands use these semantically:
//   - exitValidation: invalid input or configuration, unavailable capability
//   - exitNotFound: missing storage key, manifest or pane
//   - exitWrite: file system write failure, lock timeout
const (
	exitValidation = 1
	exitNotFound   = 2
	exitWrite      = 3
)

// ExitError is an error that carries a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitErr creates an ExitError with the given code and message.
func exitErr(code int, msg string) error {
	return &ExitError{Code: code, Message: msg}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var exitError *ExitError
		if errors.As(err, &exitError) {
			return exitError.Code
		}
		fmt.Fprintln(stderr, "Error:", err)
		return 1
	}
	return 0
}

// app holds global flags and the state resolved before a command runs.
type app struct {
	flagConfigPath     string
	flagEnvMode        string
	flagStorageBackend string
	flagStorageDir     string
	flagLogLevel       string
	flagLogFormat      string

	cfg *config.Config
	log *logrus.Logger
	env env.Environment
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "codetabs",
		Short: "Text utilities and tabbed code panes for documentation sites",
		Long: `codetabs bundles the text helpers used to publish code samples:
HTML escaping, title casing, widow prevention, link parsing and
URL-preserving truncation. It renders tabbed code panes as HTML or in
the terminal, and keeps session and local key-value storage.

Text commands read their arguments, or stdin when no arguments are given.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.initConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.flagConfigPath, "config", "", "Custom config file path")
	root.PersistentFlags().StringVar(&a.flagEnvMode, "env-mode", "", "Environment: auto, present or absent")
	root.PersistentFlags().StringVar(&a.flagStorageBackend, "storage-backend", "", "Local storage backend: file or sqlite")
	root.PersistentFlags().StringVar(&a.flagStorageDir, "storage-dir", "", "Local storage directory")
	root.PersistentFlags().StringVar(&a.flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.flagLogFormat, "log-format", "", "Log format: text or json")

	root.AddCommand(
		a.newEscapeCmd(),
		a.newTitleCmd(),
		a.newSlugCmd(),
		a.newWidontCmd(),
		a.newLinksCmd(),
		a.newTruncateCmd(),
		a.newMonthsCmd(),
		a.newRemapCmd(),
		a.newShuffleCmd(),
		a.newSortCmd(),
		a.newTransformCmd(),
		a.newWinCmd(),
		a.newStorageCmd(),
		a.newTabsCmd(),
		a.newConfigCmd(),
	)
	return root
}

// initConfig loads the configuration with proper precedence and builds the
// logger. Called via PersistentPreRunE on the root command.
func (a *app) initConfig(cmd *cobra.Command) error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := config.Load(config.LoadOptions{ExplicitPath: a.flagConfigPath})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return exitErr(exitValidation, "load config")
	}

	cfg.ApplyCLIOverrides(config.CLIOverrides{
		Mode:           a.flagEnvMode,
		StorageBackend: a.flagStorageBackend,
		StorageDir:     a.flagStorageDir,
		LogLevel:       a.flagLogLevel,
		LogFormat:      a.flagLogFormat,
	})
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return exitErr(exitValidation, "invalid configuration")
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}

	a.cfg = cfg
	a.log = log
	return nil
}

// environment detects the environment on first use. Output that is not a
// file has no terminal, so auto mode resolves to absent. Callers defer
// a.close().
func (a *app) environment(cmd *cobra.Command) (env.Environment, error) {
	if a.env != nil {
		return a.env, nil
	}

	out, isFile := cmd.OutOrStdout().(*os.File)
	opts := a.cfg.EnvOptions(out, a.log)
	if !isFile && (opts.Mode == "" || opts.Mode == env.ModeAuto) {
		opts.Mode = env.ModeAbsent
	}

	e, err := env.Detect(opts)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return nil, exitErr(exitValidation, "environment unavailable")
	}
	a.env = e
	return e, nil
}

func (a *app) close() error {
	if a.env == nil {
		return nil
	}
	err := a.env.Close()
	a.env = nil
	return err
}

// readText returns the arguments joined by spaces, or stdin with one
// trailing newline removed when there are no arguments.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	s := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(s, "\r"), nil
}

// readLines returns the arguments, or the non-empty lines of stdin.
func readLines(cmd *cobra.Command, args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	text, err := readText(cmd, nil)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}

// readInput reads the named file, or stdin when path is empty or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // Path from user flag
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// encode writes v as JSON or YAML.
func encode(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// checkOutput validates an --output flag value.
func checkOutput(cmd *cobra.Command, format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: invalid output format %q (want %s)\n",
		format, strings.Join(allowed, ", "))
	return exitErr(exitValidation, "invalid output format")
}
