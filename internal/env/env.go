// Package env describes the capabilities of the host the program runs in.
//
// An Environment is selected once at startup and passed to the code that
// needs storage or display metrics. The present variant backs an interactive
// terminal session: it has session and local storage and knows the terminal
// size. The absent variant stands for headless execution (pipes, CI,
// server-side rendering): it has no storage and no display, and callers must
// check for nil storage and ok == false before using them.
package env

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/x/term"
	"github.com/sirupsen/logrus"

	"github.com/JoobyPM/codetabs/internal/storage"
)

// Mode values for environment selection.
const (
	ModeAuto    = "auto"
	ModePresent = "present"
	ModeAbsent  = "absent"
)

// ErrInvalidMode is returned for an unknown environment mode.
var ErrInvalidMode = errors.New("invalid environment mode: must be 'auto', 'present' or 'absent'")

// Environment exposes host capabilities.
type Environment interface {
	// Present reports whether this is the present variant.
	Present() bool
	// SessionStorage returns the process-scoped store, or nil when absent.
	SessionStorage() storage.Store
	// LocalStorage returns the durable store, or nil when absent.
	LocalStorage() storage.Store
	// WindowSize returns the display size in cells. ok is false when there
	// is no display.
	WindowSize() (width, height int, ok bool)
	// Close releases the stores.
	Close() error
}

// Options configures Detect.
type Options struct {
	// Mode is ModeAuto, ModePresent or ModeAbsent. Empty means ModeAuto.
	Mode string
	// Output is the file whose terminal provides display metrics.
	// Defaults to os.Stdout.
	Output *os.File
	// StorageBackend and StorageDir select the durable store.
	StorageBackend string
	StorageDir     string
	// Log receives diagnostics. Defaults to the standard logrus logger.
	Log logrus.FieldLogger
}

// Detect selects the environment variant. In auto mode the present variant
// is chosen when Output is a terminal.
func Detect(opts Options) (Environment, error) {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	if opts.StorageBackend == "" {
		opts.StorageBackend = storage.BackendFile
	}

	mode := opts.Mode
	switch mode {
	case "", ModeAuto:
		mode = ModeAbsent
		if term.IsTerminal(opts.Output.Fd()) {
			mode = ModePresent
		}
	case ModePresent, ModeAbsent:
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidMode, opts.Mode)
	}

	log := opts.Log.WithField("mode", mode)
	if mode == ModeAbsent {
		log.Debug("environment selected")
		return Absent(), nil
	}

	dir, err := storage.ResolveDir(opts.StorageDir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage dir: %w", err)
	}
	local, err := storage.Open(opts.StorageBackend, dir, log)
	if err != nil {
		return nil, fmt.Errorf("open local storage: %w", err)
	}
	log.Debug("environment selected")
	return NewPresent(storage.NewMemory(), local, opts.Output.Fd()), nil
}
