package env

import (
	"errors"

	"github.com/charmbracelet/x/term"

	"github.com/JoobyPM/codetabs/internal/storage"
)

// present is the Environment of an interactive session.
type present struct {
	session storage.Store
	local   storage.Store
	fd      uintptr
	size    func(fd uintptr) (int, int, error)
}

// NewPresent builds the present variant from its stores and the descriptor
// used for display metrics.
func NewPresent(session, local storage.Store, fd uintptr) Environment {
	return &present{session: session, local: local, fd: fd, size: term.GetSize}
}

func (p *present) Present() bool                 { return true }
func (p *present) SessionStorage() storage.Store { return p.session }
func (p *present) LocalStorage() storage.Store   { return p.local }

func (p *present) WindowSize() (width, height int, ok bool) {
	w, h, err := p.size(p.fd)
	if err != nil || w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func (p *present) Close() error {
	return errors.Join(p.session.Close(), p.local.Close())
}

// absent is the Environment of headless execution.
type absent struct{}

// Absent returns the variant without storage or display.
func Absent() Environment {
	return absent{}
}

func (absent) Present() bool                            { return false }
func (absent) SessionStorage() storage.Store            { return nil }
func (absent) LocalStorage() storage.Store              { return nil }
func (absent) WindowSize() (width, height int, ok bool) { return 0, 0, false }
func (absent) Close() error                             { return nil }
