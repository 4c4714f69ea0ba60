// Package tabs models a tabbed set of code panes and renders it as HTML
// markup or as styled terminal output.
package tabs

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/JoobyPM/codetabs/internal/ordering"
	"github.com/JoobyPM/codetabs/internal/stringutil"
)

// Errors.
var (
	ErrNoPanes       = errors.New("tab set has no panes")
	ErrUnknownPane   = errors.New("unknown pane")
	ErrDuplicatePane = errors.New("duplicate pane name")
	ErrEmptyName     = errors.New("pane name is required")
)

// Pane is one tab of a set.
type Pane struct {
	Name     string `json:"name" yaml:"name"`
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
	Content  string `json:"content" yaml:"content"`
	Caption  string `json:"caption,omitempty" yaml:"caption,omitempty"`
}

// ID returns the anchor-safe identifier of the pane.
func (p Pane) ID() string {
	return stringutil.Slugify(strings.ReplaceAll(p.Name, ".", "-"))
}

// Set is an ordered group of panes with one active pane.
type Set struct {
	Title  string `json:"title,omitempty" yaml:"title,omitempty"`
	Panes  []Pane `json:"panes" yaml:"panes"`
	Active string `json:"active" yaml:"active"`
}

// NewSet validates panes and returns a set whose first pane is active.
func NewSet(title string, panes []Pane) (*Set, error) {
	if len(panes) == 0 {
		return nil, ErrNoPanes
	}

	seen := make(map[string]bool, len(panes))
	for _, p := range panes {
		if p.Name == "" {
			return nil, ErrEmptyName
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePane, p.Name)
		}
		seen[p.Name] = true
	}

	return &Set{
		Title:  title,
		Panes:  panes,
		Active: panes[0].Name,
	}, nil
}

// Select makes the named pane active.
func (s *Set) Select(name string) error {
	if _, ok := s.Pane(name); !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPane, name)
	}
	s.Active = name
	return nil
}

// Pane returns the pane with the given name.
func (s *Set) Pane(name string) (Pane, bool) {
	for _, p := range s.Panes {
		if p.Name == name {
			return p, true
		}
	}
	return Pane{}, false
}

// ActivePane returns the active pane.
func (s *Set) ActivePane() Pane {
	p, _ := s.Pane(s.Active)
	return p
}

// IsActive reports whether p is the active pane.
func (s *Set) IsActive(p Pane) bool {
	return p.Name == s.Active
}

// Reorder sorts panes by their position in order. Panes not listed keep
// their relative order after the listed ones. The active pane is unchanged.
func (s *Set) Reorder(order []string) {
	s.Panes = ordering.SortArray(s.Panes, order, func(p Pane) string { return p.Name })
}

// languages maps file extensions to the language class used for
// highlighting.
var languages = map[string]string{
	".js":   "javascript",
	".mjs":  "javascript",
	".ts":   "typescript",
	".html": "html",
	".htm":  "html",
	".css":  "css",
	".json": "json",
	".go":   "go",
	".py":   "python",
	".rb":   "ruby",
	".rs":   "rust",
	".java": "java",
	".pde":  "processing",
	".sh":   "bash",
	".yaml": "yaml",
	".yml":  "yaml",
	".md":   "markdown",
	".sql":  "sql",
}

// LanguageFor guesses the language of a file from its extension.
// Unknown extensions return "".
func LanguageFor(filename string) string {
	return languages[strings.ToLower(filepath.Ext(filename))]
}
