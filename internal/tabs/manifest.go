package tabs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/JoobyPM/codetabs/internal/config"
)

// DefaultFilename is the manifest name Discover looks for.
const DefaultFilename = "codetabs.yaml"

// SchemaVersion is written to new manifests.
const SchemaVersion = "1"

// LockTimeout bounds how long Save waits for a concurrent writer.
const LockTimeout = 5 * time.Second

// Errors.
var (
	ErrManifestNotFound = errors.New("manifest not found")
	ErrManifestExists   = errors.New("manifest already exists")
	ErrPaneExists       = errors.New("pane already exists in manifest")
	ErrEmptyPane        = errors.New("pane needs a file or inline content")
	ErrLockTimeout      = errors.New("manifest is being written by another process")
	ErrInvalidYAML      = errors.New("invalid YAML")
)

// Entry is a pane as written in the manifest. Content comes either inline
// or from File, resolved relative to the manifest directory.
type Entry struct {
	Name     string `yaml:"name"`
	Language string `yaml:"language,omitempty"`
	File     string `yaml:"file,omitempty"`
	Content  string `yaml:"content,omitempty"`
	Caption  string `yaml:"caption,omitempty"`
}

// Manifest is the codetabs.yaml file.
type Manifest struct {
	Version string   `yaml:"version"`
	Title   string   `yaml:"title,omitempty"`
	Active  string   `yaml:"active,omitempty"`
	Order   []string `yaml:"order,omitempty"`
	Panes   []Entry  `yaml:"panes"`
}

// NewManifest creates an empty manifest with the current schema version.
func NewManifest(title string) *Manifest {
	return &Manifest{
		Version: SchemaVersion,
		Title:   title,
		Panes:   []Entry{},
	}
}

// Discover finds the manifest file.
// Order: explicit path > CWD > parent directories up to git root.
func Discover(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", fmt.Errorf("%w: %s", ErrManifestNotFound, explicit)
			}
			return "", err
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	path, err := config.FindUp(cwd, DefaultFilename)
	if err != nil {
		return "", ErrManifestNotFound
	}
	return path, nil
}

// Load decodes the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path from Discover or user flag
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrManifestNotFound
		}
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidYAML, err)
	}
	if m.Panes == nil {
		m.Panes = []Entry{}
	}

	return &m, nil
}

// Save writes the manifest to path atomically. Writers serialize on a lock
// of the manifest's directory; the data goes to a temp file there which is
// then renamed over path.
func (m *Manifest) Save(path string) (err error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}

	dir, err := os.Open(filepath.Dir(path)) //nolint:gosec // Path from discovery or flag
	if err != nil {
		return fmt.Errorf("open manifest dir: %w", err)
	}
	defer dir.Close()

	unlock, err := lockFile(dir, LockTimeout)
	if err != nil {
		return err
	}
	defer unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), ".codetabs-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name()) //nolint:errcheck // Best effort cleanup
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil { //nolint:gosec // Manifest is committed with the project
		return fmt.Errorf("set permissions: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename manifest: %w", err)
	}
	return nil
}

// Create saves m as a new manifest at path. An existing file is an
// ErrManifestExists unless force is set.
func (m *Manifest) Create(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrManifestExists, path)
		}
	}
	return m.Save(path)
}

// AddPane appends a pane to the manifest.
func (m *Manifest) AddPane(e Entry) error {
	if e.Name == "" {
		return ErrEmptyName
	}
	if e.File == "" && e.Content == "" {
		return fmt.Errorf("%w: %s", ErrEmptyPane, e.Name)
	}
	if m.HasPane(e.Name) {
		return fmt.Errorf("%w: %s", ErrPaneExists, e.Name)
	}

	m.Panes = append(m.Panes, e)
	return nil
}

// HasPane checks if a pane exists in the manifest.
func (m *Manifest) HasPane(name string) bool {
	for _, e := range m.Panes {
		if e.Name == name {
			return true
		}
	}
	return false
}

// ToSet resolves every entry into a pane and builds the tab set. File
// entries are read relative to dir. A missing language is inferred from
// the file name, then from the pane name. Order and Active are applied when
// present.
func (m *Manifest) ToSet(dir string) (*Set, error) {
	panes := make([]Pane, 0, len(m.Panes))
	for _, e := range m.Panes {
		content := e.Content
		if e.File != "" {
			path := e.File
			if !filepath.IsAbs(path) {
				path = filepath.Join(dir, path)
			}
			data, err := os.ReadFile(path) //nolint:gosec // Path from the project manifest
			if err != nil {
				return nil, fmt.Errorf("read pane %s: %w", e.Name, err)
			}
			content = string(data)
		}

		lang := e.Language
		if lang == "" {
			lang = LanguageFor(e.File)
		}
		if lang == "" {
			lang = LanguageFor(e.Name)
		}

		panes = append(panes, Pane{
			Name:     e.Name,
			Language: lang,
			Content:  content,
			Caption:  e.Caption,
		})
	}

	set, err := NewSet(m.Title, panes)
	if err != nil {
		return nil, err
	}
	if len(m.Order) > 0 {
		set.Reorder(m.Order)
		set.Active = set.Panes[0].Name
	}
	if m.Active != "" {
		if err := set.Select(m.Active); err != nil {
			return nil, err
		}
	}
	return set, nil
}
