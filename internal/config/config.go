// Package config resolves codetabs settings from YAML files, CODETABS_*
// environment variables and CLI flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/JoobyPM/codetabs/internal/env"
	"github.com/JoobyPM/codetabs/internal/logging"
	"github.com/JoobyPM/codetabs/internal/storage"
)

// Version is the schema version written to new config files.
const Version = "1"

// Default file paths.
const (
	GlobalConfigDir   = ".config/codetabs"
	GlobalConfigFile  = "config.yaml"
	ProjectConfigFile = ".codetabs.yaml"
)

// Default values.
const (
	DefaultMode           = env.ModeAuto
	DefaultBackend        = storage.BackendFile
	DefaultTruncateLength = 100
	DefaultLogLevel       = "warn"
	DefaultLogFormat      = logging.FormatText
)

// Environment variable names.
const (
	EnvMode           = "CODETABS_ENV_MODE"
	EnvStorageBackend = "CODETABS_STORAGE_BACKEND"
	EnvStorageDir     = "CODETABS_STORAGE_DIR"
	EnvTruncateLength = "CODETABS_TRUNCATE_LENGTH"
	EnvLogLevel       = "CODETABS_LOG_LEVEL"
	EnvLogFormat      = "CODETABS_LOG_FORMAT"
)

// Config is the resolved codetabs configuration.
type Config struct {
	Version     string            `yaml:"version" json:"version"`
	Environment EnvironmentConfig `yaml:"environment" json:"environment"`
	Storage     StorageConfig     `yaml:"storage" json:"storage"`
	Text        TextConfig        `yaml:"text" json:"text"`
	Log         LogConfig         `yaml:"log" json:"log"`
}

// EnvironmentConfig selects the environment variant.
type EnvironmentConfig struct {
	Mode string `yaml:"mode" json:"mode"`
}

// StorageConfig holds durable storage settings.
type StorageConfig struct {
	Backend string `yaml:"backend" json:"backend"`
	Dir     string `yaml:"dir,omitempty" json:"dir,omitempty"`
}

// TextConfig holds text utility defaults.
type TextConfig struct {
	TruncateLength int `yaml:"truncate_length" json:"truncate_length"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Errors.
var (
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrInvalidMode    = errors.New("invalid environment.mode: must be 'auto', 'present' or 'absent'")
	ErrInvalidBackend = errors.New("invalid storage.backend: must be 'file' or 'sqlite'")
)

// New returns the built-in defaults.
func New() *Config {
	return &Config{
		Version:     Version,
		Environment: EnvironmentConfig{Mode: DefaultMode},
		Storage:     StorageConfig{Backend: DefaultBackend},
		Text:        TextConfig{TruncateLength: DefaultTruncateLength},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// LoadOptions selects which layers Load reads.
type LoadOptions struct {
	ExplicitPath string // --config; read instead of the global and project files
	SkipGlobal   bool
	SkipProject  bool
	SkipEnv      bool
}

// Load layers the global file, the project file and CODETABS_* variables
// over the defaults, later layers winning. A file that does not exist is
// skipped. CLI flags are applied afterwards with ApplyCLIOverrides.
func Load(opts LoadOptions) (*Config, error) {
	cfg := New()

	for _, layer := range fileLayers(opts) {
		err := loadFile(cfg, layer.path)
		switch {
		case err == nil:
		case os.IsNotExist(err) && !layer.required:
		default:
			return nil, fmt.Errorf("load %s config %s: %w", layer.name, layer.path, err)
		}
	}

	if opts.SkipEnv {
		return cfg, nil
	}
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

type fileLayer struct {
	name     string
	path     string
	required bool
}

// fileLayers lists the config files to read, lowest precedence first.
func fileLayers(opts LoadOptions) []fileLayer {
	if opts.ExplicitPath != "" {
		return []fileLayer{{name: "explicit", path: opts.ExplicitPath, required: true}}
	}

	var layers []fileLayer
	if !opts.SkipGlobal {
		if path, err := globalConfigPath(); err == nil {
			layers = append(layers, fileLayer{name: "global", path: path})
		}
	}
	if !opts.SkipProject {
		if path, err := discoverProjectConfig(); err == nil {
			layers = append(layers, fileLayer{name: "project", path: path})
		}
	}
	return layers
}

// loadFile decodes path over cfg; keys missing from the file keep their
// current values.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Path from discovery or --config
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, GlobalConfigDir, GlobalConfigFile), nil
}

func discoverProjectConfig() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return FindUp(cwd, ProjectConfigFile)
}

// FindUp walks up from dir looking for name. The walk stops at the first
// directory containing .git, or at the filesystem root.
func FindUp(dir, name string) (string, error) {
	for {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", os.ErrNotExist
}

// applyEnvOverrides copies every set CODETABS_* variable into cfg.
// Enumerated values are lower-cased.
func applyEnvOverrides(cfg *Config) error {
	for _, o := range []struct {
		name  string
		field *string
		fold  bool
	}{
		{EnvMode, &cfg.Environment.Mode, true},
		{EnvStorageBackend, &cfg.Storage.Backend, true},
		{EnvStorageDir, &cfg.Storage.Dir, false},
		{EnvLogLevel, &cfg.Log.Level, true},
		{EnvLogFormat, &cfg.Log.Format, true},
	} {
		v := os.Getenv(o.name)
		if v == "" {
			continue
		}
		if o.fold {
			v = strings.ToLower(v)
		}
		*o.field = v
	}

	v := os.Getenv(EnvTruncateLength)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvTruncateLength, v, err)
	}
	cfg.Text.TruncateLength = n
	return nil
}

// CLIOverrides carries the persistent CLI flags. Empty fields are unset.
type CLIOverrides struct {
	Mode           string
	StorageBackend string
	StorageDir     string
	LogLevel       string
	LogFormat      string
}

// ApplyCLIOverrides applies the set flags on top of everything Load read.
func (cfg *Config) ApplyCLIOverrides(o CLIOverrides) {
	if o.Mode != "" {
		cfg.Environment.Mode = strings.ToLower(o.Mode)
	}
	if o.StorageBackend != "" {
		cfg.Storage.Backend = strings.ToLower(o.StorageBackend)
	}
	if o.StorageDir != "" {
		cfg.Storage.Dir = o.StorageDir
	}
	if o.LogLevel != "" {
		cfg.Log.Level = strings.ToLower(o.LogLevel)
	}
	if o.LogFormat != "" {
		cfg.Log.Format = strings.ToLower(o.LogFormat)
	}
}

// Validate reports the first invalid setting.
func (cfg *Config) Validate() error {
	switch cfg.Environment.Mode {
	case env.ModeAuto, env.ModePresent, env.ModeAbsent:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidMode, cfg.Environment.Mode)
	}

	switch cfg.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite:
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidBackend, cfg.Storage.Backend)
	}

	if cfg.Text.TruncateLength < 0 {
		return fmt.Errorf("%w: text.truncate_length must not be negative, got %d",
			ErrInvalidConfig, cfg.Text.TruncateLength)
	}

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: invalid log.level %q: %w", ErrInvalidConfig, cfg.Log.Level, err)
	}
	switch cfg.Log.Format {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: invalid log.format %q", ErrInvalidConfig, cfg.Log.Format)
	}

	return nil
}

// EnvOptions returns the environment detection options for this config.
// The caller supplies the output file and logger.
func (cfg *Config) EnvOptions(out *os.File, log logrus.FieldLogger) env.Options {
	return env.Options{
		Mode:           cfg.Environment.Mode,
		Output:         out,
		StorageBackend: cfg.Storage.Backend,
		StorageDir:     cfg.Storage.Dir,
		Log:            log,
	}
}

// String renders cfg as YAML.
func (cfg *Config) String() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "# " + err.Error() + "\n"
	}
	return string(data)
}

// SaveGlobal writes cfg to ~/.config/codetabs/config.yaml.
func (cfg *Config) SaveGlobal() error {
	path, err := globalConfigPath()
	if err != nil {
		return err
	}
	return cfg.SaveTo(path)
}

// SaveTo writes cfg to path, creating missing parent directories.
func (cfg *Config) SaveTo(path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

// DiscoveredPaths reports the global and project files Load would read.
// A path is empty when that file does not exist.
func DiscoveredPaths() (global, project string) {
	if path, err := globalConfigPath(); err == nil {
		if _, err := os.Stat(path); err == nil {
			global = path
		}
	}
	if path, err := discoverProjectConfig(); err == nil {
		project = path
	}
	return global, project
}
