package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoobyPM/codetabs/internal/env"
	"github.com/JoobyPM/codetabs/internal/logging"
	"github.com/JoobyPM/codetabs/internal/storage"
)

func TestNew_Defaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, Version, cfg.Version)
	assert.Equal(t, env.ModeAuto, cfg.Environment.Mode)
	assert.Equal(t, storage.BackendFile, cfg.Storage.Backend)
	assert.Empty(t, cfg.Storage.Dir)
	assert.Equal(t, DefaultTruncateLength, cfg.Text.TruncateLength)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, logging.FormatText, cfg.Log.Format)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	configContent := `
version: "1"
environment:
  mode: absent
storage:
  backend: sqlite
  dir: /var/lib/codetabs
text:
  truncate_length: 40
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

	cfg, err := Load(LoadOptions{
		ExplicitPath: configPath,
		SkipEnv:      true,
	})
	require.NoError(t, err)

	assert.Equal(t, env.ModeAbsent, cfg.Environment.Mode)
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/var/lib/codetabs", cfg.Storage.Dir)
	assert.Equal(t, 40, cfg.Text.TruncateLength)

	// Defaults should still be present for unspecified fields
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	configContent := `
environment:
  mode: present
storage:
  backend: file
`
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0o600))

	t.Setenv(EnvMode, "ABSENT")
	t.Setenv(EnvStorageBackend, "SQLite")
	t.Setenv(EnvStorageDir, "/tmp/codetabs-env")
	t.Setenv(EnvTruncateLength, "64")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvLogFormat, "json")

	cfg, err := Load(LoadOptions{ExplicitPath: configPath})
	require.NoError(t, err)

	assert.Equal(t, env.ModeAbsent, cfg.Environment.Mode)
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/tmp/codetabs-env", cfg.Storage.Dir)
	assert.Equal(t, 64, cfg.Text.TruncateLength)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Log.Format)
}

func TestLoad_BadTruncateEnv(t *testing.T) {
	t.Setenv(EnvTruncateLength, "lots")

	_, err := Load(LoadOptions{SkipGlobal: true, SkipProject: true})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := New()

	cfg.ApplyCLIOverrides(CLIOverrides{
		Mode:           "Present",
		StorageBackend: "sqlite",
		StorageDir:     "/srv/codetabs",
		LogLevel:       "info",
		LogFormat:      "json",
	})

	assert.Equal(t, env.ModePresent, cfg.Environment.Mode)
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, "/srv/codetabs", cfg.Storage.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, logging.FormatJSON, cfg.Log.Format)

	// Empty values should not override
	cfg.ApplyCLIOverrides(CLIOverrides{})
	assert.Equal(t, env.ModePresent, cfg.Environment.Mode)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "present sqlite", mutate: func(c *Config) {
			c.Environment.Mode = env.ModePresent
			c.Storage.Backend = storage.BackendSQLite
		}},
		{name: "zero truncate length", mutate: func(c *Config) { c.Text.TruncateLength = 0 }},
		{
			name:    "invalid mode",
			mutate:  func(c *Config) { c.Environment.Mode = "sometimes" },
			wantErr: ErrInvalidMode,
		},
		{
			name:    "invalid backend",
			mutate:  func(c *Config) { c.Storage.Backend = "redis" },
			wantErr: ErrInvalidBackend,
		},
		{
			name:    "negative truncate length",
			mutate:  func(c *Config) { c.Text.TruncateLength = -1 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestEnvOptions(t *testing.T) {
	cfg := New()
	cfg.Environment.Mode = env.ModeAbsent
	cfg.Storage.Backend = storage.BackendSQLite
	cfg.Storage.Dir = "/data"

	opts := cfg.EnvOptions(os.Stderr, logging.Discard())
	assert.Equal(t, env.ModeAbsent, opts.Mode)
	assert.Equal(t, storage.BackendSQLite, opts.StorageBackend)
	assert.Equal(t, "/data", opts.StorageDir)
	assert.Same(t, os.Stderr, opts.Output)
}

func TestString(t *testing.T) {
	cfg := New()
	output := cfg.String()

	assert.Contains(t, output, "environment:")
	assert.Contains(t, output, "mode: auto")
	assert.Contains(t, output, "truncate_length: 100")
	assert.NotContains(t, output, "dir:", "empty storage dir is omitted")
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "nested", "test-config.yaml")

	cfg := New()
	cfg.Environment.Mode = env.ModePresent
	cfg.Storage.Backend = storage.BackendSQLite
	cfg.Text.TruncateLength = 72

	require.NoError(t, cfg.SaveTo(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := Load(LoadOptions{
		ExplicitPath: configPath,
		SkipEnv:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "invalid.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("invalid: yaml: content: ["), 0o600))

	_, err := Load(LoadOptions{
		ExplicitPath: configPath,
		SkipEnv:      true,
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load(LoadOptions{
		ExplicitPath: "/nonexistent/path/config.yaml",
		SkipEnv:      true,
	})
	assert.Error(t, err)
}

func TestFindUp(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ProjectConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte("environment:\n  mode: absent\n"), 0o600))

	subdir := filepath.Join(dir, "subdir", "nested")
	require.NoError(t, os.MkdirAll(subdir, 0o750))

	found, err := FindUp(subdir, ProjectConfigFile)
	require.NoError(t, err)
	assert.Equal(t, configPath, found)
}

func TestFindUp_StopsAtGitRoot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ProjectConfigFile), []byte(""), 0o600))

	repo := filepath.Join(dir, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o750))
	subdir := filepath.Join(repo, "pkg")
	require.NoError(t, os.MkdirAll(subdir, 0o750))

	_, err := FindUp(subdir, ProjectConfigFile)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDiscoverProjectConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ProjectConfigFile)
	require.NoError(t, os.WriteFile(configPath, []byte("environment:\n  mode: absent\n"), 0o600))

	subdir := filepath.Join(dir, "subdir")
	require.NoError(t, os.MkdirAll(subdir, 0o750))
	t.Chdir(subdir)

	found, err := discoverProjectConfig()
	require.NoError(t, err)

	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expectedResolved, _ := filepath.EvalSymlinks(configPath)
	foundResolved, _ := filepath.EvalSymlinks(found)
	assert.Equal(t, expectedResolved, foundResolved)
}

func TestConfigPrecedence_Full(t *testing.T) {
	// CLI flags > env vars > project config > global config > defaults
	dir := t.TempDir()

	globalPath := filepath.Join(dir, "global.yaml")
	require.NoError(t, os.WriteFile(globalPath, []byte(`
environment:
  mode: present
storage:
  backend: sqlite
  dir: /global
text:
  truncate_length: 10
`), 0o600))

	projectPath := filepath.Join(dir, ProjectConfigFile)
	require.NoError(t, os.WriteFile(projectPath, []byte(`
storage:
  dir: /project
text:
  truncate_length: 20
`), 0o600))

	t.Setenv(EnvTruncateLength, "30")

	cfg := New()

	require.NoError(t, loadFile(cfg, globalPath))
	assert.Equal(t, "/global", cfg.Storage.Dir)
	assert.Equal(t, 10, cfg.Text.TruncateLength)

	require.NoError(t, loadFile(cfg, projectPath))
	assert.Equal(t, "/project", cfg.Storage.Dir)
	assert.Equal(t, 20, cfg.Text.TruncateLength)
	assert.Equal(t, storage.BackendSQLite, cfg.Storage.Backend) // Preserved from global

	require.NoError(t, applyEnvOverrides(cfg))
	assert.Equal(t, 30, cfg.Text.TruncateLength)
	assert.Equal(t, "/project", cfg.Storage.Dir)

	cfg.ApplyCLIOverrides(CLIOverrides{StorageDir: "/cli"})
	assert.Equal(t, "/cli", cfg.Storage.Dir)
}
