package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "imap.ietf.org", cfg.IMAP.Host)
	assert.Equal(t, 993, cfg.IMAP.Port)
	assert.Equal(t, "anonymous", cfg.IMAP.Username)
	assert.Equal(t, "anonymous", cfg.IMAP.Password)
	assert.Equal(t, "downloads/ietf-ma/lists", cfg.Archive.Dir)
	assert.Equal(t, "ietf-ma.sqlite", cfg.Database.Path)
	assert.Equal(t, 0, cfg.Ingest.Workers)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("IETFMA_IMAP_HOST", "imap.example.org")
	t.Setenv("IETFMA_DATABASE_PATH", "/tmp/other.sqlite")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "imap.example.org", cfg.IMAP.Host)
	assert.Equal(t, "/tmp/other.sqlite", cfg.Database.Path)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	want := DefaultConfig()
	want.IMAP.Host = "imap.example.org"
	want.Archive.Dir = "archives"
	want.Ingest.Workers = 8

	path, err := Save(want)
	require.NoError(t, err)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestConfigPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path, err := ConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "ietf-ma", "config.yaml"), path)
}

func TestRedact(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IMAP.Password = "secret"

	masked := Redact(cfg)
	assert.Equal(t, "****", masked.IMAP.Password)
	assert.Equal(t, "secret", cfg.IMAP.Password)

	empty := Config{}
	assert.Equal(t, "", Redact(empty).IMAP.Password)
}

func TestIMAPPassword_ConfigValue(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IMAP.Password = "secret"

	got, err := cfg.IMAPPassword()
	require.NoError(t, err)
	assert.Equal(t, "secret", got)
}

func TestIMAPPassword_NoSource(t *testing.T) {
	cfg := Config{}

	got, err := cfg.IMAPPassword()
	require.NoError(t, err)
	assert.Equal(t, "", got)
}
