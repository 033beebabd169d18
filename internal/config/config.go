package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/csperkins/empirical-analysis-ietf/internal/credential"
)

// Config holds the runtime settings of the archive tooling.
type Config struct {
	IMAP     IMAPConfig     `mapstructure:"imap" yaml:"imap"`
	Archive  ArchiveConfig  `mapstructure:"archive" yaml:"archive"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Ingest   IngestConfig   `mapstructure:"ingest" yaml:"ingest"`
}

// IMAPConfig points at the archive server. The public IETF archive
// accepts the anonymous credentials; for private servers the password
// can come from the system keyring instead of the config file.
type IMAPConfig struct {
	Host       string `mapstructure:"host" yaml:"host"`
	Port       int    `mapstructure:"port" yaml:"port"`
	Username   string `mapstructure:"username" yaml:"username"`
	Password   string `mapstructure:"password" yaml:"password"`
	UseKeyring bool   `mapstructure:"use_keyring" yaml:"use_keyring"`
}

// ArchiveConfig locates the per-folder archive files.
type ArchiveConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// IngestConfig tunes the parsing fan-out. Workers below 1 means one
// worker per CPU.
type IngestConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

func DefaultConfig() Config {
	return Config{
		IMAP: IMAPConfig{
			Host:     "imap.ietf.org",
			Port:     993,
			Username: "anonymous",
			Password: "anonymous",
		},
		Archive: ArchiveConfig{
			Dir: "downloads/ietf-ma/lists",
		},
		Database: DatabaseConfig{
			Path: "ietf-ma.sqlite",
		},
	}
}

func ConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ietf-ma", "config.yaml"), nil
}

func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("IETFMA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return cfg, err
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func Save(cfg Config) (string, error) {
	path, err := ConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}

	return path, nil
}

// Redact masks the password for display.
func Redact(cfg Config) Config {
	masked := cfg
	if masked.IMAP.Password != "" {
		masked.IMAP.Password = "****"
	}
	return masked
}

// IMAPPassword resolves the effective IMAP password: the configured
// value when present, else the system keyring when enabled.
func (c Config) IMAPPassword() (string, error) {
	if c.IMAP.Password != "" {
		return c.IMAP.Password, nil
	}
	if c.IMAP.UseKeyring {
		return credential.GetPassword(c.IMAP.Username)
	}
	return "", nil
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("imap.host", cfg.IMAP.Host)
	v.SetDefault("imap.port", cfg.IMAP.Port)
	v.SetDefault("imap.username", cfg.IMAP.Username)
	v.SetDefault("imap.password", cfg.IMAP.Password)
	v.SetDefault("archive.dir", cfg.Archive.Dir)
	v.SetDefault("database.path", cfg.Database.Path)
	v.SetDefault("ingest.workers", cfg.Ingest.Workers)
}
