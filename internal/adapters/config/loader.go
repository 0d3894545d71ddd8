// Package config provides the configuration loader for stackhub.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"go.trai.ch/stackhub/internal/core/domain"
	"go.trai.ch/stackhub/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvConfigPath = "STACKHUB_CONFIG"
	EnvAddr       = "STACKHUB_ADDR"
	EnvStatePath  = "STACKHUB_STATE"
	EnvLogJSON    = "STACKHUB_LOG_JSON"
)

const (
	minCompressionLevel = -2
	maxCompressionLevel = 9
)

// FileConfigLoader implements ports.ConfigLoader using a YAML file.
type FileConfigLoader struct {
	log    ports.Logger
	getenv func(string) string
}

var _ ports.ConfigLoader = (*FileConfigLoader)(nil)

// NewLoader creates a new FileConfigLoader that reads overrides from the process environment.
func NewLoader(log ports.Logger) *FileConfigLoader {
	return &FileConfigLoader{log: log, getenv: os.Getenv}
}

// WithEnv replaces the environment lookup. Used for testing.
func (l *FileConfigLoader) WithEnv(getenv func(string) string) *FileConfigLoader {
	l.getenv = getenv
	return l
}

// Path returns the configuration file path, honoring STACKHUB_CONFIG.
func (l *FileConfigLoader) Path() string {
	if p := l.getenv(EnvConfigPath); p != "" {
		return p
	}
	return domain.DefaultConfigFile
}

// Load reads the configuration file at path, applies it over the defaults and then
// applies environment overrides. A missing file is not an error.
func (l *FileConfigLoader) Load(path string) (*domain.Config, error) {
	cfg := domain.DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if path != domain.DefaultConfigFile && l.log != nil {
			l.log.Warn("config file " + path + " not found, using defaults")
		}
	case err != nil:
		return nil, zerr.With(zerr.Wrap(err, "failed to read config file"), "path", path)
	default:
		var file File
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to parse config file"), "path", path)
		}
		apply(cfg, &file)
	}

	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return cfg, nil
}

func apply(cfg *domain.Config, file *File) {
	if file.Server.Addr != "" {
		cfg.Server.Addr = file.Server.Addr
	}
	if file.Server.CORSOrigins != nil {
		cfg.Server.CORSOrigins = file.Server.CORSOrigins
	}
	if file.Server.MaxUploadBytes != nil {
		cfg.Server.MaxUploadBytes = *file.Server.MaxUploadBytes
	}
	if file.Server.ShutdownTimeout != nil {
		cfg.Server.ShutdownTimeout = *file.Server.ShutdownTimeout
	}
	if file.Store.Path != "" {
		cfg.Store.Path = file.Store.Path
	}
	if file.Archive.CompressionLevel != nil {
		cfg.Archive.CompressionLevel = *file.Archive.CompressionLevel
	}
	if file.Log.JSON != nil {
		cfg.Log.JSON = *file.Log.JSON
	}
}

func (l *FileConfigLoader) applyEnv(cfg *domain.Config) error {
	if v := l.getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := l.getenv(EnvStatePath); v != "" {
		cfg.Store.Path = v
	}
	if v := l.getenv(EnvLogJSON); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return zerr.With(zerr.Wrap(err, "invalid boolean in environment"), "variable", EnvLogJSON)
		}
		cfg.Log.JSON = b
	}
	return nil
}

func validate(cfg *domain.Config) error {
	if cfg.Server.MaxUploadBytes <= 0 {
		return zerr.With(zerr.New("max_upload_bytes must be positive"), "max_upload_bytes", cfg.Server.MaxUploadBytes)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return zerr.With(zerr.New("shutdown_timeout must not be negative"), "shutdown_timeout", cfg.Server.ShutdownTimeout.String())
	}
	if lvl := cfg.Archive.CompressionLevel; lvl < minCompressionLevel || lvl > maxCompressionLevel {
		return zerr.With(zerr.New("compression_level out of range"), "compression_level", lvl)
	}
	if cfg.Store.Path == "" {
		return zerr.New("store path must not be empty")
	}
	return nil
}
