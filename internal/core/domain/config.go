package domain

import "time"

const (
	// DefaultConfigFile is the configuration file looked up in the working directory.
	DefaultConfigFile = "stackhub.yaml"
	// DefaultAddr is the listen address of the HTTP server.
	DefaultAddr = ":8000"
	// DefaultStatePath is where the store state is persisted.
	DefaultStatePath = ".stackhub/state.bin"
	// DefaultMaxUploadBytes caps a single upload request body.
	DefaultMaxUploadBytes int64 = 64 << 20
	// DefaultShutdownTimeout bounds graceful shutdown of the HTTP server.
	DefaultShutdownTimeout = 10 * time.Second
	// DefaultCompressionLevel lets the deflate implementation pick its default level.
	DefaultCompressionLevel = -1

	// DirPerm is the permission used for directories created by stackhub.
	DirPerm = 0o750
	// FilePerm is the permission used for the state file.
	FilePerm = 0o600
)

// Config is the runtime configuration of stackhub.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Store   StoreConfig   `yaml:"store"`
	Archive ArchiveConfig `yaml:"archive"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StoreConfig configures persistence.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// ArchiveConfig configures the download archives.
type ArchiveConfig struct {
	CompressionLevel int `yaml:"compression_level"`
}

// LogConfig configures logging.
type LogConfig struct {
	JSON bool `yaml:"json"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			CORSOrigins:     []string{"*"},
			MaxUploadBytes:  DefaultMaxUploadBytes,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Store:   StoreConfig{Path: DefaultStatePath},
		Archive: ArchiveConfig{CompressionLevel: DefaultCompressionLevel},
	}
}
