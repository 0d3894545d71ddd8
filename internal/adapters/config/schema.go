package config

import "time"

// File represents the structure of the stackhub.yaml configuration file.
// Pointer fields distinguish "not set" from zero values so defaults survive partial files.
type File struct {
	Server  ServerDTO  `yaml:"server"`
	Store   StoreDTO   `yaml:"store"`
	Archive ArchiveDTO `yaml:"archive"`
	Log     LogDTO     `yaml:"log"`
}

// ServerDTO represents the server section.
type ServerDTO struct {
	Addr            string         `yaml:"addr"`
	CORSOrigins     []string       `yaml:"cors_origins"`
	MaxUploadBytes  *int64         `yaml:"max_upload_bytes"`
	ShutdownTimeout *time.Duration `yaml:"shutdown_timeout"`
}

// StoreDTO represents the store section.
type StoreDTO struct {
	Path string `yaml:"path"`
}

// ArchiveDTO represents the archive section.
type ArchiveDTO struct {
	CompressionLevel *int `yaml:"compression_level"`
}

// LogDTO represents the log section.
type LogDTO struct {
	JSON *bool `yaml:"json"`
}
