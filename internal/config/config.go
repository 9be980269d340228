// Package config loads the optional YAML configuration of the vecpack command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/vecpack/blobstore/minio"
	"github.com/hupe1980/vecpack/internal/location"
)

// DefaultLogFile is the log file used when none is configured.
const DefaultLogFile = "process_log.log"

// Environment variables that fill missing MinIO credentials.
const (
	EnvMinIOAccessKey = "MINIO_ACCESS_KEY"
	EnvMinIOSecretKey = "MINIO_SECRET_KEY"
)

// Config is the root of the configuration file.
type Config struct {
	Input              string      `yaml:"input"`
	Output             string      `yaml:"output"`
	Workers            int         `yaml:"workers"`
	Overwrite          bool        `yaml:"overwrite"`
	IOLimitBytesPerSec int64       `yaml:"ioLimitBytesPerSec"`
	MemoryLimitBytes   int64       `yaml:"memoryLimitBytes"`
	Log                LogConfig   `yaml:"log"`
	S3                 S3Config    `yaml:"s3"`
	MinIO              MinIOConfig `yaml:"minio"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	File    string `yaml:"file"`
	Verbose bool   `yaml:"verbose"`
}

// S3Config defines S3 client settings. Credentials come from the AWS chain.
type S3Config struct {
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"usePathStyle"`
}

// MinIOConfig defines MinIO client settings.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
	Secure    bool   `yaml:"secure"`
	Region    string `yaml:"region"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Workers: runtime.NumCPU(),
		Log:     LogConfig{File: DefaultLogFile},
	}
}

// Load reads path on top of Default and applies the environment.
func Load(path string) (*Config, error) {
	path, err := expandUserPath(path)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	for _, p := range []*string{&cfg.Input, &cfg.Output, &cfg.Log.File} {
		if *p == "" {
			continue
		}
		if *p, err = expandUserPath(*p); err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	return cfg, cfg.Validate()
}

// ApplyEnv fills MinIO credentials missing from the file.
func (c *Config) ApplyEnv() {
	if c.MinIO.AccessKey == "" {
		c.MinIO.AccessKey = os.Getenv(EnvMinIOAccessKey)
	}
	if c.MinIO.SecretKey == "" {
		c.MinIO.SecretKey = os.Getenv(EnvMinIOSecretKey)
	}
}

// Validate rejects negative limits.
func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must not be negative, got %d", c.Workers)
	}
	if c.IOLimitBytesPerSec < 0 {
		return fmt.Errorf("config: ioLimitBytesPerSec must not be negative, got %d", c.IOLimitBytesPerSec)
	}
	if c.MemoryLimitBytes < 0 {
		return fmt.Errorf("config: memoryLimitBytes must not be negative, got %d", c.MemoryLimitBytes)
	}
	return nil
}

// Location returns the storage backend settings.
func (c *Config) Location() location.Config {
	return location.Config{
		S3: location.S3Config{
			Region:       c.S3.Region,
			Endpoint:     c.S3.Endpoint,
			UsePathStyle: c.S3.UsePathStyle,
		},
		MinIO: minio.Config{
			Endpoint:  c.MinIO.Endpoint,
			AccessKey: c.MinIO.AccessKey,
			SecretKey: c.MinIO.SecretKey,
			Secure:    c.MinIO.Secure,
			Region:    c.MinIO.Region,
		},
	}
}

func expandUserPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed[0] != '~' {
		return path, nil
	}
	if trimmed != "~" && !strings.HasPrefix(trimmed, "~/") {
		return "", fmt.Errorf("config: unsupported ~user path: %s", path)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, strings.TrimPrefix(trimmed, "~")), nil
}
