package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "vecpack.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoad(t *testing.T) {
	t.Setenv(EnvMinIOAccessKey, "env-access")
	t.Setenv(EnvMinIOSecretKey, "env-secret")

	p := writeConfig(t, `
input: s3://bucket/in
output: ./out
workers: 3
overwrite: true
ioLimitBytesPerSec: 1048576
log:
  verbose: true
s3:
  region: eu-central-1
  usePathStyle: true
minio:
  endpoint: localhost:9000
  secretKey: file-secret
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "s3://bucket/in", cfg.Input)
	assert.Equal(t, "./out", cfg.Output)
	assert.Equal(t, 3, cfg.Workers)
	assert.True(t, cfg.Overwrite)
	assert.Equal(t, int64(1<<20), cfg.IOLimitBytesPerSec)
	assert.Zero(t, cfg.MemoryLimitBytes)
	assert.Equal(t, DefaultLogFile, cfg.Log.File)
	assert.True(t, cfg.Log.Verbose)

	loc := cfg.Location()
	assert.Equal(t, "eu-central-1", loc.S3.Region)
	assert.True(t, loc.S3.UsePathStyle)
	assert.Equal(t, "localhost:9000", loc.MinIO.Endpoint)
	assert.Equal(t, "env-access", loc.MinIO.AccessKey)
	assert.Equal(t, "file-secret", loc.MinIO.SecretKey)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, DefaultLogFile, cfg.Log.File)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "workers: [1, 2]"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "memoryLimitBytes: -5"))
	assert.ErrorContains(t, err, "memoryLimitBytes")
}

func TestExpandUserPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandUserPath("~/logs/run.log")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "logs", "run.log"), got)

	got, err = expandUserPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)

	_, err = expandUserPath("~other/x")
	assert.Error(t, err)
}
