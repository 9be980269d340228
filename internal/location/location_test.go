package location

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecpack/blobstore"
	"github.com/hupe1980/vecpack/blobstore/minio"
	"github.com/hupe1980/vecpack/blobstore/s3"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Location
	}{
		{"data/in", Location{Kind: Local, Path: filepath.Clean("data/in")}},
		{"./out/", Location{Kind: Local, Path: "out"}},
		{"s3://bucket", Location{Kind: S3, Bucket: "bucket"}},
		{"s3://bucket/emb/run1/", Location{Kind: S3, Bucket: "bucket", Prefix: "emb/run1"}},
		{"minio://b/p", Location{Kind: MinIO, Bucket: "b", Prefix: "p"}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Parse("s3:///prefix")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLocation_String(t *testing.T) {
	for _, s := range []string{"s3://bucket", "s3://bucket/a/b", "minio://b/p"} {
		l, err := Parse(s)
		require.NoError(t, err)
		assert.Equal(t, s, l.String())
	}
}

func TestSplit(t *testing.T) {
	l, _ := Parse("s3://bucket/emb/part-01_vectors.safetensors")
	parent, name, err := l.Split()
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/emb", parent.String())
	assert.Equal(t, "part-01_vectors.safetensors", name)

	l, _ = Parse("minio://bucket/file.safetensors")
	parent, name, err = l.Split()
	require.NoError(t, err)
	assert.Equal(t, "minio://bucket", parent.String())
	assert.Equal(t, "file.safetensors", name)

	l, _ = Parse(filepath.Join("out", "x_docids.safetensors"))
	parent, name, err = l.Split()
	require.NoError(t, err)
	assert.Equal(t, "out", parent.Path)
	assert.Equal(t, "x_docids.safetensors", name)

	l, _ = Parse("s3://bucket")
	_, _, err = l.Split()
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestOpen_LocalCreate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := Resolve(context.Background(), dir, Config{}, true)
	require.NoError(t, err)
	assert.IsType(t, &blobstore.LocalStore{}, store)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestResolveFile_Local(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "f.bin"), []byte("x"), 0o644))

	store, name, err := ResolveFile(context.Background(), filepath.Join(dir, "f.bin"), Config{})
	require.NoError(t, err)
	assert.Equal(t, "f.bin", name)

	ok, err := blobstore.Exists(context.Background(), store, name)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpen_Remote(t *testing.T) {
	_, err := Resolve(context.Background(), "minio://bucket/p", Config{}, false)
	assert.ErrorIs(t, err, minio.ErrNoEndpoint)

	store, err := Resolve(context.Background(), "minio://bucket/p", Config{
		MinIO: minio.Config{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"},
	}, false)
	require.NoError(t, err)
	assert.IsType(t, &minio.Store{}, store)

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	store, err = Resolve(context.Background(), "s3://bucket/p", Config{
		S3: S3Config{Region: "us-east-1", Endpoint: "http://localhost:4566", UsePathStyle: true},
	}, false)
	require.NoError(t, err)
	assert.IsType(t, &s3.Store{}, store)
}
