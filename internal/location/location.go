// Package location maps location strings to blob stores.
//
// A location is a local directory path, s3://bucket/prefix or
// minio://bucket/prefix.
package location

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/hupe1980/vecpack/blobstore"
	"github.com/hupe1980/vecpack/blobstore/minio"
	"github.com/hupe1980/vecpack/blobstore/s3"
)

var (
	// ErrEmpty is returned for an empty location.
	ErrEmpty = errors.New("location: empty")
	// ErrInvalid is returned for a malformed remote location.
	ErrInvalid = errors.New("location: invalid")
)

// Kind identifies the storage backend of a location.
type Kind uint8

const (
	Local Kind = iota
	S3
	MinIO
)

const (
	s3Scheme    = "s3://"
	minioScheme = "minio://"
)

// Location is a parsed location string.
type Location struct {
	Kind Kind
	// Path is the directory of a local location.
	Path string
	// Bucket and Prefix address a remote location.
	Bucket string
	Prefix string
}

// Parse parses a location string.
func Parse(loc string) (Location, error) {
	if loc == "" {
		return Location{}, ErrEmpty
	}

	var kind Kind
	var rest string
	switch {
	case strings.HasPrefix(loc, s3Scheme):
		kind, rest = S3, loc[len(s3Scheme):]
	case strings.HasPrefix(loc, minioScheme):
		kind, rest = MinIO, loc[len(minioScheme):]
	default:
		return Location{Kind: Local, Path: filepath.Clean(loc)}, nil
	}

	bucket, prefix, _ := strings.Cut(rest, "/")
	if bucket == "" {
		return Location{}, fmt.Errorf("%w: %q has no bucket", ErrInvalid, loc)
	}
	return Location{Kind: kind, Bucket: bucket, Prefix: strings.Trim(prefix, "/")}, nil
}

func (l Location) String() string {
	var scheme string
	switch l.Kind {
	case S3:
		scheme = s3Scheme
	case MinIO:
		scheme = minioScheme
	default:
		return l.Path
	}
	if l.Prefix == "" {
		return scheme + l.Bucket
	}
	return scheme + l.Bucket + "/" + l.Prefix
}

// Split separates the last element of l, which names a file, from its
// parent location.
func (l Location) Split() (Location, string, error) {
	if l.Kind == Local {
		name := filepath.Base(l.Path)
		if name == "." || name == string(filepath.Separator) {
			return Location{}, "", fmt.Errorf("%w: %q does not name a file", ErrInvalid, l.Path)
		}
		return Location{Kind: Local, Path: filepath.Dir(l.Path)}, name, nil
	}

	if l.Prefix == "" {
		return Location{}, "", fmt.Errorf("%w: %q does not name a file", ErrInvalid, l.String())
	}
	dir, name := path.Split(l.Prefix)
	parent := l
	parent.Prefix = strings.Trim(dir, "/")
	return parent, name, nil
}

// S3Config configures S3 locations. Credentials come from the default AWS chain.
type S3Config struct {
	Region       string
	Endpoint     string
	UsePathStyle bool
}

// Config holds backend settings for Open.
type Config struct {
	S3    S3Config
	MinIO minio.Config
}

// Open returns a store for l. With create set, a missing local directory is
// created.
func Open(ctx context.Context, l Location, cfg Config, create bool) (blobstore.BlobStore, error) {
	switch l.Kind {
	case S3:
		return s3.New(ctx, l.Bucket,
			s3.WithPrefix(l.Prefix),
			s3.WithRegion(cfg.S3.Region),
			s3.WithEndpoint(cfg.S3.Endpoint),
			s3.WithUsePathStyle(cfg.S3.UsePathStyle),
		)
	case MinIO:
		return minio.New(cfg.MinIO, l.Bucket, l.Prefix)
	default:
		if create {
			if err := os.MkdirAll(l.Path, 0o755); err != nil {
				return nil, fmt.Errorf("location: create %s: %w", l.Path, err)
			}
		}
		return blobstore.NewLocalStore(l.Path), nil
	}
}

// Resolve parses loc and opens its store.
func Resolve(ctx context.Context, loc string, cfg Config, create bool) (blobstore.BlobStore, error) {
	l, err := Parse(loc)
	if err != nil {
		return nil, err
	}
	return Open(ctx, l, cfg, create)
}

// ResolveFile opens the store holding the file at loc and returns the file's
// name within it.
func ResolveFile(ctx context.Context, loc string, cfg Config) (blobstore.BlobStore, string, error) {
	l, err := Parse(loc)
	if err != nil {
		return nil, "", err
	}
	parent, name, err := l.Split()
	if err != nil {
		return nil, "", err
	}
	store, err := Open(ctx, parent, cfg, false)
	if err != nil {
		return nil, "", err
	}
	return store, name, nil
}
