package source

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrUnsupportedFormat is returned for file names without a recognized extension.
var ErrUnsupportedFormat = errors.New("input file must be a .json, .jsonl, .gz, .zst or .lz4 file")

// Format is the compression of an input file.
type Format uint8

const (
	// Plain is uncompressed UTF-8 text.
	Plain Format = iota
	// Gzip is a gzip stream, possibly multi-member.
	Gzip
	// Zstd is a zstandard stream.
	Zstd
	// LZ4 is an lz4 frame stream.
	LZ4
)

func (f Format) String() string {
	switch f {
	case Plain:
		return "plain"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case LZ4:
		return "lz4"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// Detect returns the format implied by the extension of name. Extensions are
// matched case-sensitively.
func Detect(name string) (Format, error) {
	switch path.Ext(name) {
	case ".gz":
		return Gzip, nil
	case ".zst":
		return Zstd, nil
	case ".lz4":
		return LZ4, nil
	case ".jsonl", ".json":
		return Plain, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

var strippedSuffixes = []string{".gz", ".zst", ".lz4", ".jsonl", ".json"}

// BaseName strips any trailing compression and JSON extensions from the final
// path element of name, repeatedly: "part-01.jsonl.gz" becomes "part-01".
func BaseName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	for {
		stripped := false
		for _, suffix := range strippedSuffixes {
			if len(base) > len(suffix) && strings.HasSuffix(base, suffix) {
				base = base[:len(base)-len(suffix)]
				stripped = true
			}
		}
		if !stripped {
			return base
		}
	}
}
