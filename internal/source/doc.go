// Package source opens input blobs as line streams.
//
// The compression is chosen from the file extension: .gz (gzip), .zst (zstd),
// .lz4 (lz4 frame), and .jsonl or .json for plain text. Any other extension is
// rejected with ErrUnsupportedFormat before anything is read.
package source
