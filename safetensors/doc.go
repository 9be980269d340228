// Package safetensors encodes and decodes the safetensors container format.
//
// A file is laid out as
//
//	[u64 little-endian N][N bytes of JSON header][payload]
//
// The header maps tensor names to {"dtype", "shape", "data_offsets"} where the
// offsets are relative to the start of the payload. The optional "__metadata__"
// entry is a flat string map; Encode always records the CRC32-Castagnoli of the
// payload there under "crc32c".
//
// Encoding is deterministic: top-level keys are written in sorted order and the
// header is space-padded to a multiple of 8 bytes, so the same tensors always
// produce the same bytes.
//
// Decode validates the header size, the dtypes, that shape times element size
// equals the offset span, and that offsets are in bounds and contiguous. The
// tensors it returns alias the input buffer.
package safetensors
