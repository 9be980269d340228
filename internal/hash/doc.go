// Package hash provides the CRC32-Castagnoli checksums stored alongside every
// tensor payload.
//
// The writer records the checksum of each payload in the safetensors
// "__metadata__" section as lowercase hex; the read-back step recomputes it and
// compares. CRC32C detects accidental corruption only, not tampering.
//
//	sum := hash.CRC32C(payload)
//	meta["crc32c"] = hash.Hex(sum)
package hash
