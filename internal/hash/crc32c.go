package hash

import (
	"fmt"
	"hash"
	"hash/crc32"
	"strconv"
)

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
// Uses hardware acceleration when available (SSE4.2, ARM CRC).
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// Hex formats a checksum as 8 lowercase hex digits.
func Hex(sum uint32) string {
	return fmt.Sprintf("%08x", sum)
}

// ParseHex parses a checksum produced by Hex.
func ParseHex(s string) (uint32, error) {
	if len(s) != 8 {
		return 0, fmt.Errorf("hash: checksum %q must have 8 hex digits", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("hash: invalid checksum %q: %w", s, err)
	}
	return uint32(v), nil
}
