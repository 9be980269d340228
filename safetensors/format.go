package safetensors

import (
	"errors"
	"fmt"
)

// MaxHeaderSize bounds the JSON header accepted by Decode.
const MaxHeaderSize = 100 << 20

// MetadataKey is the reserved header entry holding string metadata.
const MetadataKey = "__metadata__"

// ChecksumKey is the metadata entry holding the hex CRC32C of the payload.
const ChecksumKey = "crc32c"

var (
	// ErrTruncated is returned when the input ends before the declared data.
	ErrTruncated = errors.New("safetensors: truncated file")
	// ErrHeaderTooLarge is returned when the declared header exceeds MaxHeaderSize.
	ErrHeaderTooLarge = errors.New("safetensors: header too large")
	// ErrInvalidHeader is returned for malformed header JSON.
	ErrInvalidHeader = errors.New("safetensors: invalid header")
	// ErrUnsupportedDType is returned for dtypes other than F64, F32, I64, I32.
	ErrUnsupportedDType = errors.New("safetensors: unsupported dtype")
	// ErrShapeMismatch is returned when shape and data size disagree.
	ErrShapeMismatch = errors.New("safetensors: shape does not match data size")
	// ErrInvalidOffsets is returned for out-of-bounds or non-contiguous offsets.
	ErrInvalidOffsets = errors.New("safetensors: invalid data offsets")
	// ErrInvalidName is returned for empty or reserved tensor names.
	ErrInvalidName = errors.New("safetensors: invalid tensor name")
	// ErrChecksumMismatch is returned when the payload does not match its recorded CRC32C.
	ErrChecksumMismatch = errors.New("safetensors: checksum mismatch")
)

// DType identifies the element type of a tensor.
type DType string

const (
	F64 DType = "F64"
	F32 DType = "F32"
	I64 DType = "I64"
	I32 DType = "I32"
)

// Size returns the element size in bytes, or 0 for unsupported dtypes.
func (d DType) Size() int {
	switch d {
	case F64, I64:
		return 8
	case F32, I32:
		return 4
	default:
		return 0
	}
}

// Valid reports whether d is a supported dtype.
func (d DType) Valid() bool { return d.Size() > 0 }

// TensorInfo is the header entry describing one tensor.
type TensorInfo struct {
	DType       DType    `json:"dtype"`
	Shape       []int64  `json:"shape"`
	DataOffsets [2]int64 `json:"data_offsets"`
}

// numElements returns the product of shape, rejecting negative dims and overflow.
func numElements(shape []int64) (int64, error) {
	n := int64(1)
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative dimension %d", ErrShapeMismatch, d)
		}
		if d != 0 && n > (1<<62)/d {
			return 0, fmt.Errorf("%w: shape %v overflows", ErrShapeMismatch, shape)
		}
		n *= d
	}
	return n, nil
}
