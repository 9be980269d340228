package safetensors

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
)

// Tensor is a dense little-endian row-major array.
type Tensor struct {
	DType DType
	Shape []int64
	Data  []byte
}

// New wraps raw little-endian data, checking it against dtype and shape.
func New(dtype DType, shape []int64, data []byte) (*Tensor, error) {
	if !dtype.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDType, dtype)
	}
	n, err := numElements(shape)
	if err != nil {
		return nil, err
	}
	if n*int64(dtype.Size()) != int64(len(data)) {
		return nil, fmt.Errorf("%w: %s%v needs %d bytes, got %d", ErrShapeMismatch, dtype, shape, n*int64(dtype.Size()), len(data))
	}
	return &Tensor{DType: dtype, Shape: slices.Clone(shape), Data: data}, nil
}

// NewF64 encodes values as an F64 tensor of the given shape.
func NewF64(shape []int64, values []float64) (*Tensor, error) {
	data := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[8*i:], math.Float64bits(v))
	}
	return New(F64, shape, data)
}

// NewI64 encodes values as an I64 tensor of the given shape.
func NewI64(shape []int64, values []int64) (*Tensor, error) {
	data := make([]byte, 8*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint64(data[8*i:], uint64(v))
	}
	return New(I64, shape, data)
}

// Len returns the number of elements.
func (t *Tensor) Len() int { return len(t.Data) / t.DType.Size() }

// Rows returns the first dimension of a 2-D tensor.
func (t *Tensor) Rows() int64 {
	if len(t.Shape) == 0 {
		return 0
	}
	return t.Shape[0]
}

// Cols returns the second dimension of a 2-D tensor.
func (t *Tensor) Cols() int64 {
	if len(t.Shape) < 2 {
		return 0
	}
	return t.Shape[1]
}

// Float64s decodes an F64 or F32 tensor.
func (t *Tensor) Float64s() ([]float64, error) {
	out := make([]float64, t.Len())
	switch t.DType {
	case F64:
		for i := range out {
			out[i] = math.Float64frombits(binary.LittleEndian.Uint64(t.Data[8*i:]))
		}
	case F32:
		for i := range out {
			out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(t.Data[4*i:])))
		}
	default:
		return nil, fmt.Errorf("%w: %s is not a float dtype", ErrUnsupportedDType, t.DType)
	}
	return out, nil
}

// Int64s decodes an I64 or I32 tensor.
func (t *Tensor) Int64s() ([]int64, error) {
	out := make([]int64, t.Len())
	switch t.DType {
	case I64:
		for i := range out {
			out[i] = int64(binary.LittleEndian.Uint64(t.Data[8*i:]))
		}
	case I32:
		for i := range out {
			out[i] = int64(int32(binary.LittleEndian.Uint32(t.Data[4*i:])))
		}
	default:
		return nil, fmt.Errorf("%w: %s is not an integer dtype", ErrUnsupportedDType, t.DType)
	}
	return out, nil
}
