// Package tensor stacks the records of a batch into dense row-major matrices.
package tensor

import (
	"fmt"

	"github.com/hupe1980/vecpack/safetensors"
)

// DimensionMismatchError reports a vector whose length differs from the first row.
type DimensionMismatchError struct {
	Row      int
	Expected int
	Actual   int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch at row %d: expected %d, got %d", e.Row, e.Expected, e.Actual)
}

// Matrix is a dense row-major matrix.
type Matrix[T float64 | int64] struct {
	Rows int
	Cols int
	Data []T
}

// At returns the element at row i, column j.
func (m *Matrix[T]) At(i, j int) T { return m.Data[i*m.Cols+j] }

// Row returns row i as a sub-slice of Data.
func (m *Matrix[T]) Row(i int) []T { return m.Data[i*m.Cols : (i+1)*m.Cols] }

// Shape returns the matrix shape in safetensors form.
func (m *Matrix[T]) Shape() []int64 { return []int64{int64(m.Rows), int64(m.Cols)} }

// StackVectors builds a rows x dim matrix. All vectors must share the length of
// the first one. An empty input yields a 0 x 0 matrix.
func StackVectors(vectors [][]float64) (*Matrix[float64], error) {
	if len(vectors) == 0 {
		return &Matrix[float64]{}, nil
	}

	dim := len(vectors[0])
	m := &Matrix[float64]{Rows: len(vectors), Cols: dim, Data: make([]float64, 0, len(vectors)*dim)}
	for i, v := range vectors {
		if len(v) != dim {
			return nil, &DimensionMismatchError{Row: i, Expected: dim, Actual: len(v)}
		}
		m.Data = append(m.Data, v...)
	}
	return m, nil
}

// PadSequences builds a rows x width matrix where width is the longest sequence,
// right-padding shorter rows with zero.
func PadSequences(seqs [][]int64) *Matrix[int64] {
	width := 0
	for _, s := range seqs {
		width = max(width, len(s))
	}
	if len(seqs) == 0 {
		return &Matrix[int64]{}
	}

	m := &Matrix[int64]{Rows: len(seqs), Cols: width, Data: make([]int64, len(seqs)*width)}
	for i, s := range seqs {
		copy(m.Data[i*width:], s)
	}
	return m
}

// VectorTensor converts an F64 matrix to a safetensors tensor.
func VectorTensor(m *Matrix[float64]) (*safetensors.Tensor, error) {
	return safetensors.NewF64(m.Shape(), m.Data)
}

// DocIDTensor converts an I64 matrix to a safetensors tensor.
func DocIDTensor(m *Matrix[int64]) (*safetensors.Tensor, error) {
	return safetensors.NewI64(m.Shape(), m.Data)
}

// FromF64 rebuilds a matrix from a decoded 2-D tensor.
func FromF64(t *safetensors.Tensor) (*Matrix[float64], error) {
	rows, cols, err := dims(t)
	if err != nil {
		return nil, err
	}
	data, err := t.Float64s()
	if err != nil {
		return nil, err
	}
	return &Matrix[float64]{Rows: rows, Cols: cols, Data: data}, nil
}

// FromI64 rebuilds a matrix from a decoded 2-D tensor.
func FromI64(t *safetensors.Tensor) (*Matrix[int64], error) {
	rows, cols, err := dims(t)
	if err != nil {
		return nil, err
	}
	data, err := t.Int64s()
	if err != nil {
		return nil, err
	}
	return &Matrix[int64]{Rows: rows, Cols: cols, Data: data}, nil
}

func dims(t *safetensors.Tensor) (int, int, error) {
	if len(t.Shape) != 2 {
		return 0, 0, fmt.Errorf("tensor: expected 2-D tensor, got shape %v", t.Shape)
	}
	return int(t.Shape[0]), int(t.Shape[1]), nil
}
