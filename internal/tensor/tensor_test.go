package tensor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackVectors(t *testing.T) {
	m, err := StackVectors([][]float64{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}})
	require.NoError(t, err)
	assert.Equal(t, 3, m.Rows)
	assert.Equal(t, 2, m.Cols)
	assert.Equal(t, []float64{0.3, 0.4}, m.Row(1))
	assert.Equal(t, 0.6, m.At(2, 1))
	assert.Equal(t, []int64{3, 2}, m.Shape())
}

func TestStackVectors_Empty(t *testing.T) {
	m, err := StackVectors(nil)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0}, m.Shape())
}

func TestStackVectors_DimensionMismatch(t *testing.T) {
	_, err := StackVectors([][]float64{{0.1, 0.2}, {0.3, 0.4}, {0.5}})

	var dm *DimensionMismatchError
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, 2, dm.Row)
	assert.Equal(t, 2, dm.Expected)
	assert.Equal(t, 1, dm.Actual)
}

func TestPadSequences(t *testing.T) {
	m := PadSequences([][]int64{{97, 98}, {99}, {}, {100, 101, 102}})
	assert.Equal(t, 4, m.Rows)
	assert.Equal(t, 3, m.Cols)
	assert.Equal(t, []int64{97, 98, 0}, m.Row(0))
	assert.Equal(t, []int64{99, 0, 0}, m.Row(1))
	assert.Equal(t, []int64{0, 0, 0}, m.Row(2))
	assert.Equal(t, []int64{100, 101, 102}, m.Row(3))

	assert.Equal(t, []int64{0, 0}, PadSequences(nil).Shape())
}

func TestTensorRoundTrip(t *testing.T) {
	vm, err := StackVectors([][]float64{{0.1, 0.2}})
	require.NoError(t, err)
	vt, err := VectorTensor(vm)
	require.NoError(t, err)
	back, err := FromF64(vt)
	require.NoError(t, err)
	assert.Equal(t, vm, back)

	im := PadSequences([][]int64{{97, 98}, {99}})
	it, err := DocIDTensor(im)
	require.NoError(t, err)
	iback, err := FromI64(it)
	require.NoError(t, err)
	assert.Equal(t, im, iback)

	_, err = FromI64(vt)
	assert.Error(t, err)
}
