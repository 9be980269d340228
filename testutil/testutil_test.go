package testutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecpack/internal/record"
)

func TestUniformRangeVectors(t *testing.T) {
	rng := NewRNG(4711)

	v := rng.UniformRangeVectors(8, 32)

	assert.Equal(t, 8, len(v))
	assert.Equal(t, 32, len(v[0]))
	assert.Less(t, v[0][0], 1.0)
	assert.GreaterOrEqual(t, v[1][0], -1.0)
}

func TestGaussianVectors_Reproducible(t *testing.T) {
	a := NewRNG(4711).GaussianVectors(4, 16)
	b := NewRNG(4711).GaussianVectors(4, 16)
	assert.Equal(t, a, b)
}

func TestJSONL(t *testing.T) {
	f := Fixture{Rows: 10, Dim: 4, InvalidEvery: 3}
	data := JSONL(NewRNG(1), f)

	lines := bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n"))
	require.Len(t, lines, 10)

	p := record.NewParser(nil)
	valid := 0
	for i, line := range lines {
		rec, err := p.Parse(line, i+1)
		if (i+1)%3 == 0 {
			assert.ErrorIs(t, err, record.ErrInvalidVector)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, DocID(i), rec.DocID)
		assert.Len(t, rec.Vector, 4)
		valid++
	}
	assert.Equal(t, f.ValidRows(), valid)
}
