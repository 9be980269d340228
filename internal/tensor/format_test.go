package tensor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "[]", Format(&Matrix[float64]{}))

	m := &Matrix[float64]{Rows: 2, Cols: 2, Data: []float64{0.1, 0.2, 0.3, 0.4}}
	assert.Equal(t, "[[0.1, 0.2],\n [0.3, 0.4]]", Format(m))

	ids := PadSequences([][]int64{{97, 98}, {99}})
	assert.Equal(t, "[[97, 98],\n [99, 0]]", Format(ids))
}

func TestFormat_Summarized(t *testing.T) {
	rows, cols := 100, 20
	data := make([]int64, rows*cols)
	for i := range data {
		data[i] = int64(i)
	}
	out := Format(&Matrix[int64]{Rows: rows, Cols: cols, Data: data})

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 2*edgeItems+1)
	assert.Equal(t, "[[0, 1, 2, ..., 17, 18, 19],", lines[0])
	assert.Equal(t, " ...,", lines[edgeItems])
	assert.Equal(t, " [1980, 1981, 1982, ..., 1997, 1998, 1999]]", lines[len(lines)-1])
}
