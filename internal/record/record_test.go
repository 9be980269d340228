package record

import (
	"errors"
	"testing"

	"github.com/hupe1980/vecpack/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	for _, c := range []codec.Codec{codec.JSON{}, codec.GoJSON{}} {
		t.Run(c.Name(), func(t *testing.T) {
			p := NewParser(c)

			r, err := p.Parse([]byte(`{"vector": [0.1, 0.2], "docid": "ab"}`), 1)
			require.NoError(t, err)
			assert.Equal(t, []float64{0.1, 0.2}, r.Vector)
			assert.Equal(t, "ab", r.DocID)

			// Only the first element must be a float literal.
			r, err = p.Parse([]byte(`  {"docid": "x", "vector": [1e-3, 2, -3], "extra": null}`+"\r\n"), 2)
			require.NoError(t, err)
			assert.Equal(t, []float64{0.001, 2, -3}, r.Vector)
		})
	}
}

func TestParse_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  error
		docID string
	}{
		{"empty line", ``, ErrMalformed, NotAvailable},
		{"truncated", `{"vector": [0.1`, ErrMalformed, NotAvailable},
		{"array", `[0.1, 0.2]`, ErrMalformed, NotAvailable},
		{"null", `null`, ErrMalformed, NotAvailable},
		{"empty vector", `{"vector": [], "docid": "x"}`, ErrInvalidVector, "x"},
		{"missing vector", `{"docid": "x"}`, ErrInvalidVector, "x"},
		{"integer first", `{"vector": [1, 0.5], "docid": "x"}`, ErrInvalidVector, "x"},
		{"string element", `{"vector": [0.1, "a"], "docid": "x"}`, ErrInvalidVector, "x"},
		{"string first", `{"vector": ["0.1"], "docid": "x"}`, ErrInvalidVector, "x"},
		{"overflow", `{"vector": [0.1, 1e400], "docid": "x"}`, ErrInvalidVector, "x"},
		{"vector object", `{"vector": {"a": 0.1}, "docid": "x"}`, ErrInvalidVector, "x"},
		{"invalid vector no docid", `{"vector": []}`, ErrInvalidVector, NotAvailable},
		{"missing docid", `{"vector": [0.1]}`, ErrMissingDocID, NotAvailable},
		{"numeric docid", `{"vector": [0.1], "docid": 7}`, ErrInvalidDocID, NotAvailable},
		{"case sensitive keys", `{"Vector": [0.1], "docid": "x"}`, ErrInvalidVector, "x"},
	}

	p := NewParser(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Parse([]byte(tt.line), 9)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var skip *SkipError
			require.True(t, errors.As(err, &skip))
			assert.Equal(t, 9, skip.Line)
			assert.Equal(t, tt.docID, skip.DocID)
		})
	}
}

func TestDocID_CodePoints(t *testing.T) {
	assert.Equal(t, []int64{97, 98}, EncodeDocID("ab"))
	assert.Equal(t, []int64{233}, EncodeDocID("é"))
	assert.Equal(t, []int64{128512}, EncodeDocID("😀"))
	assert.Empty(t, EncodeDocID(""))
}

func TestParse_EscapedDocID(t *testing.T) {
	p := NewParser(codec.JSON{})

	r, err := p.Parse([]byte(`{"vector": [0.1], "docid": "a\ud83d\ude00"}`), 1)
	require.NoError(t, err)
	assert.Equal(t, []int64{97, 128512}, EncodeDocID(r.DocID))

	// A lone surrogate is not a Unicode scalar value; it decodes to U+FFFD.
	r, err = p.Parse([]byte(`{"vector": [0.1], "docid": "a\ud800b"}`), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{97, 0xFFFD, 98}, EncodeDocID(r.DocID))
}

func TestDocID_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "doc-42", "héllo wörld", "日本語", "😀x😀"} {
		codes := EncodeDocID(s)
		assert.Equal(t, s, DecodeDocID(codes))

		padded := append(codes, 0, 0, 0)
		assert.Equal(t, s, DecodeDocID(padded))
	}
}

func TestBatch(t *testing.T) {
	b := NewBatch()
	b.Add(Record{Vector: []float64{0.1}, DocID: "a"})
	b.Skip(2)
	b.Add(Record{Vector: []float64{0.2}, DocID: "bc"})
	b.Skip(4)
	b.Skip(5)

	assert.Equal(t, 2, b.Len())
	assert.Equal(t, 5, b.Lines())
	assert.Equal(t, 3, b.SkippedCount())
	assert.True(t, b.IsSkipped(4))
	assert.False(t, b.IsSkipped(3))
	assert.Equal(t, []int{2, 4}, b.SkippedLines(2))
	assert.Equal(t, []int{2, 4, 5}, b.SkippedLines(0))
	assert.Equal(t, [][]int64{{97}, {98, 99}}, b.DocIDs)

	assert.Equal(t, 1, b.LineOf(0))
	assert.Equal(t, 3, b.LineOf(1))
	assert.Equal(t, 0, b.LineOf(2))
}
