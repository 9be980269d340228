// Package compare diffs two JSONL embedding files keyed by docid.
package compare

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/hupe1980/vecpack/codec"
	"github.com/hupe1980/vecpack/internal/source"
)

// Kind classifies a difference.
type Kind uint8

const (
	// MissingLeft means the docid only appears in the second file.
	MissingLeft Kind = iota
	// MissingRight means the docid only appears in the first file.
	MissingRight
	// VectorMismatch means both files hold the docid with different vectors.
	VectorMismatch
)

// Difference is one docid that does not match.
type Difference struct {
	DocID string
	Kind  Kind
}

func (d Difference) String() string {
	switch d.Kind {
	case VectorMismatch:
		return fmt.Sprintf("Vector mismatch for docid: %s", d.DocID)
	case MissingLeft:
		return fmt.Sprintf("Missing entry for docid: %s (only in second file)", d.DocID)
	default:
		return fmt.Sprintf("Missing entry for docid: %s (only in first file)", d.DocID)
	}
}

// Result lists the differences in docid order.
type Result struct {
	Left, Right int
	Differences []Difference
}

// Equal reports whether no differences were found.
func (r *Result) Equal() bool { return len(r.Differences) == 0 }

type entry struct {
	DocID  *string   `json:"docid"`
	Vector []float64 `json:"vector"`
}

// ReadEntries maps each docid of a JSONL stream to its vector. Blank lines are
// ignored; a later line wins over an earlier one with the same docid.
func ReadEntries(r io.Reader, c codec.Codec) (map[string][]float64, error) {
	if c == nil {
		c = codec.Default
	}
	out := make(map[string][]float64)
	lr := source.NewLineReader(r)
	for lr.Next() {
		line := lr.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		var e entry
		if err := c.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("compare: line %d: %w", lr.Line(), err)
		}
		if e.DocID == nil {
			return nil, fmt.Errorf("compare: line %d: missing docid", lr.Line())
		}
		out[*e.DocID] = e.Vector
	}
	if err := lr.Err(); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}
	return out, nil
}

// Diff compares two docid maps.
func Diff(left, right map[string][]float64) *Result {
	res := &Result{Left: len(left), Right: len(right)}
	for id, lv := range left {
		rv, ok := right[id]
		switch {
		case !ok:
			res.Differences = append(res.Differences, Difference{DocID: id, Kind: MissingRight})
		case !slices.Equal(lv, rv):
			res.Differences = append(res.Differences, Difference{DocID: id, Kind: VectorMismatch})
		}
	}
	for id := range right {
		if _, ok := left[id]; !ok {
			res.Differences = append(res.Differences, Difference{DocID: id, Kind: MissingLeft})
		}
	}
	slices.SortFunc(res.Differences, func(a, b Difference) int {
		return cmp.Compare(a.DocID, b.DocID)
	})
	return res
}

// Files compares two local JSONL files, decompressing them by extension.
func Files(ctx context.Context, left, right string, c codec.Codec) (*Result, error) {
	l, err := readFile(ctx, left, c)
	if err != nil {
		return nil, err
	}
	r, err := readFile(ctx, right, c)
	if err != nil {
		return nil, err
	}
	return Diff(l, r), nil
}

func readFile(ctx context.Context, path string, c codec.Codec) (map[string][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	format, err := source.Detect(path)
	if err != nil {
		return nil, fmt.Errorf("compare: %s: %w", path, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r, err := source.Decompress(f, format)
	if err != nil {
		return nil, fmt.Errorf("compare: %s: %w", path, err)
	}
	defer func() { _ = r.Close() }()

	entries, err := ReadEntries(r, c)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
