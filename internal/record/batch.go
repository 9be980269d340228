package record

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Batch holds the valid records of one input file in input order,
// together with the line numbers that were skipped.
type Batch struct {
	Vectors [][]float64
	DocIDs  [][]int64

	skipped *roaring.Bitmap
	lines   int
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{skipped: roaring.New()}
}

// Add appends a valid record and counts its line.
func (b *Batch) Add(r Record) {
	b.Vectors = append(b.Vectors, r.Vector)
	b.DocIDs = append(b.DocIDs, EncodeDocID(r.DocID))
	b.lines++
}

// Skip records a rejected 1-based line number and counts its line.
func (b *Batch) Skip(line int) {
	b.skipped.Add(uint32(line))
	b.lines++
}

// Len returns the number of valid records.
func (b *Batch) Len() int { return len(b.Vectors) }

// Lines returns the number of lines seen, valid or not.
func (b *Batch) Lines() int { return b.lines }

// SkippedCount returns the number of skipped lines.
func (b *Batch) SkippedCount() int { return int(b.skipped.GetCardinality()) }

// IsSkipped reports whether the 1-based line was skipped.
func (b *Batch) IsSkipped(line int) bool { return b.skipped.Contains(uint32(line)) }

// SkippedLines returns up to limit skipped line numbers in ascending order.
// A limit <= 0 returns all of them.
func (b *Batch) SkippedLines(limit int) []int {
	n := b.SkippedCount()
	if limit > 0 {
		n = min(n, limit)
	}
	out := make([]int, 0, n)
	it := b.skipped.Iterator()
	for it.HasNext() && len(out) < n {
		out = append(out, int(it.Next()))
	}
	return out
}

// LineOf returns the 1-based input line of the valid record at row, or 0 when
// row is out of range.
func (b *Batch) LineOf(row int) int {
	if row < 0 || row >= b.Len() {
		return 0
	}
	// The row-th valid line is the smallest line l with l - skipped(<= l) == row+1.
	want := uint64(row + 1)
	lo, hi := uint64(1), uint64(b.lines)
	for lo < hi {
		mid := lo + (hi-lo)/2
		if mid-b.skipped.Rank(uint32(mid)) >= want {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return int(lo)
}
