package tensor

import (
	"fmt"
	"strings"
)

const (
	// SummaryThreshold is the element count above which Format elides rows and columns.
	SummaryThreshold = 1000
	edgeItems        = 3
)

// Format renders m as nested brackets. Matrices with more than
// SummaryThreshold elements show only the first and last few rows and
// columns, with "..." in between.
func Format[T float64 | int64](m *Matrix[T]) string {
	if m.Rows == 0 {
		return "[]"
	}
	summarize := m.Rows*m.Cols > SummaryThreshold

	var sb strings.Builder
	sb.WriteByte('[')
	for i, idx := range visible(m.Rows, summarize) {
		if i > 0 {
			sb.WriteString(",\n ")
		}
		if idx < 0 {
			sb.WriteString("...")
			continue
		}
		sb.WriteByte('[')
		row := m.Row(idx)
		for j, col := range visible(m.Cols, summarize) {
			if j > 0 {
				sb.WriteString(", ")
			}
			if col < 0 {
				sb.WriteString("...")
				continue
			}
			fmt.Fprint(&sb, row[col])
		}
		sb.WriteByte(']')
	}
	sb.WriteByte(']')
	return sb.String()
}

// visible returns the indices to print for a dimension of length n, with -1
// standing for the elided middle.
func visible(n int, summarize bool) []int {
	if !summarize || n <= 2*edgeItems {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, 2*edgeItems+1)
	for i := 0; i < edgeItems; i++ {
		out = append(out, i)
	}
	out = append(out, -1)
	for i := n - edgeItems; i < n; i++ {
		out = append(out, i)
	}
	return out
}
