package testutil

import (
	"bytes"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// UniformRangeVectors generates random vectors with values in range [-1, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformRangeVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()*2 - 1
		}
		vectors[i] = vec
	}

	return vectors
}

// GaussianVectors generates random vectors with values from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		vectors[i] = vec
	}

	return vectors
}

// DocID returns the docid generated for row i.
func DocID(i int) string {
	return fmt.Sprintf("doc-%06d", i)
}

// Fixture describes a generated JSONL file.
type Fixture struct {
	Rows int
	Dim  int
	// InvalidEvery replaces every n-th line with a record whose vector is
	// empty. Zero disables it.
	InvalidEvery int
}

// WriteJSONL writes f.Rows lines of {"vector": [...], "docid": "..."}.
// Valid records have Gaussian vectors and DocID(i) docids, where i counts
// all lines from zero.
func WriteJSONL(w io.Writer, rng *RNG, f Fixture) error {
	vectors := rng.GaussianVectors(f.Rows, f.Dim)
	var buf []byte
	for i, vec := range vectors {
		buf = append(buf[:0], `{"vector": [`...)
		if f.InvalidEvery == 0 || (i+1)%f.InvalidEvery != 0 {
			for j, v := range vec {
				if j > 0 {
					buf = append(buf, ", "...)
				}
				// 'e' keeps every element a floating-point literal.
				buf = strconv.AppendFloat(buf, v, 'e', -1, 64)
			}
		}
		buf = append(buf, `], "docid": "`...)
		buf = append(buf, DocID(i)...)
		buf = append(buf, "\"}\n"...)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// JSONL returns the output of WriteJSONL.
func JSONL(rng *RNG, f Fixture) []byte {
	var buf bytes.Buffer
	_ = WriteJSONL(&buf, rng, f)
	return buf.Bytes()
}

// ValidRows returns the number of valid lines in f.
func (f Fixture) ValidRows() int {
	if f.InvalidEvery == 0 {
		return f.Rows
	}
	return f.Rows - f.Rows/f.InvalidEvery
}
