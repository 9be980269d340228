// Package testutil provides testing utilities for vecpack.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible vectors and JSONL input files.
//
// # Random Vector Generation
//
//	rng := testutil.NewRNG(seed)
//	vecs := rng.GaussianVectors(1000, 768)
//
// # JSONL Fixtures
//
//	data := testutil.JSONL(rng, testutil.Fixture{Rows: 1000, Dim: 768, InvalidEvery: 10})
package testutil
