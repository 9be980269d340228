package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const input = `{"vector": [0.1, 0.2], "docid": "doc-1"}
{"vector": [], "docid": "empty"}
{"vector": [1.5, -2.0], "docid": "dóc-2"}
`

func setup(t *testing.T) (in, out, logFile string) {
	t.Helper()
	in = t.TempDir()
	out = filepath.Join(t.TempDir(), "out")
	logFile = filepath.Join(t.TempDir(), "process_log.log")
	require.NoError(t, os.WriteFile(filepath.Join(in, "part.jsonl"), []byte(input), 0o644))
	return in, out, logFile
}

func TestConvertInspectCompare(t *testing.T) {
	ctx := context.Background()
	in, out, logFile := setup(t)

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--input", in, "--output", out, "--log-file", logFile, "--no-progress", "--workers", "2"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.FileExists(t, filepath.Join(out, "part_vectors.safetensors"))
	assert.FileExists(t, filepath.Join(out, "part_docids.safetensors"))
	assert.Contains(t, stderr.String(), "skipped invalid entry")

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), "level=DEBUG")
	assert.Contains(t, string(logged), "tensor contents")
	assert.NotContains(t, stderr.String(), "tensor contents")

	stdout.Reset()
	code = run(ctx, []string{"inspect",
		"--vectors", filepath.Join(out, "part_vectors.safetensors"),
		"--docids", filepath.Join(out, "part_docids.safetensors"),
		"--limit", "1",
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Equal(t, "rows: 2  dim: 2  producer: vecpack\ndoc-1\t[0.1, 0.2]\n... 1 more rows\n", stdout.String())

	stdout.Reset()
	code = run(ctx, []string{"inspect",
		"--vectors", filepath.Join(out, "part_vectors.safetensors"),
		"--docids", filepath.Join(out, "part_docids.safetensors"),
		"--jsonl",
	}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	dumped := filepath.Join(t.TempDir(), "dumped.jsonl")
	require.NoError(t, os.WriteFile(dumped, stdout.Bytes(), 0o644))

	expected := filepath.Join(t.TempDir(), "expected.jsonl")
	require.NoError(t, os.WriteFile(expected, []byte(`{"vector": [0.1, 0.2], "docid": "doc-1"}
{"vector": [1.5, -2.0], "docid": "dóc-2"}
`), 0o644))

	stdout.Reset()
	code = run(ctx, []string{"compare", expected, dumped}, &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "No differences found. The files are identical.\n", stdout.String())

	stdout.Reset()
	code = run(ctx, []string{"compare", filepath.Join(in, "part.jsonl"), dumped}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stdout.String(), "Missing entry for docid: empty")
}

func TestConvert_SecondRunWithoutOverwriteFails(t *testing.T) {
	ctx := context.Background()
	in, out, logFile := setup(t)
	args := []string{"convert", "--input", in, "--output", out, "--log-file", logFile, "--no-progress"}

	var stdout, stderr bytes.Buffer
	require.Equal(t, exitOK, run(ctx, args, &stdout, &stderr), stderr.String())

	stderr.Reset()
	assert.Equal(t, exitFailure, run(ctx, args, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "already exists")

	assert.Equal(t, exitOK, run(ctx, append(args, "--overwrite"), &stdout, &stderr))
}

func TestConvert_ConfigFile(t *testing.T) {
	ctx := context.Background()
	in, out, logFile := setup(t)
	cfgPath := filepath.Join(t.TempDir(), "vecpack.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("input: "+in+"\noutput: /nonexistent/overridden\nworkers: 1\n"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--config", cfgPath, "--output", out, "--log-file", logFile, "--no-progress"}, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.FileExists(t, filepath.Join(out, "part_vectors.safetensors"))
}

func TestRun_UsageErrors(t *testing.T) {
	ctx := context.Background()
	tests := map[string][]string{
		"no args":         nil,
		"unknown command": {"frobnicate"},
		"missing output":  {"--input", t.TempDir()},
		"unknown flag":    {"convert", "--bogus"},
		"bad location":    {"--input", "s3://", "--output", t.TempDir(), "--no-progress", "--log-file", ""},
		"compare arity":   {"compare", "a.jsonl"},
		"inspect missing": {"inspect", "--vectors", "v.safetensors"},
	}
	for name, args := range tests {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, exitUsage, run(ctx, args, &stdout, &stderr), name)
	}
}

func TestConvert_FileFailureExitsOne(t *testing.T) {
	ctx := context.Background()
	in, out, logFile := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("x"), 0o644))

	var stdout, stderr bytes.Buffer
	code := run(ctx, []string{"--input", in, "--output", out, "--log-file", logFile, "--no-progress"}, &stdout, &stderr)
	assert.Equal(t, exitFailure, code)
	assert.FileExists(t, filepath.Join(out, "part_vectors.safetensors"))
}
