package vecpack

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/vecpack/blobstore"
	"github.com/hupe1980/vecpack/internal/hash"
	"github.com/hupe1980/vecpack/internal/pool"
	"github.com/hupe1980/vecpack/internal/record"
	"github.com/hupe1980/vecpack/internal/resource"
	"github.com/hupe1980/vecpack/internal/source"
	"github.com/hupe1980/vecpack/internal/tensor"
	"github.com/hupe1980/vecpack/safetensors"
)

const (
	// VectorsTensor is the tensor name inside a vectors artifact.
	VectorsTensor = "vectors"
	// DocIDsTensor is the tensor name inside a docids artifact.
	DocIDsTensor = "docids"
	// VectorsSuffix is appended to the base name of an input to name its vectors artifact.
	VectorsSuffix = "_vectors.safetensors"
	// DocIDsSuffix is appended to the base name of an input to name its docids artifact.
	DocIDsSuffix = "_docids.safetensors"

	// ProducerKey is the metadata key holding the producer name.
	ProducerKey = "producer"

	maxReportedSkips = 10
	writeBufferSize  = 256 << 10

	// Decompressed batches are assumed to be this many times larger than the blob.
	compressedExpansion = 4
)

// ArtifactNames returns the vectors and docids artifact names for an input.
func ArtifactNames(input string) (vectors, docids string) {
	base := source.BaseName(input)
	return base + VectorsSuffix, base + DocIDsSuffix
}

// FileResult describes the conversion of one input file.
type FileResult struct {
	Input       string
	VectorsPath string
	DocIDsPath  string
	// Lines is the number of input lines read.
	Lines int
	// Rows is the number of records written. It is zero for failed files.
	Rows int
	// Dim is the vector length, Width the padded docid length.
	Dim   int
	Width int
	// Skipped is the number of dropped lines; SkippedLines holds the first few.
	Skipped      int
	SkippedLines []int
	Duration     time.Duration
	Err          error
}

// Summary aggregates the results of a run. Files are in listing order;
// files never scheduled because the run was cancelled are absent.
type Summary struct {
	Files    []*FileResult
	Failed   int
	Rows     int
	Skipped  int
	Duration time.Duration
}

func (s *Summary) add(r *FileResult) {
	s.Files = append(s.Files, r)
	s.Skipped += r.Skipped
	if r.Err == nil {
		s.Rows += r.Rows
	}
}

// Converter turns the JSONL files of an input store into safetensors pairs
// in an output store.
type Converter struct {
	input  blobstore.BlobStore
	output blobstore.BlobStore
	opts   options
	rc     *resource.Controller
	parser *record.Parser

	claimMu sync.Mutex
	claims  map[string]string
}

// New creates a Converter reading from input and writing to output.
func New(input, output blobstore.BlobStore, optFns ...Option) *Converter {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	var rc *resource.Controller
	if opts.memoryLimit > 0 || opts.ioLimit > 0 {
		rc = resource.NewController(resource.Config{
			MemoryLimitBytes:   opts.memoryLimit,
			IOLimitBytesPerSec: opts.ioLimit,
		})
	}

	return &Converter{
		input:  input,
		output: output,
		opts:   opts,
		rc:     rc,
		parser: record.NewParser(opts.codec),
		claims: make(map[string]string),
	}
}

// Run converts every entry of the input store on a pool of
// min(workers, files) workers and blocks until all of them finished.
//
// A failing file does not stop the others. Run returns the first error in
// completion order; every result, failed or not, is in the Summary.
// Cancelling ctx stops scheduling new files and aborts in-flight reads.
func (c *Converter) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	names, err := c.input.List(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("vecpack: list input: %w", err)
	}

	summary := &Summary{}
	if len(names) == 0 {
		c.opts.logger.WarnContext(ctx, "no input files found")
		return summary, nil
	}

	c.claimMu.Lock()
	clear(c.claims)
	c.claimMu.Unlock()

	workers := min(c.opts.workers, len(names))
	c.opts.logger.InfoContext(ctx, "starting conversion",
		"files", len(names),
		"workers", workers,
	)

	results := make([]*FileResult, len(names))
	p := pool.New(workers)

	var submitErr error
	for i, name := range names {
		err := p.Submit(ctx, func(slot int) error {
			res, err := c.ConvertFile(ctx, slot, name)
			results[i] = res
			return err
		})
		if err != nil {
			submitErr = err
			break
		}
	}

	err = p.Wait()
	if err == nil {
		err = submitErr
	}

	for _, r := range results {
		if r != nil {
			summary.add(r)
		}
	}
	// A task that panicked has no result but still counts as failed.
	summary.Failed = p.Failures()
	summary.Duration = time.Since(start)
	c.opts.logger.LogSummary(ctx, summary)

	return summary, err
}

// ConvertFile converts a single input entry. slot selects the progress line.
//
// The checks run in order: existence, format, output collision. Nothing is
// written unless all three pass. The returned result is never nil.
func (c *Converter) ConvertFile(ctx context.Context, slot int, name string) (res *FileResult, err error) {
	start := time.Now()
	res = &FileResult{Input: name}
	defer func() {
		res.Duration = time.Since(start)
		res.Err = err
		c.opts.metricsCollector.RecordFile(res.Rows, res.Skipped, res.Duration, err)
		if err != nil {
			c.opts.logger.LogFileFailed(ctx, name, err)
		} else {
			c.opts.logger.LogFileDone(ctx, res)
		}
	}()

	ok, err := blobstore.Exists(ctx, c.input, name)
	if err != nil {
		return res, &ReadError{Input: name, Path: name, cause: err}
	}
	if !ok {
		return res, &MissingFileError{Input: name, cause: ErrNotFound}
	}

	format, err := source.Detect(name)
	if err != nil {
		return res, &UnsupportedFormatError{Input: name, cause: err}
	}

	res.VectorsPath, res.DocIDsPath = ArtifactNames(name)
	if err := c.checkCollision(ctx, name, res.VectorsPath, res.DocIDsPath); err != nil {
		return res, err
	}

	blob, err := c.input.Open(ctx, name)
	if err != nil {
		return res, &ReadError{Input: name, Path: name, cause: err}
	}
	defer func() { _ = blob.Close() }()

	reserved, err := c.rc.AcquireMemory(ctx, estimateMemory(blob.Size(), format))
	if err != nil {
		return res, &ReadError{Input: name, Path: name, cause: err}
	}
	defer c.rc.ReleaseMemory(reserved)
	if c.rc != nil {
		c.opts.logger.DebugContext(ctx, "memory reserved",
			"file", name,
			"bytes", reserved,
			"in_use", c.rc.MemoryUsage(),
		)
	}

	total := c.countLines(ctx, name, blob, format)
	bar := c.opts.progress.Start(slot, name, total)
	defer func() { bar.Finish(err) }()

	batch, err := c.readBatch(ctx, name, blob, format, bar)
	if err != nil {
		return res, err
	}
	res.Lines = batch.Lines()
	res.Skipped = batch.SkippedCount()
	res.SkippedLines = batch.SkippedLines(maxReportedSkips)

	vectors, err := tensor.StackVectors(batch.Vectors)
	if err != nil {
		return res, translateBuildError(name, batch, err)
	}
	docids := tensor.PadSequences(batch.DocIDs)

	vt, err := tensor.VectorTensor(vectors)
	if err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}
	it, err := tensor.DocIDTensor(docids)
	if err != nil {
		return res, fmt.Errorf("%s: %w", name, err)
	}

	arts := []*artifact{
		{path: res.VectorsPath, key: VectorsTensor, tensor: vt, format: formatF64},
		{path: res.DocIDsPath, key: DocIDsTensor, tensor: it, format: formatI64},
	}
	if err := c.writeArtifacts(ctx, name, arts); err != nil {
		return res, err
	}
	if err := c.verifyArtifacts(ctx, name, arts); err != nil {
		return res, err
	}

	res.Rows = vectors.Rows
	res.Dim = vectors.Cols
	res.Width = docids.Cols
	return res, nil
}

func estimateMemory(size int64, format source.Format) int64 {
	if format != source.Plain {
		return size * compressedExpansion
	}
	return size
}

// checkCollision fails when another input of the run produces the same
// artifacts, or when overwrite is off and an artifact exists.
func (c *Converter) checkCollision(ctx context.Context, input string, paths ...string) error {
	c.claimMu.Lock()
	if other, ok := c.claims[paths[0]]; ok && other != input {
		c.claimMu.Unlock()
		return &AlreadyExistsError{Input: input, Path: paths[0], ClaimedBy: other, cause: ErrAlreadyExists}
	}
	c.claims[paths[0]] = input
	c.claimMu.Unlock()

	if c.opts.overwrite {
		return nil
	}
	for _, p := range paths {
		ok, err := blobstore.Exists(ctx, c.output, p)
		if err != nil {
			return &ReadError{Input: input, Path: p, cause: err}
		}
		if ok {
			return &AlreadyExistsError{Input: input, Path: p, cause: ErrAlreadyExists}
		}
	}
	return nil
}

// countLines runs the pre-pass for the progress total. It returns -1 when
// the count is unavailable.
func (c *Converter) countLines(ctx context.Context, name string, blob blobstore.Blob, format source.Format) int {
	r, err := source.Open(ctx, blob, format, c.rc)
	if err != nil {
		c.opts.logger.DebugContext(ctx, "line count unavailable", "file", name, "error", err)
		return -1
	}
	defer func() { _ = r.Close() }()

	n, err := source.CountLines(r)
	if err != nil {
		c.opts.logger.DebugContext(ctx, "line count unavailable", "file", name, "error", err)
		return -1
	}
	return n
}

func (c *Converter) readBatch(ctx context.Context, name string, blob blobstore.Blob, format source.Format, bar ProgressBar) (*record.Batch, error) {
	r, err := source.Open(ctx, blob, format, c.rc)
	if err != nil {
		return nil, &ReadError{Input: name, Path: name, cause: err}
	}
	defer func() { _ = r.Close() }()

	batch := record.NewBatch()
	lr := source.NewLineReader(r)
	for lr.Next() {
		if err := ctx.Err(); err != nil {
			return nil, &ReadError{Input: name, Path: name, cause: err}
		}

		rec, err := c.parser.Parse(lr.Bytes(), lr.Line())
		if err != nil {
			batch.Skip(lr.Line())
			c.opts.logger.LogSkipped(ctx, name, err)
			c.opts.metricsCollector.RecordLine(false)
		} else {
			batch.Add(rec)
			c.opts.metricsCollector.RecordLine(true)
		}
		bar.Add(1)
	}
	if err := lr.Err(); err != nil {
		return nil, &ReadError{Input: name, Path: name, cause: err}
	}
	return batch, nil
}

type artifact struct {
	path   string
	key    string
	tensor *safetensors.Tensor
	format func(*safetensors.Tensor) (string, error)
}

func formatF64(t *safetensors.Tensor) (string, error) {
	m, err := tensor.FromF64(t)
	if err != nil {
		return "", err
	}
	return tensor.Format(m), nil
}

func formatI64(t *safetensors.Tensor) (string, error) {
	m, err := tensor.FromI64(t)
	if err != nil {
		return "", err
	}
	return tensor.Format(m), nil
}

func (c *Converter) writeArtifacts(ctx context.Context, input string, arts []*artifact) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range arts {
		g.Go(func() error {
			err := c.writeArtifact(gctx, a)
			c.opts.logger.LogSaved(ctx, input, a.path, a.tensor.Shape, err)
			if err != nil {
				return &WriteError{Input: input, Path: a.path, cause: err}
			}
			return nil
		})
	}
	return g.Wait()
}

func (c *Converter) writeArtifact(ctx context.Context, a *artifact) (err error) {
	w, err := c.output.Create(ctx, a.path)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = blobstore.Abort(w)
		}
	}()

	bw := bufio.NewWriterSize(resource.NewRateLimitedWriter(ctx, w, c.rc), writeBufferSize)
	tensors := map[string]*safetensors.Tensor{a.key: a.tensor}
	if _, err = safetensors.Encode(bw, tensors, map[string]string{ProducerKey: c.opts.producer}); err != nil {
		return err
	}
	if err = bw.Flush(); err != nil {
		return err
	}
	if err = w.Sync(); err != nil {
		return err
	}
	return w.Close()
}

func (c *Converter) verifyArtifacts(ctx context.Context, input string, arts []*artifact) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, a := range arts {
		g.Go(func() error {
			return c.verifyArtifact(gctx, input, a)
		})
	}
	return g.Wait()
}

// verifyArtifact reads an artifact back and compares it with what was written.
func (c *Converter) verifyArtifact(ctx context.Context, input string, a *artifact) error {
	blob, err := c.output.Open(ctx, a.path)
	if err != nil {
		return &ReadError{Input: input, Path: a.path, cause: err}
	}
	defer func() { _ = blob.Close() }()

	data, err := blobstore.ReadAll(ctx, blob)
	if err != nil {
		return &ReadError{Input: input, Path: a.path, cause: err}
	}

	f, err := safetensors.Decode(data)
	if err != nil {
		return &VerifyError{Input: input, Path: a.path, Reason: "decode", cause: err}
	}
	t, ok := f.Tensor(a.key)
	if !ok {
		return &VerifyError{Input: input, Path: a.path, Reason: fmt.Sprintf("tensor %q missing", a.key)}
	}
	if t.DType != a.tensor.DType {
		return &VerifyError{Input: input, Path: a.path, Reason: fmt.Sprintf("dtype %s, want %s", t.DType, a.tensor.DType)}
	}
	if !slices.Equal(t.Shape, a.tensor.Shape) {
		return &VerifyError{Input: input, Path: a.path, Reason: fmt.Sprintf("shape %v, want %v", t.Shape, a.tensor.Shape)}
	}
	if err := f.VerifyChecksum(); err != nil {
		return &VerifyError{Input: input, Path: a.path, Reason: "checksum", cause: err}
	}
	if got, want := f.PayloadChecksum(), hash.CRC32C(a.tensor.Data); got != want {
		return &VerifyError{Input: input, Path: a.path, Reason: fmt.Sprintf("payload checksum %s, want %s", hash.Hex(got), hash.Hex(want))}
	}

	c.opts.logger.LogLoaded(ctx, input, a.path, string(t.DType), t.Shape)
	if c.opts.logger.Enabled(ctx, slog.LevelDebug) {
		contents, err := a.format(t)
		if err != nil {
			return &VerifyError{Input: input, Path: a.path, Reason: "format", cause: err}
		}
		c.opts.logger.LogContents(ctx, a.path, contents)
	}
	return nil
}
