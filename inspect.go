package vecpack

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/hupe1980/vecpack/blobstore"
	"github.com/hupe1980/vecpack/codec"
	"github.com/hupe1980/vecpack/internal/record"
	"github.com/hupe1980/vecpack/internal/tensor"
	"github.com/hupe1980/vecpack/safetensors"
)

// Pair is a decoded vectors/docids artifact pair.
type Pair struct {
	DocIDs   []string
	Vectors  [][]float64
	Metadata map[string]string
}

// Len returns the number of rows.
func (p *Pair) Len() int { return len(p.DocIDs) }

// LoadPair reads and decodes a vectors artifact and its docids artifact.
// Docid rows are decoded back to strings with the zero padding removed.
func LoadPair(ctx context.Context, store blobstore.BlobStore, vectorsName, docidsName string) (*Pair, error) {
	return LoadPairFrom(ctx, store, vectorsName, store, docidsName)
}

// LoadPairFrom is LoadPair for artifacts held in different stores.
func LoadPairFrom(ctx context.Context, vectors blobstore.BlobStore, vectorsName string, docids blobstore.BlobStore, docidsName string) (*Pair, error) {
	vf, err := loadTensor(ctx, vectors, vectorsName, VectorsTensor)
	if err != nil {
		return nil, err
	}
	vm, err := tensor.FromF64(vf.t)
	if err != nil {
		return nil, &VerifyError{Input: vectorsName, Path: vectorsName, Reason: "decode", cause: err}
	}

	df, err := loadTensor(ctx, docids, docidsName, DocIDsTensor)
	if err != nil {
		return nil, err
	}
	dm, err := tensor.FromI64(df.t)
	if err != nil {
		return nil, &VerifyError{Input: vectorsName, Path: docidsName, Reason: "decode", cause: err}
	}

	if vm.Rows != dm.Rows {
		return nil, &VerifyError{
			Input:  vectorsName,
			Path:   docidsName,
			Reason: fmt.Sprintf("%d docid rows for %d vectors", dm.Rows, vm.Rows),
		}
	}

	p := &Pair{
		DocIDs:   make([]string, dm.Rows),
		Vectors:  make([][]float64, vm.Rows),
		Metadata: vf.metadata,
	}
	for i := range dm.Rows {
		p.DocIDs[i] = record.DecodeDocID(dm.Row(i))
		p.Vectors[i] = vm.Row(i)
	}
	return p, nil
}

type loaded struct {
	t        *safetensors.Tensor
	metadata map[string]string
}

func loadTensor(ctx context.Context, store blobstore.BlobStore, name, key string) (*loaded, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, &ReadError{Input: name, Path: name, cause: err}
	}
	defer func() { _ = blob.Close() }()

	// Decoded tensors alias the blob, which may be a mapping released on Close.
	f, err := safetensors.Read(readerAt{ctx: ctx, b: blob}, blob.Size())
	if err != nil {
		return nil, &VerifyError{Input: name, Path: name, Reason: "decode", cause: err}
	}
	if err := f.VerifyChecksum(); err != nil {
		return nil, &VerifyError{Input: name, Path: name, Reason: "checksum", cause: err}
	}
	t, ok := f.Tensor(key)
	if !ok {
		return nil, &VerifyError{Input: name, Path: name, Reason: fmt.Sprintf("tensor %q missing", key)}
	}
	return &loaded{t: t, metadata: f.Metadata}, nil
}

type readerAt struct {
	ctx context.Context
	b   blobstore.Blob
}

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	return r.b.ReadAt(r.ctx, p, off)
}

// WriteJSONL writes one {"docid": ..., "vector": [...]} object per row.
// Integral values keep a trailing ".0" so the output converts again.
func (p *Pair) WriteJSONL(w io.Writer, c codec.Codec) error {
	if c == nil {
		c = codec.Default
	}
	bw := bufio.NewWriter(w)
	var buf []byte
	for i, id := range p.DocIDs {
		docid, err := c.Marshal(id)
		if err != nil {
			return err
		}
		buf = append(buf[:0], `{"docid":`...)
		buf = append(buf, docid...)
		buf = append(buf, `,"vector":[`...)
		for j, v := range p.Vectors[i] {
			if j > 0 {
				buf = append(buf, ',')
			}
			buf = appendFloat(buf, v)
		}
		buf = append(buf, "]}\n"...)
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendFloat(dst []byte, v float64) []byte {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		// Not representable in JSON; never produced by a conversion.
		return append(dst, "null"...)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'g', -1, 64)
	for _, ch := range dst[start:] {
		if ch == '.' || ch == 'e' || ch == 'E' {
			return dst
		}
	}
	return append(dst, ".0"...)
}
