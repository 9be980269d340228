package vecpack

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/vecpack/blobstore"
	"github.com/hupe1980/vecpack/safetensors"
)

func putTensor(t *testing.T, store blobstore.BlobStore, name, key string, tensor *safetensors.Tensor) {
	t.Helper()
	data, err := safetensors.Marshal(map[string]*safetensors.Tensor{key: tensor}, nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), name, data))
}

func TestLoadPair_WriteJSONL(t *testing.T) {
	store := blobstore.NewMemoryStore()
	vt, err := safetensors.NewF64([]int64{2, 2}, []float64{1, 0.5, -2, 1e21})
	require.NoError(t, err)
	it, err := safetensors.NewI64([]int64{2, 2}, []int64{120, 0, 233, 128512})
	require.NoError(t, err)
	putTensor(t, store, "v.safetensors", VectorsTensor, vt)
	putTensor(t, store, "d.safetensors", DocIDsTensor, it)

	pair, err := LoadPair(context.Background(), store, "v.safetensors", "d.safetensors")
	require.NoError(t, err)
	assert.Equal(t, 2, pair.Len())
	assert.Equal(t, []string{"x", "é😀"}, pair.DocIDs)

	var buf bytes.Buffer
	require.NoError(t, pair.WriteJSONL(&buf, nil))
	assert.Equal(t,
		"{\"docid\":\"x\",\"vector\":[1.0,0.5]}\n"+
			"{\"docid\":\"é😀\",\"vector\":[-2.0,1e+21]}\n",
		buf.String())
}

func TestLoadPair_RowMismatch(t *testing.T) {
	store := blobstore.NewMemoryStore()
	vt, err := safetensors.NewF64([]int64{2, 1}, []float64{0.1, 0.2})
	require.NoError(t, err)
	it, err := safetensors.NewI64([]int64{1, 1}, []int64{97})
	require.NoError(t, err)
	putTensor(t, store, "v", VectorsTensor, vt)
	putTensor(t, store, "d", DocIDsTensor, it)

	_, err = LoadPair(context.Background(), store, "v", "d")
	var ve *VerifyError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "d", ve.Path)
}

func TestLoadPair_Missing(t *testing.T) {
	_, err := LoadPair(context.Background(), blobstore.NewMemoryStore(), "v", "d")
	var re *ReadError
	require.True(t, errors.As(err, &re))
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestLoadPair_WrongTensorName(t *testing.T) {
	store := blobstore.NewMemoryStore()
	vt, err := safetensors.NewF64([]int64{1, 1}, []float64{0.1})
	require.NoError(t, err)
	putTensor(t, store, "v", "embeddings", vt)

	_, err = LoadPair(context.Background(), store, "v", "d")
	var ve *VerifyError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Error(), `tensor "vectors" missing`)
}
