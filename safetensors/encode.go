package safetensors

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/hupe1980/vecpack/codec"
	"github.com/hupe1980/vecpack/internal/hash"
)

// Encode writes tensors and metadata to w and returns the number of bytes written.
// The payload checksum is always stored in metadata under ChecksumKey.
func Encode(w io.Writer, tensors map[string]*Tensor, metadata map[string]string) (int64, error) {
	header, order, err := buildHeader(tensors, metadata)
	if err != nil {
		return 0, err
	}

	var prefix [8]byte
	binary.LittleEndian.PutUint64(prefix[:], uint64(len(header)))

	var written int64
	write := func(p []byte) error {
		n, err := w.Write(p)
		written += int64(n)
		return err
	}

	if err := write(prefix[:]); err != nil {
		return written, err
	}
	if err := write(header); err != nil {
		return written, err
	}
	for _, name := range order {
		if err := write(tensors[name].Data); err != nil {
			return written, err
		}
	}
	return written, nil
}

// Marshal encodes tensors and metadata into a new buffer.
func Marshal(tensors map[string]*Tensor, metadata map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := Encode(&buf, tensors, metadata); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodedSize returns the exact size Encode would write.
func EncodedSize(tensors map[string]*Tensor, metadata map[string]string) (int64, error) {
	header, _, err := buildHeader(tensors, metadata)
	if err != nil {
		return 0, err
	}
	size := int64(8 + len(header))
	for _, t := range tensors {
		size += int64(len(t.Data))
	}
	return size, nil
}

// buildHeader returns the padded JSON header and the payload order.
func buildHeader(tensors map[string]*Tensor, metadata map[string]string) ([]byte, []string, error) {
	order := slices.Sorted(maps.Keys(tensors))

	infos := make(map[string]TensorInfo, len(tensors))
	crc := hash.NewCRC32C()
	var offset int64
	for _, name := range order {
		if name == "" || name == MetadataKey {
			return nil, nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
		t := tensors[name]
		if _, err := New(t.DType, t.Shape, t.Data); err != nil {
			return nil, nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		end := offset + int64(len(t.Data))
		infos[name] = TensorInfo{DType: t.DType, Shape: t.Shape, DataOffsets: [2]int64{offset, end}}
		_, _ = crc.Write(t.Data)
		offset = end
	}

	meta := maps.Clone(metadata)
	if meta == nil {
		meta = make(map[string]string, 1)
	}
	meta[ChecksumKey] = hash.Hex(crc.Sum32())

	keys := append([]string{MetadataKey}, order...)
	slices.Sort(keys)

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := codec.Default.Marshal(key)
		if err != nil {
			return nil, nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		var v []byte
		if key == MetadataKey {
			v, err = codec.Default.Marshal(meta)
		} else {
			v, err = codec.Default.Marshal(infos[key])
		}
		if err != nil {
			return nil, nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')

	for buf.Len()%8 != 0 {
		buf.WriteByte(' ')
	}
	return buf.Bytes(), order, nil
}
