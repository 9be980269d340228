package safetensors

import (
	"bytes"
	"cmp"
	"encoding/binary"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/hupe1980/vecpack/codec"
	"github.com/hupe1980/vecpack/internal/hash"
)

// File is a decoded safetensors container.
type File struct {
	Metadata map[string]string
	Tensors  map[string]*Tensor
	Infos    map[string]TensorInfo

	payload []byte
}

// Names returns the tensor names in sorted order.
func (f *File) Names() []string { return slices.Sorted(maps.Keys(f.Tensors)) }

// Tensor returns the named tensor.
func (f *File) Tensor(name string) (*Tensor, bool) {
	t, ok := f.Tensors[name]
	return t, ok
}

// Checksum returns the CRC32C recorded in metadata, if any.
func (f *File) Checksum() (uint32, bool, error) {
	s, ok := f.Metadata[ChecksumKey]
	if !ok {
		return 0, false, nil
	}
	sum, err := hash.ParseHex(s)
	if err != nil {
		return 0, true, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}
	return sum, true, nil
}

// PayloadChecksum computes the CRC32C of the payload as stored.
func (f *File) PayloadChecksum() uint32 { return hash.CRC32C(f.payload) }

// VerifyChecksum compares the recorded checksum to the payload.
// Files without a recorded checksum pass.
func (f *File) VerifyChecksum() error {
	want, ok, err := f.Checksum()
	if err != nil || !ok {
		return err
	}
	if got := f.PayloadChecksum(); got != want {
		return fmt.Errorf("%w: recorded %s, computed %s", ErrChecksumMismatch, hash.Hex(want), hash.Hex(got))
	}
	return nil
}

// Decode parses a complete safetensors file held in data.
// The returned tensors alias data.
func Decode(data []byte) (*File, error) {
	if len(data) < 8 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTruncated, len(data))
	}

	n := binary.LittleEndian.Uint64(data[:8])
	if n > MaxHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, n)
	}
	if n > uint64(len(data)-8) {
		return nil, fmt.Errorf("%w: header of %d bytes exceeds file", ErrTruncated, n)
	}

	headerBytes := bytes.TrimRight(data[8:8+n], " ")
	payload := data[8+n:]

	if len(headerBytes) == 0 || headerBytes[0] != '{' {
		return nil, fmt.Errorf("%w: header is not a JSON object", ErrInvalidHeader)
	}

	var raw map[string]codec.RawMessage
	if err := codec.Default.Unmarshal(headerBytes, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	f := &File{
		Metadata: map[string]string{},
		Tensors:  make(map[string]*Tensor, len(raw)),
		Infos:    make(map[string]TensorInfo, len(raw)),
		payload:  payload,
	}

	for name, value := range raw {
		if name == MetadataKey {
			if err := codec.Default.Unmarshal(value, &f.Metadata); err != nil {
				return nil, fmt.Errorf("%w: metadata: %v", ErrInvalidHeader, err)
			}
			continue
		}
		if name == "" {
			return nil, fmt.Errorf("%w: empty tensor name", ErrInvalidName)
		}

		var info TensorInfo
		if err := codec.Default.Unmarshal(value, &info); err != nil {
			return nil, fmt.Errorf("%w: tensor %q: %v", ErrInvalidHeader, name, err)
		}
		if err := validateInfo(info, int64(len(payload))); err != nil {
			return nil, fmt.Errorf("tensor %q: %w", name, err)
		}
		f.Infos[name] = info
	}

	if err := checkContiguous(f.Infos, int64(len(payload))); err != nil {
		return nil, err
	}

	for name, info := range f.Infos {
		begin, end := info.DataOffsets[0], info.DataOffsets[1]
		f.Tensors[name] = &Tensor{DType: info.DType, Shape: info.Shape, Data: payload[begin:end:end]}
	}
	return f, nil
}

// Read decodes a safetensors file of the given size from r.
func Read(r io.ReaderAt, size int64) (*File, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: negative size", ErrTruncated)
	}
	data := make([]byte, size)
	n, err := r.ReadAt(data, 0)
	if err != nil && !(err == io.EOF && int64(n) == size) {
		return nil, err
	}
	return Decode(data)
}

func validateInfo(info TensorInfo, payloadLen int64) error {
	if !info.DType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedDType, info.DType)
	}
	begin, end := info.DataOffsets[0], info.DataOffsets[1]
	if begin < 0 || end < begin || end > payloadLen {
		return fmt.Errorf("%w: [%d, %d] with payload of %d bytes", ErrInvalidOffsets, begin, end, payloadLen)
	}
	n, err := numElements(info.Shape)
	if err != nil {
		return err
	}
	if n*int64(info.DType.Size()) != end-begin {
		return fmt.Errorf("%w: %s%v spans %d bytes", ErrShapeMismatch, info.DType, info.Shape, end-begin)
	}
	return nil
}

// checkContiguous requires the tensors to tile the payload without gaps or overlaps.
func checkContiguous(infos map[string]TensorInfo, payloadLen int64) error {
	spans := make([][2]int64, 0, len(infos))
	for _, info := range infos {
		spans = append(spans, info.DataOffsets)
	}
	slices.SortFunc(spans, func(a, b [2]int64) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})

	var next int64
	for _, s := range spans {
		if s[0] != next {
			return fmt.Errorf("%w: expected tensor at offset %d, found %d", ErrInvalidOffsets, next, s[0])
		}
		next = s[1]
	}
	if next != payloadLen {
		return fmt.Errorf("%w: tensors cover %d of %d payload bytes", ErrInvalidOffsets, next, payloadLen)
	}
	return nil
}
