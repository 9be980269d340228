// Package codec centralizes JSON encoding for input records and tensor headers.
//
// Record lines are decoded through a Codec so the parser can be switched between
// the standard library and github.com/goccy/go-json without touching the
// validation rules. Tensor headers go through the same Codec.
package codec

import "encoding/json"

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// RawMessage is a raw encoded JSON value. Both built-in codecs honor it, so
// decoding into a RawMessage defers interpretation of a field to the caller.
type RawMessage = json.RawMessage

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}
