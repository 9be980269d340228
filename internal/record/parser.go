package record

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/hupe1980/vecpack/codec"
)

// Record is one validated input line.
type Record struct {
	Vector []float64
	DocID  string
}

// Parser validates input lines. It is safe for concurrent use.
type Parser struct {
	codec codec.Codec
}

// NewParser returns a Parser decoding with c, or codec.Default when c is nil.
func NewParser(c codec.Codec) *Parser {
	if c == nil {
		c = codec.Default
	}
	return &Parser{codec: c}
}

// Parse validates a single line. lineNo is the 1-based line number reported in
// a *SkipError when the line is rejected.
func (p *Parser) Parse(line []byte, lineNo int) (Record, error) {
	skip := func(docID string, err error) (Record, error) {
		return Record{}, &SkipError{Line: lineNo, DocID: docID, Err: err}
	}

	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return skip(NotAvailable, fmt.Errorf("%w: not a JSON object", ErrMalformed))
	}

	var fields map[string]codec.RawMessage
	if err := p.codec.Unmarshal(line, &fields); err != nil {
		return skip(NotAvailable, fmt.Errorf("%w: %v", ErrMalformed, err))
	}

	rawDocID, hasDocID := fields["docid"]
	docID, docErr := p.docID(rawDocID, hasDocID)

	label := docID
	if docErr != nil {
		label = NotAvailable
	}

	vector, err := p.vector(fields["vector"])
	if err != nil {
		return skip(label, err)
	}
	if docErr != nil {
		return skip(label, docErr)
	}

	return Record{Vector: vector, DocID: docID}, nil
}

func (p *Parser) docID(raw codec.RawMessage, present bool) (string, error) {
	raw = bytes.TrimSpace(raw)
	if !present || len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", ErrMissingDocID
	}
	if raw[0] != '"' {
		return "", fmt.Errorf("%w: %s is not a string", ErrInvalidDocID, truncate(raw))
	}
	var s string
	if err := p.codec.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidDocID, err)
	}
	return s, nil
}

func (p *Parser) vector(raw codec.RawMessage) ([]float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: missing", ErrInvalidVector)
	}
	if raw[0] != '[' {
		return nil, fmt.Errorf("%w: %s is not an array", ErrInvalidVector, truncate(raw))
	}

	var elems []codec.RawMessage
	if err := p.codec.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidVector, err)
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidVector)
	}
	if first := bytes.TrimSpace(elems[0]); !isNumber(first) || !bytes.ContainsAny(first, ".eE") {
		return nil, fmt.Errorf("%w: first element %s is not a float", ErrInvalidVector, truncate(first))
	}

	out := make([]float64, len(elems))
	for i, e := range elems {
		e = bytes.TrimSpace(e)
		if !isNumber(e) {
			return nil, fmt.Errorf("%w: element %d is not a number", ErrInvalidVector, i)
		}
		v, err := strconv.ParseFloat(string(e), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: element %d is not finite", ErrInvalidVector, i)
		}
		out[i] = v
	}
	return out, nil
}

func isNumber(b []byte) bool {
	return len(b) > 0 && (b[0] == '-' || (b[0] >= '0' && b[0] <= '9'))
}

func truncate(b []byte) string {
	const limit = 32
	if len(b) > limit {
		return string(b[:limit]) + "..."
	}
	return string(b)
}
