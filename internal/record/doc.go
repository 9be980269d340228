// Package record parses and validates input lines and accumulates the valid
// records of one input file into a Batch.
//
// A line is accepted when it is a JSON object whose "vector" is a non-empty
// array of finite numbers with a floating-point literal first element, and
// whose "docid" is a string. Every other line is rejected with an error that
// wraps one of ErrMalformed, ErrInvalidVector, ErrMissingDocID or
// ErrInvalidDocID; the caller logs it and moves on.
//
// Document identifiers are stored as one int64 per Unicode code point.
package record
