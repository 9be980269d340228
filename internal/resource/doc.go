// Package resource enforces the optional memory budget and I/O rate limit shared
// by all conversion workers.
//
// Memory is reserved once per input file, before its records are buffered, so a
// worker never holds part of the budget while waiting for more. I/O limits apply
// to every byte read from inputs and written to artifacts.
package resource
