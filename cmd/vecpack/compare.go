package main

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/hupe1980/vecpack/internal/compare"
)

func compareCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("compare", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() {
		fmt.Fprintln(stderr, "Usage: vecpack compare <first.jsonl> <second.jsonl>")
	}
	if code, ok := parseFlags(flags, args); !ok {
		return code
	}
	if flags.NArg() != 2 {
		flags.Usage()
		return exitUsage
	}

	res, err := compare.Files(ctx, flags.Arg(0), flags.Arg(1), nil)
	if err != nil {
		fmt.Fprintf(stderr, "compare: %v\n", err)
		return exitFailure
	}
	if res.Equal() {
		fmt.Fprintln(stdout, "No differences found. The files are identical.")
		return exitOK
	}
	fmt.Fprintln(stdout, "Differences found:")
	for _, d := range res.Differences {
		fmt.Fprintln(stdout, d.String())
	}
	return exitFailure
}
