package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/vecpack"
	"github.com/hupe1980/vecpack/internal/config"
	"github.com/hupe1980/vecpack/internal/location"
)

func inspectCmd(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("inspect", flag.ContinueOnError)
	flags.SetOutput(stderr)
	vectorsPath := flags.String("vectors", "", "vectors safetensors file (required)")
	docidsPath := flags.String("docids", "", "docids safetensors file (required)")
	limit := flags.Int("limit", 5, "number of rows to print")
	jsonl := flags.Bool("jsonl", false, "write every row as a JSONL record")
	configPath := flags.String("config", "", "config yaml with storage settings (optional)")
	if code, ok := parseFlags(flags, args); !ok {
		return code
	}
	if *vectorsPath == "" || *docidsPath == "" {
		fmt.Fprintln(stderr, "inspect: --vectors and --docids are required")
		flags.Usage()
		return exitUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "inspect: %v\n", err)
			return exitUsage
		}
	} else {
		cfg.ApplyEnv()
	}

	vstore, vname, err := location.ResolveFile(ctx, *vectorsPath, cfg.Location())
	if err != nil {
		fmt.Fprintf(stderr, "inspect: %v\n", err)
		return resolveExit(err)
	}
	dstore, dname, err := location.ResolveFile(ctx, *docidsPath, cfg.Location())
	if err != nil {
		fmt.Fprintf(stderr, "inspect: %v\n", err)
		return resolveExit(err)
	}

	pair, err := vecpack.LoadPairFrom(ctx, vstore, vname, dstore, dname)
	if err != nil {
		fmt.Fprintf(stderr, "inspect: %v\n", err)
		return exitFailure
	}

	if *jsonl {
		if err := pair.WriteJSONL(stdout, nil); err != nil {
			fmt.Fprintf(stderr, "inspect: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	dim := 0
	if pair.Len() > 0 {
		dim = len(pair.Vectors[0])
	}
	fmt.Fprintf(stdout, "rows: %s  dim: %d  producer: %s\n",
		humanize.Comma(int64(pair.Len())), dim, pair.Metadata[vecpack.ProducerKey])
	for i := range min(*limit, pair.Len()) {
		fmt.Fprintf(stdout, "%s\t%s\n", pair.DocIDs[i], formatVector(pair.Vectors[i]))
	}
	if rest := pair.Len() - *limit; rest > 0 && *limit >= 0 {
		fmt.Fprintf(stdout, "... %s more rows\n", humanize.Comma(int64(rest)))
	}
	return exitOK
}

func formatVector(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
