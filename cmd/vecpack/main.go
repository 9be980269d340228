// Command vecpack converts JSONL embedding files into safetensors pairs.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/gops/agent"

	"github.com/hupe1980/vecpack/internal/location"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	switch args[0] {
	case "convert":
		return convertCmd(ctx, args[1:], stderr)
	case "inspect":
		return inspectCmd(ctx, args[1:], stdout, stderr)
	case "compare":
		return compareCmd(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		usage(stdout)
		return exitOK
	}
	if strings.HasPrefix(args[0], "-") {
		return convertCmd(ctx, args, stderr)
	}
	usage(stderr)
	return exitUsage
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: vecpack [convert] --input <loc> --output <loc> [options]")
	fmt.Fprintln(w, "       vecpack <command> [options]")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert  Convert every JSONL file of a location into safetensors (default)")
	fmt.Fprintln(w, "  inspect  Print or dump a vectors/docids safetensors pair")
	fmt.Fprintln(w, "  compare  Compare two JSONL files by docid")
	fmt.Fprintln(w, "Locations are directories, s3://bucket/prefix or minio://bucket/prefix.")
}

// parseFlags parses args and maps parse failures to an exit code.
func parseFlags(flags *flag.FlagSet, args []string) (int, bool) {
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK, false
		}
		return exitUsage, false
	}
	return exitOK, true
}

// resolveExit maps a location error to an exit code.
func resolveExit(err error) int {
	if errors.Is(err, location.ErrEmpty) || errors.Is(err, location.ErrInvalid) {
		return exitUsage
	}
	return exitFailure
}

func startGops(stderr io.Writer) {
	if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
		fmt.Fprintf(stderr, "gops: %v\n", err)
	}
}
