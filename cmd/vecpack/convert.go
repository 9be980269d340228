package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/vecpack"
	"github.com/hupe1980/vecpack/internal/config"
	"github.com/hupe1980/vecpack/internal/location"
	"github.com/hupe1980/vecpack/internal/progress"
)

func convertCmd(ctx context.Context, args []string, stderr io.Writer) int {
	flags := flag.NewFlagSet("convert", flag.ContinueOnError)
	flags.SetOutput(stderr)
	input := flags.String("input", "", "input location holding .jsonl, .json, .gz, .zst or .lz4 files (required)")
	output := flags.String("output", "", "output location for the safetensors files (required)")
	overwrite := flags.Bool("overwrite", false, "replace existing output files")
	workers := flags.Int("workers", 0, "number of files converted in parallel (default: number of CPUs)")
	configPath := flags.String("config", "", "config yaml (optional)")
	logFile := flags.String("log-file", config.DefaultLogFile, "log file, opened in append mode")
	verbose := flags.Bool("verbose", false, "log debug messages to the console")
	ioLimit := flags.Int64("io-limit", 0, "combined read and write limit in bytes per second (0: unlimited)")
	memoryLimit := flags.Int64("memory-limit", 0, "memory budget for in-flight files in bytes (0: unlimited)")
	noProgress := flags.Bool("no-progress", false, "disable progress bars")
	gops := flags.Bool("gops", false, "start the gops diagnostics agent")
	if code, ok := parseFlags(flags, args); !ok {
		return code
	}
	if flags.NArg() > 0 {
		fmt.Fprintf(stderr, "convert: unexpected arguments: %v\n", flags.Args())
		return exitUsage
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintf(stderr, "convert: %v\n", err)
			return exitUsage
		}
	} else {
		cfg.ApplyEnv()
	}

	flags.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.Input = *input
		case "output":
			cfg.Output = *output
		case "overwrite":
			cfg.Overwrite = *overwrite
		case "workers":
			cfg.Workers = *workers
		case "log-file":
			cfg.Log.File = *logFile
		case "verbose":
			cfg.Log.Verbose = *verbose
		case "io-limit":
			cfg.IOLimitBytesPerSec = *ioLimit
		case "memory-limit":
			cfg.MemoryLimitBytes = *memoryLimit
		}
	})
	if cfg.Input == "" || cfg.Output == "" {
		fmt.Fprintln(stderr, "convert: --input and --output are required")
		flags.Usage()
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "convert: %v\n", err)
		return exitUsage
	}

	if *gops {
		startGops(stderr)
	}

	in, err := location.Resolve(ctx, cfg.Input, cfg.Location(), false)
	if err != nil {
		fmt.Fprintf(stderr, "convert: input: %v\n", err)
		return resolveExit(err)
	}
	out, err := location.Resolve(ctx, cfg.Output, cfg.Location(), true)
	if err != nil {
		fmt.Fprintf(stderr, "convert: output: %v\n", err)
		return resolveExit(err)
	}

	var file io.Writer
	if cfg.Log.File != "" {
		f, err := vecpack.OpenLogFile(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(stderr, "convert: %v\n", err)
			return exitFailure
		}
		defer func() { _ = f.Close() }()
		file = f
	}

	console := stderr
	var renderer *progress.Renderer
	if !*noProgress {
		renderer = progress.New(stderr)
		console = renderer
	}

	level := slog.LevelInfo
	if cfg.Log.Verbose {
		level = slog.LevelDebug
	}
	logger := vecpack.NewFanoutLogger(console, file, level)
	metrics := &vecpack.BasicMetricsCollector{}

	opts := []vecpack.Option{
		vecpack.WithWorkers(cfg.Workers),
		vecpack.WithOverwrite(cfg.Overwrite),
		vecpack.WithLogger(logger),
		vecpack.WithMetricsCollector(metrics),
		vecpack.WithIOLimit(cfg.IOLimitBytesPerSec),
		vecpack.WithMemoryLimit(cfg.MemoryLimitBytes),
	}
	if renderer != nil {
		opts = append(opts, vecpack.WithProgress(renderer))
	}

	logger.InfoContext(ctx, "converting",
		"input", cfg.Input,
		"output", cfg.Output,
		"overwrite", cfg.Overwrite,
	)
	_, runErr := vecpack.New(in, out, opts...).Run(ctx)
	if renderer != nil {
		_ = renderer.Close()
	}

	stats := metrics.GetStats()
	logger.InfoContext(ctx, "metrics",
		"files", stats.FileCount,
		"failed", stats.FileErrors,
		"lines", humanize.Comma(stats.LineCount),
		"skipped", humanize.Comma(stats.SkippedLines),
		"rows", humanize.Comma(stats.RowsWritten),
		"avg_file_duration", time.Duration(stats.FileAvgNanos),
	)

	if runErr != nil {
		logger.ErrorContext(ctx, "conversion failed", "error", runErr)
		return exitFailure
	}
	return exitOK
}
