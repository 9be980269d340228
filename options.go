package vecpack

import (
	"runtime"

	"github.com/hupe1980/vecpack/codec"
)

// DefaultProducer is stored in the metadata of every artifact.
const DefaultProducer = "vecpack"

type options struct {
	workers          int
	overwrite        bool
	codec            codec.Codec
	logger           *Logger
	metricsCollector MetricsCollector
	progress         ProgressReporter
	memoryLimit      int64
	ioLimit          int64
	producer         string
}

func defaultOptions() options {
	return options{
		workers:          runtime.NumCPU(),
		codec:            codec.Default,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		progress:         NoopProgress{},
		producer:         DefaultProducer,
	}
}

// Option configures a Converter.
type Option func(*options)

// WithWorkers sets the maximum number of files converted concurrently.
//
// The pool never exceeds the number of input files. A value <= 0 uses
// runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		o.workers = n
	}
}

// WithOverwrite allows replacing existing artifacts.
func WithOverwrite(overwrite bool) Option {
	return func(o *options) {
		o.overwrite = overwrite
	}
}

// WithCodec configures the codec used for decoding input records.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithProgress sets the progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(o *options) {
		if p == nil {
			p = NoopProgress{}
		}
		o.progress = p
	}
}

// WithMemoryLimit bounds the memory reserved for in-flight batches across
// all workers. Zero means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = max(bytes, 0)
	}
}

// WithIOLimit bounds the combined read and write throughput in bytes per
// second. Zero means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = max(bytesPerSec, 0)
	}
}

// WithProducer sets the producer recorded in artifact metadata.
func WithProducer(name string) Option {
	return func(o *options) {
		if name == "" {
			name = DefaultProducer
		}
		o.producer = name
	}
}
