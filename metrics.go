package vecpack

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting conversion metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Implementations must be safe for concurrent use; every worker reports to
// the same collector.
type MetricsCollector interface {
	// RecordLine is called once per input line. valid is false when the line
	// was skipped.
	RecordLine(valid bool)

	// RecordFile is called after each input file, successful or not.
	// rows is the number of records written and skipped the number of lines
	// dropped; err is nil if the file was converted.
	RecordFile(rows, skipped int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLine(bool)                          {}
func (NoopMetricsCollector) RecordFile(int, int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	LineCount      atomic.Int64
	SkippedLines   atomic.Int64
	FileCount      atomic.Int64
	FileErrors     atomic.Int64
	RowsWritten    atomic.Int64
	FileTotalNanos atomic.Int64
}

// RecordLine implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLine(valid bool) {
	b.LineCount.Add(1)
	if !valid {
		b.SkippedLines.Add(1)
	}
}

// RecordFile implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFile(rows, skipped int, duration time.Duration, err error) {
	b.FileCount.Add(1)
	b.FileTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.FileErrors.Add(1)
		return
	}
	b.RowsWritten.Add(int64(rows))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		LineCount:    b.LineCount.Load(),
		SkippedLines: b.SkippedLines.Load(),
		FileCount:    b.FileCount.Load(),
		FileErrors:   b.FileErrors.Load(),
		RowsWritten:  b.RowsWritten.Load(),
		FileAvgNanos: b.getAvgFileNanos(),
	}
}

func (b *BasicMetricsCollector) getAvgFileNanos() int64 {
	count := b.FileCount.Load()
	if count == 0 {
		return 0
	}
	return b.FileTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	LineCount    int64
	SkippedLines int64
	FileCount    int64
	FileErrors   int64
	RowsWritten  int64
	FileAvgNanos int64
}
