package vecpack

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	"github.com/hupe1980/vecpack/internal/record"
)

// Logger wraps slog.Logger with vecpack-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to stderr.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// NewFanoutLogger creates a Logger that writes every record at consoleLevel or
// above to console and every debug record or above to file. Either writer may
// be nil.
func NewFanoutLogger(console, file io.Writer, consoleLevel slog.Level) *Logger {
	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, &slog.HandlerOptions{
			Level: consoleLevel,
		}))
	}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	if len(handlers) == 0 {
		return NoopLogger()
	}
	return NewLogger(slogmulti.Fanout(handlers...))
}

// OpenLogFile opens path for appending, creating it if needed.
func OpenLogFile(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// LogSkipped logs a dropped input line.
func (l *Logger) LogSkipped(ctx context.Context, input string, err error) {
	var se *record.SkipError
	if !errors.As(err, &se) {
		l.WarnContext(ctx, "skipped invalid entry",
			"file", input,
			"reason", err,
		)
		return
	}
	l.WarnContext(ctx, "skipped invalid entry",
		"file", input,
		"line", se.Line,
		"docid", se.DocID,
		"reason", se.Err,
	)
}

// LogSaved logs a written artifact.
func (l *Logger) LogSaved(ctx context.Context, input, path string, shape []int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"file", input,
			"path", path,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "saved tensor",
			"file", input,
			"path", path,
			"shape", shape,
		)
	}
}

// LogLoaded logs a verified artifact.
func (l *Logger) LogLoaded(ctx context.Context, input, path string, dtype string, shape []int64) {
	l.InfoContext(ctx, "loaded tensor",
		"file", input,
		"path", path,
		"dtype", dtype,
		"shape", shape,
	)
}

// LogContents logs the decoded contents of an artifact at debug level.
func (l *Logger) LogContents(ctx context.Context, path, contents string) {
	l.DebugContext(ctx, "tensor contents",
		"path", path,
		"values", contents,
	)
}

// LogFileFailed logs a file that could not be converted.
func (l *Logger) LogFileFailed(ctx context.Context, input string, err error) {
	l.ErrorContext(ctx, "file failed",
		"file", input,
		"error", err,
	)
}

// LogFileDone logs the outcome of a converted file.
func (l *Logger) LogFileDone(ctx context.Context, res *FileResult) {
	if res.Skipped > 0 {
		l.WarnContext(ctx, "file converted with skipped lines",
			"file", res.Input,
			"rows", res.Rows,
			"skipped", res.Skipped,
			"skipped_lines", res.SkippedLines,
			"duration", res.Duration,
		)
	} else {
		l.InfoContext(ctx, "file converted",
			"file", res.Input,
			"rows", res.Rows,
			"duration", res.Duration,
		)
	}
}

// LogSummary logs the outcome of a run.
func (l *Logger) LogSummary(ctx context.Context, s *Summary) {
	if s.Failed > 0 {
		l.ErrorContext(ctx, "run completed with failures",
			"files", len(s.Files),
			"failed", s.Failed,
			"rows", s.Rows,
			"skipped", s.Skipped,
		)
	} else {
		l.InfoContext(ctx, "run completed",
			"files", len(s.Files),
			"rows", s.Rows,
			"skipped", s.Skipped,
		)
	}
}
