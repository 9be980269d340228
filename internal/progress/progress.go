// Package progress shows one progress bar per worker slot and serializes log
// output with those bars.
//
// On a terminal the bars are drawn by mpb at the bottom of the screen, ordered
// by slot; log lines written through the Renderer appear above them. On
// anything else nothing is redrawn and a single line is printed when a file
// finishes.
package progress

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/hupe1980/vecpack"
)

const (
	barWidth       = 32
	redrawInterval = 100 * time.Millisecond
)

// Renderer owns the console. All methods are safe for concurrent use.
type Renderer struct {
	mu     sync.Mutex
	out    io.Writer
	tty    bool
	p      *mpb.Progress
	live   map[*Bar]struct{}
	closed bool
	now    func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithTTY forces terminal or plain mode instead of detecting it.
func WithTTY(tty bool) Option {
	return func(r *Renderer) { r.tty = tty }
}

// New creates a Renderer writing to out.
func New(out io.Writer, opts ...Option) *Renderer {
	r := &Renderer{
		out:  out,
		tty:  IsTerminal(out),
		live: make(map[*Bar]struct{}),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.tty {
		r.p = mpb.New(
			mpb.WithOutput(out),
			mpb.WithWidth(barWidth),
			mpb.WithRefreshRate(redrawInterval),
			mpb.WithAutoRefresh(),
		)
	}
	return r
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write prints p above the progress bars. It implements io.Writer so a log
// handler can share the console with the bars.
func (r *Renderer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.p != nil && !r.closed {
		n, err := r.p.Write(p)
		if !errors.Is(err, mpb.ErrDone) {
			return n, err
		}
	}
	return r.out.Write(p)
}

// Start begins tracking a file in slot. A negative total means the line count
// is unknown.
func (r *Renderer) Start(slot int, name string, total int) vecpack.ProgressBar {
	r.mu.Lock()
	defer r.mu.Unlock()

	b := &Bar{r: r, slot: slot, name: name, total: total, start: r.now()}
	if r.p == nil || r.closed {
		return b
	}

	bar, err := r.p.Add(int64(max(total, 0)), mpb.BarStyle().Build(),
		mpb.BarPriority(slot),
		mpb.BarRemoveOnComplete(),
		mpb.PrependDecorators(
			decor.Name(fmt.Sprintf("[%d] %s", slot, name), decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Any(func(s decor.Statistics) string {
				return b.counts(s.Current)
			}, decor.WCSyncSpace),
		),
	)
	if err == nil {
		b.bar = bar
		r.live[b] = struct{}{}
	}
	return b
}

// Close stops drawing. Bars still running are removed.
func (r *Renderer) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	live := make([]*Bar, 0, len(r.live))
	for b := range r.live {
		live = append(live, b)
	}
	clear(r.live)
	p := r.p
	r.mu.Unlock()

	for _, b := range live {
		b.bar.Abort(true)
	}
	if p != nil {
		p.Wait()
	}
	return nil
}

// Bar tracks one file.
type Bar struct {
	r     *Renderer
	bar   *mpb.Bar
	slot  int
	name  string
	total int
	count atomic.Int64
	start time.Time
	once  sync.Once
}

// Add advances the bar by n lines.
func (b *Bar) Add(n int) {
	b.count.Add(int64(n))
	if b.bar != nil {
		b.bar.IncrBy(n)
	}
}

// Finish marks the file as done. A non-nil err marks it as failed.
func (b *Bar) Finish(err error) {
	b.once.Do(func() {
		r := b.r
		line := fmt.Sprintf("[%d] %s\n", b.slot, b.summary(r.now(), err))

		r.mu.Lock()
		_, tracked := r.live[b]
		delete(r.live, b)
		r.mu.Unlock()

		if tracked {
			switch {
			case err != nil:
				b.bar.Abort(true)
			case b.total > 0:
				b.bar.SetCurrent(int64(b.total))
			default:
				b.bar.SetTotal(-1, true)
			}
		}
		_, _ = r.Write([]byte(line))
	})
}

func (b *Bar) counts(n int64) string {
	if b.total < 0 {
		return humanize.Comma(n) + " lines"
	}
	return humanize.Comma(n) + "/" + humanize.Comma(int64(b.total)) + " lines"
}

func (b *Bar) summary(now time.Time, err error) string {
	n := b.count.Load()

	var sb strings.Builder
	sb.WriteString(b.name)
	sb.WriteByte(' ')
	if b.total >= 0 {
		pct := 100
		if b.total > 0 {
			pct = int(min(float64(n)/float64(b.total), 1) * 100)
		}
		fmt.Fprintf(&sb, "%d%% ", pct)
	}
	sb.WriteString(b.counts(n))

	if elapsed := now.Sub(b.start); elapsed > 0 {
		rate := float64(n) / elapsed.Seconds()
		fmt.Fprintf(&sb, " %s/s", humanize.Comma(int64(rate)))
	}

	if err != nil {
		sb.WriteString(" failed")
	} else {
		sb.WriteString(" done")
	}
	return sb.String()
}
