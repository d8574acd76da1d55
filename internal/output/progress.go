package output

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

const (
	ProgressLines = "lines"
	ProgressBar   = "bar"
	ProgressNone  = "none"
	ProgressAuto  = "auto"
)

// ProgressReporter receives advisory per-chunk progress. Report is called
// from the chunk's own goroutine after every buffered read; implementations
// must be safe for concurrent use and must not block for long.
type ProgressReporter interface {
	Start(totalSize int64, chunks int)
	Report(chunk int, written, size int64)
	Finish()
}

// NewReporter builds the reporter for a --progress mode.
func NewReporter(mode string, w io.Writer) (ProgressReporter, error) {
	switch mode {
	case ProgressLines, "":
		return NewLineReporter(w), nil
	case ProgressBar:
		return NewBarReporter(w, getTerminalWidth()), nil
	case ProgressAuto:
		if stdoutIsTerminal() {
			return NewBarReporter(w, getTerminalWidth()), nil
		}
		return NewLineReporter(w), nil
	case ProgressNone:
		return NopReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown progress mode %q (want lines, bar, auto or none)", mode)
	}
}

type NopReporter struct{}

func (NopReporter) Start(int64, int) {}
func (NopReporter) Report(int, int64, int64) {}
func (NopReporter) Finish() {}

// LineReporter prints one line per buffered read:
// "Downloaded 12.50% of part 3."
type LineReporter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLineReporter(w io.Writer) *LineReporter {
	return &LineReporter{w: w}
}

func (r *LineReporter) Start(int64, int) {}

func (r *LineReporter) Report(chunk int, written, size int64) {
	percent := 100.0
	if size > 0 {
		percent = float64(written) / float64(size) * 100
	}
	r.mu.Lock()
	fmt.Fprintf(r.w, "Downloaded %.2f%% of part %d.\n", percent, chunk+1)
	r.mu.Unlock()
}

func (r *LineReporter) Finish() {}

// BarReporter aggregates all chunks into a single byte progress bar.
// Each chunk keeps its own last-seen slot so deltas need no shared counter.
type BarReporter struct {
	w     io.Writer
	width int
	bar   *progressbar.ProgressBar
	last  []int64
}

func NewBarReporter(w io.Writer, termWidth int) *BarReporter {
	width := termWidth / 3
	if width < 10 {
		width = 10
	}
	return &BarReporter{w: w, width: width}
}

func (r *BarReporter) Start(totalSize int64, chunks int) {
	r.last = make([]int64, chunks)
	r.bar = progressbar.NewOptions64(totalSize,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Downloading"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(r.width),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprintln(r.w) }),
	)
}

func (r *BarReporter) Report(chunk int, written, size int64) {
	if r.bar == nil || chunk < 0 || chunk >= len(r.last) {
		return
	}
	delta := written - r.last[chunk]
	r.last[chunk] = written
	_ = r.bar.Add64(delta)
}

func (r *BarReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
