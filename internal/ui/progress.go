package ui

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/brogergvhs/scansdl/internal/chapters"
	"github.com/brogergvhs/scansdl/internal/downloader"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

const (
	green = "\033[92m"
	red   = "\033[91m"
	reset = "\033[0m"
)

// ProgressManager renders one bar per chapter. It is also an io.Writer so
// log lines land above the bars instead of through them.
type ProgressManager struct {
	p      *mpb.Progress
	out    io.Writer
	title  string
	closed atomic.Bool
}

var _ downloader.Reporter = (*ProgressManager)(nil)

func NewProgressManager(out io.Writer, title string) *ProgressManager {
	p := mpb.New(
		mpb.WithWidth(52),
		mpb.WithOutput(out),
		mpb.WithRefreshRate(120*time.Millisecond),
	)
	return &ProgressManager{p: p, out: out, title: title}
}

// Close waits for every bar to reach a final state.
func (pm *ProgressManager) Close() {
	if pm.closed.Swap(true) {
		return
	}
	pm.p.Wait()
}

func (pm *ProgressManager) Write(b []byte) (int, error) {
	if pm.closed.Load() {
		return pm.out.Write(b)
	}
	return pm.p.Write(b)
}

// Track registers a bar. Bars stack in registration order, so registering
// chapters ascending leaves the most recent chapter at the bottom.
func (pm *ProgressManager) Track(id chapters.ID) downloader.Progress {
	h := &ProgressHandle{start: time.Now()}
	h.status.Store("")

	name := fmt.Sprintf("%s Chapter %s", pm.title, id)
	h.bar = pm.p.New(
		0,
		mpb.BarStyle().Rbound("|"),

		mpb.PrependDecorators(
			decor.Name(name, decor.WCSyncWidthR),
			decor.Percentage(decor.WCSyncSpace),
		),

		mpb.AppendDecorators(
			decor.CountersNoUnit(" %d/%d pages", decor.WCSyncWidth),
			decor.Any(func(_ decor.Statistics) string {
				if h.final.Load() {
					return fmt.Sprintf(" | %ds", h.elapsed.Load())
				}
				return fmt.Sprintf(" | %ds", int(time.Since(h.start).Seconds()))
			}),
			decor.Any(func(_ decor.Statistics) string {
				return h.status.Load().(string)
			}),
		),
	)

	return h
}

type ProgressHandle struct {
	bar *mpb.Bar

	start   time.Time
	elapsed atomic.Int64
	status  atomic.Value

	final atomic.Bool
}

func (h *ProgressHandle) SetTotal(n int) {
	if h.final.Load() {
		return
	}
	h.bar.SetTotal(int64(n), false)
}

func (h *ProgressHandle) Advance(by int) {
	if h.final.Load() {
		return
	}
	h.bar.IncrBy(by)
}

func (h *ProgressHandle) MarkSucceeded() {
	if h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	h.status.Store(green + " - Downloaded successfully" + reset)
	h.bar.SetTotal(-1, true)
}

func (h *ProgressHandle) MarkFailed(reason string) {
	if h.final.Swap(true) {
		return
	}

	h.elapsed.Store(int64(time.Since(h.start).Seconds()))
	h.status.Store(red + " - " + reason + reset)
	h.bar.Abort(false)
}
