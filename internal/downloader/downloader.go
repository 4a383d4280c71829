// Package downloader is the chapter fetch pipeline: one Fetcher per chapter,
// a Distributor spreading a batch over a fixed pool of workers, and an
// Advancer that walks forward from the last chapter on disk.
package downloader

import (
	"context"
	"errors"

	"github.com/brogergvhs/scansdl/internal/chapters"
	"github.com/brogergvhs/scansdl/internal/sites"
)

var (
	ErrPageUnavailable  = errors.New("chapter page unavailable")
	ErrExtractionFailed = sites.ErrExtractionFailed
	ErrPartialWrite     = errors.New("page download interrupted")
	ErrDirectory        = errors.New("cannot create chapter directory")
	ErrCorruptManifest  = errors.New("scans folder holds a non-chapter directory")
)

// Progress tracks one chapter. Implementations must tolerate calls after
// the handle was finalized.
type Progress interface {
	SetTotal(n int)
	Advance(by int)
	MarkSucceeded()
	MarkFailed(reason string)
}

// Reporter hands out one Progress per chapter.
type Reporter interface {
	Track(id chapters.ID) Progress
}

// ChapterFetcher downloads a single chapter. It reports faults through the
// returned Result and the progress handle, never by panicking or erroring.
type ChapterFetcher interface {
	Fetch(ctx context.Context, id chapters.ID, ph Progress) Result
}

type Notifier interface {
	Notify(ctx context.Context, start, end chapters.ID) error
}

type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Result struct {
	Chapter chapters.ID
	OK      bool
	Pages   int
	Bytes   int64
	Err     error
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Track(chapters.ID) Progress { return nopProgress{} }

type nopProgress struct{}

func (nopProgress) SetTotal(int)      {}
func (nopProgress) Advance(int)       {}
func (nopProgress) MarkSucceeded()    {}
func (nopProgress) MarkFailed(string) {}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}
