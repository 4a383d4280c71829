// Package notify tells the user about chapters fetched by a routine run.
package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/brogergvhs/scansdl/internal/chapters"
	"github.com/brogergvhs/scansdl/internal/downloader"
)

const AppName = "Scans Downloader"

// Release is what gets announced: a contiguous run of new chapters.
type Release struct {
	Manga string
	Lang  string
	Start chapters.ID
	End   chapters.ID

	// Folder is the directory of the first new chapter.
	Folder string
}

// Message is the human text, e.g. "New One Piece Chapters 1101-1103 !".
func (r Release) Message() string {
	if r.Start == r.End {
		return fmt.Sprintf("New %s Chapter %s !", r.Manga, r.Start)
	}
	return fmt.Sprintf("New %s Chapters %s-%s !", r.Manga, r.Start, r.End)
}

// Sender delivers one release through one channel.
type Sender interface {
	Send(ctx context.Context, r Release) error
}

// Notifier adapts a set of senders to downloader.Notifier for one manga.
// Every sender is tried; their errors are joined.
type Notifier struct {
	manga   string
	lang    string
	layout  chapters.Layout
	senders []Sender
}

var _ downloader.Notifier = (*Notifier)(nil)

func New(manga, lang string, layout chapters.Layout, senders ...Sender) *Notifier {
	return &Notifier{manga: manga, lang: lang, layout: layout, senders: senders}
}

func (n *Notifier) Notify(ctx context.Context, start, end chapters.ID) error {
	r := Release{
		Manga:  n.manga,
		Lang:   n.lang,
		Start:  start,
		End:    end,
		Folder: n.layout.ChapterDir(start),
	}

	var errs []error
	for _, s := range n.senders {
		if err := s.Send(ctx, r); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type logger interface {
	Infof(format string, args ...any)
}

// Log writes the release message to the run log.
type Log struct {
	L logger
}

func (l Log) Send(_ context.Context, r Release) error {
	l.L.Infof("%s", r.Message())
	return nil
}
