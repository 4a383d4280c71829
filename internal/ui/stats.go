package ui

import (
	"fmt"
	"io"
	"time"

	"github.com/brogergvhs/scansdl/internal/chapters"
	"github.com/brogergvhs/scansdl/internal/downloader"
	"github.com/brogergvhs/scansdl/internal/util"
)

// Stats totals a finished batch.
type Stats struct {
	Chapters int
	Pages    int
	Bytes    int64
	Failed   []chapters.ID
}

func (s *Stats) Collect(results ...downloader.Result) {
	for _, r := range results {
		if !r.OK {
			s.Failed = append(s.Failed, r.Chapter)
			continue
		}
		s.Chapters++
		s.Pages += r.Pages
		s.Bytes += r.Bytes
	}
}

func (s *Stats) Print(w io.Writer, elapsed time.Duration) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Download Summary:")
	fmt.Fprintf(w, "Chapters: %d\n", s.Chapters)
	fmt.Fprintf(w, "Pages:    %d\n", s.Pages)
	fmt.Fprintf(w, "Data:     %s\n", util.Human(s.Bytes))
	fmt.Fprintf(w, "Time:     %s\n", elapsed.Round(time.Second))

	if len(s.Failed) > 0 {
		fmt.Fprintf(w, "Failed:   %s\n", chapters.FormatRange(s.Failed))
	}
}
