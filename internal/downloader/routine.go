package downloader

import (
	"context"

	"github.com/brogergvhs/scansdl/internal/chapters"
)

// Outcome summarizes a routine run. Start is the first chapter tried;
// Results holds every attempt including the final failed one.
type Outcome struct {
	NothingToDo bool
	Start       chapters.ID
	Results     []Result
}

// Downloaded returns the successful results.
func (o Outcome) Downloaded() []Result {
	var out []Result
	for _, r := range o.Results {
		if r.OK {
			out = append(out, r)
		}
	}
	return out
}

// Advancer catches up on chapters released since the last one on disk.
type Advancer struct {
	fetcher  ChapterFetcher
	reporter Reporter
	notifier Notifier
	root     string
	log      Logger
}

func NewAdvancer(f ChapterFetcher, r Reporter, n Notifier, root string, log Logger) *Advancer {
	if r == nil {
		r = NopReporter{}
	}
	if log == nil {
		log = nopLogger{}
	}

	return &Advancer{fetcher: f, reporter: r, notifier: n, root: root, log: log}
}

// Run fetches last+1, last+2, ... one at a time and stops at the first
// failure, which normally just means the chapter is not out yet. Chapters
// are released contiguously, so probing sequentially costs one failed
// request instead of a pool's worth.
func (a *Advancer) Run(ctx context.Context) (Outcome, error) {
	last, ok, err := LastChapter(a.root)
	if err != nil {
		return Outcome{}, err
	}
	if !ok {
		a.log.Infof("No chapters in %s yet, nothing to do", a.root)
		return Outcome{NothingToDo: true}, nil
	}

	start := last.Next()
	out := Outcome{Start: start}
	var (
		end     chapters.ID
		fetched int
	)

	for cand := start; ; cand = cand.Next() {
		res := a.fetcher.Fetch(ctx, cand, a.reporter.Track(cand))
		out.Results = append(out.Results, res)
		if !res.OK {
			a.log.Infof("Chapter %s not available (%v), up to date", cand, res.Err)
			break
		}
		end = cand
		fetched++
	}

	if fetched == 0 {
		return out, nil
	}

	if a.notifier != nil {
		if err := a.notifier.Notify(ctx, start, end); err != nil {
			a.log.Debugf("Notification failed: %v", err)
		}
	}

	return out, nil
}
