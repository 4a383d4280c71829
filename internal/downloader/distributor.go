package downloader

import (
	"context"
	"sync"

	"github.com/brogergvhs/scansdl/internal/chapters"

	"golang.org/x/sync/errgroup"
)

// Task is a chapter waiting for a worker, with its already registered
// progress handle.
type Task struct {
	ID       chapters.ID
	Progress Progress

	index int
}

// cursor is the shared "next unclaimed chapter" index.
type cursor struct {
	mu    sync.Mutex
	next  int
	tasks []Task
}

// claim hands out each task exactly once, in order.
func (c *cursor) claim() (Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.next >= len(c.tasks) {
		return Task{}, false
	}

	t := c.tasks[c.next]
	c.next++
	return t, true
}

// Distributor runs a batch over a fixed number of workers pulling from a
// shared cursor.
type Distributor struct {
	fetcher  ChapterFetcher
	reporter Reporter
	workers  int
	log      Logger
}

func NewDistributor(f ChapterFetcher, r Reporter, workers int, log Logger) *Distributor {
	if r == nil {
		r = NopReporter{}
	}
	if log == nil {
		log = nopLogger{}
	}

	return &Distributor{fetcher: f, reporter: r, workers: workers, log: log}
}

// Run fetches every chapter of ids exactly once and returns the results in
// the order of ids, after all workers are done. ids must be ascending and
// duplicate-free (as returned by chapters.ParseRange).
func (d *Distributor) Run(ctx context.Context, ids []chapters.ID) []Result {
	if len(ids) == 0 {
		return nil
	}

	// every bar exists before the first fetch so they render together
	tasks := make([]Task, len(ids))
	for i, id := range ids {
		tasks[i] = Task{ID: id, Progress: d.reporter.Track(id), index: i}
	}

	workers := min(max(d.workers, 1), len(tasks))
	d.log.Debugf("Fetching %d chapters with %d workers", len(tasks), workers)

	cur := &cursor{tasks: tasks}
	results := make([]Result, len(tasks))

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for {
				t, ok := cur.claim()
				if !ok {
					return nil
				}
				res := d.fetcher.Fetch(ctx, t.ID, t.Progress)
				if !res.OK {
					d.log.Errorf("Chapter %s failed: %v", t.ID, res.Err)
				}
				// each index is written by exactly one worker
				results[t.index] = res
			}
		})
	}
	_ = g.Wait()

	return results
}
