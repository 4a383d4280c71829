package downloader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/brogergvhs/scansdl/internal/chapters"
	"github.com/brogergvhs/scansdl/internal/sites"
	"github.com/brogergvhs/scansdl/internal/transport"

	"github.com/stretchr/testify/require"
)

// fakeSite serves chapters under /index.php/{slug}/chapitre-{n} with
// pages[n] images each, at /img/{n}/{page}.jpg.
type fakeSite struct {
	srv *httptest.Server

	mu      sync.Mutex
	pages   map[string]int
	broken  map[string]bool // "{chapter}/{page}" returns 500
	imgHits atomic.Int32
}

func newFakeSite(t *testing.T, pages map[string]int) *fakeSite {
	t.Helper()

	fs := &fakeSite{pages: pages, broken: map[string]bool{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/index.php/", func(w http.ResponseWriter, r *http.Request) {
		_, ch, ok := strings.Cut(r.URL.Path, "/chapitre-")
		fs.mu.Lock()
		n, found := fs.pages[ch]
		fs.mu.Unlock()
		if !ok || !found {
			http.NotFound(w, r)
			return
		}
		if n == 0 {
			fmt.Fprint(w, `<html><body><p>no reader here</p></body></html>`)
			return
		}

		var b strings.Builder
		b.WriteString(`<html><body><div id="all">`)
		for p := 1; p <= n; p++ {
			fmt.Fprintf(&b, `<img data-src=" /img/%s/%d.jpg ">`, ch, p)
		}
		b.WriteString(`</div></body></html>`)
		fmt.Fprint(w, b.String())
	})
	mux.HandleFunc("/img/", func(w http.ResponseWriter, r *http.Request) {
		fs.imgHits.Add(1)
		key := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/img/"), ".jpg")
		fs.mu.Lock()
		broken := fs.broken[key]
		fs.mu.Unlock()
		if broken {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprintf(w, "image %s", key)
	})

	fs.srv = httptest.NewServer(mux)
	t.Cleanup(fs.srv.Close)
	return fs
}

func (fs *fakeSite) fetcher(t *testing.T, root string) *Fetcher {
	t.Helper()

	client, err := transport.New(transport.Options{})
	require.NoError(t, err)

	v, err := sites.Lookup(sites.FR)
	require.NoError(t, err)

	return NewFetcher(FetcherOptions{
		Getter:  client,
		Variant: v.WithSite(fs.srv.URL),
		Slug:    "one-piece",
		Layout:  chapters.Layout{Root: root, Initials: "OP"},
	})
}

type recordedProgress struct {
	mu        sync.Mutex
	total     int
	advanced  int
	succeeded bool
	failed    string
}

func (p *recordedProgress) SetTotal(n int) { p.mu.Lock(); p.total = n; p.mu.Unlock() }
func (p *recordedProgress) Advance(n int)  { p.mu.Lock(); p.advanced += n; p.mu.Unlock() }
func (p *recordedProgress) MarkSucceeded() { p.mu.Lock(); p.succeeded = true; p.mu.Unlock() }
func (p *recordedProgress) MarkFailed(reason string) {
	p.mu.Lock()
	p.failed = reason
	p.mu.Unlock()
}

// recordingReporter hands out recordedProgress handles and remembers the
// order chapters were tracked in.
type recordingReporter struct {
	mu      sync.Mutex
	tracked []chapters.ID
	bars    map[chapters.ID]*recordedProgress
}

func (r *recordingReporter) Track(id chapters.ID) Progress {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.bars == nil {
		r.bars = map[chapters.ID]*recordedProgress{}
	}
	p := &recordedProgress{}
	r.tracked = append(r.tracked, id)
	r.bars[id] = p
	return p
}

// stubFetcher succeeds for every chapter in ok and fails the rest.
type stubFetcher struct {
	mu    sync.Mutex
	ok    map[chapters.ID]bool
	calls map[chapters.ID]int
	order []chapters.ID

	// onFetch runs before each fetch, outside the lock
	onFetch func(chapters.ID)
}

func (s *stubFetcher) Fetch(_ context.Context, id chapters.ID, ph Progress) Result {
	if s.onFetch != nil {
		s.onFetch(id)
	}

	s.mu.Lock()
	if s.calls == nil {
		s.calls = map[chapters.ID]int{}
	}
	s.calls[id]++
	s.order = append(s.order, id)
	ok := s.ok == nil || s.ok[id]
	s.mu.Unlock()

	if !ok {
		ph.MarkFailed("not found")
		return Result{Chapter: id, Err: ErrPageUnavailable}
	}
	ph.SetTotal(1)
	ph.Advance(1)
	ph.MarkSucceeded()
	return Result{Chapter: id, OK: true, Pages: 1, Bytes: 10}
}

type recordingNotifier struct {
	calls [][2]chapters.ID
	err   error
}

func (n *recordingNotifier) Notify(_ context.Context, start, end chapters.ID) error {
	n.calls = append(n.calls, [2]chapters.ID{start, end})
	return n.err
}
