package downloader

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/brogergvhs/scansdl/internal/chapters"
	"github.com/brogergvhs/scansdl/internal/sites"
	"github.com/brogergvhs/scansdl/internal/transport"
	"github.com/brogergvhs/scansdl/internal/util"
)

type FetcherOptions struct {
	Getter  transport.Getter
	Variant sites.Variant
	Slug    string
	Layout  chapters.Layout

	// Archive additionally packs every finished chapter into a CBZ.
	Archive bool
	Logger  Logger
}

// Fetcher downloads chapters of one manga from one site variant.
type Fetcher struct {
	get     transport.Getter
	variant sites.Variant
	slug    string
	layout  chapters.Layout
	archive bool
	log     Logger
}

var _ ChapterFetcher = (*Fetcher)(nil)

func NewFetcher(opts FetcherOptions) *Fetcher {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}

	return &Fetcher{
		get:     opts.Getter,
		variant: opts.Variant,
		slug:    opts.Slug,
		layout:  opts.Layout,
		archive: opts.Archive,
		log:     log,
	}
}

func (f *Fetcher) ChapterURL(id chapters.ID) string {
	return f.variant.ChapterURL(f.slug, id)
}

// Fetch writes every page of chapter id into its directory, in page order.
// On the first fault it marks ph failed and stops; pages already written
// stay where they are.
func (f *Fetcher) Fetch(ctx context.Context, id chapters.ID, ph Progress) (res Result) {
	res = Result{Chapter: id}

	defer func() {
		if r := recover(); r != nil {
			res = f.fail(res, ph, fmt.Errorf("%w: %v", ErrPartialWrite, r))
		}
	}()

	pageURL := f.ChapterURL(id)
	status, body, err := f.get.Get(ctx, pageURL)
	if err != nil {
		return f.fail(res, ph, fmt.Errorf("%w: %v", ErrPageUnavailable, err))
	}
	if status != http.StatusOK {
		return f.fail(res, ph, fmt.Errorf("%w: status code %d", ErrPageUnavailable, status))
	}

	page, err := f.variant.Extractor.Extract(body, pageURL)
	if err != nil {
		return f.fail(res, ph, err)
	}

	total := len(page.Images)
	ph.SetTotal(total)
	f.log.Debugf("Chapter %s: %d pages from %s", id, total, pageURL)

	// MkdirAll is a no-op when another worker or an earlier run created it
	if err := os.MkdirAll(f.layout.ChapterDir(id), 0o755); err != nil {
		return f.fail(res, ph, fmt.Errorf("%w: %v", ErrDirectory, err))
	}

	files := make([]string, 0, total)
	for i, imgURL := range page.Images {
		n := i + 1
		path := f.layout.PageFile(id, n, page.ExtFor(imgURL))

		written, err := f.savePage(ctx, imgURL, path)
		if err != nil {
			// a chapter directory exists only once it holds a page
			if res.Pages == 0 {
				util.RemoveIfEmpty(f.layout.ChapterDir(id))
			}
			return f.fail(res, ph, fmt.Errorf("%w: page %d/%d: %v", ErrPartialWrite, n, total, err))
		}

		files = append(files, path)
		res.Pages++
		res.Bytes += written
		ph.Advance(1)
	}

	if f.archive {
		if err := util.CreateCBZ(files, f.layout.ArchivePath(id)); err != nil {
			f.log.Warnf("Chapter %s: pages saved but CBZ failed: %v", id, err)
		}
	}

	res.OK = true
	ph.MarkSucceeded()

	return res
}

func (f *Fetcher) savePage(ctx context.Context, imgURL, path string) (int64, error) {
	status, data, err := f.get.Get(ctx, imgURL)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, fmt.Errorf("%s: HTTP %d", imgURL, status)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, err
	}

	return int64(len(data)), nil
}

func (f *Fetcher) fail(res Result, ph Progress, err error) Result {
	res.OK = false
	res.Err = err
	ph.MarkFailed(err.Error())

	return res
}
