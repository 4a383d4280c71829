package sites

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var ErrExtractionFailed = errors.New("page extraction failed")

// Page is what a chapter page yields: image URLs in reading order and the
// extension of the first image, used when an image URL carries none.
type Page struct {
	Images []string
	Ext    string
}

// ExtFor picks the file extension for one image URL.
func (p Page) ExtFor(imageURL string) string {
	if ext := urlExt(imageURL); ext != "" {
		return ext
	}
	if p.Ext != "" {
		return p.Ext
	}
	return ".jpg"
}

type Extractor interface {
	Extract(content []byte, pageURL string) (Page, error)
}

// SelectorExtractor collects every <img> inside Container, reading the
// first non-empty attribute of Attrs (lazy loaders put the real URL in
// data-src and a placeholder in src).
type SelectorExtractor struct {
	Container string
	Attrs     []string
}

func (e SelectorExtractor) Extract(content []byte, pageURL string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	container := doc.Find(e.Container).First()
	if container.Length() == 0 {
		return Page{}, fmt.Errorf("%w: no %q element", ErrExtractionFailed, e.Container)
	}

	var images []string
	container.Find("img").Each(func(_ int, img *goquery.Selection) {
		for _, attr := range e.Attrs {
			v, ok := img.Attr(attr)
			if !ok {
				continue
			}
			// the site pads URLs with spaces and newlines
			v = strings.Join(strings.Fields(v), "")
			if v == "" || strings.HasPrefix(v, "data:") {
				continue
			}
			images = append(images, resolve(pageURL, v))
			return
		}
	})

	if len(images) == 0 {
		return Page{}, fmt.Errorf("%w: no images in %q", ErrExtractionFailed, e.Container)
	}

	return Page{Images: images, Ext: urlExt(images[0])}, nil
}

func urlExt(raw string) string {
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	return strings.ToLower(path.Ext(p))
}

func resolve(pageURL, raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u == nil {
		return raw
	}

	if u.IsAbs() {
		return u.String()
	}

	base, err := url.Parse(pageURL)
	if err != nil || base == nil {
		return raw
	}

	return base.ResolveReference(u).String()
}
