package sites

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reQuotedImage = regexp.MustCompile(`["']((?:https?:)?(?:\\?/)[^"'\s]+?\.(?i:jpe?g|png|webp|gif)(?:\?[^"'\s]*)?)["']`)

	// site chrome that shows up in scripts next to the pages
	skipImageWords = []string{"logo", "cover", "avatar", "banner", "profile"}
)

// ScriptExtractor reads page images out of inline <script> blocks, for
// readers that ship the page list as a JS array and render it client side.
type ScriptExtractor struct{}

func (ScriptExtractor) Extract(content []byte, pageURL string) (Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var images []string
	seen := map[string]bool{}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if _, external := s.Attr("src"); external {
			return
		}

		for _, m := range reQuotedImage.FindAllStringSubmatch(s.Text(), -1) {
			raw := strings.ReplaceAll(m[1], `\/`, "/")
			if skipImage(raw) {
				continue
			}

			u := resolve(pageURL, raw)
			if seen[u] {
				continue
			}
			seen[u] = true
			images = append(images, u)
		}
	})

	if len(images) == 0 {
		return Page{}, fmt.Errorf("%w: no images in inline scripts", ErrExtractionFailed)
	}

	return Page{Images: images, Ext: urlExt(images[0])}, nil
}

func skipImage(u string) bool {
	lu := strings.ToLower(u)
	for _, w := range skipImageWords {
		if strings.Contains(lu, w) {
			return true
		}
	}
	return false
}

// FirstOf tries each extractor in order and returns the first page found.
type FirstOf []Extractor

func (f FirstOf) Extract(content []byte, pageURL string) (Page, error) {
	var errs []error
	for _, ex := range f {
		page, err := ex.Extract(content, pageURL)
		if err == nil {
			return page, nil
		}
		errs = append(errs, err)
	}

	if len(errs) == 0 {
		return Page{}, fmt.Errorf("%w: no extractor configured", ErrExtractionFailed)
	}
	return Page{}, errors.Join(errs...)
}
