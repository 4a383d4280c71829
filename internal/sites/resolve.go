package sites

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/brogergvhs/scansdl/internal/transport"
)

var ErrMangaNotResolvable = errors.New("manga not found on source site")

// slugSeparators are tried in order to replace spaces in the manga name.
var slugSeparators = []string{"-", "_", ""}

// Resolve finds the URL slug the site uses for manga by probing the manga
// page with each separator; the first 200 wins.
func Resolve(ctx context.Context, get transport.Getter, v Variant, manga string) (string, error) {
	base := strings.ToLower(strings.Join(strings.Fields(manga), " "))
	if base == "" {
		return "", fmt.Errorf("%w: empty manga name", ErrMangaNotResolvable)
	}

	var lastErr error
	tried := map[string]bool{}
	for _, sep := range slugSeparators {
		slug := strings.ReplaceAll(base, " ", sep)
		if tried[slug] {
			continue
		}
		tried[slug] = true

		status, _, err := get.Get(ctx, v.MangaURL(slug))
		if err != nil {
			lastErr = err
			continue
		}
		if status == http.StatusOK {
			return slug, nil
		}
	}

	if lastErr != nil {
		return "", fmt.Errorf("%w: can't find %q on %s: %v", ErrMangaNotResolvable, manga, v.Site, lastErr)
	}
	return "", fmt.Errorf("%w: can't find %q on %s", ErrMangaNotResolvable, manga, v.Site)
}
