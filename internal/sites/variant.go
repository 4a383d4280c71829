package sites

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brogergvhs/scansdl/internal/chapters"
)

var (
	ErrUnknownLanguage     = errors.New("unknown language")
	ErrUnsupportedLanguage = errors.New("no source site for language")
)

type Lang string

const (
	FR  Lang = "FR"
	EN  Lang = "EN"
	DE  Lang = "DE"
	ITA Lang = "ITA"
)

// Langs is the set accepted on the command line, in display order.
var Langs = []Lang{FR, EN, DE, ITA}

func ParseLang(s string) (Lang, error) {
	l := Lang(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Langs {
		if l == known {
			return l, nil
		}
	}

	return "", fmt.Errorf("%w: %q (expected one of %s)", ErrUnknownLanguage, s, langList())
}

func langList() string {
	parts := make([]string, len(Langs))
	for i, l := range Langs {
		parts[i] = string(l)
	}
	return strings.Join(parts, ", ")
}

// Variant describes one source site.
type Variant struct {
	Lang Lang
	Site string

	// ChapterPattern is appended to Site; %s receives the manga slug and
	// the chapter number in that order.
	ChapterPattern string

	Extractor Extractor
}

var variants = map[Lang]Variant{
	FR: {
		Lang:           FR,
		Site:           "https://www.scan-vf.net",
		ChapterPattern: "/index.php/%s/chapitre-%s",
		Extractor: FirstOf{
			SelectorExtractor{
				Container: "div#all",
				Attrs:     []string{"data-src", "src"},
			},
			ScriptExtractor{},
		},
	},
}

// Lookup returns the variant serving lang. Languages accepted by ParseLang
// but without a known site fail here, before any request is made.
func Lookup(lang Lang) (Variant, error) {
	v, ok := variants[lang]
	if !ok {
		return Variant{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
	return v, nil
}

// WithSite returns a copy pointed at another host, e.g. a mirror.
func (v Variant) WithSite(site string) Variant {
	v.Site = strings.TrimRight(site, "/")
	return v
}

func (v Variant) MangaURL(slug string) string {
	return v.Site + "/" + slug
}

func (v Variant) ChapterURL(slug string, id chapters.ID) string {
	return v.Site + fmt.Sprintf(v.ChapterPattern, slug, id.String())
}
