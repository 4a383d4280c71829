package chapters

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Layout maps chapters and pages to paths under a scans root:
//
//	{Root}/{chapter}/{initials}-{pad(chapter)}-{pad(page)}{ext}
type Layout struct {
	Root     string
	Initials string
}

// NewLayout builds the layout for a manga under base, e.g.
// "base/One Piece Scans FR" with initials "OP".
func NewLayout(base, manga, lang string) Layout {
	title := Title(manga)
	return Layout{
		Root:     filepath.Join(base, ScansFolderName(title, lang)),
		Initials: Initials(title),
	}
}

// Title normalizes a manga name the way the scans folder is named:
// "one piece" -> "One Piece".
func Title(manga string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(manga), " "))
}

func ScansFolderName(title, lang string) string {
	name := fmt.Sprintf("%s Scans %s", title, lang)
	return strings.NewReplacer("/", " ", "\\", " ").Replace(name)
}

// Initials keeps the first letter of every word: "One Piece" -> "OP".
func Initials(title string) string {
	var b strings.Builder
	for _, w := range strings.Fields(title) {
		r, _ := utf8.DecodeRuneInString(w)
		b.WriteRune(r)
	}
	return b.String()
}

func (l Layout) ChapterDir(id ID) string {
	return filepath.Join(l.Root, id.String())
}

func (l Layout) PageFile(id ID, page int, ext string) string {
	name := fmt.Sprintf("%s-%s-%s%s", l.Initials, Pad(float64(id)), Pad(float64(page)), ext)
	return filepath.Join(l.ChapterDir(id), name)
}

// ArchivePath is where the optional CBZ of a chapter goes, next to its directory.
func (l Layout) ArchivePath(id ID) string {
	return filepath.Join(l.Root, id.String()+".cbz")
}
