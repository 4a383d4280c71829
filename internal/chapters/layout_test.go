package chapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLayout(t *testing.T) {
	l := NewLayout("/data", "one  piece", "FR")

	assert.Equal(t, filepath.Join("/data", "One Piece Scans FR"), l.Root)
	assert.Equal(t, "OP", l.Initials)
	assert.Equal(t, filepath.Join(l.Root, "1045.5"), l.ChapterDir(1045.5))
}

func TestLayout_PageFile(t *testing.T) {
	l := Layout{Root: "root", Initials: "TPN"}

	tests := []struct {
		id   ID
		page int
		ext  string
		want string
	}{
		{5, 3, ".jpg", filepath.Join("root", "5", "TPN-05-03.jpg")},
		{12, 10, ".png", filepath.Join("root", "12", "TPN-12-10.png")},
		{5.5, 1, ".webp", filepath.Join("root", "5.5", "TPN-05.5-01.webp")},
		{1100, 120, ".jpg", filepath.Join("root", "1100", "TPN-1100-120.jpg")},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, l.PageFile(tt.id, tt.page, tt.ext))
	}
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "TPN", Initials("The Promised Neverland"))
	assert.Equal(t, "", Initials(""))
}

func TestScansFolderName_StripsSeparators(t *testing.T) {
	assert.Equal(t, "Fate Zero Scans EN", ScansFolderName("Fate/Zero", "EN"))
}
