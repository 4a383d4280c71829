package downloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/brogergvhs/scansdl/internal/chapters"
)

// LastChapter returns the highest chapter directory under root. ok is false
// when root does not exist or has no chapter directories yet. Any directory
// whose name is not a chapter number fails with ErrCorruptManifest; plain
// files (archives, thumbnails) are ignored.
func LastChapter(root string) (last chapters.ID, ok bool, err error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading %s: %w", root, err)
	}

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		id, perr := chapters.ParseID(e.Name())
		if perr != nil {
			return 0, false, fmt.Errorf("%w: %q in %s", ErrCorruptManifest, e.Name(), root)
		}

		if !ok || id > last {
			last, ok = id, true
		}
	}

	return last, ok, nil
}
