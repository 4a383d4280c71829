package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brogergvhs/scansdl/internal/chapters"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkChapters(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.MkdirAll(filepath.Join(root, n), 0o755))
	}
}

func TestLastChapter(t *testing.T) {
	t.Run("missing root", func(t *testing.T) {
		_, ok, err := LastChapter(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty root", func(t *testing.T) {
		_, ok, err := LastChapter(t.TempDir())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("numeric max ignoring files", func(t *testing.T) {
		root := t.TempDir()
		mkChapters(t, root, "9", "10", "10.5", "2")
		require.NoError(t, os.WriteFile(filepath.Join(root, "11.cbz"), nil, 0o644))

		last, ok, err := LastChapter(root)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, chapters.ID(10.5), last)
	})

	t.Run("non numeric directory", func(t *testing.T) {
		root := t.TempDir()
		mkChapters(t, root, "1", "extras")

		_, _, err := LastChapter(root)
		assert.ErrorIs(t, err, ErrCorruptManifest)
	})
}

func TestAdvancer_NothingToDo(t *testing.T) {
	for name, root := range map[string]string{
		"missing": filepath.Join(t.TempDir(), "One Piece Scans FR"),
		"empty":   t.TempDir(),
	} {
		t.Run(name, func(t *testing.T) {
			f := &stubFetcher{}
			n := &recordingNotifier{}

			out, err := NewAdvancer(f, nil, n, root, nil).Run(context.Background())

			require.NoError(t, err)
			assert.True(t, out.NothingToDo)
			assert.Empty(t, f.order)
			assert.Empty(t, n.calls)
		})
	}
}

func TestAdvancer_CatchesUpAndNotifiesOnce(t *testing.T) {
	root := t.TempDir()
	mkChapters(t, root, "98", "100")

	f := &stubFetcher{ok: map[chapters.ID]bool{101: true, 102: true, 103: true}}
	n := &recordingNotifier{}

	out, err := NewAdvancer(f, &recordingReporter{}, n, root, nil).Run(context.Background())

	require.NoError(t, err)
	assert.False(t, out.NothingToDo)
	assert.Equal(t, chapters.ID(101), out.Start)
	assert.Equal(t, ids(101, 102, 103, 104), f.order)
	assert.Len(t, out.Downloaded(), 3)
	assert.Equal(t, [][2]chapters.ID{{101, 103}}, n.calls)
}

func TestAdvancer_FractionalLastChapter(t *testing.T) {
	root := t.TempDir()
	mkChapters(t, root, "1045.5")

	f := &stubFetcher{ok: map[chapters.ID]bool{}}
	n := &recordingNotifier{}

	out, err := NewAdvancer(f, nil, n, root, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ids(1046), f.order)
	assert.Empty(t, out.Downloaded())
	assert.Empty(t, n.calls)
}

func TestAdvancer_NotifierErrorIsNotFatal(t *testing.T) {
	root := t.TempDir()
	mkChapters(t, root, "1")

	f := &stubFetcher{ok: map[chapters.ID]bool{2: true}}
	n := &recordingNotifier{err: errors.New("no dbus")}

	out, err := NewAdvancer(f, nil, n, root, nil).Run(context.Background())

	require.NoError(t, err)
	assert.Len(t, out.Downloaded(), 1)
	assert.Len(t, n.calls, 1)
}

func TestAdvancer_CorruptManifest(t *testing.T) {
	root := t.TempDir()
	mkChapters(t, root, "notes")

	f := &stubFetcher{}
	_, err := NewAdvancer(f, nil, nil, root, nil).Run(context.Background())

	assert.ErrorIs(t, err, ErrCorruptManifest)
	assert.Empty(t, f.order)
}
