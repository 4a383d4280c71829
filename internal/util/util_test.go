package util

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuman(t *testing.T) {
	assert.Equal(t, "512 B", Human(512))
	assert.Equal(t, "1.50 KB", Human(1536))
	assert.Equal(t, "2.00 MB", Human(2<<20))
	assert.Equal(t, "1.00 GB", Human(1<<30))
	assert.Equal(t, "3.00 TB", Human(3<<40))
}

func TestCreateCBZ(t *testing.T) {
	dir := t.TempDir()

	var files []string
	for _, name := range []string{"OP-12-02.jpg", "OP-12-01.jpg"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
		files = append(files, p)
	}

	out := filepath.Join(dir, "12.cbz")
	require.NoError(t, CreateCBZ(files, out))

	zr, err := zip.OpenReader(out)
	require.NoError(t, err)
	defer zr.Close()

	require.Len(t, zr.File, 2)
	assert.Equal(t, "OP-12-01.jpg", zr.File[0].Name)
	assert.Equal(t, "OP-12-02.jpg", zr.File[1].Name)
}

func TestCreateCBZ_MissingInputRemovesArchive(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "1.cbz")

	err := CreateCBZ([]string{filepath.Join(dir, "missing.jpg")}, out)
	assert.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestRemoveEmptyChapterDirs(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "10"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "11"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "11", "p.jpg"), []byte("x"), 0o644))

	RemoveEmptyChapterDirs(root)

	assert.NoDirExists(t, filepath.Join(root, "10"))
	assert.DirExists(t, filepath.Join(root, "11"))
	assert.False(t, RemoveIfEmpty(root))
}
