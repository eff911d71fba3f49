package imageset

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte("fake image"), 0o600))
		paths = append(paths, path)
	}
	return paths
}

func TestResolve_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "b.png", "a.jpg", "c.JPEG", "d.bmp", "notes.txt", "data.tiff")

	images, err := Resolve(dir, Options{})
	require.NoError(t, err)

	// Recognized extensions only, sorted lexicographically by path.
	want := []string{
		filepath.Join(dir, "a.jpg"),
		filepath.Join(dir, "b.png"),
		filepath.Join(dir, "c.JPEG"),
		filepath.Join(dir, "d.bmp"),
	}
	assert.Equal(t, want, images)
}

func TestResolve_CountMatchesRecognizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "1.png", "2.png", "3.jpg", "skip.gif", "skip.webp", "readme.md")

	images, err := Resolve(dir, Options{})
	require.NoError(t, err)
	assert.Len(t, images, 3)
}

func TestResolve_SingleFile(t *testing.T) {
	dir := t.TempDir()
	// No extension filtering for a single-file root.
	path := writeFiles(t, dir, "frame.dat")[0]

	images, err := Resolve(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, images)
}

func TestResolve_NotFound(t *testing.T) {
	_, err := Resolve(filepath.Join(t.TempDir(), "missing"), Options{})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolve_EmptyDirectory(t *testing.T) {
	_, err := Resolve(t.TempDir(), Options{})
	require.ErrorIs(t, err, ErrNoImages)
}

func TestResolve_DirectoryWithNoRecognizedFiles(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.txt", "b.gif")

	_, err := Resolve(dir, Options{})
	require.ErrorIs(t, err, ErrNoImages)
}

func TestResolve_IgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "top.png")
	sub := filepath.Join(dir, "nested.png") // directory named like an image
	require.NoError(t, os.MkdirAll(sub, 0o750))
	writeFiles(t, sub, "inner.png")

	images, err := Resolve(dir, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "top.png")}, images)
}

func TestResolve_ShuffleDeterministicWithSeededRand(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "a.png", "b.png", "c.png", "d.png", "e.png", "f.png")

	first, err := Resolve(dir, Options{Shuffle: true, Rand: rand.New(rand.NewSource(42))})
	require.NoError(t, err)
	second, err := Resolve(dir, Options{Shuffle: true, Rand: rand.New(rand.NewSource(42))})
	require.NoError(t, err)

	assert.Equal(t, first, second)

	sorted, err := Resolve(dir, Options{})
	require.NoError(t, err)
	assert.ElementsMatch(t, sorted, first)
}

func TestTruncate(t *testing.T) {
	images := []string{"a", "b", "c", "d", "e"}

	got, err := Truncate(images, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)

	got, err = Truncate(images, 5)
	require.NoError(t, err)
	assert.Equal(t, images, got)
}

func TestTruncate_Insufficient(t *testing.T) {
	_, err := Truncate([]string{"a", "b"}, 3)
	require.ErrorIs(t, err, ErrInsufficientImages)
}

func TestTruncate_InvalidBatchSize(t *testing.T) {
	_, err := Truncate([]string{"a"}, 0)
	require.Error(t, err)
}

func TestIsImageFile(t *testing.T) {
	assert.True(t, IsImageFile("photo.jpg"))
	assert.True(t, IsImageFile("photo.JPG"))
	assert.True(t, IsImageFile("scan.jpeg"))
	assert.True(t, IsImageFile("frame.png"))
	assert.True(t, IsImageFile("old.bmp"))
	assert.False(t, IsImageFile("anim.gif"))
	assert.False(t, IsImageFile("doc.pdf"))
	assert.False(t, IsImageFile("noext"))
}
