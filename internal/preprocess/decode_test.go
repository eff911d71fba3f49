package preprocess

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_PNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, solidImage(10, 6, color.White)))
	require.NoError(t, f.Close())

	img, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 6, img.Bounds().Dy())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.NotEmpty(t, decodeErr.Error())
	require.Error(t, decodeErr.Unwrap())
}
