package cellgrid

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomCells(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	cells := RandomCells(100, rng)
	require.Len(t, cells, 100)
	for i, v := range cells {
		if v < 0 || v >= 1 {
			t.Errorf("cell %d: %v outside [0, 1)", i, v)
		}
	}

	// same seed, same state
	again := RandomCells(100, rand.New(rand.NewSource(42)))
	assert.Equal(t, cells, again)
}

func writeTestImage(t *testing.T, c color.Color, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "seed.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestCellsFromImage(t *testing.T) {
	path := writeTestImage(t, color.White, 32, 32)

	dim := Dim(8, 4)
	cells, err := CellsFromImage(path, dim)
	require.NoError(t, err)
	require.Len(t, cells, dim.Area())
	for i, v := range cells {
		assert.InDelta(t, 1.0, v, 0.01, "cell %d", i)
	}
}

func TestCellsFromImageBlack(t *testing.T) {
	path := writeTestImage(t, color.Black, 16, 16)

	cells, err := CellsFromImage(path, Dim(4, 4))
	require.NoError(t, err)
	for i, v := range cells {
		assert.InDelta(t, 0.0, v, 0.01, "cell %d", i)
	}
}

func TestCellsFromImageMissing(t *testing.T) {
	_, err := CellsFromImage(filepath.Join(t.TempDir(), "nope.png"), Dim(4, 4))
	assert.Error(t, err)
}
