package cellgrid

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"math/rand"
	"os"

	"golang.org/x/image/draw"
)

// RandomCells fills a grid with uniform values in [0, 1).
func RandomCells(area int, rng *rand.Rand) []float32 {
	cells := make([]float32, area)
	for i := range cells {
		cells[i] = rng.Float32()
	}
	return cells
}

// CellsFromImage loads a PNG or JPEG, resamples it to dim and maps
// pixel luminance to cell values in [0, 1]. Bright pixels become live
// cells under the usual threshold.
func CellsFromImage(path string, dim Dimensions) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening seed image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding seed image %s: %w", path, err)
	}

	scaled := image.NewRGBA(image.Rect(0, 0, int(dim.Width), int(dim.Height)))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)

	cells := make([]float32, dim.Area())
	for y := 0; y < int(dim.Height); y++ {
		for x := 0; x < int(dim.Width); x++ {
			r, g, b, _ := scaled.At(x, y).RGBA()
			// Rec. 601 luma, 16-bit channels
			luma := 0.299*float32(r) + 0.587*float32(g) + 0.114*float32(b)
			cells[y*int(dim.Width)+x] = luma / 65535.0
		}
	}
	return cells, nil
}
