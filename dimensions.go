package cellgrid

import "fmt"

// Dimensions is the width and height of a 2D cell grid.
type Dimensions struct {
	Width  uint32
	Height uint32
}

func Dim(width, height uint32) Dimensions {
	return Dimensions{Width: width, Height: height}
}

// Area returns the cell count.
func (d Dimensions) Area() int {
	return int(d.Width) * int(d.Height)
}

// Empty reports whether either axis is zero.
func (d Dimensions) Empty() bool {
	return d.Width == 0 || d.Height == 0
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}
