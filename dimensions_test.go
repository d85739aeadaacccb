package cellgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensions(t *testing.T) {
	d := Dim(640, 480)
	assert.Equal(t, 640*480, d.Area())
	assert.False(t, d.Empty())
	assert.Equal(t, "640x480", d.String())

	assert.True(t, Dim(0, 480).Empty())
	assert.True(t, Dim(640, 0).Empty())
	assert.Equal(t, 0, Dim(0, 480).Area())
}
