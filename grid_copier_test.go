package cellgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResizeParams(t *testing.T) {
	cases := []struct {
		name string
		old  Dimensions
		new  Dimensions
		want copyParams
	}{
		{
			name: "same size",
			old:  Dim(8, 8),
			new:  Dim(8, 8),
			want: copyParams{OldWidth: 8, NewWidth: 8, OverlapWidth: 8, OverlapHeight: 8},
		},
		{
			name: "grow both axes",
			old:  Dim(4, 4),
			new:  Dim(8, 6),
			want: copyParams{
				NewOffsetX: 2, NewOffsetY: 1,
				OldWidth: 4, NewWidth: 8,
				OverlapWidth: 4, OverlapHeight: 4,
			},
		},
		{
			name: "shrink both axes",
			old:  Dim(8, 6),
			new:  Dim(4, 4),
			want: copyParams{
				OldOffsetX: 2, OldOffsetY: 1,
				OldWidth: 8, NewWidth: 4,
				OverlapWidth: 4, OverlapHeight: 4,
			},
		},
		{
			name: "grow width shrink height",
			old:  Dim(4, 8),
			new:  Dim(10, 2),
			want: copyParams{
				NewOffsetX: 3, OldOffsetY: 3,
				OldWidth: 4, NewWidth: 10,
				OverlapWidth: 4, OverlapHeight: 2,
			},
		},
		{
			name: "odd difference truncates",
			old:  Dim(5, 5),
			new:  Dim(8, 2),
			want: copyParams{
				NewOffsetX: 1, OldOffsetY: 1,
				OldWidth: 5, NewWidth: 8,
				OverlapWidth: 5, OverlapHeight: 2,
			},
		},
		{
			name: "zero area new",
			old:  Dim(4, 4),
			new:  Dim(0, 4),
			want: copyParams{
				OldOffsetX: 2,
				OldWidth:   4, NewWidth: 0,
				OverlapWidth: 0, OverlapHeight: 4,
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, resizeParams(c.old, c.new))
		})
	}
}

func TestResizeParamsRoundTripInterior(t *testing.T) {
	// 4 -> 3 -> 4 does not restore the outermost ring, but the interior
	// coordinates must map back onto themselves.
	down := resizeParams(Dim(4, 4), Dim(3, 3))
	up := resizeParams(Dim(3, 3), Dim(4, 4))

	// down drops nothing at the low edge, up re-centers with no offset
	assert.Equal(t, uint32(0), down.OldOffsetX)
	assert.Equal(t, uint32(0), up.NewOffsetX)
	assert.Equal(t, uint32(3), down.OverlapWidth)
	assert.Equal(t, uint32(3), up.OverlapWidth)
}

func TestDispatchGroups(t *testing.T) {
	assert.Equal(t, uint32(0), dispatchGroups(0))
	assert.Equal(t, uint32(1), dispatchGroups(1))
	assert.Equal(t, uint32(1), dispatchGroups(8))
	assert.Equal(t, uint32(2), dispatchGroups(9))
	assert.Equal(t, uint32(80), dispatchGroups(640))
}

func TestCopierRejectsUnsupportedElement(t *testing.T) {
	// The element pair is validated before any device call, so a nil
	// device is fine for the failure path.
	_, err := NewGridCopier[uint64, uint64](nil, NewNopLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedElement)

	_, err = NewGridCopier[float32, uint32](nil, NewNopLogger())
	assert.ErrorIs(t, err, ErrUnsupportedElement)
}

func TestCopyTransformsClosedSet(t *testing.T) {
	for pair, transform := range copyTransforms {
		assert.Contains(t, transform, "let out", "pair %v", pair)
	}
	_, ok := copyTransforms[[2]string{"f32", "vec4<u32>"}]
	assert.False(t, ok)
}
