package cellgrid

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireFrameFirstTry(t *testing.T) {
	want := &wgpu.Texture{}
	reconfigured := false

	got, err := acquireFrame(
		func() (*wgpu.Texture, error) { return want, nil },
		func() { reconfigured = true },
	)
	require.NoError(t, err)
	assert.Same(t, want, got)
	if reconfigured {
		t.Error("a successful acquire must not reconfigure the surface")
	}
}

func TestAcquireFrameRetriesAfterReconfigure(t *testing.T) {
	// An outdated surface fails the first acquire; the retry after the
	// reconfigure must succeed.
	want := &wgpu.Texture{}
	calls := 0
	reconfigured := 0

	got, err := acquireFrame(
		func() (*wgpu.Texture, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("surface outdated")
			}
			return want, nil
		},
		func() {
			reconfigured++
			assert.Equal(t, 1, calls, "reconfigure must happen between the two acquires")
		},
	)
	require.NoError(t, err)
	assert.Same(t, want, got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, reconfigured)
}

func TestAcquireFrameGivesUpAfterOneRetry(t *testing.T) {
	lost := errors.New("surface lost")
	calls := 0

	_, err := acquireFrame(
		func() (*wgpu.Texture, error) {
			calls++
			return nil, lost
		},
		func() {},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, lost)
	assert.Equal(t, 2, calls, "exactly one retry")
}
