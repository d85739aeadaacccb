package cellgrid

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferKindUsage(t *testing.T) {
	u := BufferUniform.usage()
	assert.NotZero(t, u&wgpu.BufferUsageUniform)
	assert.NotZero(t, u&wgpu.BufferUsageCopySrc)
	assert.NotZero(t, u&wgpu.BufferUsageCopyDst)

	s := BufferStorage.usage()
	assert.NotZero(t, s&wgpu.BufferUsageStorage)
	assert.NotZero(t, s&wgpu.BufferUsageCopySrc)
	assert.NotZero(t, s&wgpu.BufferUsageCopyDst)
}

func TestStorageBufferAccessModes(t *testing.T) {
	buf := &Buffer{kind: BufferStorage, size: 64, label: "cells"}

	entry, err := buf.BindingLayout(1, AccessReadOnly)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), entry.Binding)
	assert.Equal(t, wgpu.BufferBindingTypeReadOnlyStorage, entry.Buffer.Type)
	assert.Equal(t, uint64(64), entry.Buffer.MinBindingSize)

	entry, err = buf.BindingLayout(2, AccessWriteOnly)
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferBindingTypeStorage, entry.Buffer.Type)

	// Sampled access on a linear buffer is rejected, not remapped.
	_, err = buf.BindingLayout(0, AccessReadSampled)
	assert.ErrorIs(t, err, ErrUnsupportedAccess)
	assert.Contains(t, err.Error(), "cells")
}

func TestUniformBufferAccessModes(t *testing.T) {
	buf := &Buffer{kind: BufferUniform, size: 12, label: "params"}

	entry, err := buf.BindingLayout(0, AccessReadOnly)
	require.NoError(t, err)
	assert.Equal(t, wgpu.BufferBindingTypeUniform, entry.Buffer.Type)

	for _, access := range []BindAccess{AccessReadSampled, AccessWriteOnly} {
		_, err := buf.BindingLayout(0, access)
		assert.ErrorIs(t, err, ErrUnsupportedAccess, "access %s", access)
	}
}

func TestTextureAccessModes(t *testing.T) {
	tex := &Texture{format: wgpu.TextureFormatRGBA8Unorm, dim: Dim(16, 16), label: "output"}

	entry, err := tex.BindingLayout(4, AccessWriteOnly)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), entry.Binding)
	assert.Equal(t, wgpu.StorageTextureAccessWriteOnly, entry.StorageTexture.Access)
	assert.Equal(t, wgpu.TextureFormatRGBA8Unorm, entry.StorageTexture.Format)

	entry, err = tex.BindingLayout(0, AccessReadOnly)
	require.NoError(t, err)
	assert.Equal(t, wgpu.StorageTextureAccessReadOnly, entry.StorageTexture.Access)

	entry, err = tex.BindingLayout(0, AccessReadSampled)
	require.NoError(t, err)
	assert.Equal(t, wgpu.TextureSampleTypeFloat, entry.Texture.SampleType)
}

func TestTextureSampleTypeByFormat(t *testing.T) {
	assert.Equal(t, wgpu.TextureSampleTypeUnfilterableFloat, sampleTypeFor(wgpu.TextureFormatR32Float))
	assert.Equal(t, wgpu.TextureSampleTypeFloat, sampleTypeFor(wgpu.TextureFormatRGBA8Unorm))
}

func TestSamplerAcceptsAllAccessModes(t *testing.T) {
	s := &Sampler{}
	for _, access := range []BindAccess{AccessReadOnly, AccessReadSampled, AccessWriteOnly} {
		entry, err := s.BindingLayout(2, access)
		require.NoError(t, err)
		assert.Equal(t, wgpu.SamplerBindingTypeFiltering, entry.Sampler.Type)
	}
}

func TestBindAccessString(t *testing.T) {
	assert.Equal(t, "read-only", AccessReadOnly.String())
	assert.Equal(t, "read-sampled", AccessReadSampled.String())
	assert.Equal(t, "write-only", AccessWriteOnly.String())
}
