package cellgrid

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Texture is a 2D image usable both as a compute storage target and as
// a sampled input for presentation.
type Texture struct {
	texture *wgpu.Texture
	view    *wgpu.TextureView
	format  wgpu.TextureFormat
	dim     Dimensions
	label   string
}

func NewTexture(device *wgpu.Device, label string, dim Dimensions, format wgpu.TextureFormat) (*Texture, error) {
	texture, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label: label,
		Size: wgpu.Extent3D{
			Width:              dim.Width,
			Height:             dim.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageTextureBinding | wgpu.TextureUsageStorageBinding,
	})
	if err != nil {
		return nil, fmt.Errorf("creating texture %q: %w", label, err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("creating texture view %q: %w", label, err)
	}
	return &Texture{texture: texture, view: view, format: format, dim: dim, label: label}, nil
}

func (t *Texture) Dim() Dimensions {
	return t.dim
}

func (t *Texture) Release() {
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

func (t *Texture) BindingEntry(binding uint32) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{
		Binding:     binding,
		TextureView: t.view,
		Size:        wgpu.WholeSize,
	}
}

// BindingLayout supports all three access modes: read-only and
// write-only present as storage textures, read-sampled as a sampled
// texture binding.
func (t *Texture) BindingLayout(binding uint32, access BindAccess) (wgpu.BindGroupLayoutEntry, error) {
	entry := wgpu.BindGroupLayoutEntry{Binding: binding}
	switch access {
	case AccessReadOnly:
		entry.StorageTexture = wgpu.StorageTextureBindingLayout{
			Access:        wgpu.StorageTextureAccessReadOnly,
			Format:        t.format,
			ViewDimension: wgpu.TextureViewDimension2D,
		}
	case AccessWriteOnly:
		entry.StorageTexture = wgpu.StorageTextureBindingLayout{
			Access:        wgpu.StorageTextureAccessWriteOnly,
			Format:        t.format,
			ViewDimension: wgpu.TextureViewDimension2D,
		}
	case AccessReadSampled:
		entry.Texture = wgpu.TextureBindingLayout{
			SampleType:    sampleTypeFor(t.format),
			ViewDimension: wgpu.TextureViewDimension2D,
			Multisampled:  false,
		}
	default:
		return wgpu.BindGroupLayoutEntry{},
			fmt.Errorf("texture %q: %s: %w", t.label, access, ErrUnsupportedAccess)
	}
	return entry, nil
}

func sampleTypeFor(format wgpu.TextureFormat) wgpu.TextureSampleType {
	switch format {
	case wgpu.TextureFormatR32Float, wgpu.TextureFormatRG32Float, wgpu.TextureFormatRGBA32Float:
		return wgpu.TextureSampleTypeUnfilterableFloat
	default:
		return wgpu.TextureSampleTypeFloat
	}
}
