package cellgrid

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// Sampler wraps a filtering texture sampler.
type Sampler struct {
	sampler *wgpu.Sampler
}

func NewSampler(device *wgpu.Device, addressMode wgpu.AddressMode, filterMode wgpu.FilterMode) (*Sampler, error) {
	mipmapFilter := wgpu.MipmapFilterModeNearest
	if filterMode == wgpu.FilterModeLinear {
		mipmapFilter = wgpu.MipmapFilterModeLinear
	}
	sampler, err := device.CreateSampler(&wgpu.SamplerDescriptor{
		AddressModeU:  addressMode,
		AddressModeV:  addressMode,
		AddressModeW:  addressMode,
		MagFilter:     filterMode,
		MinFilter:     filterMode,
		MipmapFilter:  mipmapFilter,
		LodMinClamp:   0,
		LodMaxClamp:   1,
		Compare:       wgpu.CompareFunctionUndefined,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("creating sampler: %w", err)
	}
	return &Sampler{sampler: sampler}, nil
}

func (s *Sampler) Release() {
	if s.sampler != nil {
		s.sampler.Release()
		s.sampler = nil
	}
}

func (s *Sampler) BindingEntry(binding uint32) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{
		Binding: binding,
		Sampler: s.sampler,
		Size:    wgpu.WholeSize,
	}
}

// BindingLayout ignores the access mode; samplers have no read/write
// distinction.
func (s *Sampler) BindingLayout(binding uint32, _ BindAccess) (wgpu.BindGroupLayoutEntry, error) {
	return wgpu.BindGroupLayoutEntry{
		Binding: binding,
		Sampler: wgpu.SamplerBindingLayout{
			Type: wgpu.SamplerBindingTypeFiltering,
		},
	}, nil
}
