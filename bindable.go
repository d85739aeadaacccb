package cellgrid

import (
	"errors"

	"github.com/cogentcore/webgpu/wgpu"
)

// BindAccess declares how a pipeline stage intends to use a bound
// resource. AccessReadSampled implies filtered sampling and is only
// meaningful for textures.
type BindAccess int

const (
	AccessReadOnly BindAccess = iota
	AccessReadSampled
	AccessWriteOnly
)

func (a BindAccess) String() string {
	switch a {
	case AccessReadOnly:
		return "read-only"
	case AccessReadSampled:
		return "read-sampled"
	case AccessWriteOnly:
		return "write-only"
	}
	return "unknown"
}

var (
	// ErrUnsupportedAccess is returned when a resource variant cannot
	// legally be bound with the requested access mode, e.g. sampled
	// access on a linear buffer. This is rejected when the binding set
	// is built, never remapped to a different mode.
	ErrUnsupportedAccess = errors.New("unsupported bind access for resource")

	// ErrSizeMismatch is returned when host data does not match a grid
	// buffer's cell count.
	ErrSizeMismatch = errors.New("host data size does not match grid dimensions")

	// ErrDimensionMismatch is returned when a same-size copy is asked to
	// operate on buffers of different dimensions.
	ErrDimensionMismatch = errors.New("grid dimensions do not match")
)

// Bindable is a GPU resource that can be wired into a bind group slot.
// Implementations are closed over {Buffer, GridBuffer, Texture, Sampler}.
//
// BindingLayout must be consistent with how the resource was created: a
// uniform buffer always presents as a uniform binding, and access modes
// outside the variant's supported set return ErrUnsupportedAccess.
// Visibility is left unset; the binder stamps it.
type Bindable interface {
	BindingEntry(binding uint32) wgpu.BindGroupEntry
	BindingLayout(binding uint32, access BindAccess) (wgpu.BindGroupLayoutEntry, error)
}
