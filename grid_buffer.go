package cellgrid

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

func elemSize[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// GridBuffer is a storage Buffer reinterpreted as a width x height
// array of T. The dimension is fixed at construction; a "resize" always
// builds a new GridBuffer and migrates content through a GridCopier.
type GridBuffer[T any] struct {
	buf   *Buffer
	dim   Dimensions
	label string
}

func NewGridBuffer[T any](device *wgpu.Device, label string, dim Dimensions) (*GridBuffer[T], error) {
	buf, err := NewBuffer(device, label, BufferStorage, uint64(dim.Area())*elemSize[T]())
	if err != nil {
		return nil, err
	}
	return &GridBuffer[T]{buf: buf, dim: dim, label: label}, nil
}

// NewGridBufferInit allocates the grid and uploads data in one step.
// len(data) must equal dim.Area().
func NewGridBufferInit[T any](device *wgpu.Device, label string, dim Dimensions, data []T) (*GridBuffer[T], error) {
	if len(data) != dim.Area() {
		return nil, fmt.Errorf("%s: %d cells for %s grid: %w", label, len(data), dim, ErrSizeMismatch)
	}
	if len(data) == 0 {
		return NewGridBuffer[T](device, label, dim)
	}
	buf, err := NewBufferInit(device, label, BufferStorage, wgpu.ToBytes(data))
	if err != nil {
		return nil, err
	}
	return &GridBuffer[T]{buf: buf, dim: dim, label: label}, nil
}

func (g *GridBuffer[T]) Dim() Dimensions {
	return g.dim
}

func (g *GridBuffer[T]) Label() string {
	return g.label
}

func (g *GridBuffer[T]) Raw() *wgpu.Buffer {
	return g.buf.Raw()
}

func (g *GridBuffer[T]) Release() {
	g.buf.Release()
}

// Import copies a host-resident sequence into the GPU buffer. A length
// mismatch is a programmer error and fails before any GPU call.
func (g *GridBuffer[T]) Import(queue *wgpu.Queue, data []T) error {
	if len(data) != g.dim.Area() {
		return fmt.Errorf("%s: importing %d cells into %s grid: %w", g.label, len(data), g.dim, ErrSizeMismatch)
	}
	if len(data) == 0 {
		return nil
	}
	if err := queue.WriteBuffer(g.buf.Raw(), 0, wgpu.ToBytes(data)); err != nil {
		return fmt.Errorf("%s: importing cells: %w", g.label, err)
	}
	return nil
}

// CopyFrom enqueues a same-size buffer-to-buffer copy.
func (g *GridBuffer[T]) CopyFrom(encoder *wgpu.CommandEncoder, src *GridBuffer[T]) error {
	if src.dim != g.dim {
		return fmt.Errorf("%s: copying from %s into %s: %w", g.label, src.dim, g.dim, ErrDimensionMismatch)
	}
	size := uint64(g.dim.Area()) * elemSize[T]()
	if size == 0 {
		return nil
	}
	if err := encoder.CopyBufferToBuffer(src.Raw(), 0, g.Raw(), 0, size); err != nil {
		return fmt.Errorf("%s: enqueueing copy: %w", g.label, err)
	}
	return nil
}

func (g *GridBuffer[T]) BindingEntry(binding uint32) wgpu.BindGroupEntry {
	return g.buf.BindingEntry(binding)
}

func (g *GridBuffer[T]) BindingLayout(binding uint32, access BindAccess) (wgpu.BindGroupLayoutEntry, error) {
	return g.buf.BindingLayout(binding, access)
}
