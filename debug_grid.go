package cellgrid

import (
	"fmt"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// DebugGrid is a host-mappable shadow of a GridBuffer, for inspecting
// simulation state. Reads block the calling goroutine until the map
// completes, so this never belongs on the frame path.
type DebugGrid[T any] struct {
	buf *wgpu.Buffer
	dim Dimensions
	log Logger
}

func NewDebugGrid[T any](device *wgpu.Device, dim Dimensions, log Logger) (*DebugGrid[T], error) {
	size := uint64(dim.Area()) * elemSize[T]()
	if size < 4 {
		size = 4
	}
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "debug readback",
		Size:  size,
		Usage: wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("creating debug readback buffer: %w", err)
	}
	return &DebugGrid[T]{buf: buf, dim: dim, log: log}, nil
}

func (d *DebugGrid[T]) Dim() Dimensions {
	return d.dim
}

func (d *DebugGrid[T]) Release() {
	if d.buf != nil {
		d.buf.Release()
		d.buf = nil
	}
}

// EnqueueCopy stages a copy of src into the readback buffer. The data
// is not observable until the encoder has been finished and submitted.
func (d *DebugGrid[T]) EnqueueCopy(encoder *wgpu.CommandEncoder, src *GridBuffer[T]) error {
	if src.Dim() != d.dim {
		return fmt.Errorf("debug readback: copying %s grid into %s shadow: %w", src.Dim(), d.dim, ErrDimensionMismatch)
	}
	size := uint64(d.dim.Area()) * elemSize[T]()
	if size == 0 {
		return nil
	}
	if err := encoder.CopyBufferToBuffer(src.Raw(), 0, d.buf, 0, size); err != nil {
		return fmt.Errorf("debug readback: enqueueing copy: %w", err)
	}
	return nil
}

// Read maps the readback buffer and returns its contents, blocking on
// device poll until the map completes.
func (d *DebugGrid[T]) Read(device *wgpu.Device) ([]T, error) {
	if d.dim.Empty() {
		return nil, nil
	}
	size := uint64(d.dim.Area()) * elemSize[T]()

	var mapErr error
	done := false
	d.buf.MapAsync(wgpu.MapModeRead, 0, size, func(status wgpu.BufferMapAsyncStatus) {
		if status != wgpu.BufferMapAsyncStatusSuccess {
			mapErr = fmt.Errorf("debug readback: map failed with status %d", status)
		}
		done = true
	})
	for !done {
		device.Poll(true, nil)
	}
	if mapErr != nil {
		return nil, mapErr
	}
	defer d.buf.Unmap()

	raw := d.buf.GetMappedRange(0, uint(size))
	out := make([]T, d.dim.Area())
	copy(out, unsafe.Slice((*T)(unsafe.Pointer(&raw[0])), len(out)))
	return out, nil
}

// Dump reads back the shadow and logs one row of cells per line.
func (d *DebugGrid[T]) Dump(device *wgpu.Device) {
	cells, err := d.Read(device)
	if err != nil {
		d.log.Errorf("debug readback: %v", err)
		return
	}
	w := int(d.dim.Width)
	for y := 0; y < int(d.dim.Height); y++ {
		d.log.Debugf("row %d: %v", y, cells[y*w:(y+1)*w])
	}
}
