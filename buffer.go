package cellgrid

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// BufferKind tags a linear buffer with its usage class.
type BufferKind int

const (
	// BufferUniform holds small constant data read by every invocation.
	BufferUniform BufferKind = iota
	// BufferStorage holds general read/write cell data.
	BufferStorage
)

func (k BufferKind) usage() wgpu.BufferUsage {
	base := wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	if k == BufferUniform {
		return wgpu.BufferUsageUniform | base
	}
	return wgpu.BufferUsageStorage | base
}

// Buffer is an opaque fixed-size GPU memory region. Size and kind are
// immutable; contents change only through explicit import/copy
// operations.
type Buffer struct {
	buf   *wgpu.Buffer
	size  uint64
	kind  BufferKind
	label string
}

// NewBuffer allocates size bytes of GPU memory. Allocation failure is
// fatal to the simulation; callers are expected to terminate.
func NewBuffer(device *wgpu.Device, label string, kind BufferKind, size uint64) (*Buffer, error) {
	// wgpu rejects zero-size bindings; keep a minimal allocation so a
	// zero-area grid is still a valid (empty) object.
	allocSize := size
	if allocSize < 4 {
		allocSize = 4
	}
	buf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  allocSize,
		Usage: kind.usage(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating buffer %q: %w", label, err)
	}
	return &Buffer{buf: buf, size: allocSize, kind: kind, label: label}, nil
}

// NewBufferInit allocates a buffer holding a copy of contents.
func NewBufferInit(device *wgpu.Device, label string, kind BufferKind, contents []byte) (*Buffer, error) {
	buf, err := device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label,
		Contents: contents,
		Usage:    kind.usage(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating buffer %q: %w", label, err)
	}
	return &Buffer{buf: buf, size: uint64(len(contents)), kind: kind, label: label}, nil
}

func (b *Buffer) Raw() *wgpu.Buffer {
	return b.buf
}

func (b *Buffer) Size() uint64 {
	return b.size
}

func (b *Buffer) Kind() BufferKind {
	return b.kind
}

func (b *Buffer) Release() {
	if b.buf != nil {
		b.buf.Release()
		b.buf = nil
	}
}

func (b *Buffer) BindingEntry(binding uint32) wgpu.BindGroupEntry {
	return wgpu.BindGroupEntry{
		Binding: binding,
		Buffer:  b.buf,
		Size:    wgpu.WholeSize,
	}
}

// BindingLayout maps the requested access onto a buffer binding layout.
// Buffers support {read-only, write-only}; sampled access is a modeling
// error, and writing a uniform buffer is too.
func (b *Buffer) BindingLayout(binding uint32, access BindAccess) (wgpu.BindGroupLayoutEntry, error) {
	layout := wgpu.BufferBindingLayout{
		HasDynamicOffset: false,
		MinBindingSize:   b.size,
	}
	switch b.kind {
	case BufferUniform:
		if access != AccessReadOnly {
			return wgpu.BindGroupLayoutEntry{},
				fmt.Errorf("buffer %q (uniform): %s: %w", b.label, access, ErrUnsupportedAccess)
		}
		layout.Type = wgpu.BufferBindingTypeUniform
	case BufferStorage:
		switch access {
		case AccessReadOnly:
			layout.Type = wgpu.BufferBindingTypeReadOnlyStorage
		case AccessWriteOnly:
			layout.Type = wgpu.BufferBindingTypeStorage
		default:
			return wgpu.BindGroupLayoutEntry{},
				fmt.Errorf("buffer %q (storage): %s: %w", b.label, access, ErrUnsupportedAccess)
		}
	}
	return wgpu.BindGroupLayoutEntry{
		Binding: binding,
		Buffer:  layout,
	}, nil
}
