package cellgrid

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/cellgrid/cellgrid/shaders"
)

// tileSize is the number of cells per axis handled by one GPU work
// group. This must match the @workgroup_size annotations in the WGSL
// kernels.
const tileSize = 8

// dispatchGroups is the tile count covering n cells.
func dispatchGroups(n uint32) uint32 {
	return (n + tileSize - 1) / tileSize
}

// ErrUnsupportedElement is returned when no copy kernel is registered
// for a grid element type pair.
var ErrUnsupportedElement = errors.New("no copy kernel for element type pair")

// copyParams is the fixed-layout parameter record consumed by the copy
// kernel at slot 0. Field order is the wire order.
type copyParams struct {
	OldOffsetX    uint32
	OldOffsetY    uint32
	NewOffsetX    uint32
	NewOffsetY    uint32
	OldWidth      uint32
	NewWidth      uint32
	OverlapWidth  uint32
	OverlapHeight uint32
}

// resizeParams derives the centered-overlap copy parameters from the
// old and new grid dimensions. Integer division truncates, so odd size
// differences bias the crop toward the low edge.
func resizeParams(old, new Dimensions) copyParams {
	p := copyParams{
		OldWidth:      old.Width,
		NewWidth:      new.Width,
		OverlapWidth:  min(old.Width, new.Width),
		OverlapHeight: min(old.Height, new.Height),
	}
	if new.Width < old.Width {
		p.OldOffsetX = (old.Width - new.Width) / 2
	} else {
		p.NewOffsetX = (new.Width - old.Width) / 2
	}
	if new.Height < old.Height {
		p.OldOffsetY = (old.Height - new.Height) / 2
	} else {
		p.NewOffsetY = (new.Height - old.Height) / 2
	}
	return p
}

func wgslElement(t reflect.Type) (string, bool) {
	switch t {
	case reflect.TypeOf(float32(0)):
		return "f32", true
	case reflect.TypeOf(uint32(0)):
		return "u32", true
	case reflect.TypeOf([4]uint32{}):
		return "vec4<u32>", true
	}
	return "", false
}

// copyTransforms maps a (source, destination) WGSL type pair to the
// statement that derives `out` from `old`. The set is closed; pairs not
// listed here have no copy kernel.
var copyTransforms = map[[2]string]string{
	{"f32", "f32"}:             "let out = old;",
	{"u32", "u32"}:             "let out = old;",
	{"vec4<u32>", "vec4<u32>"}: "let out = old;",
	{"u32", "f32"}:             "let out = f32(old);",
}

// GridCopier copies a source grid into a differently-sized destination
// grid on the GPU, centering the overlap. The kernel is compiled once
// per element type pair and reused across resizes.
type GridCopier[S, D any] struct {
	shader *wgpu.ShaderModule
	log    Logger
}

func NewGridCopier[S, D any](device *wgpu.Device, log Logger) (*GridCopier[S, D], error) {
	var s S
	var d D
	srcType, ok := wgslElement(reflect.TypeOf(s))
	if !ok {
		return nil, fmt.Errorf("source %T: %w", s, ErrUnsupportedElement)
	}
	dstType, ok := wgslElement(reflect.TypeOf(d))
	if !ok {
		return nil, fmt.Errorf("destination %T: %w", d, ErrUnsupportedElement)
	}
	transform, ok := copyTransforms[[2]string{srcType, dstType}]
	if !ok {
		return nil, fmt.Errorf("%s -> %s: %w", srcType, dstType, ErrUnsupportedElement)
	}

	source := strings.NewReplacer(
		"{src_type}", srcType,
		"{dst_type}", dstType,
		"{transform}", transform,
	).Replace(shaders.GridCopy)

	label := fmt.Sprintf("grid copy %s -> %s", srcType, dstType)
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          label,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: source},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: compiling shader: %w", label, err)
	}
	return &GridCopier[S, D]{shader: shader, log: log}, nil
}

func (c *GridCopier[S, D]) Release() {
	if c.shader != nil {
		c.shader.Release()
		c.shader = nil
	}
}

// Copy migrates the centered overlap of src into dst and submits the
// work. Destination cells outside the overlap are left untouched; with
// an empty overlap no work is dispatched and the call is a no-op.
func (c *GridCopier[S, D]) Copy(device *wgpu.Device, queue *wgpu.Queue, src *GridBuffer[S], dst *GridBuffer[D]) error {
	params := resizeParams(src.Dim(), dst.Dim())
	if params.OverlapWidth == 0 || params.OverlapHeight == 0 {
		c.log.Debugf("grid copy %s -> %s: empty overlap, skipping", src.Dim(), dst.Dim())
		return nil
	}
	c.log.Debugf("grid copy %s -> %s: %+v", src.Dim(), dst.Dim(), params)

	paramBuf, err := NewBufferInit(device, "copy parameters", BufferUniform, wgpu.ToBytes([]copyParams{params}))
	if err != nil {
		return err
	}
	defer paramBuf.Release()

	pipeline, bindGroup, err := BindStatic(device, c.shader, "copy", []BindingArg{
		{AccessReadOnly, paramBuf},
		{AccessReadOnly, src},
		{AccessWriteOnly, dst},
	})
	if err != nil {
		return err
	}
	defer pipeline.Release()
	defer bindGroup.Release()

	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("grid copy: creating command encoder: %w", err)
	}
	defer encoder.Release()

	pass := encoder.BeginComputePass(nil)
	pass.SetPipeline(pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(dispatchGroups(params.OverlapWidth), dispatchGroups(params.OverlapHeight), 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("grid copy: ending compute pass: %w", err)
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("grid copy: finishing command buffer: %w", err)
	}
	defer cmd.Release()
	queue.Submit(cmd)
	return nil
}
