package cellgrid

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// BindingArg pairs a resource with the access mode a kernel uses it
// under. Slot index equals position in the argument list, which must
// match the shader's declared binding order; the binder cannot verify
// that.
type BindingArg struct {
	Access   BindAccess
	Resource Bindable
}

func layoutEntries(args []BindingArg, visibility wgpu.ShaderStage) ([]wgpu.BindGroupLayoutEntry, error) {
	entries := make([]wgpu.BindGroupLayoutEntry, len(args))
	for i, arg := range args {
		entry, err := arg.Resource.BindingLayout(uint32(i), arg.Access)
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		entry.Visibility = visibility
		entries[i] = entry
	}
	return entries, nil
}

func groupEntries(args []BindingArg) []wgpu.BindGroupEntry {
	entries := make([]wgpu.BindGroupEntry, len(args))
	for i, arg := range args {
		entries[i] = arg.Resource.BindingEntry(uint32(i))
	}
	return entries
}

func compilePipeline(device *wgpu.Device, module *wgpu.ShaderModule, entryPoint string, bgl *wgpu.BindGroupLayout) (*wgpu.ComputePipeline, error) {
	pipelineLayout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            entryPoint + " pipeline layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: creating pipeline layout: %w", entryPoint, err)
	}
	defer pipelineLayout.Release()

	pipeline, err := device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  entryPoint + " compute pipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: entryPoint,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: creating compute pipeline: %w", entryPoint, err)
	}
	return pipeline, nil
}

// BindStatic wires an ordered argument list to a compute kernel: one
// bind group layout derived from the resources' descriptors, one bind
// group, one pipeline.
func BindStatic(device *wgpu.Device, module *wgpu.ShaderModule, entryPoint string, args []BindingArg) (*wgpu.ComputePipeline, *wgpu.BindGroup, error) {
	layout, err := layoutEntries(args, wgpu.ShaderStageCompute)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", entryPoint, err)
	}
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   entryPoint + " bind group layout",
		Entries: layout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: creating bind group layout: %w", entryPoint, err)
	}
	defer bgl.Release()

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   entryPoint + " bind group",
		Layout:  bgl,
		Entries: groupEntries(args),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: creating bind group: %w", entryPoint, err)
	}

	pipeline, err := compilePipeline(device, module, entryPoint, bgl)
	if err != nil {
		bindGroup.Release()
		return nil, nil, err
	}
	return pipeline, bindGroup, nil
}

// BindPhased compiles one pipeline and builds a bind group per phase,
// so source and destination buffers can swap slots without a second
// pipeline compile. args is evaluated eagerly, exactly once per phase;
// both lists must have the same length, and the layout is derived from
// the forward list.
func BindPhased(device *wgpu.Device, module *wgpu.ShaderModule, entryPoint string, args func(Phase) []BindingArg) (*wgpu.ComputePipeline, PhasePair[*wgpu.BindGroup], error) {
	var groups PhasePair[*wgpu.BindGroup]

	forward := args(PhaseForward)
	layout, err := layoutEntries(forward, wgpu.ShaderStageCompute)
	if err != nil {
		return nil, groups, fmt.Errorf("%s: %w", entryPoint, err)
	}
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   entryPoint + " bind group layout",
		Entries: layout,
	})
	if err != nil {
		return nil, groups, fmt.Errorf("%s: creating bind group layout: %w", entryPoint, err)
	}
	defer bgl.Release()

	for _, ph := range Phases() {
		phaseArgs := forward
		if ph != PhaseForward {
			phaseArgs = args(ph)
			if len(phaseArgs) != len(forward) {
				groups.Get(PhaseForward).Release()
				return nil, groups, fmt.Errorf("%s: %s argument list has %d entries, forward has %d",
					entryPoint, ph, len(phaseArgs), len(forward))
			}
		}
		group, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s %s bind group", entryPoint, ph),
			Layout:  bgl,
			Entries: groupEntries(phaseArgs),
		})
		if err != nil {
			if prev := groups.Get(PhaseForward); prev != nil {
				prev.Release()
			}
			return nil, groups, fmt.Errorf("%s: creating %s bind group: %w", entryPoint, ph, err)
		}
		groups.Set(ph, group)
	}

	pipeline, err := compilePipeline(device, module, entryPoint, bgl)
	if err != nil {
		for _, ph := range Phases() {
			groups.Get(ph).Release()
		}
		return nil, PhasePair[*wgpu.BindGroup]{}, err
	}
	return pipeline, groups, nil
}
