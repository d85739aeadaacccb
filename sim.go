package cellgrid

import (
	"fmt"
	"math/rand"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/google/uuid"

	"github.com/cellgrid/cellgrid/shaders"
)

// SimParams is the uniform record shared with the life and present
// shaders. Field order is the wire order.
type SimParams struct {
	Width     uint32
	Height    uint32
	Threshold float32
}

// Simulation drives the double-buffered cell grid on the GPU. All
// state lives in device memory; the host only flips phases, enqueues
// dispatches and handles resizes.
type Simulation struct {
	shader     *wgpu.ShaderModule
	pipeline   *wgpu.ComputePipeline
	bindGroups PhasePair[*wgpu.BindGroup]
	dim        Dimensions
	cells      PhasePair[*GridBuffer[float32]]
	random     *GridBuffer[[4]uint32]
	cellCopier *GridCopier[float32, float32]
	randCopier *GridCopier[[4]uint32, [4]uint32]
	debug      *DebugGrid[float32]
	stepCount  uint64
	generation uuid.UUID
	log        Logger
}

func simBindings(params, tex Bindable, cells PhasePair[*GridBuffer[float32]], random *GridBuffer[[4]uint32]) func(Phase) []BindingArg {
	return func(ph Phase) []BindingArg {
		return []BindingArg{
			{AccessReadOnly, params},
			{AccessReadOnly, cells.Source(ph)},
			{AccessWriteOnly, cells.Dest(ph)},
			{AccessWriteOnly, random},
			{AccessWriteOnly, tex},
		}
	}
}

func randomSeedData(area int, rng *rand.Rand) [][4]uint32 {
	data := make([][4]uint32, area)
	for i := range data {
		data[i] = [4]uint32{rng.Uint32(), rng.Uint32(), rng.Uint32(), rng.Uint32()}
	}
	return data
}

func makeCellPair(device *wgpu.Device, dim Dimensions) (PhasePair[*GridBuffer[float32]], error) {
	var pair PhasePair[*GridBuffer[float32]]
	for _, ph := range Phases() {
		buf, err := NewGridBuffer[float32](device, fmt.Sprintf("cells %s", ph), dim)
		if err != nil {
			if prev := pair.Get(PhaseForward); prev != nil {
				prev.Release()
			}
			return pair, err
		}
		pair.Set(ph, buf)
	}
	return pair, nil
}

// NewSimulation allocates the full GPU state for a dim-sized grid and
// binds the life kernel against params and the output texture. The rng
// seeds the per-cell random stream; pass a seeded source for
// reproducible runs.
func NewSimulation(device *wgpu.Device, dim Dimensions, params, tex Bindable, rng *rand.Rand, log Logger) (*Simulation, error) {
	shader, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "life algorithm",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.Life},
	})
	if err != nil {
		return nil, fmt.Errorf("compiling life shader: %w", err)
	}

	s := &Simulation{shader: shader, log: log}
	if err := s.buildGeneration(device, nil, dim, params, tex, rng); err != nil {
		shader.Release()
		return nil, err
	}

	s.cellCopier, err = NewGridCopier[float32, float32](device, log)
	if err != nil {
		s.Release()
		return nil, err
	}
	s.randCopier, err = NewGridCopier[[4]uint32, [4]uint32](device, log)
	if err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

// buildGeneration allocates cell, random and debug buffers for dim and
// rebinds the kernel. On success the new state replaces s's current
// generation; the caller still owns the old buffers it passed nothing
// of. queue is only needed when migrating from a previous generation.
func (s *Simulation) buildGeneration(device *wgpu.Device, queue *wgpu.Queue, dim Dimensions, params, tex Bindable, rng *rand.Rand) error {
	cells, err := makeCellPair(device, dim)
	if err != nil {
		return err
	}
	random, err := NewGridBufferInit(device, "random data", dim, randomSeedData(dim.Area(), rng))
	if err != nil {
		releaseCellPair(cells)
		return err
	}
	debug, err := NewDebugGrid[float32](device, dim, s.log)
	if err != nil {
		releaseCellPair(cells)
		random.Release()
		return err
	}

	if queue != nil {
		// Migrate the previous generation's state, both phases of
		// cells plus the random stream, into the centered overlap.
		for _, ph := range Phases() {
			if err := s.cellCopier.Copy(device, queue, s.cells.Get(ph), cells.Get(ph)); err != nil {
				releaseCellPair(cells)
				random.Release()
				debug.Release()
				return err
			}
		}
		if err := s.randCopier.Copy(device, queue, s.random, random); err != nil {
			releaseCellPair(cells)
			random.Release()
			debug.Release()
			return err
		}
	}

	pipeline, bindGroups, err := BindPhased(device, s.shader, "life", simBindings(params, tex, cells, random))
	if err != nil {
		releaseCellPair(cells)
		random.Release()
		debug.Release()
		return err
	}

	if queue != nil {
		s.releaseGeneration()
	}
	s.pipeline = pipeline
	s.bindGroups = bindGroups
	s.dim = dim
	s.cells = cells
	s.random = random
	s.debug = debug
	s.generation = uuid.New()
	s.log.Infof("simulation generation %s: %s", s.generation, dim)
	return nil
}

func releaseCellPair(pair PhasePair[*GridBuffer[float32]]) {
	for _, ph := range Phases() {
		if buf := pair.Get(ph); buf != nil {
			buf.Release()
		}
	}
}

func (s *Simulation) releaseGeneration() {
	if s.pipeline != nil {
		s.pipeline.Release()
		s.pipeline = nil
	}
	for _, ph := range Phases() {
		if bg := s.bindGroups.Get(ph); bg != nil {
			bg.Release()
			s.bindGroups.Set(ph, nil)
		}
	}
	releaseCellPair(s.cells)
	s.cells = PhasePair[*GridBuffer[float32]]{}
	if s.random != nil {
		s.random.Release()
		s.random = nil
	}
	if s.debug != nil {
		s.debug.Release()
		s.debug = nil
	}
}

func (s *Simulation) Release() {
	s.releaseGeneration()
	if s.cellCopier != nil {
		s.cellCopier.Release()
		s.cellCopier = nil
	}
	if s.randCopier != nil {
		s.randCopier.Release()
		s.randCopier = nil
	}
	if s.shader != nil {
		s.shader.Release()
		s.shader = nil
	}
}

// Step enqueues one transition of the whole grid onto encoder and
// advances the step counter. Nothing executes until the encoder is
// submitted; the phase flip is pure host-side bookkeeping.
func (s *Simulation) Step(encoder *wgpu.CommandEncoder) error {
	pass := encoder.BeginComputePass(&wgpu.ComputePassDescriptor{
		Label: "life grid step",
	})
	pass.SetPipeline(s.pipeline)
	pass.SetBindGroup(0, s.bindGroups.Get(s.Phase()), nil)
	pass.DispatchWorkgroups(dispatchGroups(s.dim.Width), dispatchGroups(s.dim.Height), 1)
	if err := pass.End(); err != nil {
		return fmt.Errorf("life step: ending compute pass: %w", err)
	}
	s.stepCount++
	return nil
}

// Resize moves the simulation to a new grid size. Both cell phases and
// the random stream migrate through the copy kernel with a centered
// overlap; cells outside the overlap start dead with fresh random
// state. The step counter, and with it the current phase, carries over.
func (s *Simulation) Resize(device *wgpu.Device, queue *wgpu.Queue, dim Dimensions, params, tex Bindable, rng *rand.Rand) error {
	s.log.Infof("simulation resize %s -> %s", s.dim, dim)
	return s.buildGeneration(device, queue, dim, params, tex, rng)
}

// Import writes cells into the current source buffer. The next Step
// reads them as input state.
func (s *Simulation) Import(queue *wgpu.Queue, cells []float32) error {
	return s.cells.Source(s.Phase()).Import(queue, cells)
}

// Phase is the parity of the step counter.
func (s *Simulation) Phase() Phase {
	return PhaseOf(s.stepCount)
}

func (s *Simulation) StepCount() uint64 {
	return s.stepCount
}

func (s *Simulation) Dim() Dimensions {
	return s.dim
}

func (s *Simulation) Generation() uuid.UUID {
	return s.generation
}

// DumpDebug copies the current source buffer through the readback
// shadow and logs it. Blocks on the GPU; diagnostics only.
func (s *Simulation) DumpDebug(device *wgpu.Device, queue *wgpu.Queue) error {
	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("debug dump: creating command encoder: %w", err)
	}
	defer encoder.Release()
	if err := s.debug.EnqueueCopy(encoder, s.cells.Source(s.Phase())); err != nil {
		return err
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("debug dump: finishing command buffer: %w", err)
	}
	defer cmd.Release()
	queue.Submit(cmd)

	s.log.Debugf("simulation state entering step %d:", s.stepCount)
	s.debug.Dump(device)
	return nil
}

// ReadCells is a blocking readback of the current source buffer, used
// by tests and diagnostics.
func (s *Simulation) ReadCells(device *wgpu.Device, queue *wgpu.Queue) ([]float32, error) {
	encoder, err := device.CreateCommandEncoder(nil)
	if err != nil {
		return nil, fmt.Errorf("readback: creating command encoder: %w", err)
	}
	defer encoder.Release()
	if err := s.debug.EnqueueCopy(encoder, s.cells.Source(s.Phase())); err != nil {
		return nil, err
	}
	cmd, err := encoder.Finish(nil)
	if err != nil {
		return nil, fmt.Errorf("readback: finishing command buffer: %w", err)
	}
	defer cmd.Release()
	queue.Submit(cmd)
	return s.debug.Read(device)
}
