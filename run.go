package cellgrid

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// frameLogInterval is how many frames pass between timing log lines.
const frameLogInterval = 100

// generation groups the per-size resources the simulation and renderer
// share: the uniform params and the output texture. A resize replaces
// the whole generation.
type generation struct {
	params *Buffer
	tex    *Texture
}

func makeGeneration(device *wgpu.Device, dim Dimensions, threshold float32) (*generation, error) {
	params, err := NewBufferInit(device, "life parameters", BufferUniform, wgpu.ToBytes([]SimParams{{
		Width:     dim.Width,
		Height:    dim.Height,
		Threshold: threshold,
	}}))
	if err != nil {
		return nil, err
	}
	tex, err := NewTexture(device, "life output", dim, wgpu.TextureFormatRGBA8Unorm)
	if err != nil {
		params.Release()
		return nil, err
	}
	return &generation{params: params, tex: tex}, nil
}

func (g *generation) release() {
	if g.tex != nil {
		g.tex.Release()
		g.tex = nil
	}
	if g.params != nil {
		g.params.Release()
		g.params = nil
	}
}

// Run opens a window and drives the simulation until the window closes.
// Must be called from the main goroutine.
func Run(cfg Config, log Logger) error {
	win, err := createWindowState(cfg.WindowWidth, cfg.WindowHeight, "cellgrid")
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer win.windowGlfw.Destroy()

	gpu, err := createGpuState(win)
	if err != nil {
		return err
	}
	defer gpu.release()
	device, queue := gpu.Device(), gpu.Queue()

	dim := Dimensions{Width: gpu.surfaceConfig.Width, Height: gpu.surfaceConfig.Height}
	rng := rand.New(rand.NewSource(cfg.Seed))

	gen, err := makeGeneration(device, dim, cfg.Threshold)
	if err != nil {
		return err
	}
	defer func() { gen.release() }()

	sim, err := NewSimulation(device, dim, gen.params, gen.tex, rng, log)
	if err != nil {
		return err
	}
	defer sim.Release()

	renderer, err := NewRenderer(gpu, gen.params, gen.tex)
	if err != nil {
		return err
	}
	defer renderer.Release()

	cells, err := initialCells(cfg, dim, rng, log)
	if err != nil {
		return err
	}
	if err := sim.Import(queue, cells); err != nil {
		return err
	}

	// Step a few times up front so the first frame looks Life-like.
	if cfg.WarmupSteps > 0 {
		encoder, err := device.CreateCommandEncoder(nil)
		if err != nil {
			return fmt.Errorf("warmup: creating command encoder: %w", err)
		}
		for i := 0; i < cfg.WarmupSteps; i++ {
			if err := sim.Step(encoder); err != nil {
				encoder.Release()
				return err
			}
		}
		cmd, err := encoder.Finish(nil)
		encoder.Release()
		if err != nil {
			return fmt.Errorf("warmup: finishing command buffer: %w", err)
		}
		queue.Submit(cmd)
		cmd.Release()
		log.Infof("warmup complete: %d steps", cfg.WarmupSteps)
	}

	resized := false
	win.windowGlfw.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		resized = true
	})

	var windowedX, windowedY, windowedW, windowedH int
	win.windowGlfw.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyF:
			if w.GetMonitor() == nil {
				windowedX, windowedY = w.GetPos()
				windowedW, windowedH = w.GetSize()
				monitor := glfw.GetPrimaryMonitor()
				mode := monitor.GetVideoMode()
				w.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
			}
		case glfw.KeyW:
			if w.GetMonitor() != nil {
				w.SetMonitor(nil, windowedX, windowedY, windowedW, windowedH, 0)
			}
		}
	})

	frameStart := time.Now()
	for !win.windowGlfw.ShouldClose() {
		glfw.PollEvents()

		if resized {
			resized = false
			width, height := win.windowGlfw.GetFramebufferSize()
			if width == 0 || height == 0 {
				// minimized; block until an event restores the window
				// instead of spinning on PollEvents
				glfw.WaitEvents()
				resized = true
				continue
			}
			newDim := Dimensions{Width: uint32(width), Height: uint32(height)}
			if newDim != dim {
				gpu.reconfigureSurface(newDim.Width, newDim.Height)
				newGen, err := makeGeneration(device, newDim, cfg.Threshold)
				if err != nil {
					return err
				}
				if err := sim.Resize(device, queue, newDim, newGen.params, newGen.tex, rng); err != nil {
					newGen.release()
					return err
				}
				if err := renderer.Rebind(gpu, newGen.params, newGen.tex); err != nil {
					newGen.release()
					return err
				}
				gen.release()
				gen = newGen
				dim = newDim
			}
		}

		if err := renderFrame(gpu, sim, renderer); err != nil {
			return err
		}

		if sim.StepCount()%frameLogInterval == 0 {
			elapsed := time.Since(frameStart)
			log.Debugf("step %d: %v avg frame time", sim.StepCount(), elapsed/frameLogInterval)
			frameStart = time.Now()
		}
	}
	return nil
}

// acquireFrame fetches the next swapchain texture. An acquire can fail
// transiently when the surface goes outdated during a resize race, so a
// failure reconfigures the surface and retries once before giving up.
func acquireFrame(acquire func() (*wgpu.Texture, error), reconfigure func()) (*wgpu.Texture, error) {
	tex, err := acquire()
	if err == nil {
		return tex, nil
	}
	reconfigure()
	tex, err = acquire()
	if err != nil {
		return nil, fmt.Errorf("acquiring frame after surface reconfigure: %w", err)
	}
	return tex, nil
}

func renderFrame(gpu *GpuState, sim *Simulation, renderer *Renderer) error {
	nextTexture, err := acquireFrame(gpu.surface.GetCurrentTexture, func() {
		gpu.reconfigureSurface(gpu.surfaceConfig.Width, gpu.surfaceConfig.Height)
	})
	if err != nil {
		return err
	}
	view, err := nextTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("creating frame view: %w", err)
	}
	defer view.Release()

	encoder, err := gpu.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("creating command encoder: %w", err)
	}
	defer encoder.Release()

	if err := sim.Step(encoder); err != nil {
		return err
	}
	if err := renderer.Render(encoder, view); err != nil {
		return err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finishing frame: %w", err)
	}
	defer cmd.Release()
	gpu.queue.Submit(cmd)
	gpu.surface.Present()
	return nil
}

func initialCells(cfg Config, dim Dimensions, rng *rand.Rand, log Logger) ([]float32, error) {
	if cfg.SeedImage != "" {
		log.Infof("seeding grid from %s", cfg.SeedImage)
		return CellsFromImage(cfg.SeedImage, dim)
	}
	return RandomCells(dim.Area(), rng), nil
}
