package cellgrid

// Phase selects which of two ping-pong buffers plays the source role.
// It is always derived from the step counter's parity, never stored on
// its own.
type Phase int

const (
	PhaseForward Phase = iota
	PhaseBackward
)

// PhaseOf maps a step count to its phase.
func PhaseOf(step uint64) Phase {
	return Phase(step % 2)
}

func (p Phase) Other() Phase {
	return 1 - p
}

func (p Phase) String() string {
	if p == PhaseForward {
		return "forward"
	}
	return "backward"
}

// Phases lists both phase values in table order.
func Phases() [2]Phase {
	return [2]Phase{PhaseForward, PhaseBackward}
}

// PhasePair is a fixed two-entry table indexed by Phase. Bind groups and
// cell buffers live in such pairs; a step only flips which entry is read.
type PhasePair[T any] struct {
	forward  T
	backward T
}

// MakePhasePair builds the table by evaluating fn once per phase.
func MakePhasePair[T any](fn func(Phase) T) PhasePair[T] {
	return PhasePair[T]{
		forward:  fn(PhaseForward),
		backward: fn(PhaseBackward),
	}
}

func (p PhasePair[T]) Get(ph Phase) T {
	if ph == PhaseForward {
		return p.forward
	}
	return p.backward
}

func (p *PhasePair[T]) Set(ph Phase, v T) {
	if ph == PhaseForward {
		p.forward = v
	} else {
		p.backward = v
	}
}

// Source returns the entry holding the last completed state for ph.
func (p PhasePair[T]) Source(ph Phase) T {
	return p.Get(ph)
}

// Dest returns the entry that the next step writes into.
func (p PhasePair[T]) Dest(ph Phase) T {
	return p.Get(ph.Other())
}
