package cellgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhaseOfParity(t *testing.T) {
	cases := []struct {
		step uint64
		want Phase
	}{
		{0, PhaseForward},
		{1, PhaseBackward},
		{2, PhaseForward},
		{3, PhaseBackward},
		{100, PhaseForward},
		{101, PhaseBackward},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PhaseOf(c.step), "step %d", c.step)
	}
}

func TestPhaseOther(t *testing.T) {
	assert.Equal(t, PhaseBackward, PhaseForward.Other())
	assert.Equal(t, PhaseForward, PhaseBackward.Other())
}

func TestPhasePairSourceDest(t *testing.T) {
	pair := MakePhasePair(func(ph Phase) string { return ph.String() })

	// Source reads the entry for the phase itself, Dest the other one.
	assert.Equal(t, "forward", pair.Source(PhaseForward))
	assert.Equal(t, "backward", pair.Dest(PhaseForward))
	assert.Equal(t, "backward", pair.Source(PhaseBackward))
	assert.Equal(t, "forward", pair.Dest(PhaseBackward))

	// Consecutive steps alternate roles without moving data.
	for step := uint64(0); step < 4; step++ {
		ph := PhaseOf(step)
		if pair.Source(ph) == pair.Dest(ph) {
			t.Errorf("step %d: source and dest must differ", step)
		}
		assert.Equal(t, pair.Source(ph), pair.Dest(ph.Other()))
	}
}

func TestPhasePairSet(t *testing.T) {
	var pair PhasePair[int]
	pair.Set(PhaseForward, 1)
	pair.Set(PhaseBackward, 2)
	assert.Equal(t, 1, pair.Get(PhaseForward))
	assert.Equal(t, 2, pair.Get(PhaseBackward))
}
