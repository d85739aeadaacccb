package cellgrid

import (
	"errors"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBindable records the slot indices it is asked about.
type fakeBindable struct {
	layoutCalls []uint32
	entryCalls  []uint32
	failAccess  BindAccess
	failErr     error
}

func (f *fakeBindable) BindingEntry(binding uint32) wgpu.BindGroupEntry {
	f.entryCalls = append(f.entryCalls, binding)
	return wgpu.BindGroupEntry{Binding: binding, Size: wgpu.WholeSize}
}

func (f *fakeBindable) BindingLayout(binding uint32, access BindAccess) (wgpu.BindGroupLayoutEntry, error) {
	f.layoutCalls = append(f.layoutCalls, binding)
	if f.failErr != nil && access == f.failAccess {
		return wgpu.BindGroupLayoutEntry{}, f.failErr
	}
	return wgpu.BindGroupLayoutEntry{
		Binding: binding,
		Buffer:  wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeStorage},
	}, nil
}

func TestLayoutEntriesSlotOrder(t *testing.T) {
	a := &fakeBindable{}
	b := &fakeBindable{}
	c := &fakeBindable{}
	args := []BindingArg{
		{AccessReadOnly, a},
		{AccessReadOnly, b},
		{AccessWriteOnly, c},
	}

	entries, err := layoutEntries(args, wgpu.ShaderStageCompute)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Slot index equals position in the argument list.
	for i, entry := range entries {
		assert.Equal(t, uint32(i), entry.Binding)
		assert.Equal(t, wgpu.ShaderStageCompute, entry.Visibility)
	}
	assert.Equal(t, []uint32{0}, a.layoutCalls)
	assert.Equal(t, []uint32{1}, b.layoutCalls)
	assert.Equal(t, []uint32{2}, c.layoutCalls)
}

func TestLayoutEntriesVisibilityStamp(t *testing.T) {
	args := []BindingArg{{AccessReadSampled, &fakeBindable{}}}
	entries, err := layoutEntries(args, wgpu.ShaderStageFragment)
	require.NoError(t, err)
	assert.Equal(t, wgpu.ShaderStageFragment, entries[0].Visibility)
}

func TestLayoutEntriesErrorNamesSlot(t *testing.T) {
	bad := &fakeBindable{failAccess: AccessReadSampled, failErr: ErrUnsupportedAccess}
	args := []BindingArg{
		{AccessReadOnly, &fakeBindable{}},
		{AccessReadSampled, bad},
	}

	_, err := layoutEntries(args, wgpu.ShaderStageCompute)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedAccess)
	assert.Contains(t, err.Error(), "binding 1")
}

func TestLayoutEntriesStopsAtFirstError(t *testing.T) {
	sentinel := errors.New("boom")
	bad := &fakeBindable{failAccess: AccessWriteOnly, failErr: sentinel}
	tail := &fakeBindable{}
	args := []BindingArg{
		{AccessWriteOnly, bad},
		{AccessReadOnly, tail},
	}

	_, err := layoutEntries(args, wgpu.ShaderStageCompute)
	assert.ErrorIs(t, err, sentinel)
	if len(tail.layoutCalls) != 0 {
		t.Errorf("entries after the failing slot must not be evaluated, got calls %v", tail.layoutCalls)
	}
}

func TestGroupEntriesSlotOrder(t *testing.T) {
	a := &fakeBindable{}
	b := &fakeBindable{}
	entries := groupEntries([]BindingArg{
		{AccessReadOnly, a},
		{AccessWriteOnly, b},
	})
	require.Len(t, entries, 2)
	assert.Equal(t, uint32(0), entries[0].Binding)
	assert.Equal(t, uint32(1), entries[1].Binding)
	assert.Equal(t, []uint32{0}, a.entryCalls)
	assert.Equal(t, []uint32{1}, b.entryCalls)
}
