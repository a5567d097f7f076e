package balise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slots must be garbage collected once their last dependent unlinks
func TestSelectorSlotRemovedAfterDispose(t *testing.T) {
	rs := CreateReactiveSystem(nil)
	s := Signal(rs, 0)

	c := Computed(rs, func(oldValue bool) (bool, error) {
		return s.Is(7), nil
	})
	require.Len(t, s.slots.m, 1)

	c.Dispose()
	assert.Empty(t, s.slots.m)
}

// a branch switch that stops reading a slot must release it during cleanup
func TestSelectorSlotRemovedAfterRetrackMiss(t *testing.T) {
	rs := CreateReactiveSystem(nil)
	s := Signal(rs, 0)
	useSlot := Signal(rs, true)

	c := Computed(rs, func(oldValue bool) (bool, error) {
		if useSlot.Value() {
			return s.Is(7), nil
		}
		return false, nil
	})
	require.Len(t, s.slots.m, 1)

	useSlot.SetValue(false)
	assert.False(t, c.Value())
	assert.Empty(t, s.slots.m)
}

// two dependents share one slot; only the second unlink releases it
func TestSelectorSlotSharedAcrossDependents(t *testing.T) {
	rs := CreateReactiveSystem(nil)
	s := Signal(rs, 0)

	c1 := Computed(rs, func(oldValue bool) (bool, error) { return s.Is(3), nil })
	c2 := Computed(rs, func(oldValue bool) (bool, error) { return s.Is(3), nil })
	require.Len(t, s.slots.m, 1)

	c1.Dispose()
	require.Len(t, s.slots.m, 1)
	c2.Dispose()
	assert.Empty(t, s.slots.m)
}
