package balise_test

import (
	"fmt"
	"testing"

	"github.com/elbywan/balises-sub001/balise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// diamond: one root change recomputes each side once and the bottom exactly once
func TestTopologyDiamond(t *testing.T) {
	rs := newSystem(t)

	//     A
	//   /   \
	//  B     C
	//   \   /
	//     D
	a := balise.Signal(rs, "a")

	bRuns := 0
	b := balise.Computed(rs, func(oldValue string) (string, error) {
		bRuns++
		return a.Value(), nil
	})
	cRuns := 0
	c := balise.Computed(rs, func(oldValue string) (string, error) {
		cRuns++
		return a.Value(), nil
	})
	dRuns := 0
	d := balise.Computed(rs, func(oldValue string) (string, error) {
		dRuns++
		return b.Value() + " " + c.Value(), nil
	})

	assert.Equal(t, "a a", d.Value())
	bRuns, cRuns, dRuns = 0, 0, 0

	a.SetValue("aa")
	assert.Equal(t, "aa aa", d.Value())
	assert.Equal(t, 1, bRuns)
	assert.Equal(t, 1, cRuns)
	assert.Equal(t, 1, dRuns)
}

// a dependent should not recompute when its direct source settles unchanged
func TestTopologyDropAbaUpdates(t *testing.T) {
	rs := newSystem(t)

	//     A
	//   / |
	//  B  |
	//   \ |
	//     C
	//     |
	//     D
	a := balise.Signal(rs, 2)
	b := balise.Computed(rs, func(oldValue int) (int, error) {
		return a.Value() - 1, nil
	})
	c := balise.Computed(rs, func(oldValue int) (int, error) {
		return a.Value() - b.Value(), nil
	})

	dRuns := 0
	d := balise.Computed(rs, func(oldValue string) (string, error) {
		dRuns++
		return fmt.Sprintf("d: %d", c.Value()), nil
	})

	assert.Equal(t, "d: 1", d.Value())
	dRuns = 0

	// c re-evaluates to the same 1, so d must settle without running
	a.SetValue(4)
	assert.Equal(t, "d: 1", d.Value())
	assert.Equal(t, 0, dRuns)
}

// a chain thousands of computeds deep must refresh without stack overflow
func TestTopologyDeepChain(t *testing.T) {
	rs := newSystem(t)
	const depth = 5000

	root := balise.Signal(rs, 0)
	runs := make([]int, depth)

	var last balise.Readable[int] = root
	for i := 0; i < depth; i++ {
		i := i
		prev := last
		last = balise.Computed(rs, func(oldValue int) (int, error) {
			runs[i]++
			return prev.Value() + 1, nil
		})
	}

	tail := last.(*balise.ReadonlySignal[int])
	require.Equal(t, depth, tail.Value())
	for i := range runs {
		runs[i] = 0
	}

	root.SetValue(10)
	require.Equal(t, depth+10, tail.Value())
	for i, n := range runs {
		require.Equalf(t, 1, n, "link %d recomputed %d times", i, n)
	}
}

// every layer of a wide fanout recomputes once per root change
func TestTopologyWideFanout(t *testing.T) {
	rs := newSystem(t)
	const width = 200

	root := balise.Signal(rs, 1)
	runs := 0

	outs := make([]*balise.ReadonlySignal[int], width)
	for i := 0; i < width; i++ {
		i := i
		outs[i] = balise.Computed(rs, func(oldValue int) (int, error) {
			runs++
			return root.Value() + i, nil
		})
	}
	runs = 0

	root.SetValue(2)
	for i, o := range outs {
		assert.Equal(t, 2+i, o.Value())
	}
	assert.Equal(t, width, runs)
}

// writes to sources of a disposed computed must not reach its former subscribers
func TestTopologyDisposedEdgesRemoved(t *testing.T) {
	rs := newSystem(t)
	s1 := balise.Signal(rs, 1)
	s2 := balise.Signal(rs, 2)

	c := balise.Computed(rs, func(oldValue int) (int, error) {
		return s1.Value() + s2.Value(), nil
	})
	fired := 0
	c.Subscribe(func(int) { fired++ })

	s1.SetValue(10)
	assert.Equal(t, 1, fired)

	c.Dispose()
	s1.SetValue(20)
	s2.SetValue(30)
	assert.Equal(t, 1, fired)
}
