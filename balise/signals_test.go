package balise_test

import (
	"math"
	"testing"

	"github.com/elbywan/balises-sub001/balise"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystem(t *testing.T) *balise.ReactiveSystem {
	t.Helper()
	return balise.CreateReactiveSystem(func(from balise.SignalAware, err error) {
		assert.FailNow(t, err.Error())
	})
}

// should store and return the written value
func TestSignalReadWrite(t *testing.T) {
	rs := newSystem(t)
	s := balise.Signal(rs, 1)
	assert.Equal(t, 1, s.Value())
	s.SetValue(7)
	assert.Equal(t, 7, s.Value())
}

// writing an equal value should not notify anyone
func TestSignalEqualWriteIsNoop(t *testing.T) {
	rs := newSystem(t)
	s := balise.Signal(rs, 3)

	fired := 0
	s.Subscribe(func(int) { fired++ })

	s.SetValue(3)
	assert.Equal(t, 0, fired)
	s.SetValue(4)
	assert.Equal(t, 1, fired)
}

// NaN should equal NaN, so re-writing NaN is a no-op
func TestSignalNaNWriteIsNoop(t *testing.T) {
	rs := newSystem(t)
	s := balise.Signal(rs, math.NaN())

	fired := 0
	s.Subscribe(func(float64) { fired++ })

	s.SetValue(math.NaN())
	assert.Equal(t, 0, fired)
	s.SetValue(1.5)
	assert.Equal(t, 1, fired)
}

// a custom equality function should decide what counts as a change
func TestSignalWithEquality(t *testing.T) {
	rs := newSystem(t)
	s := balise.SignalWithEquality(rs, 2, func(a, b int) bool {
		abs := func(v int) int {
			if v < 0 {
				return -v
			}
			return v
		}
		return abs(a) == abs(b)
	})

	fired := 0
	s.Subscribe(func(int) { fired++ })

	s.SetValue(-2)
	assert.Equal(t, 0, fired)
	assert.Equal(t, 2, s.Value())
	s.SetValue(5)
	assert.Equal(t, 1, fired)
}

// subscribers should fire in registration order with the final value
func TestSignalSubscribeOrder(t *testing.T) {
	rs := newSystem(t)
	s := balise.Signal(rs, "a")

	var order []string
	s.Subscribe(func(v string) { order = append(order, "first:"+v) })
	s.Subscribe(func(v string) { order = append(order, "second:"+v) })

	s.SetValue("b")
	require.Equal(t, []string{"first:b", "second:b"}, order)
}

// unsubscribing should stop callbacks without disturbing the rest
func TestSignalUnsubscribe(t *testing.T) {
	rs := newSystem(t)
	s := balise.Signal(rs, 0)

	aRuns, bRuns := 0, 0
	unsubA := s.Subscribe(func(int) { aRuns++ })
	s.Subscribe(func(int) { bRuns++ })

	s.SetValue(1)
	unsubA()
	s.SetValue(2)
	assert.Equal(t, 1, aRuns)
	assert.Equal(t, 2, bRuns)

	// a second call must be harmless
	unsubA()
	s.SetValue(3)
	assert.Equal(t, 1, aRuns)
	assert.Equal(t, 3, bRuns)
}
