package balise

// ComputeFunc derives a value from other reactives. It receives the value
// produced by the previous run (the zero value on the first run).
type ComputeFunc[T comparable] func(oldValue T) (T, error)

// ReadonlySignal is a memoized derived value. Unwatched it is purely pull
// based: writes upstream only mark it dirty, and the next read recomputes
// it. Watched (subscribed, or observed through Is) it re-evaluates eagerly
// once the triggering write settles.
type ReadonlySignal[T comparable] struct {
	reactiveCore
	rs        *ReactiveSystem
	fn        ComputeFunc[T]
	value     T
	err       error
	eq        func(a, b T) bool
	dirty     bool
	computing bool
	ran       bool
	sources   *node
	subs      subscriberList[T]
	slots     slotSet[T]
}

// Computed creates the derived value and computes it once immediately,
// establishing its initial source set.
func Computed[T comparable](rs *ReactiveSystem, getter ComputeFunc[T]) *ReadonlySignal[T] {
	c := &ReadonlySignal[T]{
		rs:    rs,
		fn:    getter,
		eq:    sameValue[T],
		dirty: true,
	}
	refresh(c)
	return c
}

func (c *ReadonlySignal[T]) isSignalAware()     {}
func (c *ReadonlySignal[T]) owner() SignalAware { return c }

func (c *ReadonlySignal[T]) isDirty() bool          { return c.dirty }
func (c *ReadonlySignal[T]) setDirtyFlag()          { c.dirty = true }
func (c *ReadonlySignal[T]) isComputing() bool      { return c.computing }
func (c *ReadonlySignal[T]) firstSource() *node     { return c.sources }
func (c *ReadonlySignal[T]) setFirstSource(n *node) { c.sources = n }
func (c *ReadonlySignal[T]) settle()                { c.dirty = false }

func (c *ReadonlySignal[T]) needsRefresh() bool {
	return (c.dirty || c.err != nil) && !c.computing && c.fn != nil
}

func (c *ReadonlySignal[T]) watched() bool {
	return len(c.subs.entries) > 0 || len(c.slots.m) > 0
}

// sourcesChanged reports whether any source moved past the version this
// computed last consumed. A failed run always reads as changed so the next
// refresh retries.
func (c *ReadonlySignal[T]) sourcesChanged() bool {
	if c.fn == nil {
		return false
	}
	if !c.ran || c.err != nil {
		return true
	}
	for n := c.sources; n != nil; n = n.nextSource {
		if n.version != n.source.depVersion() {
			return true
		}
	}
	return false
}

// Value returns the cached value, refreshing it first if stale. A
// self-referential read during a recompute returns the previous value
// instead of recursing.
func (c *ReadonlySignal[T]) Value() T {
	if c.computing {
		// a distinct reader still records the edge; only the self-read
		// skips tracking.
		if c.rs.activeSub != c {
			c.rs.track(c)
		}
		return c.value
	}
	if c.dirty || c.err != nil {
		refresh(c)
	}
	c.rs.track(c)
	return c.value
}

// Err reports the failure of the most recent recompute, nil after a
// successful run.
func (c *ReadonlySignal[T]) Err() error { return c.err }

// Subscribe registers fn to run whenever the computed settles on a new
// value. Subscribing switches the computed to eager re-evaluation.
func (c *ReadonlySignal[T]) Subscribe(fn func(T)) func() {
	e := c.subs.add(fn)
	return func() { c.subs.remove(e) }
}

// Is reports whether the computed currently yields key, tracking through a
// per-key slot like WriteableSignal.Is.
func (c *ReadonlySignal[T]) Is(key T) bool {
	if !c.computing && (c.dirty || c.err != nil) {
		refresh(c)
	}
	rs := c.rs
	if rs.activeSub == c { // self-read during own recompute
		return c.eq(c.value, key)
	}
	if rs.activeSub != nil {
		rs.track(c.slots.ensure(c, key))
	} else if rs.trackHook != nil {
		rs.trackHook(c)
	}
	return c.eq(c.value, key)
}

// Dispose unlinks every source edge from both of its lists, clears the
// compute function and drops all subscribers. The computed is inert
// afterwards; calling Dispose again is a no-op.
func (c *ReadonlySignal[T]) Dispose() {
	n := c.sources
	for n != nil {
		next := n.nextSource
		unlinkNode(n)
		n = next
	}
	c.sources = nil
	c.fn = nil
	c.subs.entries = nil
	c.dirty = false
	c.err = nil
}

// prepare phase: stamp every current edge with the sentinel and point each
// source's fast-retrack cache at it, saving the previous cache for rollback.
func (c *ReadonlySignal[T]) prepareSources() {
	for n := c.sources; n != nil; n = n.nextSource {
		n.rollback = n.source.retrackCache()
		n.source.setRetrackCache(n)
		n.version = sentinelVersion
	}
}

// cleanup phase: unlink every edge still carrying the sentinel and restore
// each source's fast-retrack cache from the rollback slot.
func (c *ReadonlySignal[T]) cleanupSources() {
	n := c.sources
	for n != nil {
		next := n.nextSource
		src := n.source
		rb := n.rollback
		n.rollback = nil
		if n.version == sentinelVersion {
			unlinkNode(n)
		}
		src.setRetrackCache(rb)
		n = next
	}
}

// runRecompute is the three-phase recompute: prepare, execute under this
// computed as the tracking context, cleanup. The deferred unwind runs even
// when the compute function fails or panics, so the graph stays consistent
// and a later read can retry.
func (c *ReadonlySignal[T]) runRecompute() {
	if c.fn == nil {
		c.dirty = false
		return
	}
	rs := c.rs
	c.computing = true
	c.prepareSources()
	prev := rs.activeSub
	rs.activeSub = c

	var (
		next T
		err  error
	)
	func() {
		defer func() {
			rs.activeSub = prev
			c.cleanupSources()
			c.computing = false
		}()
		next, err = c.fn(c.value)
	}()

	if err != nil {
		c.err = err
		c.dirty = false
		rs.fail(c, err)
		return
	}
	c.err = nil
	if !c.ran || !c.eq(next, c.value) {
		old := c.value
		c.value = next
		c.ver++
		if c.ran {
			c.slots.transition(rs, old, next)
		}
	}
	c.ran = true
	c.dirty = false
}

// propagateDirty marks the whole downstream cone of d stale, breadth first
// over the target lists, scheduling one deferred notification for every
// watched node it reaches. Already-dirty nodes stop the walk.
func propagateDirty(d derived) {
	if d.isDirty() {
		return
	}
	queue := []derived{d}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.isDirty() {
			continue
		}
		cur.setDirtyFlag()
		if cur.watched() {
			cur.scheduleNotify()
		}
		for n := cur.firstTarget(); n != nil; n = n.nextTarget {
			if !n.target.isDirty() {
				queue = append(queue, n.target)
			}
		}
	}
}

// scheduleNotify enqueues the eager re-evaluation of a watched computed:
// refresh, then fire subscribers only if the settled value differs from the
// one captured before the dirty walk began.
func (c *ReadonlySignal[T]) scheduleNotify() {
	prev := c.value
	rs := c.rs
	rs.schedule(c, func() {
		if c.fn == nil {
			return
		}
		refresh(c)
		if c.err != nil {
			return
		}
		if !c.eq(c.value, prev) {
			c.subs.fire(c.value)
		}
	})
}

// refresh drives recomputation with an explicit stack instead of recursion,
// so dependency chains thousands of nodes deep cannot overflow the goroutine
// stack. It descends into stale computed sources first, guaranteeing a
// dependency always recomputes strictly before any dependent that reads it
// in the same pass. A stale node whose sources all still carry their
// recorded versions settles clean without re-running its function.
func refresh(root derived) {
	var stack []derived
	cur := root
	for {
		if cur.needsRefresh() {
			if down := firstStaleSource(cur); down != nil {
				stack = append(stack, cur)
				cur = down
				continue
			}
			if cur.sourcesChanged() {
				cur.runRecompute()
			} else {
				cur.settle()
			}
		}
		if len(stack) == 0 {
			return
		}
		cur = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
	}
}

func firstStaleSource(d derived) derived {
	for n := d.firstSource(); n != nil; n = n.nextSource {
		if sd, ok := n.source.(derived); ok && sd.isDirty() && sd.needsRefresh() {
			return sd
		}
	}
	return nil
}
