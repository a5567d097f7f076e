package balise

// reactiveCore is the graph state shared by signals, computeds and selector
// slots: a version counter, the head of the target list and the fast-retrack
// cache consulted by track.
type reactiveCore struct {
	ver     uint64
	targets *node
	cache   *node
}

func (r *reactiveCore) depVersion() uint64      { return r.ver }
func (r *reactiveCore) retrackCache() *node     { return r.cache }
func (r *reactiveCore) setRetrackCache(n *node) { r.cache = n }
func (r *reactiveCore) firstTarget() *node      { return r.targets }
func (r *reactiveCore) setFirstTarget(n *node)  { r.targets = n }
func (r *reactiveCore) targetDetached()         {}

type subscriberEntry[T comparable] struct {
	fn func(T)
}

// subscriberList keeps callbacks in registration order. Removal swaps with
// the last entry and pops; order among the remaining subscribers is not a
// contract.
type subscriberList[T comparable] struct {
	entries []*subscriberEntry[T]
}

func (l *subscriberList[T]) add(fn func(T)) *subscriberEntry[T] {
	e := &subscriberEntry[T]{fn: fn}
	l.entries = append(l.entries, e)
	return e
}

func (l *subscriberList[T]) remove(e *subscriberEntry[T]) {
	for i, x := range l.entries {
		if x == e {
			last := len(l.entries) - 1
			l.entries[i] = l.entries[last]
			l.entries[last] = nil
			l.entries = l.entries[:last]
			return
		}
	}
}

func (l *subscriberList[T]) fire(v T) {
	for _, e := range l.entries {
		if e != nil {
			e.fn(v)
		}
	}
}
