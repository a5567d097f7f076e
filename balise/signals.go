package balise

// WriteableSignal is a mutable leaf of the graph.
type WriteableSignal[T comparable] struct {
	reactiveCore
	rs    *ReactiveSystem
	value T
	eq    func(a, b T) bool
	subs  subscriberList[T]
	slots slotSet[T]
}

func Signal[T comparable](rs *ReactiveSystem, initialValue T) *WriteableSignal[T] {
	return SignalWithEquality(rs, initialValue, nil)
}

// SignalWithEquality creates a signal with a custom change detector. A nil
// equals falls back to same-value semantics (NaN equals NaN).
func SignalWithEquality[T comparable](rs *ReactiveSystem, initialValue T, equals func(a, b T) bool) *WriteableSignal[T] {
	if equals == nil {
		equals = sameValue[T]
	}
	return &WriteableSignal[T]{
		reactiveCore: reactiveCore{ver: 1},
		rs:           rs,
		value:        initialValue,
		eq:           equals,
	}
}

func (s *WriteableSignal[T]) isSignalAware()     {}
func (s *WriteableSignal[T]) owner() SignalAware { return s }

func (s *WriteableSignal[T]) Value() T {
	s.rs.track(s)
	return s.value
}

// SetValue stores v, bumps the version and pushes dirtiness breadth first
// through the target list. An equal write is a complete no-op. Subscriber
// callbacks run after the propagation walk, still within this call unless an
// enclosing batch defers them.
func (s *WriteableSignal[T]) SetValue(v T) {
	if s.eq(s.value, v) {
		return
	}
	old := s.value
	s.value = v
	s.ver++

	rs := s.rs
	rs.StartBatch()
	for n := s.targets; n != nil; n = n.nextTarget {
		propagateDirty(n.target)
	}
	s.slots.transition(rs, old, v)
	s.notify()
	rs.EndBatch()
}

func (s *WriteableSignal[T]) notify() {
	for _, e := range s.subs.entries {
		e := e
		s.rs.schedule(e, func() { e.fn(s.value) })
	}
}

// Subscribe registers fn to run on every accepted write. The returned
// function removes the subscription.
func (s *WriteableSignal[T]) Subscribe(fn func(T)) func() {
	e := s.subs.add(fn)
	return func() { s.subs.remove(e) }
}

// Is reports whether the signal currently holds key. Read inside a computed
// it subscribes the computed to the per-key slot instead of the raw value,
// so only transitions touching key wake it up.
func (s *WriteableSignal[T]) Is(key T) bool {
	rs := s.rs
	if rs.activeSub != nil {
		rs.track(s.slots.ensure(s, key))
	} else if rs.trackHook != nil {
		rs.trackHook(s)
	}
	return s.eq(s.value, key)
}
