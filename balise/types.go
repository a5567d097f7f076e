package balise

// SignalAware is implemented by every reactive value handed out by this
// package, so error hooks and tracking hooks can refer to "some reactive"
// without caring which kind.
type SignalAware interface {
	isSignalAware()
}

// OnErrorFunc receives errors raised by computed functions.
type OnErrorFunc func(from SignalAware, err error)

// dependency is the source side of a graph edge: writeable signals,
// computeds and selector slots.
type dependency interface {
	depVersion() uint64
	retrackCache() *node
	setRetrackCache(*node)
	firstTarget() *node
	setFirstTarget(*node)
	targetDetached()
	owner() SignalAware
}

// derived is the target side of a graph edge. Only computeds qualify; they
// are dependencies as well so they can sit in the middle of the graph.
type derived interface {
	dependency
	isDirty() bool
	setDirtyFlag()
	isComputing() bool
	needsRefresh() bool
	firstSource() *node
	setFirstSource(*node)
	sourcesChanged() bool
	runRecompute()
	settle()
	watched() bool
	scheduleNotify()
}

// sameValue is the default equality: == with NaN considered equal to itself,
// so storing NaN twice is still a no-op write.
func sameValue[T comparable](a, b T) bool {
	return a == b || (a != a && b != b)
}
