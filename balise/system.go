package balise

import (
	mapset "github.com/deckarep/golang-set/v2"
)

// ReactiveSystem owns the process-wide mutable state of one dependency
// graph: the active tracking context, the batch depth and the pending
// notification queue. Everything is strictly single threaded.
type ReactiveSystem struct {
	batchDepth int
	activeSub  derived
	pauseStack []derived
	trackHook  func(SignalAware)

	pendingKeys mapset.Set[any]
	pendingRuns []func()

	onError OnErrorFunc
}

func CreateReactiveSystem(onError OnErrorFunc) *ReactiveSystem {
	return &ReactiveSystem{onError: onError}
}

// track registers dep against the active computed context. Re-tracking an
// edge that survived from the previous pass clears its sentinel and moves it
// to the head of the context's source list; a first read allocates a fresh
// edge. Outside any context this is a no-op apart from the tracking hook.
func (rs *ReactiveSystem) track(dep dependency) {
	if rs.trackHook != nil {
		rs.trackHook(dep.owner())
	}
	t := rs.activeSub
	if t == nil {
		return
	}
	if n := dep.retrackCache(); n != nil && n.target == t {
		n.version = dep.depVersion()
		moveToSourceHead(n)
		return
	}
	linkNode(dep, t)
}

// PauseTracking suspends dependency registration until ResumeTracking.
// Reads made in between do not become edges of the active computed.
func (rs *ReactiveSystem) PauseTracking() {
	rs.pauseStack = append(rs.pauseStack, rs.activeSub)
	rs.activeSub = nil
}

func (rs *ReactiveSystem) ResumeTracking() {
	lastIdx := len(rs.pauseStack) - 1
	rs.activeSub = rs.pauseStack[lastIdx]
	rs.pauseStack = rs.pauseStack[:lastIdx]
}

// Untracked runs fn with tracking paused.
func (rs *ReactiveSystem) Untracked(fn func()) {
	rs.PauseTracking()
	defer rs.ResumeTracking()
	fn()
}

// CaptureTracking runs fn with hook installed; hook observes every reactive
// value read during fn, whether or not a computed context is active. The
// previous hook is restored on exit, even on panic.
func (rs *ReactiveSystem) CaptureTracking(hook func(SignalAware), fn func()) {
	prev := rs.trackHook
	rs.trackHook = hook
	defer func() { rs.trackHook = prev }()
	fn()
}

func (rs *ReactiveSystem) fail(from SignalAware, err error) {
	if rs.onError != nil {
		rs.onError(from, err)
	}
}
