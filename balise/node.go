package balise

// sentinelVersion marks an edge as "potentially unused" during a recompute
// pass. It is never a real source version.
const sentinelVersion = ^uint64(0)

// node is one edge of the dependency graph. It is a member of two doubly
// linked lists at once: its source's target list and its target's source
// list. Removal from one list always implies removal from the other.
type node struct {
	source dependency
	target derived

	// source's version the last time the target consumed it, or
	// sentinelVersion while a recompute pass is deciding whether the edge
	// is still wanted.
	version uint64

	prevSource, nextSource *node // position in target's source list
	prevTarget, nextTarget *node // position in source's target list

	// previous value of the source's fast-retrack cache, restored after the
	// recompute pass that stamped it.
	rollback *node
}

// linkNode creates the edge and inserts it at the head of both lists.
func linkNode(src dependency, tgt derived) *node {
	n := &node{source: src, target: tgt, version: src.depVersion()}
	if h := tgt.firstSource(); h != nil {
		h.prevSource = n
		n.nextSource = h
	}
	tgt.setFirstSource(n)
	if h := src.firstTarget(); h != nil {
		h.prevTarget = n
		n.nextTarget = h
	}
	src.setFirstTarget(n)
	// save the cache an enclosing recompute pass may have stamped; the
	// cleanup phase restores it from the rollback slot.
	n.rollback = src.retrackCache()
	src.setRetrackCache(n)
	return n
}

func unlinkFromSources(n *node) {
	if n.nextSource != nil {
		n.nextSource.prevSource = n.prevSource
	}
	if n.prevSource != nil {
		n.prevSource.nextSource = n.nextSource
	} else {
		n.target.setFirstSource(n.nextSource)
	}
	n.prevSource, n.nextSource = nil, nil
}

func unlinkFromTargets(n *node) {
	if n.nextTarget != nil {
		n.nextTarget.prevTarget = n.prevTarget
	}
	if n.prevTarget != nil {
		n.prevTarget.nextTarget = n.nextTarget
	} else {
		n.source.setFirstTarget(n.nextTarget)
	}
	n.prevTarget, n.nextTarget = nil, nil
	if n.source.retrackCache() == n {
		n.source.setRetrackCache(nil)
	}
	n.source.targetDetached()
}

// unlinkNode removes the edge from both lists in one operation.
func unlinkNode(n *node) {
	unlinkFromTargets(n)
	unlinkFromSources(n)
}

// moveToSourceHead relocates an existing edge to the head of its target's
// source list, keeping the list in most-recently-read order.
func moveToSourceHead(n *node) {
	if n.target.firstSource() == n {
		return
	}
	unlinkFromSources(n)
	if h := n.target.firstSource(); h != nil {
		h.prevSource = n
		n.nextSource = h
	}
	n.target.setFirstSource(n)
}
