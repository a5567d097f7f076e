package balise

// slotSet holds the lazily created per-key slots of one reactive. A slot
// exists only while at least one dependent watches its key; the last unlink
// deletes it from the map.
type slotSet[T comparable] struct {
	m map[T]*selectorSlot[T]
}

// selectorSlot is a subsidiary graph source layered on top of its owner's
// raw value, answering "does the owner currently equal key". Writes to the
// owner dirty at most two slots (outgoing key, incoming key), leaving every
// other slot and its dependents untouched.
type selectorSlot[T comparable] struct {
	reactiveCore
	set *slotSet[T]
	who SignalAware
	key T
}

func (sl *selectorSlot[T]) isSignalAware()     {}
func (sl *selectorSlot[T]) owner() SignalAware { return sl.who }

func (sl *selectorSlot[T]) targetDetached() {
	if sl.targets == nil {
		delete(sl.set.m, sl.key)
	}
}

func (ss *slotSet[T]) ensure(who SignalAware, key T) *selectorSlot[T] {
	if ss.m == nil {
		ss.m = map[T]*selectorSlot[T]{}
	}
	sl, ok := ss.m[key]
	if !ok {
		sl = &selectorSlot[T]{
			reactiveCore: reactiveCore{ver: 1},
			set:          ss,
			who:          who,
			key:          key,
		}
		ss.m[key] = sl
	}
	return sl
}

// transition dirties the slots for the outgoing and incoming values, if
// anyone watches them. All other slots never hear about the write.
func (ss *slotSet[T]) transition(rs *ReactiveSystem, old, next T) {
	if len(ss.m) == 0 {
		return
	}
	rs.StartBatch()
	defer rs.EndBatch()
	if sl, ok := ss.m[old]; ok {
		sl.bump()
	}
	if sl, ok := ss.m[next]; ok {
		sl.bump()
	}
}

func (sl *selectorSlot[T]) bump() {
	sl.ver++
	for n := sl.targets; n != nil; n = n.nextTarget {
		propagateDirty(n.target)
	}
}
