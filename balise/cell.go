package balise

type CellKind uint8

const (
	CellPlain CellKind = iota
	CellSignal
	CellComputed
)

// Readable is the read-only surface shared by signals and computeds.
type Readable[T comparable] interface {
	SignalAware
	Value() T
	Is(key T) bool
	Subscribe(fn func(T)) func()
}

// Cell is a closed variant over the three value shapes the outer layers pass
// around: plain values, writeable signals and computeds. The shape is
// decided once at construction, never by runtime type inspection downstream.
type Cell[T comparable] struct {
	kind  CellKind
	plain T
	sig   *WriteableSignal[T]
	ro    *ReadonlySignal[T]
}

func PlainCell[T comparable](v T) Cell[T] {
	return Cell[T]{kind: CellPlain, plain: v}
}

func SignalCell[T comparable](s *WriteableSignal[T]) Cell[T] {
	return Cell[T]{kind: CellSignal, sig: s}
}

func ComputedCell[T comparable](c *ReadonlySignal[T]) Cell[T] {
	return Cell[T]{kind: CellComputed, ro: c}
}

// FuncCell wraps a plain function as a computed cell.
func FuncCell[T comparable](rs *ReactiveSystem, fn func() (T, error)) Cell[T] {
	return ComputedCell(Computed(rs, func(T) (T, error) { return fn() }))
}

func (c Cell[T]) Kind() CellKind { return c.kind }

func (c Cell[T]) Reactive() bool { return c.kind != CellPlain }

// Value reads the cell, tracking when the underlying shape is reactive.
func (c Cell[T]) Value() T {
	switch c.kind {
	case CellSignal:
		return c.sig.Value()
	case CellComputed:
		return c.ro.Value()
	default:
		return c.plain
	}
}

func (c Cell[T]) Is(key T) bool {
	switch c.kind {
	case CellSignal:
		return c.sig.Is(key)
	case CellComputed:
		return c.ro.Is(key)
	default:
		return sameValue(c.plain, key)
	}
}

// Subscribe is a no-op returning an inert unsubscribe for plain cells.
func (c Cell[T]) Subscribe(fn func(T)) func() {
	switch c.kind {
	case CellSignal:
		return c.sig.Subscribe(fn)
	case CellComputed:
		return c.ro.Subscribe(fn)
	default:
		return func() {}
	}
}

// Dispose tears down the underlying computed; other shapes have nothing to
// release.
func (c Cell[T]) Dispose() {
	if c.kind == CellComputed {
		c.ro.Dispose()
	}
}

var (
	_ Readable[int] = (*WriteableSignal[int])(nil)
	_ Readable[int] = (*ReadonlySignal[int])(nil)
	_ dependency    = (*WriteableSignal[int])(nil)
	_ derived       = (*ReadonlySignal[int])(nil)
	_ dependency    = (*selectorSlot[int])(nil)
)
