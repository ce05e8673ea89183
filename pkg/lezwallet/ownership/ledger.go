package ownership

import "sync/atomic"

// Side names who allocated a buffer and is therefore responsible for it.
type Side int

const (
	Engine Side = iota
	Adapter
)

func (s Side) String() string {
	switch s {
	case Engine:
		return "engine"
	case Adapter:
		return "adapter"
	default:
		return "unknown"
	}
}

// Observer is told the new live count for a side after every change.
type Observer func(side Side, live int64)

// Ledger counts live and released allocations per side. A nil *Ledger is
// valid and counts nothing.
type Ledger struct {
	live     [2]atomic.Int64
	released [2]atomic.Int64
	repeats  atomic.Int64
	observer atomic.Pointer[Observer]
}

func NewLedger() *Ledger { return &Ledger{} }

// SetObserver installs o, replacing any previous observer. Passing nil
// removes it.
func (l *Ledger) SetObserver(o Observer) {
	if l == nil {
		return
	}
	if o == nil {
		l.observer.Store(nil)
		return
	}
	l.observer.Store(&o)
}

// Live returns the number of allocations on side not yet released.
func (l *Ledger) Live(side Side) int64 {
	if l == nil {
		return 0
	}
	return l.live[side].Load()
}

// Released returns the number of allocations on side released so far.
func (l *Ledger) Released(side Side) int64 {
	if l == nil {
		return 0
	}
	return l.released[side].Load()
}

// Repeats returns how many redundant Release calls were absorbed.
func (l *Ledger) Repeats() int64 {
	if l == nil {
		return 0
	}
	return l.repeats.Load()
}

func (l *Ledger) acquire(side Side) {
	if l == nil {
		return
	}
	l.notify(side, l.live[side].Add(1))
}

func (l *Ledger) release(side Side) {
	if l == nil {
		return
	}
	l.released[side].Add(1)
	l.notify(side, l.live[side].Add(-1))
}

func (l *Ledger) repeat() {
	if l == nil {
		return
	}
	l.repeats.Add(1)
}

func (l *Ledger) notify(side Side, live int64) {
	if o := l.observer.Load(); o != nil {
		(*o)(side, live)
	}
}
