package ownership

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// ErrReleased is returned when a value is read after its memory was handed
// back.
var ErrReleased = errors.New("ownership: value already released")

// Releaser is anything a Scope can release.
type Releaser interface {
	Release()
}

// Owned pairs a value with the function that frees the memory behind it.
type Owned[T any] struct {
	label    string
	side     Side
	value    T
	release  func()
	released atomic.Bool
	ledger   *Ledger
}

// Take adopts an engine-allocated value. release hands the memory back to the
// engine and runs at most once; it may be nil when the engine allocated
// nothing.
func Take[T any](l *Ledger, label string, value T, release func()) *Owned[T] {
	o := &Owned[T]{label: label, side: Engine, value: value, release: release, ledger: l}
	l.acquire(Engine)
	return o
}

// Lend registers an adapter-allocated input buffer. Releasing it zeroizes buf.
func Lend(l *Ledger, label string, buf []byte) *Owned[[]byte] {
	o := &Owned[[]byte]{
		label:   label,
		side:    Adapter,
		value:   buf,
		release: func() { ZeroizeBytes(buf) },
		ledger:  l,
	}
	l.acquire(Adapter)
	return o
}

// Value returns the owned value, or ErrReleased once Release has run. Views
// into engine memory must not be retained past Release.
func (o *Owned[T]) Value() (T, error) {
	if o.released.Load() {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrReleased, o.label)
	}
	return o.value, nil
}

// Release frees the memory exactly once. Later calls are no-ops.
func (o *Owned[T]) Release() {
	if !o.released.CompareAndSwap(false, true) {
		o.ledger.repeat()
		return
	}
	defer o.ledger.release(o.side)
	var zero T
	o.value = zero
	if o.release != nil {
		o.release()
	}
}

func (o *Owned[T]) Released() bool { return o.released.Load() }

func (o *Owned[T]) Side() Side { return o.side }

func (o *Owned[T]) Label() string { return o.label }
