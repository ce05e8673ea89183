package simengine

import "github.com/logos-co/lez-wallet-go/pkg/lezwallet/internal/backend"

// allocation is one piece of memory handed across the boundary.
type allocation struct {
	label string
	wipe  func()
}

// alloc registers bufs as engine-owned and returns the Freer the caller must
// use to hand them back. Caller holds e.mu.
func (e *Engine) alloc(label string, bufs ...[]byte) backend.Freer {
	return e.allocFunc(label, func() {
		for _, b := range bufs {
			clear(b)
		}
	})
}

// allocFunc is alloc for memory that is not a byte slice; wipe runs on free.
func (e *Engine) allocFunc(label string, wipe func()) backend.Freer {
	e.nextAlloc++
	id := e.nextAlloc
	e.live[id] = allocation{label: label, wipe: wipe}
	return backend.FreeFunc(func() { e.free(id) })
}

func (e *Engine) free(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.live[id]
	if !ok {
		e.doubleFrees++
		return
	}
	a.wipe()
	delete(e.live, id)
	e.frees++
}

// Outstanding returns the number of engine allocations not yet freed.
func (e *Engine) Outstanding() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// OutstandingLabels names the allocations not yet freed.
func (e *Engine) OutstandingLabels() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(e.live))
	for _, a := range e.live {
		out = append(out, a.label)
	}
	return out
}

func (e *Engine) Frees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.frees
}

// DoubleFrees counts frees of memory that was already freed.
func (e *Engine) DoubleFrees() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doubleFrees
}

// DestroyCount returns how many times Destroy was called with h.
func (e *Engine) DestroyCount(h backend.Handle) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroys[h]
}

// Calls returns the engine entry points invoked so far, in order.
func (e *Engine) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// ResetCalls clears the call log.
func (e *Engine) ResetCalls() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = nil
}

func (e *Engine) record(name string) {
	e.calls = append(e.calls, name)
}
