package ownership

// Scope releases everything added to it, newest first, when closed. The zero
// value is ready to use. A Scope is not safe for concurrent use.
type Scope struct {
	stack  []Releaser
	closed bool
}

// Add registers r. Adding to a closed scope releases r immediately.
func (s *Scope) Add(r Releaser) {
	if r == nil {
		return
	}
	if s.closed {
		r.Release()
		return
	}
	s.stack = append(s.stack, r)
}

// Close releases every registered value in reverse order. It is idempotent.
// A panicking release does not stop the remaining ones from running.
func (s *Scope) Close() {
	if s.closed {
		return
	}
	s.closed = true
	stack := s.stack
	s.stack = nil
	// Deferred calls run last-in first-out, so the newest value goes first.
	for _, r := range stack {
		defer r.Release()
	}
}

// Adopt is Take followed by Add.
func Adopt[T any](s *Scope, l *Ledger, label string, value T, release func()) *Owned[T] {
	o := Take(l, label, value, release)
	s.Add(o)
	return o
}

// LendTo is Lend followed by Add.
func LendTo(s *Scope, l *Ledger, label string, buf []byte) *Owned[[]byte] {
	o := Lend(l, label, buf)
	s.Add(o)
	return o
}
