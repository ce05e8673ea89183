package ownership

import (
	"bytes"
	"errors"
	"sync"
	"testing"
)

func TestReleaseRunsOnce(t *testing.T) {
	ledger := NewLedger()
	frees := 0
	o := Take(ledger, "account", 42, func() { frees++ })

	if got := ledger.Live(Engine); got != 1 {
		t.Fatalf("Live(Engine) = %d, want 1", got)
	}
	o.Release()
	o.Release()
	o.Release()

	if frees != 1 {
		t.Fatalf("release ran %d times, want 1", frees)
	}
	if ledger.Live(Engine) != 0 || ledger.Released(Engine) != 1 {
		t.Fatalf("ledger live=%d released=%d", ledger.Live(Engine), ledger.Released(Engine))
	}
	if ledger.Repeats() != 2 {
		t.Fatalf("Repeats() = %d, want 2", ledger.Repeats())
	}
}

func TestConcurrentReleaseRunsOnce(t *testing.T) {
	var mu sync.Mutex
	frees := 0
	o := Take(nil, "list", "x", func() {
		mu.Lock()
		frees++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Release()
		}()
	}
	wg.Wait()

	if frees != 1 {
		t.Fatalf("release ran %d times, want 1", frees)
	}
}

func TestValueAfterRelease(t *testing.T) {
	o := Take(nil, "text", "hello", nil)
	v, err := o.Value()
	if err != nil || v != "hello" {
		t.Fatalf("Value() = %q, %v", v, err)
	}
	o.Release()
	v, err = o.Value()
	if !errors.Is(err, ErrReleased) {
		t.Fatalf("Value() after release error = %v", err)
	}
	if v != "" {
		t.Fatalf("Value() after release = %q, want zero", v)
	}
	if !o.Released() {
		t.Fatal("Released() = false")
	}
}

func TestLendZeroizes(t *testing.T) {
	ledger := NewLedger()
	secret := []byte("correct horse")
	o := Lend(ledger, "password", secret)
	if o.Side() != Adapter {
		t.Fatalf("Side() = %v", o.Side())
	}
	if ledger.Live(Adapter) != 1 || ledger.Live(Engine) != 0 {
		t.Fatal("lend not counted on adapter side")
	}
	o.Release()
	if !bytes.Equal(secret, make([]byte, len(secret))) {
		t.Fatalf("buffer not zeroized: %q", secret)
	}
	if ledger.Live(Adapter) != 0 {
		t.Fatal("adapter allocation still live")
	}
}

func TestScopeReleasesInReverseOrder(t *testing.T) {
	var order []string
	var scope Scope
	for _, name := range []string{"a", "b", "c"} {
		Adopt(&scope, nil, name, name, func() { order = append(order, name) })
	}
	scope.Close()
	scope.Close()

	if got := len(order); got != 3 {
		t.Fatalf("released %d values, want 3", got)
	}
	if order[0] != "c" || order[1] != "b" || order[2] != "a" {
		t.Fatalf("release order = %v", order)
	}
}

func TestScopeReleasesOnPanic(t *testing.T) {
	ledger := NewLedger()
	frees := 0

	func() {
		defer func() { _ = recover() }()
		var scope Scope
		defer scope.Close()
		Adopt(&scope, ledger, "result", 1, func() { frees++ })
		LendTo(&scope, ledger, "input", []byte{1, 2, 3})
		panic("boom")
	}()

	if frees != 1 {
		t.Fatalf("release ran %d times, want 1", frees)
	}
	if ledger.Live(Engine) != 0 || ledger.Live(Adapter) != 0 {
		t.Fatal("allocations leaked across panic")
	}
}

func TestScopeContinuesPastPanickingRelease(t *testing.T) {
	released := false
	var scope Scope
	Adopt(&scope, nil, "first", 1, func() { released = true })
	Adopt(&scope, nil, "bad", 2, func() { panic("free failed") })

	func() {
		defer func() { _ = recover() }()
		scope.Close()
	}()

	if !released {
		t.Fatal("earlier value not released after a panicking release")
	}
}

func TestAddAfterCloseReleasesImmediately(t *testing.T) {
	var scope Scope
	scope.Close()
	o := Take(nil, "late", 0, nil)
	scope.Add(o)
	if !o.Released() {
		t.Fatal("value added to a closed scope was not released")
	}
}

func TestLedgerObserver(t *testing.T) {
	ledger := NewLedger()
	var seen []int64
	ledger.SetObserver(func(side Side, live int64) {
		if side == Engine {
			seen = append(seen, live)
		}
	})
	a := Take(ledger, "a", 0, nil)
	b := Take(ledger, "b", 0, nil)
	a.Release()
	b.Release()

	want := []int64{1, 2, 1, 0}
	if len(seen) != len(want) {
		t.Fatalf("observer saw %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("observer saw %v, want %v", seen, want)
		}
	}
}

func TestNilLedger(t *testing.T) {
	var l *Ledger
	l.SetObserver(func(Side, int64) {})
	if l.Live(Engine) != 0 || l.Released(Adapter) != 0 || l.Repeats() != 0 {
		t.Fatal("nil ledger reported counts")
	}
}
