// Package ownership enforces the memory discipline at the engine boundary:
// whichever side allocated a buffer releases it, exactly once, on every exit
// path.
//
// Engine-allocated results are adopted with Take and handed back to the engine
// by Release. Adapter-allocated inputs are registered with Lend and zeroized
// when released. A Scope collects both and releases them in reverse order when
// closed, which callers defer so that early returns and panics release too.
//
//	var scope ownership.Scope
//	defer scope.Close()
//
//	acct := ownership.Take(ledger, "account", raw, raw.Mem.Free)
//	scope.Add(acct)
//	v, err := acct.Value()
//
// Release is idempotent: the second and later calls do nothing except bump
// the ledger's repeat counter, so a result can never be freed twice.
package ownership
