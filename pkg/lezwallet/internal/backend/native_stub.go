//go:build !cgo || !walletffi

package backend

import "fmt"

// Native reports that the engine library was not linked. Builds that want the
// native engine need cgo and the walletffi build tag. Without cgo the error
// also matches ErrCGONotEnabled.
func Native() (Engine, error) {
	if !cgoEnabled {
		return nil, fmt.Errorf("%w: %w", ErrNotBuilt, ErrCGONotEnabled)
	}
	return nil, ErrNotBuilt
}

// Linked reports whether the native engine is part of this binary.
func Linked() bool { return false }
