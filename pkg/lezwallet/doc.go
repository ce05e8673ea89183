// Package lezwallet adapts the Execution Zone wallet engine to a string and
// JSON surface. Identifiers and amounts travel as hex, records as JSON, and
// every engine-allocated result is released exactly once before a call
// returns.
//
// The package compiles without cgo. NativeEngine returns ErrNotBuilt unless
// the binary was built with cgo and the walletffi tag; simengine supplies a
// pure-Go engine in the meantime.
//
//	eng, err := lezwallet.NativeEngine()
//	if errors.Is(err, lezwallet.ErrNotBuilt) {
//		eng = simengine.New()
//	}
//	s, err := lezwallet.NewSession(eng)
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	if err := s.CreateNew(ctx, cfgPath, storePath, password); err != nil {
//		return err
//	}
//	id, err := s.CreateAccountPublic(ctx)
//	balance, err := s.GetBalance(ctx, id, true) // "00000000000000000000000000000000"
//
// Failures are *Error values. errors.Is matches the Err* sentinel for the
// failure's Kind, and CodeOf returns the engine code when the engine reported
// the failure.
package lezwallet
