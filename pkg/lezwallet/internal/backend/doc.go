// Package backend hosts the binary call contract of the wallet engine and the
// thin cgo layer that links it to wallet_ffi. The native implementation lives
// behind the walletffi build tag so that the rest of the repository compiles
// and tests without the engine library.
//
// # Memory Ownership
//
// Records returned by the engine alias engine-allocated memory. Each carries a
// Freer that hands the memory back to the engine; views such as Account.Data
// must not be read after Free. Inputs passed to the engine are owned by the
// caller and are never retained past the call.
//
// # Threading
//
// A Handle is not safe for concurrent use. Callers serialize access.
package backend
