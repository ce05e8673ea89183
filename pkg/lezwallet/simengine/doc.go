// Package simengine is an in-process wallet engine that honours the same
// binary contract as the native library. It backs the test suite, and the
// demo command uses it only when LEZ_WALLET_SIMULATED is set. It talks to no
// chain.
//
// Chain state (public balances, private balances, pinatas, block height) is
// shared by every wallet opened on one Engine, so two wallets can pay each
// other. Wallet state (keys, sync position) lives per handle and is written
// to the storage path by Save.
//
// Every buffer handed out is tracked. Freeing wipes it, so a view read after
// release shows zeros, and a second free is counted instead of crashing:
//
//	eng := simengine.New()
//	// ... drive a Session ...
//	if eng.Outstanding() != 0 || eng.DoubleFrees() != 0 {
//		t.Fatal("leak or double free")
//	}
//
// The wallet file written by Save holds an argon2id password verifier and the
// account secrets (public signing keys, private nullifier and viewing keys)
// as unencrypted hex, readable only by the owner (mode 0600). Never point it
// at a wallet that holds real funds.
package simengine
