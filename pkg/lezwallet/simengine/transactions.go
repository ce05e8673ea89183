package simengine

import (
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/codec"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/internal/backend"
)

// book selects the public or private balance table.
func (e *Engine) book(public bool) map[backend.Bytes32]*big.Int {
	if public {
		return e.public
	}
	return e.private
}

// accepted lands a transaction in a new block. Caller holds e.mu.
func (e *Engine) accepted(name string, parts ...[]byte) (backend.TransferResult, backend.Code) {
	e.height++
	hash := []byte(codec.EncodeHex(txHash(name, e.height, parts...)))
	return backend.TransferResult{TxHash: hash, Success: true, Mem: e.alloc("transfer_result", hash)}, backend.Success
}

// rejected reports a transaction the chain did not take.
func (e *Engine) rejected() (backend.TransferResult, backend.Code) {
	hash := []byte{}
	return backend.TransferResult{TxHash: hash, Success: false, Mem: e.alloc("transfer_result", hash)}, backend.Success
}

// takeReject consumes a pending RejectNext.
func (e *Engine) takeReject() bool {
	r := e.reject
	e.reject = false
	return r
}

// transfer moves amount from an account owned by the wallet behind h to
// dest. resolve maps the wallet to the destination id, or fails.
func (e *Engine) transfer(h backend.Handle, name string, from backend.Bytes32, fromPublic, toPublic bool, amount backend.U128,
	resolve func(*wallet) (backend.Bytes32, backend.Code)) (backend.TransferResult, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(name)

	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.TransferResult{}, code
	}
	if _, ok := w.owned(from, fromPublic); !ok {
		return backend.TransferResult{}, backend.KeyNotFound
	}
	to, code := resolve(w)
	if code != backend.Success {
		return backend.TransferResult{}, code
	}
	if e.takeReject() {
		return e.rejected()
	}

	amt := codec.Amount(amount).Big()
	src, dst := e.book(fromPublic), e.book(toPublic)
	if !e.debit(src, from, amt) {
		return backend.TransferResult{}, backend.InsufficientFunds
	}
	if !e.credit(dst, to, amt) {
		e.credit(src, from, amt)
		return backend.TransferResult{}, backend.InvalidConversion
	}
	e.nonces[from]++
	return e.accepted(name, from[:], to[:], amount[:])
}

func toID(id backend.Bytes32) func(*wallet) (backend.Bytes32, backend.Code) {
	return func(*wallet) (backend.Bytes32, backend.Code) { return id, backend.Success }
}

func toOwnedPrivate(id backend.Bytes32) func(*wallet) (backend.Bytes32, backend.Code) {
	return func(w *wallet) (backend.Bytes32, backend.Code) {
		if _, ok := w.owned(id, false); !ok {
			return backend.Bytes32{}, backend.AccountNotFound
		}
		return id, backend.Success
	}
}

// toKeys derives the recipient of a shielded or private transfer. The
// viewing key must be a valid compressed or uncompressed secp256k1 point.
func toKeys(keys backend.PrivateAccountKeys) func(*wallet) (backend.Bytes32, backend.Code) {
	return func(*wallet) (backend.Bytes32, backend.Code) {
		if _, err := btcec.ParsePubKey(keys.ViewingPublicKey); err != nil {
			return backend.Bytes32{}, backend.InvalidKeyValue
		}
		return privateID(keys.NullifierPublicKey), backend.Success
	}
}

func (e *Engine) TransferPublic(h backend.Handle, from, to backend.Bytes32, amount backend.U128) (backend.TransferResult, backend.Code) {
	return e.transfer(h, "transfer_public", from, true, true, amount, toID(to))
}

func (e *Engine) TransferShielded(h backend.Handle, from backend.Bytes32, to backend.PrivateAccountKeys, amount backend.U128) (backend.TransferResult, backend.Code) {
	return e.transfer(h, "transfer_shielded", from, true, false, amount, toKeys(to))
}

func (e *Engine) TransferDeshielded(h backend.Handle, from, to backend.Bytes32, amount backend.U128) (backend.TransferResult, backend.Code) {
	return e.transfer(h, "transfer_deshielded", from, false, true, amount, toID(to))
}

func (e *Engine) TransferPrivate(h backend.Handle, from backend.Bytes32, to backend.PrivateAccountKeys, amount backend.U128) (backend.TransferResult, backend.Code) {
	return e.transfer(h, "transfer_private", from, false, false, amount, toKeys(to))
}

func (e *Engine) TransferShieldedOwned(h backend.Handle, from, to backend.Bytes32, amount backend.U128) (backend.TransferResult, backend.Code) {
	return e.transfer(h, "transfer_shielded_owned", from, true, false, amount, toOwnedPrivate(to))
}

func (e *Engine) TransferPrivateOwned(h backend.Handle, from, to backend.Bytes32, amount backend.U128) (backend.TransferResult, backend.Code) {
	return e.transfer(h, "transfer_private_owned", from, false, false, amount, toOwnedPrivate(to))
}

func (e *Engine) RegisterPublicAccount(h backend.Handle, id backend.Bytes32) (backend.TransferResult, backend.Code) {
	return e.registerAccount(h, "register_public_account", id, true)
}

func (e *Engine) RegisterPrivateAccount(h backend.Handle, id backend.Bytes32) (backend.TransferResult, backend.Code) {
	return e.registerAccount(h, "register_private_account", id, false)
}

// registerAccount initializes an owned account on chain. Registering twice
// is a rejected transaction, not an error.
func (e *Engine) registerAccount(h backend.Handle, name string, id backend.Bytes32, public bool) (backend.TransferResult, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(name)

	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.TransferResult{}, code
	}
	a, ok := w.owned(id, public)
	if !ok {
		return backend.TransferResult{}, backend.AccountNotFound
	}
	if e.takeReject() || a.registered {
		return e.rejected()
	}
	a.registered = true
	return e.accepted(name, id[:])
}

func (e *Engine) ClaimPinata(h backend.Handle, pinataID, winner backend.Bytes32, solution backend.U128) (backend.TransferResult, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("claim_pinata")

	if _, code := e.walletFor(h); code != backend.Success {
		return backend.TransferResult{}, code
	}
	return e.claim("claim_pinata", pinataID, winner, solution, true)
}

func (e *Engine) ClaimPinataPrivateOwned(h backend.Handle, pinataID, winner backend.Bytes32, solution backend.U128, proofIndex uint64, siblings []byte) (backend.TransferResult, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("claim_pinata_private_owned")

	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.TransferResult{}, code
	}
	a, ok := w.owned(winner, false)
	if !ok || !a.registered {
		return backend.TransferResult{}, backend.AccountNotFound
	}
	if len(siblings)%codec.HashLen != 0 {
		return backend.TransferResult{}, backend.SerializationError
	}
	if depth := len(siblings) / codec.HashLen; depth < 64 && proofIndex >= 1<<depth {
		return backend.TransferResult{}, backend.InvalidConversion
	}
	return e.claim("claim_pinata_private_owned", pinataID, winner, solution, false)
}

// claim pays a pinata prize to winner. A wrong solution or an already
// claimed pinata is a rejected transaction. Caller holds e.mu.
func (e *Engine) claim(name string, pinataID, winner backend.Bytes32, solution backend.U128, public bool) (backend.TransferResult, backend.Code) {
	p, ok := e.pinatas[pinataID]
	if !ok {
		return backend.TransferResult{}, backend.AccountNotFound
	}
	if e.takeReject() || p.claimed || p.solution != solution {
		return e.rejected()
	}
	if !e.credit(e.book(public), winner, p.prize) {
		return backend.TransferResult{}, backend.InvalidConversion
	}
	p.claimed = true
	return e.accepted(name, pinataID[:], winner[:], solution[:])
}
