//go:build cgo && walletffi

package backend

/*
#cgo LDFLAGS: -lwallet_ffi -ldl -lm -lpthread
#include <stdbool.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>
#include "wallet_ffi.h"
*/
import "C"

import (
	"encoding/binary"
	"unsafe"
)

type native struct{}

// Native returns the engine linked from wallet_ffi.
func Native() (Engine, error) {
	return native{}, nil
}

// Linked reports whether the native engine is part of this binary.
func Linked() bool { return true }

func walletPtr(h Handle) *C.WalletHandle {
	return (*C.WalletHandle)(unsafe.Pointer(h))
}

// cBytes32 reinterprets a Go array as FfiBytes32. The pointee holds no Go
// pointers so it may be passed to C for the duration of one call.
func cBytes32(b *Bytes32) *C.FfiBytes32 {
	return (*C.FfiBytes32)(unsafe.Pointer(b))
}

func cU128(v *U128) *[16]C.uint8_t {
	return (*[16]C.uint8_t)(unsafe.Pointer(v))
}

// cSecret copies secret into NUL-terminated C memory. The returned release
// zeroes and frees the copy.
func cSecret(secret []byte) (*C.char, func()) {
	n := len(secret)
	p := C.malloc(C.size_t(n + 1))
	if n > 0 {
		C.memcpy(p, unsafe.Pointer(&secret[0]), C.size_t(n))
	}
	*(*byte)(unsafe.Add(p, n)) = 0
	return (*C.char)(p), func() {
		C.memset(p, 0, C.size_t(n+1))
		C.free(p)
	}
}

// cBuffer copies data into C memory so it can sit inside a struct handed to
// the engine. The returned release zeroes and frees the copy.
func cBuffer(data []byte) (unsafe.Pointer, func()) {
	if len(data) == 0 {
		return nil, func() {}
	}
	p := C.CBytes(data)
	return p, func() {
		C.memset(p, 0, C.size_t(len(data)))
		C.free(p)
	}
}

func cstringView(p *C.char) []byte {
	if p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(p)), int(C.strlen(p)))
}

func liftText(p *C.char) Text {
	if p == nil {
		return Text{Null: true}
	}
	return Text{
		Bytes: cstringView(p),
		Mem:   FreeFunc(func() { C.wallet_ffi_free_string(p) }),
	}
}

func liftAccount(out *C.FfiAccount) Account {
	acct := Account{
		Balance: *(*U128)(unsafe.Pointer(&out.balance)),
		Nonce:   *(*U128)(unsafe.Pointer(&out.nonce)),
		Mem:     FreeFunc(func() { C.wallet_ffi_free_account_data(out) }),
	}
	for i, w := range out.program_owner.data {
		binary.LittleEndian.PutUint32(acct.ProgramOwner[i*4:], uint32(w))
	}
	if out.data != nil && out.data_len > 0 {
		acct.Data = unsafe.Slice((*byte)(unsafe.Pointer(out.data)), int(out.data_len))
	}
	return acct
}

func liftTransfer(out *C.FfiTransferResult) TransferResult {
	return TransferResult{
		TxHash:  cstringView(out.tx_hash),
		Success: bool(out.success),
		Mem:     FreeFunc(func() { C.wallet_ffi_free_transfer_result(out) }),
	}
}

func transfer(call func(out *C.FfiTransferResult) C.WalletFfiError) (TransferResult, Code) {
	out := new(C.FfiTransferResult)
	if rc := Code(call(out)); rc != Success {
		return TransferResult{}, rc
	}
	return liftTransfer(out), Success
}

func (native) CreateNew(configPath, storagePath string, password []byte) Handle {
	cfg := C.CString(configPath)
	defer C.free(unsafe.Pointer(cfg))
	store := C.CString(storagePath)
	defer C.free(unsafe.Pointer(store))
	pw, release := cSecret(password)
	defer release()

	return Handle(unsafe.Pointer(C.wallet_ffi_create_new(cfg, store, pw)))
}

func (native) Open(configPath, storagePath string) Handle {
	cfg := C.CString(configPath)
	defer C.free(unsafe.Pointer(cfg))
	store := C.CString(storagePath)
	defer C.free(unsafe.Pointer(store))

	return Handle(unsafe.Pointer(C.wallet_ffi_open(cfg, store)))
}

func (native) Destroy(h Handle) {
	if h == 0 {
		return
	}
	C.wallet_ffi_destroy(walletPtr(h))
}

func (native) Save(h Handle) Code {
	return Code(C.wallet_ffi_save(walletPtr(h)))
}

func (native) CreateAccountPublic(h Handle) (Bytes32, Code) {
	var id Bytes32
	rc := Code(C.wallet_ffi_create_account_public(walletPtr(h), cBytes32(&id)))
	return id, rc
}

func (native) CreateAccountPrivate(h Handle) (Bytes32, Code) {
	var id Bytes32
	rc := Code(C.wallet_ffi_create_account_private(walletPtr(h), cBytes32(&id)))
	return id, rc
}

func (native) ListAccounts(h Handle) (AccountList, Code) {
	out := new(C.FfiAccountList)
	if rc := Code(C.wallet_ffi_list_accounts(walletPtr(h), out)); rc != Success {
		return AccountList{}, rc
	}
	list := AccountList{Mem: FreeFunc(func() { C.wallet_ffi_free_account_list(out) })}
	if out.entries != nil && out.count > 0 {
		raw := unsafe.Slice(out.entries, int(out.count))
		list.Entries = make([]AccountListEntry, len(raw))
		for i := range raw {
			list.Entries[i] = AccountListEntry{
				AccountID: *(*Bytes32)(unsafe.Pointer(&raw[i].account_id)),
				IsPublic:  bool(raw[i].is_public),
			}
		}
	}
	return list, Success
}

func (native) GetBalance(h Handle, id Bytes32, isPublic bool) (U128, Code) {
	var out U128
	rc := Code(C.wallet_ffi_get_balance(walletPtr(h), cBytes32(&id), C.bool(isPublic), cU128(&out)))
	return out, rc
}

func (native) GetAccountPublic(h Handle, id Bytes32) (Account, Code) {
	out := new(C.FfiAccount)
	if rc := Code(C.wallet_ffi_get_account_public(walletPtr(h), cBytes32(&id), out)); rc != Success {
		return Account{}, rc
	}
	return liftAccount(out), Success
}

func (native) GetAccountPrivate(h Handle, id Bytes32) (Account, Code) {
	out := new(C.FfiAccount)
	if rc := Code(C.wallet_ffi_get_account_private(walletPtr(h), cBytes32(&id), out)); rc != Success {
		return Account{}, rc
	}
	return liftAccount(out), Success
}

func (native) GetPublicAccountKey(h Handle, id Bytes32) (Bytes32, Code) {
	var out C.FfiPublicAccountKey
	rc := Code(C.wallet_ffi_get_public_account_key(walletPtr(h), cBytes32(&id), &out))
	return *(*Bytes32)(unsafe.Pointer(&out.public_key)), rc
}

func (native) GetPrivateAccountKeys(h Handle, id Bytes32) (PrivateAccountKeys, Code) {
	out := new(C.FfiPrivateAccountKeys)
	if rc := Code(C.wallet_ffi_get_private_account_keys(walletPtr(h), cBytes32(&id), out)); rc != Success {
		return PrivateAccountKeys{}, rc
	}
	keys := PrivateAccountKeys{
		NullifierPublicKey: *(*Bytes32)(unsafe.Pointer(&out.nullifier_public_key)),
		Mem:                FreeFunc(func() { C.wallet_ffi_free_private_account_keys(out) }),
	}
	if out.viewing_public_key != nil && out.viewing_public_key_len > 0 {
		keys.ViewingPublicKey = unsafe.Slice((*byte)(unsafe.Pointer(out.viewing_public_key)), int(out.viewing_public_key_len))
	}
	return keys, Success
}

func (native) AccountIDToBase58(id Bytes32) Text {
	return liftText(C.wallet_ffi_account_id_to_base58(cBytes32(&id)))
}

func (native) AccountIDFromBase58(text string) (Bytes32, Code) {
	s := C.CString(text)
	defer C.free(unsafe.Pointer(s))
	var id Bytes32
	rc := Code(C.wallet_ffi_account_id_from_base58(s, cBytes32(&id)))
	return id, rc
}

func (native) SyncToBlock(h Handle, blockID uint64) Code {
	return Code(C.wallet_ffi_sync_to_block(walletPtr(h), C.uint64_t(blockID)))
}

func (native) GetLastSyncedBlock(h Handle) (uint64, Code) {
	var out C.uint64_t
	rc := Code(C.wallet_ffi_get_last_synced_block(walletPtr(h), &out))
	return uint64(out), rc
}

func (native) GetCurrentBlockHeight(h Handle) (uint64, Code) {
	var out C.uint64_t
	rc := Code(C.wallet_ffi_get_current_block_height(walletPtr(h), &out))
	return uint64(out), rc
}

func (native) TransferPublic(h Handle, from, to Bytes32, amount U128) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return C.wallet_ffi_transfer_public(walletPtr(h), cBytes32(&from), cBytes32(&to), cU128(&amount), out)
	})
}

// withKeys builds an FfiPrivateAccountKeys whose viewing key lives in C
// memory for the duration of call.
func withKeys(keys PrivateAccountKeys, call func(*C.FfiPrivateAccountKeys) C.WalletFfiError) C.WalletFfiError {
	var ck C.FfiPrivateAccountKeys
	ck.nullifier_public_key = *cBytes32(&keys.NullifierPublicKey)
	vpk, release := cBuffer(keys.ViewingPublicKey)
	defer release()
	ck.viewing_public_key = (*C.uint8_t)(vpk)
	ck.viewing_public_key_len = C.uintptr_t(len(keys.ViewingPublicKey))
	return call(&ck)
}

func (native) TransferShielded(h Handle, from Bytes32, to PrivateAccountKeys, amount U128) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return withKeys(to, func(keys *C.FfiPrivateAccountKeys) C.WalletFfiError {
			return C.wallet_ffi_transfer_shielded(walletPtr(h), cBytes32(&from), keys, cU128(&amount), out)
		})
	})
}

func (native) TransferDeshielded(h Handle, from, to Bytes32, amount U128) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return C.wallet_ffi_transfer_deshielded(walletPtr(h), cBytes32(&from), cBytes32(&to), cU128(&amount), out)
	})
}

func (native) TransferPrivate(h Handle, from Bytes32, to PrivateAccountKeys, amount U128) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return withKeys(to, func(keys *C.FfiPrivateAccountKeys) C.WalletFfiError {
			return C.wallet_ffi_transfer_private(walletPtr(h), cBytes32(&from), keys, cU128(&amount), out)
		})
	})
}

func (native) TransferShieldedOwned(h Handle, from, to Bytes32, amount U128) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return C.wallet_ffi_transfer_shielded_owned(walletPtr(h), cBytes32(&from), cBytes32(&to), cU128(&amount), out)
	})
}

func (native) TransferPrivateOwned(h Handle, from, to Bytes32, amount U128) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return C.wallet_ffi_transfer_private_owned(walletPtr(h), cBytes32(&from), cBytes32(&to), cU128(&amount), out)
	})
}

func (native) RegisterPublicAccount(h Handle, id Bytes32) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return C.wallet_ffi_register_public_account(walletPtr(h), cBytes32(&id), out)
	})
}

func (native) RegisterPrivateAccount(h Handle, id Bytes32) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return C.wallet_ffi_register_private_account(walletPtr(h), cBytes32(&id), out)
	})
}

func (native) ClaimPinata(h Handle, pinata, winner Bytes32, solution U128) (TransferResult, Code) {
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return C.wallet_ffi_claim_pinata(walletPtr(h), cBytes32(&pinata), cBytes32(&winner), cU128(&solution), out)
	})
}

func (native) ClaimPinataPrivateOwned(h Handle, pinata, winner Bytes32, solution U128, proofIndex uint64, siblings []byte) (TransferResult, Code) {
	buf, release := cBuffer(siblings)
	defer release()
	return transfer(func(out *C.FfiTransferResult) C.WalletFfiError {
		return C.wallet_ffi_claim_pinata_private_owned_already_initialized(
			walletPtr(h),
			cBytes32(&pinata),
			cBytes32(&winner),
			cU128(&solution),
			C.uintptr_t(proofIndex),
			(*[32]C.uint8_t)(buf),
			C.uintptr_t(len(siblings)/32),
			out,
		)
	})
}

func (native) SequencerAddr(h Handle) Text {
	return liftText(C.wallet_ffi_get_sequencer_addr(walletPtr(h)))
}
