package lezwallet

import "github.com/logos-co/lez-wallet-go/pkg/lezwallet/internal/backend"

// Engine is the binary call contract a Session drives. NativeEngine returns
// the cgo binding; simengine provides a pure-Go implementation.
type Engine = backend.Engine

// Boundary types used in Engine method signatures, re-exported so engines can
// be implemented outside this module.
type (
	Handle   = backend.Handle
	Bytes32  = backend.Bytes32
	U128     = backend.U128
	Freer    = backend.Freer
	FreeFunc = backend.FreeFunc

	RawAccount            = backend.Account
	RawAccountList        = backend.AccountList
	RawAccountListEntry   = backend.AccountListEntry
	RawPrivateAccountKeys = backend.PrivateAccountKeys
	RawTransferResult     = backend.TransferResult
	RawText               = backend.Text
)

// Code is an engine result code.
type Code = backend.Code

const (
	Success              = backend.Success
	NullPointer          = backend.NullPointer
	InvalidUTF8          = backend.InvalidUTF8
	WalletNotInitialized = backend.WalletNotInitialized
	ConfigError          = backend.ConfigError
	StorageError         = backend.StorageError
	NetworkError         = backend.NetworkError
	AccountNotFound      = backend.AccountNotFound
	KeyNotFound          = backend.KeyNotFound
	InsufficientFunds    = backend.InsufficientFunds
	InvalidAccountID     = backend.InvalidAccountID
	RuntimeError         = backend.RuntimeError
	PasswordRequired     = backend.PasswordRequired
	SyncError            = backend.SyncError
	SerializationError   = backend.SerializationError
	InvalidConversion    = backend.InvalidConversion
	InvalidKeyValue      = backend.InvalidKeyValue
	InternalError        = backend.InternalError
)

// NativeEngine returns the engine linked through cgo, or ErrNotBuilt.
func NativeEngine() (Engine, error) {
	return backend.Native()
}

// NativeLinked reports whether the native engine is part of this binary.
func NativeLinked() bool { return backend.Linked() }
