package backend

import (
	"errors"
	"strconv"
)

// Bytes32 mirrors FfiBytes32: account ids, public keys and Merkle hashes.
type Bytes32 [32]byte

// U128 mirrors FfiU128, a little-endian unsigned 128-bit integer.
type U128 [16]byte

// Handle is an opaque identifier for one open wallet inside the engine. The
// zero value is the null handle.
type Handle uintptr

// Code is the closed set of results reported by the engine.
type Code int32

const (
	Success              Code = 0
	NullPointer          Code = 1
	InvalidUTF8          Code = 2
	WalletNotInitialized Code = 3
	ConfigError          Code = 4
	StorageError         Code = 5
	NetworkError         Code = 6
	AccountNotFound      Code = 7
	KeyNotFound          Code = 8
	InsufficientFunds    Code = 9
	InvalidAccountID     Code = 10
	RuntimeError         Code = 11
	PasswordRequired     Code = 12
	SyncError            Code = 13
	SerializationError   Code = 14
	InvalidConversion    Code = 15
	InvalidKeyValue      Code = 16
	InternalError        Code = 99
)

var codeNames = map[Code]string{
	Success:              "success",
	NullPointer:          "null_pointer",
	InvalidUTF8:          "invalid_utf8",
	WalletNotInitialized: "wallet_not_initialized",
	ConfigError:          "config_error",
	StorageError:         "storage_error",
	NetworkError:         "network_error",
	AccountNotFound:      "account_not_found",
	KeyNotFound:          "key_not_found",
	InsufficientFunds:    "insufficient_funds",
	InvalidAccountID:     "invalid_account_id",
	RuntimeError:         "runtime_error",
	PasswordRequired:     "password_required",
	SyncError:            "sync_error",
	SerializationError:   "serialization_error",
	InvalidConversion:    "invalid_conversion",
	InvalidKeyValue:      "invalid_key_value",
	InternalError:        "internal_error",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "code(" + strconv.Itoa(int(c)) + ")"
}

// Known reports whether c belongs to the enumeration above.
func (c Code) Known() bool {
	_, ok := codeNames[c]
	return ok
}

// Freer hands engine-allocated memory back to the engine. Implementations are
// not required to tolerate a second call; the ownership package guarantees
// exactly one.
type Freer interface {
	Free()
}

// FreeFunc adapts a function to Freer.
type FreeFunc func()

func (f FreeFunc) Free() {
	if f != nil {
		f()
	}
}

// Account mirrors FfiAccount. Data aliases engine memory released by Mem.
type Account struct {
	ProgramOwner Bytes32
	Balance      U128
	Nonce        U128
	Data         []byte
	Mem          Freer
}

// AccountListEntry mirrors FfiAccountListEntry.
type AccountListEntry struct {
	AccountID Bytes32
	IsPublic  bool
}

// AccountList mirrors FfiAccountList. Entries may alias engine memory and is
// only valid until Mem is freed.
type AccountList struct {
	Entries []AccountListEntry
	Mem     Freer
}

// PrivateAccountKeys mirrors FfiPrivateAccountKeys. When returned by the
// engine ViewingPublicKey aliases memory released by Mem; when passed as an
// input Mem is nil and the caller owns ViewingPublicKey.
type PrivateAccountKeys struct {
	NullifierPublicKey Bytes32
	ViewingPublicKey   []byte
	Mem                Freer
}

// TransferResult mirrors FfiTransferResult. TxHash aliases the engine string
// released by Mem and is empty when the engine produced no hash.
type TransferResult struct {
	TxHash  []byte
	Success bool
	Mem     Freer
}

// Text is an engine-allocated NUL-terminated string. Null reports that the
// engine returned a null pointer.
type Text struct {
	Bytes []byte
	Null  bool
	Mem   Freer
}

var (
	// ErrNotBuilt reports that the native bindings were not linked into the
	// current binary.
	ErrNotBuilt = errors.New("lezwallet/internal/backend: native bindings not built")

	// ErrCGONotEnabled signals that the package was compiled without cgo and
	// therefore cannot talk to the native library.
	ErrCGONotEnabled = errors.New("lezwallet/internal/backend: cgo not enabled")
)
