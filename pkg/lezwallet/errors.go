package lezwallet

import (
	"errors"
	"fmt"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/internal/backend"
)

// Kind classifies a failure.
type Kind int

const (
	// KindInvalidInput covers malformed hex, JSON or key material detected
	// before the engine was called.
	KindInvalidInput Kind = iota + 1
	// KindInvalidAccountID reports an identifier that failed to decode, or
	// one the engine rejected.
	KindInvalidAccountID
	// KindSerialization reports an amount or fixed-size buffer of the wrong
	// size.
	KindSerialization
	KindAlreadyOpen
	KindNotOpen
	// KindInternal is the engine's internal error, or a lifecycle call that
	// produced no handle.
	KindInternal
	// KindEngine is any other engine-reported failure; Code says which.
	KindEngine
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindInvalidAccountID:
		return "invalid_account_id"
	case KindSerialization:
		return "serialization_error"
	case KindAlreadyOpen:
		return "already_open"
	case KindNotOpen:
		return "not_open"
	case KindInternal:
		return "internal_error"
	case KindEngine:
		return "engine_error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidAccountID = errors.New("invalid account id")
	ErrSerialization    = errors.New("serialization error")
	ErrAlreadyOpen      = errors.New("wallet already open")
	ErrNotOpen          = errors.New("wallet not open")
	ErrInternal         = errors.New("internal error")
	ErrEngine           = errors.New("engine error")

	// ErrNotBuilt reports that the native engine was not linked into this
	// binary. Build with cgo and the walletffi tag to enable it.
	ErrNotBuilt = backend.ErrNotBuilt

	// ErrCGONotEnabled accompanies ErrNotBuilt in binaries built without cgo.
	ErrCGONotEnabled = backend.ErrCGONotEnabled
)

var kindSentinels = map[Kind]error{
	KindInvalidInput:     ErrInvalidInput,
	KindInvalidAccountID: ErrInvalidAccountID,
	KindSerialization:    ErrSerialization,
	KindAlreadyOpen:      ErrAlreadyOpen,
	KindNotOpen:          ErrNotOpen,
	KindInternal:         ErrInternal,
	KindEngine:           ErrEngine,
}

// Error is the failure returned by every Session and Module operation.
type Error struct {
	Op   string
	Kind Kind
	// Code is the engine's result code. It is Success for failures detected
	// by the adapter itself.
	Code Code
	Err  error
}

func (e *Error) Error() string {
	msg := "lezwallet: " + e.Op + ": "
	if sentinel, ok := kindSentinels[e.Kind]; ok {
		msg += sentinel.Error()
	} else {
		msg += e.Kind.String()
	}
	if e.FromEngine() {
		msg += " (" + e.Code.String() + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel for e.Kind, so errors.Is(err, ErrNotOpen) works
// without unwrapping by hand.
func (e *Error) Is(target error) bool {
	return target != nil && kindSentinels[e.Kind] == target
}

// FromEngine reports whether the engine produced this failure.
func (e *Error) FromEngine() bool { return e.Code != Success }

// CodeOf returns the engine code carried by err, or Success when err did not
// come from the engine.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Success
}

// KindOf returns the kind carried by err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// engineKind maps a non-success engine code onto the caller-facing kinds.
func engineKind(c Code) Kind {
	switch c {
	case InvalidAccountID:
		return KindInvalidAccountID
	case SerializationError:
		return KindSerialization
	case InternalError:
		return KindInternal
	default:
		return KindEngine
	}
}

func engineError(op string, c Code) *Error {
	return &Error{Op: op, Kind: engineKind(c), Code: c}
}

func validationError(op string, kind Kind, param string, err error) *Error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf("%s: %w", param, err)}
}

func stateError(op string, kind Kind) *Error {
	return &Error{Op: op, Kind: kind}
}
