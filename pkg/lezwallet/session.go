package lezwallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/codec"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/logging"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/metrics"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/ownership"
)

// ErrNilEngine is returned by NewSession when no engine is supplied.
var ErrNilEngine = errors.New("lezwallet: nil engine")

// State is the lifecycle position of a Session.
type State int

const (
	StateUnopened State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Session owns at most one open wallet inside the engine. It moves from
// Unopened to Open through CreateNew or Open, and from any state to Closed
// through Close. Closed is terminal.
//
// A Session is not safe for concurrent use; callers serialize operations.
// The context passed to each operation carries logging values only. Engine
// calls are synchronous and are not cancelled by it.
//
// SECURITY WARNING: passwords are copied into a buffer that is zeroized when
// the call returns, but the caller's string cannot be wiped. Never log
// passwords or key material returned by the engine.
type Session struct {
	id      string
	engine  Engine
	log     logging.Logger
	metrics *metrics.Metrics
	ledger  *ownership.Ledger

	state  State
	handle Handle
}

// NewSession returns an Unopened session driving engine.
func NewSession(engine Engine, opts ...Option) (*Session, error) {
	if engine == nil {
		return nil, ErrNilEngine
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.New(nil)
	}
	if o.ledger == nil {
		o.ledger = ownership.NewLedger()
	}
	if m := o.metrics; m != nil {
		o.ledger.SetObserver(func(side ownership.Side, live int64) {
			m.SetLive(side.String(), live)
		})
	}

	id := uuid.NewString()
	s := &Session{
		id:      id,
		engine:  engine,
		log:     o.logger.With("session_id", id),
		metrics: o.metrics,
		ledger:  o.ledger,
	}
	runtime.SetFinalizer(s, func(s *Session) {
		_ = s.Close()
	})
	return s, nil
}

// ID returns the random identifier attached to this session's log records.
func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return s.state }

// Ledger returns the allocation ledger this session records into.
func (s *Session) Ledger() *ownership.Ledger { return s.ledger }

// CreateNew creates a wallet at storagePath protected by password and opens
// it. It fails with ErrAlreadyOpen unless the session is Unopened. When the
// engine produces no wallet the session stays Unopened and the error has kind
// KindInternal.
func (s *Session) CreateNew(ctx context.Context, configPath, storagePath, password string) error {
	const op = "create_new"
	if s.state != StateUnopened {
		return s.stateFailure(ctx, op, KindAlreadyOpen)
	}
	if err := s.pathInputs(ctx, op, configPath, storagePath); err != nil {
		return err
	}
	if err := s.text(ctx, op, "password", password); err != nil {
		return err
	}

	var scope ownership.Scope
	defer scope.Close()
	pw, err := ownership.LendTo(&scope, s.ledger, "password", []byte(password)).Value()
	if err != nil {
		return &Error{Op: op, Kind: KindInternal, Err: err}
	}

	h := s.engine.CreateNew(configPath, storagePath, pw)
	if err := s.opened(ctx, op, h); err != nil {
		return err
	}
	s.log.Info(ctx, "wallet created", "config_path", configPath, "storage_path", storagePath, logging.Redacted("password"))
	return nil
}

// Open opens an existing wallet. Guards and transitions match CreateNew.
func (s *Session) Open(ctx context.Context, configPath, storagePath string) error {
	const op = "open"
	if s.state != StateUnopened {
		return s.stateFailure(ctx, op, KindAlreadyOpen)
	}
	if err := s.pathInputs(ctx, op, configPath, storagePath); err != nil {
		return err
	}

	h := s.engine.Open(configPath, storagePath)
	if err := s.opened(ctx, op, h); err != nil {
		return err
	}
	s.log.Info(ctx, "wallet opened", "config_path", configPath, "storage_path", storagePath)
	return nil
}

// Save persists the wallet without closing it.
func (s *Session) Save(ctx context.Context) error {
	const op = "save"
	if err := s.requireOpen(ctx, op); err != nil {
		return err
	}
	if err := s.check(ctx, op, s.engine.Save(s.handle)); err != nil {
		return err
	}
	s.log.Debug(ctx, "wallet saved")
	return nil
}

// Close destroys the engine wallet if one is open and moves the session to
// Closed. It is safe to call Close multiple times.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	if s.state == StateOpen {
		s.engine.Destroy(s.handle)
		s.handle = 0
		s.metrics.EngineCall("destroy", Success.String())
		s.log.Info(context.Background(), "wallet closed")
	}
	s.state = StateClosed
	runtime.SetFinalizer(s, nil)
	return nil
}

func (s *Session) opened(ctx context.Context, op string, h Handle) error {
	if h == 0 {
		s.metrics.EngineCall(op, InternalError.String())
		s.log.Warn(ctx, "engine returned no wallet", "op", op)
		return &Error{Op: op, Kind: KindInternal, Code: InternalError}
	}
	s.metrics.EngineCall(op, Success.String())
	s.handle = h
	s.state = StateOpen
	return nil
}

func (s *Session) requireOpen(ctx context.Context, op string) error {
	if s.state == StateOpen {
		return nil
	}
	return s.stateFailure(ctx, op, KindNotOpen)
}

func (s *Session) stateFailure(ctx context.Context, op string, kind Kind) error {
	s.log.Debug(ctx, "operation refused", "op", op, "state", s.state.String())
	return stateError(op, kind)
}

// check records an engine result and translates any failure.
func (s *Session) check(ctx context.Context, op string, c Code) error {
	s.metrics.EngineCall(op, c.String())
	if c == Success {
		return nil
	}
	s.log.Warn(ctx, "engine call failed", "op", op, "code", c.String())
	return engineError(op, c)
}

func (s *Session) reject(ctx context.Context, op string, kind Kind, param string, err error) error {
	s.metrics.ValidationFailure(op, kind.String())
	s.log.Debug(ctx, "input rejected", "op", op, "param", param, "error", err)
	return validationError(op, kind, param, err)
}

// adopt puts engine-owned memory under scope so it is released on every exit
// path, including a failure result carrying memory it should not have.
func (s *Session) adopt(scope *ownership.Scope, label string, mem Freer) {
	if mem == nil {
		return
	}
	ownership.Adopt(scope, s.ledger, label, mem, mem.Free)
}

func (s *Session) encode(op string, v json.Marshaler) (string, error) {
	out, err := codec.Encode(v)
	if err != nil {
		return "", &Error{Op: op, Kind: KindInternal, Err: err}
	}
	return out, nil
}

var (
	errEmptyText = errors.New("empty")
	errNUL       = errors.New("contains NUL byte")
	errUTF8      = errors.New("not valid UTF-8")
)

// text validates a string that crosses the boundary as a C string.
func (s *Session) text(ctx context.Context, op, param, v string) error {
	var err error
	switch {
	case strings.IndexByte(v, 0) >= 0:
		err = errNUL
	case !utf8.ValidString(v):
		err = errUTF8
	}
	if err != nil {
		return s.reject(ctx, op, KindInvalidInput, param, err)
	}
	return nil
}

func (s *Session) pathInputs(ctx context.Context, op, configPath, storagePath string) error {
	if err := s.text(ctx, op, "config_path", configPath); err != nil {
		return err
	}
	if storagePath == "" {
		return s.reject(ctx, op, KindInvalidInput, "storage_path", errEmptyText)
	}
	return s.text(ctx, op, "storage_path", storagePath)
}

func (s *Session) accountID(ctx context.Context, op, param, v string) (Bytes32, error) {
	id, err := codec.DecodeAccountID(v)
	if err != nil {
		return Bytes32{}, s.reject(ctx, op, KindInvalidAccountID, param, err)
	}
	return Bytes32(id), nil
}

func (s *Session) amount(ctx context.Context, op, param, v string) (U128, error) {
	a, err := codec.DecodeAmount(v)
	if err != nil {
		return U128{}, s.reject(ctx, op, KindSerialization, param, err)
	}
	return U128(a), nil
}
