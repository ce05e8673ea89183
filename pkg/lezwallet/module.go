package lezwallet

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"sync"

	"github.com/tidwall/gjson"
)

const (
	ModuleName    = "liblogos-execution-zone-wallet-module"
	ModuleVersion = "1.0.0"

	// EventResponse is the event a Module emits to its host after every
	// completed transaction.
	EventResponse = "eventResponse"
)

var (
	ErrUnknownMethod = errors.New("unknown method")
	errMissingParam  = errors.New("missing parameter")
	errParamType     = errors.New("wrong parameter type")
)

// Host receives events from a Module.
type Host interface {
	Emit(event string, data ...any)
}

// HostFunc adapts a function to Host.
type HostFunc func(event string, data ...any)

func (f HostFunc) Emit(event string, data ...any) { f(event, data...) }

type handler func(ctx context.Context, p *params) (string, error)

// Module exposes one Session through named methods taking a JSON object of
// parameters, the shape in which the plugin host invokes it. Calls are
// serialized, so a Module may be shared between goroutines.
type Module struct {
	mu       sync.Mutex
	session  *Session
	host     Host
	handlers map[string]handler
}

// NewModule wraps a new Session on engine.
func NewModule(engine Engine, opts ...Option) (*Module, error) {
	s, err := NewSession(engine, opts...)
	if err != nil {
		return nil, err
	}
	m := &Module{session: s}
	m.handlers = m.routes()
	return m, nil
}

func (m *Module) Name() string { return ModuleName }

func (m *Module) Version() string { return ModuleVersion }

// InitLogos attaches the host that receives events. Passing nil detaches it.
func (m *Module) InitLogos(host Host) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.host = host
}

// Session returns the underlying session. Using it directly while other
// goroutines go through Call is a data race.
func (m *Module) Session() *Session { return m.session }

// Methods lists the callable method names in sorted order.
func (m *Module) Methods() []string {
	names := make([]string, 0, len(m.handlers))
	for name := range m.handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Call runs method with args, a JSON object of named parameters. An empty
// args string is treated as {}. Methods without a natural result return "".
//
// The session state is checked before args are parsed, so a data method on a
// session that is not open reports ErrNotOpen whatever its parameters. Host
// events are emitted after the module lock is released; a host may call back
// into the module from Emit.
func (m *Module) Call(ctx context.Context, method, args string) (string, error) {
	out, ev, err := m.dispatch(ctx, method, args)
	if ev != nil {
		ev.host.Emit(EventResponse, ev.method, ev.result)
	}
	return out, err
}

func (m *Module) dispatch(ctx context.Context, method, args string) (string, *pendingEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	h, ok := m.handlers[method]
	if !ok {
		return "", nil, m.session.reject(ctx, "call", KindInvalidInput, "method", fmt.Errorf("%w %q", ErrUnknownMethod, method))
	}
	if err := m.guard(ctx, method); err != nil {
		return "", nil, err
	}
	if args == "" {
		args = "{}"
	}
	obj := gjson.Parse(args)
	if !gjson.Valid(args) || !obj.IsObject() {
		return "", nil, m.session.reject(ctx, method, KindInvalidInput, "params", errParamType)
	}
	p := &params{ctx: ctx, op: method, s: m.session, obj: obj}
	out, err := h(ctx, p)
	if err != nil || !p.notify || m.host == nil {
		return out, nil, err
	}
	return out, &pendingEvent{host: m.host, method: method, result: out}, nil
}

// guard applies the session state rules ahead of parameter parsing.
func (m *Module) guard(ctx context.Context, method string) error {
	s := m.session
	switch method {
	case "account_id_to_base58", "account_id_from_base58":
		return nil
	case "create_new", "open":
		if s.state != StateUnopened {
			return s.stateFailure(ctx, method, KindAlreadyOpen)
		}
		return nil
	default:
		return s.requireOpen(ctx, method)
	}
}

// Close closes the session. The module cannot be reopened.
func (m *Module) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Close()
}

// pendingEvent is a host notification held until the module lock is
// released.
type pendingEvent struct {
	host   Host
	method string
	result string
}

func (m *Module) routes() map[string]handler {
	s := m.session
	none := func(err error) (string, error) { return "", err }
	tx := func(run func(ctx context.Context, p *params) (string, error)) handler {
		return func(ctx context.Context, p *params) (string, error) {
			out, err := run(ctx, p)
			p.notify = err == nil
			return out, err
		}
	}
	byID := func(get func(context.Context, string) (string, error)) handler {
		return func(ctx context.Context, p *params) (string, error) {
			id := p.str("account_id")
			if p.err != nil {
				return "", p.err
			}
			return get(ctx, id)
		}
	}
	plain := func(run func(ctx context.Context, from, to, amount string) (string, error)) handler {
		return tx(func(ctx context.Context, p *params) (string, error) {
			from, to, amount := p.str("from"), p.str("to"), p.str("amount")
			if p.err != nil {
				return "", p.err
			}
			return run(ctx, from, to, amount)
		})
	}
	keyed := func(run func(ctx context.Context, from, toKeys, amount string) (string, error)) handler {
		return tx(func(ctx context.Context, p *params) (string, error) {
			from, keys, amount := p.str("from"), p.raw("to_keys"), p.str("amount")
			if p.err != nil {
				return "", p.err
			}
			return run(ctx, from, keys, amount)
		})
	}
	block := func(get func(context.Context) (uint64, error)) handler {
		return func(ctx context.Context, _ *params) (string, error) {
			n, err := get(ctx)
			if err != nil {
				return "", err
			}
			return strconv.FormatUint(n, 10), nil
		}
	}

	return map[string]handler{
		"create_new": func(ctx context.Context, p *params) (string, error) {
			cfg, store, pw := p.optStr("config_path"), p.str("storage_path"), p.str("password")
			if p.err != nil {
				return "", p.err
			}
			return none(s.CreateNew(ctx, cfg, store, pw))
		},
		"open": func(ctx context.Context, p *params) (string, error) {
			cfg, store := p.optStr("config_path"), p.str("storage_path")
			if p.err != nil {
				return "", p.err
			}
			return none(s.Open(ctx, cfg, store))
		},
		"save": func(ctx context.Context, _ *params) (string, error) {
			return none(s.Save(ctx))
		},

		"create_account_public": func(ctx context.Context, _ *params) (string, error) {
			return s.CreateAccountPublic(ctx)
		},
		"create_account_private": func(ctx context.Context, _ *params) (string, error) {
			return s.CreateAccountPrivate(ctx)
		},
		"list_accounts": func(ctx context.Context, _ *params) (string, error) {
			return s.ListAccounts(ctx)
		},

		"get_balance": func(ctx context.Context, p *params) (string, error) {
			id, public := p.str("account_id"), p.flag("is_public")
			if p.err != nil {
				return "", p.err
			}
			return s.GetBalance(ctx, id, public)
		},
		"get_account_public":       byID(s.GetAccountPublic),
		"get_account_private":      byID(s.GetAccountPrivate),
		"get_public_account_key":   byID(s.GetPublicAccountKey),
		"get_private_account_keys": byID(s.GetPrivateAccountKeys),

		"account_id_to_base58": byID(s.AccountIDToBase58),

		"account_id_from_base58": func(ctx context.Context, p *params) (string, error) {
			text := p.str("base58")
			if p.err != nil {
				return "", p.err
			}
			return s.AccountIDFromBase58(ctx, text)
		},

		"sync_to_block": func(ctx context.Context, p *params) (string, error) {
			n := p.uint("block_id")
			if p.err != nil {
				return "", p.err
			}
			return none(s.SyncToBlock(ctx, n))
		},

		"get_last_synced_block":    block(s.LastSyncedBlock),
		"get_current_block_height": block(s.CurrentBlockHeight),

		"transfer_public":          plain(s.TransferPublic),
		"transfer_shielded":        keyed(s.TransferShielded),
		"transfer_deshielded":      plain(s.TransferDeshielded),
		"transfer_private":         keyed(s.TransferPrivate),
		"transfer_shielded_owned":  plain(s.TransferShieldedOwned),
		"transfer_private_owned":   plain(s.TransferPrivateOwned),
		"register_public_account":  tx(byID(s.RegisterPublicAccount)),
		"register_private_account": tx(byID(s.RegisterPrivateAccount)),

		"claim_pinata": tx(func(ctx context.Context, p *params) (string, error) {
			pinata, winner, solution := p.str("pinata"), p.str("winner"), p.str("solution")
			if p.err != nil {
				return "", p.err
			}
			return s.ClaimPinata(ctx, pinata, winner, solution)
		}),
		"claim_pinata_private_owned": tx(func(ctx context.Context, p *params) (string, error) {
			pinata, winner, solution := p.str("pinata"), p.str("winner"), p.str("solution")
			index, siblings := p.uint("proof_index"), p.raw("siblings")
			if p.err != nil {
				return "", p.err
			}
			return s.ClaimPinataPrivateOwned(ctx, pinata, winner, solution, index, siblings)
		}),

		"get_sequencer_addr": func(ctx context.Context, _ *params) (string, error) {
			return s.SequencerAddr(ctx)
		},
	}
}

// params reads named values from a call's JSON object. The first failure is
// kept in err and later reads return zero values.
type params struct {
	ctx context.Context
	op  string
	s   *Session
	obj gjson.Result
	err error

	// notify is set by transaction methods that completed.
	notify bool
}

func (p *params) get(key string, optional bool) (gjson.Result, bool) {
	if p.err != nil {
		return gjson.Result{}, false
	}
	r := p.obj.Get(key)
	if !r.Exists() {
		if !optional {
			p.fail(key, errMissingParam)
		}
		return r, false
	}
	return r, true
}

func (p *params) fail(key string, err error) {
	p.err = p.s.reject(p.ctx, p.op, KindInvalidInput, key, err)
}

func (p *params) str(key string) string {
	r, ok := p.get(key, false)
	if !ok {
		return ""
	}
	if r.Type != gjson.String {
		p.fail(key, errParamType)
		return ""
	}
	return r.Str
}

func (p *params) optStr(key string) string {
	r, ok := p.get(key, true)
	if !ok || r.Type == gjson.Null {
		return ""
	}
	if r.Type != gjson.String {
		p.fail(key, errParamType)
		return ""
	}
	return r.Str
}

func (p *params) flag(key string) bool {
	r, ok := p.get(key, false)
	if !ok {
		return false
	}
	if r.Type != gjson.True && r.Type != gjson.False {
		p.fail(key, errParamType)
		return false
	}
	return r.Bool()
}

func (p *params) uint(key string) uint64 {
	r, ok := p.get(key, false)
	if !ok {
		return 0
	}
	if r.Type != gjson.Number {
		p.fail(key, errParamType)
		return 0
	}
	n, err := strconv.ParseUint(r.Raw, 10, 64)
	if err != nil {
		p.fail(key, errParamType)
		return 0
	}
	return n
}

// raw returns a nested JSON value as text. A string holding JSON is passed
// through unchanged, so hosts that pre-encode records still work.
func (p *params) raw(key string) string {
	r, ok := p.get(key, false)
	if !ok {
		return ""
	}
	switch {
	case r.Type == gjson.String:
		return r.Str
	case r.IsObject(), r.IsArray():
		return r.Raw
	default:
		p.fail(key, errParamType)
		return ""
	}
}
