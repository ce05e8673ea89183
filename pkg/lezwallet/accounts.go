package lezwallet

import (
	"context"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/codec"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/ownership"
)

// CreateAccountPublic creates a public account and returns its id as
// 64 lowercase hex characters.
func (s *Session) CreateAccountPublic(ctx context.Context) (string, error) {
	return s.createAccount(ctx, "create_account_public", s.engine.CreateAccountPublic)
}

// CreateAccountPrivate creates a private account and returns its id as
// 64 lowercase hex characters.
func (s *Session) CreateAccountPrivate(ctx context.Context) (string, error) {
	return s.createAccount(ctx, "create_account_private", s.engine.CreateAccountPrivate)
}

func (s *Session) createAccount(ctx context.Context, op string, create func(Handle) (Bytes32, Code)) (string, error) {
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	id, code := create(s.handle)
	if err := s.check(ctx, op, code); err != nil {
		return "", err
	}
	s.log.Info(ctx, "account created", "op", op)
	return codec.AccountID(id).String(), nil
}

// ListAccounts returns every account in the wallet as a JSON array of
// {"account_id", "is_public"} objects. An empty wallet yields "[]".
func (s *Session) ListAccounts(ctx context.Context) (string, error) {
	const op = "list_accounts"
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}

	var scope ownership.Scope
	defer scope.Close()
	list, code := s.engine.ListAccounts(s.handle)
	s.adopt(&scope, "account_list", list.Mem)
	if err := s.check(ctx, op, code); err != nil {
		return "", err
	}

	entries := make([]codec.AccountListEntry, len(list.Entries))
	for i, e := range list.Entries {
		entries[i] = codec.AccountListEntry{AccountID: codec.AccountID(e.AccountID), IsPublic: e.IsPublic}
	}
	out, err := codec.EncodeAccountList(entries)
	if err != nil {
		return "", &Error{Op: op, Kind: KindInternal, Err: err}
	}
	return out, nil
}

// GetBalance returns the balance of accountID as 32 hex characters of a
// little-endian 128-bit integer.
func (s *Session) GetBalance(ctx context.Context, accountID string, isPublic bool) (string, error) {
	const op = "get_balance"
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	id, err := s.accountID(ctx, op, "account_id", accountID)
	if err != nil {
		return "", err
	}

	balance, code := s.engine.GetBalance(s.handle, id, isPublic)
	if err := s.check(ctx, op, code); err != nil {
		return "", err
	}
	return codec.Amount(balance).String(), nil
}

// GetAccountPublic returns the public account state as AccountSnapshot JSON.
func (s *Session) GetAccountPublic(ctx context.Context, accountID string) (string, error) {
	return s.getAccount(ctx, "get_account_public", accountID, s.engine.GetAccountPublic)
}

// GetAccountPrivate returns the private account state as AccountSnapshot
// JSON.
func (s *Session) GetAccountPrivate(ctx context.Context, accountID string) (string, error) {
	return s.getAccount(ctx, "get_account_private", accountID, s.engine.GetAccountPrivate)
}

func (s *Session) getAccount(ctx context.Context, op, accountID string, get func(Handle, Bytes32) (RawAccount, Code)) (string, error) {
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	id, err := s.accountID(ctx, op, "account_id", accountID)
	if err != nil {
		return "", err
	}

	var scope ownership.Scope
	defer scope.Close()
	acct, code := get(s.handle, id)
	s.adopt(&scope, "account", acct.Mem)
	if err := s.check(ctx, op, code); err != nil {
		return "", err
	}

	return s.encode(op, codec.AccountSnapshot{
		ProgramOwner: acct.ProgramOwner,
		Balance:      codec.Amount(acct.Balance),
		Nonce:        codec.Amount(acct.Nonce),
		Data:         acct.Data,
	})
}

// GetPublicAccountKey returns the signing public key of a public account as
// 64 hex characters.
func (s *Session) GetPublicAccountKey(ctx context.Context, accountID string) (string, error) {
	const op = "get_public_account_key"
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	id, err := s.accountID(ctx, op, "account_id", accountID)
	if err != nil {
		return "", err
	}

	key, code := s.engine.GetPublicAccountKey(s.handle, id)
	if err := s.check(ctx, op, code); err != nil {
		return "", err
	}
	return codec.EncodeHex(key[:]), nil
}

// GetPrivateAccountKeys returns the receiving keys of a private account as
// PrivateAccountKeys JSON, suitable as the recipient of TransferShielded or
// TransferPrivate.
func (s *Session) GetPrivateAccountKeys(ctx context.Context, accountID string) (string, error) {
	const op = "get_private_account_keys"
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	id, err := s.accountID(ctx, op, "account_id", accountID)
	if err != nil {
		return "", err
	}

	var scope ownership.Scope
	defer scope.Close()
	keys, code := s.engine.GetPrivateAccountKeys(s.handle, id)
	s.adopt(&scope, "private_account_keys", keys.Mem)
	if err := s.check(ctx, op, code); err != nil {
		return "", err
	}

	return s.encode(op, codec.PrivateAccountKeys{
		NullifierPublicKey: keys.NullifierPublicKey,
		ViewingPublicKey:   keys.ViewingPublicKey,
	})
}

// AccountIDToBase58 renders a hex account id in base58. It does not need an
// open wallet.
func (s *Session) AccountIDToBase58(ctx context.Context, accountID string) (string, error) {
	const op = "account_id_to_base58"
	id, err := s.accountID(ctx, op, "account_id", accountID)
	if err != nil {
		return "", err
	}

	var scope ownership.Scope
	defer scope.Close()
	text := s.engine.AccountIDToBase58(id)
	s.adopt(&scope, "base58", text.Mem)
	if text.Null {
		return "", s.check(ctx, op, InternalError)
	}
	s.metrics.EngineCall(op, Success.String())
	return string(text.Bytes), nil
}

// AccountIDFromBase58 parses a base58 account id and returns it as hex. It
// does not need an open wallet.
func (s *Session) AccountIDFromBase58(ctx context.Context, text string) (string, error) {
	const op = "account_id_from_base58"
	if text == "" {
		return "", s.reject(ctx, op, KindInvalidInput, "base58", errEmptyText)
	}
	if err := s.text(ctx, op, "base58", text); err != nil {
		return "", err
	}

	id, code := s.engine.AccountIDFromBase58(text)
	if err := s.check(ctx, op, code); err != nil {
		return "", err
	}
	return codec.AccountID(id).String(), nil
}
