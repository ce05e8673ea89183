package lezwallet

import (
	"context"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/codec"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/ownership"
)

// Every method here returns TransferResult JSON. A result with
// "success":false is a transaction the chain did not accept; it is returned
// without an error.

// TransferPublic moves amount between two public accounts.
func (s *Session) TransferPublic(ctx context.Context, from, to, amount string) (string, error) {
	return s.plainTransfer(ctx, "transfer_public", from, to, amount, s.engine.TransferPublic)
}

// TransferShielded moves amount from a public account to the private account
// identified by toKeys, a PrivateAccountKeys JSON object.
func (s *Session) TransferShielded(ctx context.Context, from, toKeys, amount string) (string, error) {
	return s.keyedTransfer(ctx, "transfer_shielded", from, toKeys, amount, s.engine.TransferShielded)
}

// TransferDeshielded moves amount from a private account to a public one.
func (s *Session) TransferDeshielded(ctx context.Context, from, to, amount string) (string, error) {
	return s.plainTransfer(ctx, "transfer_deshielded", from, to, amount, s.engine.TransferDeshielded)
}

// TransferPrivate moves amount between private accounts; the recipient is
// identified by toKeys, a PrivateAccountKeys JSON object.
func (s *Session) TransferPrivate(ctx context.Context, from, toKeys, amount string) (string, error) {
	return s.keyedTransfer(ctx, "transfer_private", from, toKeys, amount, s.engine.TransferPrivate)
}

// TransferShieldedOwned is TransferShielded to a private account held by this
// wallet.
func (s *Session) TransferShieldedOwned(ctx context.Context, from, to, amount string) (string, error) {
	return s.plainTransfer(ctx, "transfer_shielded_owned", from, to, amount, s.engine.TransferShieldedOwned)
}

// TransferPrivateOwned is TransferPrivate to a private account held by this
// wallet.
func (s *Session) TransferPrivateOwned(ctx context.Context, from, to, amount string) (string, error) {
	return s.plainTransfer(ctx, "transfer_private_owned", from, to, amount, s.engine.TransferPrivateOwned)
}

// RegisterPublicAccount registers a public account on chain.
func (s *Session) RegisterPublicAccount(ctx context.Context, accountID string) (string, error) {
	return s.register(ctx, "register_public_account", accountID, s.engine.RegisterPublicAccount)
}

// RegisterPrivateAccount registers a private account on chain.
func (s *Session) RegisterPrivateAccount(ctx context.Context, accountID string) (string, error) {
	return s.register(ctx, "register_private_account", accountID, s.engine.RegisterPrivateAccount)
}

// ClaimPinata claims the prize held by a pinata account into winner, proving
// knowledge of solution, a 16-byte little-endian hex value.
func (s *Session) ClaimPinata(ctx context.Context, pinata, winner, solution string) (string, error) {
	const op = "claim_pinata"
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	p, w, sol, err := s.pinataInputs(ctx, op, pinata, winner, solution)
	if err != nil {
		return "", err
	}
	return s.submit(ctx, op, func() (RawTransferResult, Code) {
		return s.engine.ClaimPinata(s.handle, p, w, sol)
	})
}

// ClaimPinataPrivateOwned claims a pinata into an already initialized private
// account of this wallet. siblings is a JSON array of 32-byte hex hashes
// forming the winner's membership proof at proofIndex.
func (s *Session) ClaimPinataPrivateOwned(ctx context.Context, pinata, winner, solution string, proofIndex uint64, siblings string) (string, error) {
	const op = "claim_pinata_private_owned"
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	p, w, sol, err := s.pinataInputs(ctx, op, pinata, winner, solution)
	if err != nil {
		return "", err
	}
	buf, err := codec.DecodeSiblingList(siblings)
	if err != nil {
		return "", s.reject(ctx, op, KindInvalidInput, "siblings", err)
	}

	var scope ownership.Scope
	defer scope.Close()
	ownership.LendTo(&scope, s.ledger, "siblings", buf)
	return s.submit(ctx, op, func() (RawTransferResult, Code) {
		return s.engine.ClaimPinataPrivateOwned(s.handle, p, w, sol, proofIndex, buf)
	})
}

func (s *Session) plainTransfer(ctx context.Context, op, from, to, amount string,
	call func(Handle, Bytes32, Bytes32, U128) (RawTransferResult, Code)) (string, error) {
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	src, err := s.accountID(ctx, op, "from", from)
	if err != nil {
		return "", err
	}
	dst, err := s.accountID(ctx, op, "to", to)
	if err != nil {
		return "", err
	}
	amt, err := s.amount(ctx, op, "amount", amount)
	if err != nil {
		return "", err
	}
	return s.submit(ctx, op, func() (RawTransferResult, Code) {
		return call(s.handle, src, dst, amt)
	})
}

func (s *Session) keyedTransfer(ctx context.Context, op, from, toKeys, amount string,
	call func(Handle, Bytes32, RawPrivateAccountKeys, U128) (RawTransferResult, Code)) (string, error) {
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	src, err := s.accountID(ctx, op, "from", from)
	if err != nil {
		return "", err
	}
	keys, err := codec.DecodePrivateAccountKeys(toKeys)
	if err != nil {
		return "", s.reject(ctx, op, KindInvalidInput, "to_keys", err)
	}
	amt, err := s.amount(ctx, op, "amount", amount)
	if err != nil {
		return "", err
	}

	var scope ownership.Scope
	defer scope.Close()
	ownership.LendTo(&scope, s.ledger, "viewing_public_key", keys.ViewingPublicKey)
	recipient := RawPrivateAccountKeys{
		NullifierPublicKey: keys.NullifierPublicKey,
		ViewingPublicKey:   keys.ViewingPublicKey,
	}
	return s.submit(ctx, op, func() (RawTransferResult, Code) {
		return call(s.handle, src, recipient, amt)
	})
}

func (s *Session) register(ctx context.Context, op, accountID string,
	call func(Handle, Bytes32) (RawTransferResult, Code)) (string, error) {
	if err := s.requireOpen(ctx, op); err != nil {
		return "", err
	}
	id, err := s.accountID(ctx, op, "account_id", accountID)
	if err != nil {
		return "", err
	}
	return s.submit(ctx, op, func() (RawTransferResult, Code) {
		return call(s.handle, id)
	})
}

func (s *Session) pinataInputs(ctx context.Context, op, pinata, winner, solution string) (p, w Bytes32, sol U128, err error) {
	if p, err = s.accountID(ctx, op, "pinata", pinata); err != nil {
		return
	}
	if w, err = s.accountID(ctx, op, "winner", winner); err != nil {
		return
	}
	sol, err = s.amount(ctx, op, "solution", solution)
	return
}

// submit runs a transaction-producing engine call and encodes its result.
// Inputs have been validated by the time submit is reached.
func (s *Session) submit(ctx context.Context, op string, call func() (RawTransferResult, Code)) (string, error) {
	var scope ownership.Scope
	defer scope.Close()
	res, code := call()
	s.adopt(&scope, "transfer_result", res.Mem)
	if err := s.check(ctx, op, code); err != nil {
		return "", err
	}

	out := codec.TransferResult{TxHash: string(res.TxHash), Success: res.Success}
	if out.Success {
		s.log.Info(ctx, "transaction submitted", "op", op, "tx_hash", out.TxHash)
	} else {
		s.log.Warn(ctx, "transaction not accepted", "op", op, "tx_hash", out.TxHash)
	}
	return s.encode(op, out)
}
