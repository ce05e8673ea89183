package codec

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// AccountSnapshot is the state of one account as reported by a query.
type AccountSnapshot struct {
	ProgramOwner [32]byte
	Balance      Amount
	Nonce        Amount
	Data         []byte
}

// TransferResult is the outcome of a submitted transaction. Success false
// with a nil error means the engine accepted the call but the effect did not
// take place.
type TransferResult struct {
	TxHash  string
	Success bool
}

// PrivateAccountKeys identifies the owner of a private account.
type PrivateAccountKeys struct {
	NullifierPublicKey [32]byte
	ViewingPublicKey   []byte
}

// AccountListEntry is one row of the wallet's account list.
type AccountListEntry struct {
	AccountID AccountID
	IsPublic  bool
}

type accountSnapshotJSON struct {
	ProgramOwner string `json:"program_owner"`
	Balance      string `json:"balance"`
	Nonce        string `json:"nonce"`
	Data         string `json:"data"`
}

type transferResultJSON struct {
	TxHash  string `json:"tx_hash"`
	Success bool   `json:"success"`
}

type privateAccountKeysJSON struct {
	NullifierPublicKey string `json:"nullifier_public_key"`
	ViewingPublicKey   string `json:"viewing_public_key"`
}

type accountListEntryJSON struct {
	AccountID string `json:"account_id"`
	IsPublic  bool   `json:"is_public"`
}

func (s AccountSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountSnapshotJSON{
		ProgramOwner: EncodeHex(s.ProgramOwner[:]),
		Balance:      s.Balance.String(),
		Nonce:        s.Nonce.String(),
		Data:         EncodeHex(s.Data),
	})
}

func (r TransferResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(transferResultJSON(r))
}

func (k PrivateAccountKeys) MarshalJSON() ([]byte, error) {
	return json.Marshal(privateAccountKeysJSON{
		NullifierPublicKey: EncodeHex(k.NullifierPublicKey[:]),
		ViewingPublicKey:   EncodeHex(k.ViewingPublicKey),
	})
}

func (e AccountListEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountListEntryJSON{
		AccountID: e.AccountID.String(),
		IsPublic:  e.IsPublic,
	})
}

func (s *AccountSnapshot) UnmarshalJSON(b []byte) error {
	v, err := DecodeAccountSnapshot(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

func (r *TransferResult) UnmarshalJSON(b []byte) error {
	v, err := DecodeTransferResult(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

func (k *PrivateAccountKeys) UnmarshalJSON(b []byte) error {
	v, err := DecodePrivateAccountKeys(string(b))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

func (e *AccountListEntry) UnmarshalJSON(b []byte) error {
	obj, err := parseObject(string(b), "account_list_entry")
	if err != nil {
		return err
	}
	v, err := accountListEntryFrom(obj, "")
	if err != nil {
		return err
	}
	*e = v
	return nil
}

// Encode renders a record as JSON text.
func Encode(v json.Marshaler) (string, error) {
	b, err := v.MarshalJSON()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeAccountList renders entries as a JSON array, "[]" when empty.
func EncodeAccountList(entries []AccountListEntry) (string, error) {
	if entries == nil {
		entries = []AccountListEntry{}
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// DecodeAccountSnapshot parses an AccountSnapshot object.
func DecodeAccountSnapshot(text string) (AccountSnapshot, error) {
	obj, err := parseObject(text, "account")
	if err != nil {
		return AccountSnapshot{}, err
	}
	owner, err := hexField(obj, "program_owner", 32, true)
	if err != nil {
		return AccountSnapshot{}, err
	}
	balance, err := hexField(obj, "balance", AmountLen, true)
	if err != nil {
		return AccountSnapshot{}, err
	}
	nonce, err := hexField(obj, "nonce", AmountLen, true)
	if err != nil {
		return AccountSnapshot{}, err
	}
	data, err := hexField(obj, "data", AnyLength, false)
	if err != nil {
		return AccountSnapshot{}, err
	}
	return AccountSnapshot{
		ProgramOwner: [32]byte(owner),
		Balance:      Amount(balance),
		Nonce:        Amount(nonce),
		Data:         data,
	}, nil
}

// DecodeTransferResult parses a TransferResult object.
func DecodeTransferResult(text string) (TransferResult, error) {
	obj, err := parseObject(text, "transfer_result")
	if err != nil {
		return TransferResult{}, err
	}
	var r TransferResult
	if v := obj.Get("tx_hash"); v.Exists() {
		if v.Type != gjson.String {
			return TransferResult{}, fieldError("tx_hash", fmt.Errorf("%w: expected string", ErrMalformedJSON))
		}
		r.TxHash = v.Str
	}
	if r.Success, err = boolField(obj, "success"); err != nil {
		return TransferResult{}, err
	}
	return r, nil
}

// DecodePrivateAccountKeys parses a PrivateAccountKeys object.
func DecodePrivateAccountKeys(text string) (PrivateAccountKeys, error) {
	obj, err := parseObject(text, "private_account_keys")
	if err != nil {
		return PrivateAccountKeys{}, err
	}
	npk, err := hexField(obj, "nullifier_public_key", 32, true)
	if err != nil {
		return PrivateAccountKeys{}, err
	}
	vpk, err := hexField(obj, "viewing_public_key", AnyLength, false)
	if err != nil {
		return PrivateAccountKeys{}, err
	}
	return PrivateAccountKeys{NullifierPublicKey: [32]byte(npk), ViewingPublicKey: vpk}, nil
}

// DecodeAccountList parses a JSON array of AccountListEntry objects.
func DecodeAccountList(text string) ([]AccountListEntry, error) {
	if !gjson.Valid(text) {
		return nil, fieldError("account_list", fmt.Errorf("%w: invalid json", ErrMalformedJSON))
	}
	arr := gjson.Parse(text)
	if !arr.IsArray() {
		return nil, fieldError("account_list", fmt.Errorf("%w: expected array", ErrMalformedJSON))
	}
	items := arr.Array()
	out := make([]AccountListEntry, 0, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("account_list[%d].", i)
		if !item.IsObject() {
			return nil, fieldError(prefix[:len(prefix)-1], fmt.Errorf("%w: expected object", ErrMalformedJSON))
		}
		e, err := accountListEntryFrom(item, prefix)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func accountListEntryFrom(obj gjson.Result, prefix string) (AccountListEntry, error) {
	id, err := hexField(obj, "account_id", AccountIDLen, true)
	if err != nil {
		return AccountListEntry{}, prefixed(prefix, err)
	}
	isPublic, err := boolField(obj, "is_public")
	if err != nil {
		return AccountListEntry{}, prefixed(prefix, err)
	}
	return AccountListEntry{AccountID: AccountID(id), IsPublic: isPublic}, nil
}

func prefixed(prefix string, err error) error {
	if ce, ok := err.(*Error); ok && prefix != "" {
		return &Error{Field: prefix + ce.Field, Err: ce.Err}
	}
	return err
}

func parseObject(text, record string) (gjson.Result, error) {
	if !gjson.Valid(text) {
		return gjson.Result{}, fieldError(record, fmt.Errorf("%w: invalid json", ErrMalformedJSON))
	}
	obj := gjson.Parse(text)
	if !obj.IsObject() {
		return gjson.Result{}, fieldError(record, fmt.Errorf("%w: expected object", ErrMalformedJSON))
	}
	return obj, nil
}

// hexField reads key as hex of n bytes (or any length for AnyLength). A
// missing optional key yields an empty, non-nil buffer.
func hexField(obj gjson.Result, key string, n int, required bool) ([]byte, error) {
	v := obj.Get(key)
	if !v.Exists() {
		if required {
			return nil, fieldError(key, fmt.Errorf("%w: missing field", ErrMalformedJSON))
		}
		return []byte{}, nil
	}
	if v.Type != gjson.String {
		return nil, fieldError(key, fmt.Errorf("%w: expected string", ErrMalformedJSON))
	}
	b, err := DecodeHex(v.Str, n)
	if err != nil {
		return nil, fieldError(key, err)
	}
	return b, nil
}

func boolField(obj gjson.Result, key string) (bool, error) {
	v := obj.Get(key)
	switch {
	case !v.Exists():
		return false, fieldError(key, fmt.Errorf("%w: missing field", ErrMalformedJSON))
	case v.Type != gjson.True && v.Type != gjson.False:
		return false, fieldError(key, fmt.Errorf("%w: expected boolean", ErrMalformedJSON))
	}
	return v.Bool(), nil
}
