package codec

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill32(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func TestAccountSnapshotEncode(t *testing.T) {
	snap := AccountSnapshot{
		ProgramOwner: fill32(0xab),
		Balance:      AmountFromUint64(5),
		Nonce:        AmountFromUint64(1),
	}

	text, err := Encode(snap)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(text), &fields))
	assert.Len(t, fields, 4)
	assert.Equal(t, strings.Repeat("ab", 32), fields["program_owner"])
	assert.Equal(t, "05000000000000000000000000000000", fields["balance"])
	assert.Equal(t, "01000000000000000000000000000000", fields["nonce"])
	assert.Equal(t, "", fields["data"], "absent data must encode as empty string")
}

func TestAccountSnapshotRoundTrip(t *testing.T) {
	orig := AccountSnapshot{
		ProgramOwner: fill32(0x01),
		Balance:      AmountFromUint64(1000),
		Nonce:        AmountFromUint64(7),
		Data:         []byte{0xde, 0xad, 0xbe, 0xef},
	}
	text, err := Encode(orig)
	require.NoError(t, err)

	got, err := DecodeAccountSnapshot(text)
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	orig.Data = nil
	text, err = Encode(orig)
	require.NoError(t, err)
	assert.Contains(t, text, `"data":""`)
	got, err = DecodeAccountSnapshot(text)
	require.NoError(t, err)
	assert.Empty(t, got.Data)
}

func TestAccountSnapshotDecodeLenientOrder(t *testing.T) {
	text := `{"nonce":"0x00000000000000000000000000000000","balance":"0A000000000000000000000000000000","program_owner":"` + strings.Repeat("CD", 32) + `"}`
	got, err := DecodeAccountSnapshot(text)
	require.NoError(t, err)
	v, ok := got.Balance.Uint64()
	assert.True(t, ok)
	assert.EqualValues(t, 10, v)
	assert.Equal(t, fill32(0xcd), got.ProgramOwner)
	assert.NotNil(t, got.Data)
	assert.Empty(t, got.Data)
}

func TestAccountSnapshotDecodeStrict(t *testing.T) {
	owner := strings.Repeat("00", 32)
	zero := strings.Repeat("00", 16)
	tests := []struct {
		name  string
		text  string
		field string
	}{
		{"not json", `{"balance":`, "account"},
		{"array", `[]`, "account"},
		{"short balance", `{"program_owner":"` + owner + `","balance":"00","nonce":"` + zero + `"}`, "balance"},
		{"missing nonce", `{"program_owner":"` + owner + `","balance":"` + zero + `"}`, "nonce"},
		{"numeric balance", `{"program_owner":"` + owner + `","balance":0,"nonce":"` + zero + `"}`, "balance"},
		{"null data", `{"program_owner":"` + owner + `","balance":"` + zero + `","nonce":"` + zero + `","data":null}`, "data"},
		{"bad data hex", `{"program_owner":"` + owner + `","balance":"` + zero + `","nonce":"` + zero + `","data":"xyz"}`, "data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAccountSnapshot(tt.text)
			require.Error(t, err)
			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestTransferResultRoundTrip(t *testing.T) {
	for _, orig := range []TransferResult{
		{TxHash: "9f2c", Success: true},
		{TxHash: "", Success: false},
	} {
		text, err := Encode(orig)
		require.NoError(t, err)
		assert.Contains(t, text, `"tx_hash":`)

		got, err := DecodeTransferResult(text)
		require.NoError(t, err)
		assert.Equal(t, orig, got)
	}
}

func TestTransferResultDecode(t *testing.T) {
	got, err := DecodeTransferResult(`{"success":false}`)
	require.NoError(t, err)
	assert.Equal(t, TransferResult{}, got)

	_, err = DecodeTransferResult(`{"tx_hash":"ab"}`)
	assert.ErrorIs(t, err, ErrMalformedJSON)

	_, err = DecodeTransferResult(`{"tx_hash":"ab","success":"true"}`)
	assert.ErrorIs(t, err, ErrMalformedJSON)

	_, err = DecodeTransferResult(`{"tx_hash":1,"success":true}`)
	assert.ErrorIs(t, err, ErrMalformedJSON)
}

func TestPrivateAccountKeysRoundTrip(t *testing.T) {
	orig := PrivateAccountKeys{
		NullifierPublicKey: fill32(0x42),
		ViewingPublicKey:   append([]byte{0x02}, make([]byte, 32)...),
	}
	text, err := Encode(orig)
	require.NoError(t, err)

	got, err := DecodePrivateAccountKeys(text)
	require.NoError(t, err)
	assert.Equal(t, orig, got)

	noView := PrivateAccountKeys{NullifierPublicKey: fill32(0x42)}
	text, err = Encode(noView)
	require.NoError(t, err)
	assert.Contains(t, text, `"viewing_public_key":""`)

	got, err = DecodePrivateAccountKeys(`{"nullifier_public_key":"` + strings.Repeat("42", 32) + `"}`)
	require.NoError(t, err)
	assert.Equal(t, fill32(0x42), got.NullifierPublicKey)
	assert.Empty(t, got.ViewingPublicKey)
}

func TestPrivateAccountKeysRejectsShortNullifier(t *testing.T) {
	_, err := DecodePrivateAccountKeys(`{"nullifier_public_key":"` + strings.Repeat("42", 31) + `","viewing_public_key":""}`)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestAccountListRoundTrip(t *testing.T) {
	empty, err := EncodeAccountList(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", empty)

	entries := []AccountListEntry{
		{AccountID: AccountID(fill32(1)), IsPublic: true},
		{AccountID: AccountID(fill32(2)), IsPublic: false},
	}
	text, err := EncodeAccountList(entries)
	require.NoError(t, err)
	assert.Contains(t, text, `"account_id":"`+strings.Repeat("01", 32)+`"`)
	assert.Contains(t, text, `"is_public":true`)

	got, err := DecodeAccountList(text)
	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestAccountListDecodeFailsWhole(t *testing.T) {
	text := `[{"account_id":"` + strings.Repeat("01", 32) + `","is_public":true},{"account_id":"01","is_public":false}]`
	got, err := DecodeAccountList(text)
	assert.Nil(t, got)
	var ce *Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "account_list[1].account_id", ce.Field)
}

func TestRecordsThroughEncodingJSON(t *testing.T) {
	type envelope struct {
		Keys   PrivateAccountKeys `json:"keys"`
		Result TransferResult     `json:"result"`
	}
	in := envelope{
		Keys:   PrivateAccountKeys{NullifierPublicKey: fill32(9), ViewingPublicKey: []byte{1, 2, 3}},
		Result: TransferResult{TxHash: "abc", Success: true},
	}
	b, err := json.Marshal(in)
	require.NoError(t, err)

	var out envelope
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out)
}
