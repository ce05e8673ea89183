package simengine

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/codec"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/internal/backend"
)

func newWalletHandle(t *testing.T, e *Engine) (backend.Handle, string) {
	t.Helper()
	store := filepath.Join(t.TempDir(), "wallet.json")
	h := e.CreateNew("", store, []byte("pw"))
	require.NotZero(t, h, "CreateNew returned the null handle")
	return h, store
}

func amount(v uint64) backend.U128 { return backend.U128(codec.AmountFromUint64(v)) }

func TestCreateNewAndReopen(t *testing.T) {
	e := New()
	h, store := newWalletHandle(t, e)
	assert.True(t, e.CheckPassword(h, []byte("pw")))
	assert.False(t, e.CheckPassword(h, []byte("wrong")))

	pub, code := e.CreateAccountPublic(h)
	require.Equal(t, backend.Success, code)
	priv, code := e.CreateAccountPrivate(h)
	require.Equal(t, backend.Success, code)
	require.Equal(t, backend.Success, e.SyncToBlock(h, 0))
	require.Equal(t, backend.Success, e.Save(h))
	e.Destroy(h)

	h2 := e.Open("", store)
	require.NotZero(t, h2)
	assert.NotEqual(t, h, h2)
	assert.True(t, e.CheckPassword(h2, []byte("pw")))

	list, code := e.ListAccounts(h2)
	require.Equal(t, backend.Success, code)
	require.Len(t, list.Entries, 2)
	assert.Equal(t, backend.AccountListEntry{AccountID: pub, IsPublic: true}, list.Entries[0])
	assert.Equal(t, backend.AccountListEntry{AccountID: priv, IsPublic: false}, list.Entries[1])
	list.Mem.Free()
	assert.Zero(t, e.Outstanding())
}

func TestCreateNewRejects(t *testing.T) {
	e := New()
	dir := t.TempDir()
	assert.Zero(t, e.CreateNew("", "", []byte("pw")), "empty storage path")
	assert.Zero(t, e.CreateNew("", filepath.Join(dir, "a.json"), nil), "empty password")
	assert.Zero(t, e.CreateNew(filepath.Join(dir, "missing.json"), filepath.Join(dir, "b.json"), []byte("pw")), "missing config")

	h, store := newWalletHandle(t, e)
	require.NotZero(t, h)
	assert.Zero(t, e.CreateNew("", store, []byte("pw")), "existing wallet file")
	assert.Zero(t, e.Open("", filepath.Join(dir, "nope.json")), "missing wallet file")
}

func TestConfigSequencerAddr(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{"sequencer_addr":"http://seq.example:3040","other":1}`), 0o600))

	e := New()
	h := e.CreateNew(cfg, filepath.Join(dir, "w.json"), []byte("pw"))
	require.NotZero(t, h)
	text := e.SequencerAddr(h)
	assert.False(t, text.Null)
	assert.Equal(t, "http://seq.example:3040", string(text.Bytes))
	text.Mem.Free()
	assert.Equal(t, make([]byte, len(text.Bytes)), text.Bytes, "freed text must be wiped")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"sequencer_addr":7}`), 0o600))
	assert.Zero(t, e.CreateNew(bad, filepath.Join(dir, "w2.json"), []byte("pw")))

	h2 := e.CreateNew("", filepath.Join(dir, "w3.json"), []byte("pw"))
	text = e.SequencerAddr(h2)
	assert.Equal(t, DefaultSequencerAddr, string(text.Bytes))
	text.Mem.Free()

	assert.True(t, e.SequencerAddr(0).Null)
}

func TestHandleChecks(t *testing.T) {
	e := New()
	_, code := e.CreateAccountPublic(0)
	assert.Equal(t, backend.NullPointer, code)
	_, code = e.CreateAccountPublic(42)
	assert.Equal(t, backend.WalletNotInitialized, code)
	assert.Equal(t, backend.WalletNotInitialized, e.Save(42))
}

func TestDestroyCounts(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	e.Destroy(h)
	assert.Equal(t, 1, e.DestroyCount(h))
	_, code := e.GetCurrentBlockHeight(h)
	assert.Equal(t, backend.WalletNotInitialized, code)
}

func TestPublicTransfer(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	from, _ := e.CreateAccountPublic(h)
	to, _ := e.CreateAccountPublic(h)
	e.Fund(from, 100)

	res, code := e.TransferPublic(h, from, to, amount(30))
	require.Equal(t, backend.Success, code)
	assert.True(t, res.Success)
	assert.Len(t, res.TxHash, 64)
	res.Mem.Free()

	bal, _ := e.GetBalance(h, from, true)
	assert.Equal(t, amount(70), bal)
	bal, _ = e.GetBalance(h, to, true)
	assert.Equal(t, amount(30), bal)
	assert.EqualValues(t, 1, e.Height())

	acct, code := e.GetAccountPublic(h, from)
	require.Equal(t, backend.Success, code)
	assert.Equal(t, amount(1), acct.Nonce)
	acct.Mem.Free()

	_, code = e.TransferPublic(h, from, to, amount(1000))
	assert.Equal(t, backend.InsufficientFunds, code)

	_, code = e.TransferPublic(h, to, from, amount(1))
	require.Equal(t, backend.Success, code)
	_, code = e.TransferPublic(h, backend.Bytes32{9}, to, amount(1))
	assert.Equal(t, backend.KeyNotFound, code, "sender must belong to the wallet")
}

func TestRejectNextIsSoftFailure(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	from, _ := e.CreateAccountPublic(h)
	e.Fund(from, 10)

	e.RejectNext()
	res, code := e.TransferPublic(h, from, from, amount(5))
	require.Equal(t, backend.Success, code)
	assert.False(t, res.Success)
	assert.Empty(t, res.TxHash)
	res.Mem.Free()

	bal, _ := e.GetBalance(h, from, true)
	assert.Equal(t, amount(10), bal)
	assert.Zero(t, e.Height())
}

func TestShieldedAndPrivateTransfers(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	pub, _ := e.CreateAccountPublic(h)
	priv, _ := e.CreateAccountPrivate(h)
	e.Fund(pub, 50)

	keys, code := e.GetPrivateAccountKeys(h, priv)
	require.Equal(t, backend.Success, code)
	assert.Len(t, keys.ViewingPublicKey, 33)
	recipient := backend.PrivateAccountKeys{
		NullifierPublicKey: keys.NullifierPublicKey,
		ViewingPublicKey:   append([]byte(nil), keys.ViewingPublicKey...),
	}
	keys.Mem.Free()

	res, code := e.TransferShielded(h, pub, recipient, amount(20))
	require.Equal(t, backend.Success, code)
	assert.True(t, res.Success)

	bal, code := e.GetBalance(h, priv, false)
	require.Equal(t, backend.Success, code)
	assert.Equal(t, amount(20), bal)

	_, code = e.TransferDeshielded(h, priv, pub, amount(5))
	require.Equal(t, backend.Success, code)
	bal, _ = e.GetBalance(h, pub, true)
	assert.Equal(t, amount(35), bal)

	priv2, _ := e.CreateAccountPrivate(h)
	_, code = e.TransferPrivateOwned(h, priv, priv2, amount(5))
	require.Equal(t, backend.Success, code)
	bal, _ = e.GetBalance(h, priv2, false)
	assert.Equal(t, amount(5), bal)

	_, code = e.TransferShieldedOwned(h, pub, pub, amount(1))
	assert.Equal(t, backend.AccountNotFound, code, "owned destination must be private")

	bad := backend.PrivateAccountKeys{NullifierPublicKey: recipient.NullifierPublicKey, ViewingPublicKey: []byte{1, 2, 3}}
	_, code = e.TransferPrivate(h, priv, bad, amount(1))
	assert.Equal(t, backend.InvalidKeyValue, code)
}

func TestPrivateAccountData(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	priv, _ := e.CreateAccountPrivate(h)

	acct, code := e.GetAccountPrivate(h, priv)
	require.Equal(t, backend.Success, code)
	assert.Len(t, acct.Data, 32)
	acct.Mem.Free()
	assert.Equal(t, make([]byte, 32), acct.Data, "freed data must be wiped")

	_, code = e.GetAccountPrivate(h, backend.Bytes32{1})
	assert.Equal(t, backend.AccountNotFound, code)
	assert.Zero(t, e.Outstanding())
}

func TestPublicAccountKey(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	pub, _ := e.CreateAccountPublic(h)

	key, code := e.GetPublicAccountKey(h, pub)
	require.Equal(t, backend.Success, code)
	assert.Equal(t, publicID(mustXOnly(t, key)), pub)

	_, code = e.GetPublicAccountKey(h, backend.Bytes32{1})
	assert.Equal(t, backend.KeyNotFound, code)
}

func mustXOnly(t *testing.T, key backend.Bytes32) *btcec.PublicKey {
	t.Helper()
	// BIP-340 x-only keys lift to the point with even y.
	pk, err := btcec.ParsePubKey(append([]byte{0x02}, key[:]...))
	require.NoError(t, err)
	return pk
}

func TestRegisterAccount(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	pub, _ := e.CreateAccountPublic(h)

	res, code := e.RegisterPublicAccount(h, pub)
	require.Equal(t, backend.Success, code)
	assert.True(t, res.Success)
	res.Mem.Free()

	res, code = e.RegisterPublicAccount(h, pub)
	require.Equal(t, backend.Success, code)
	assert.False(t, res.Success, "second registration is rejected")
	res.Mem.Free()

	acct, _ := e.GetAccountPublic(h, pub)
	assert.Equal(t, AuthenticatedTransferProgram, acct.ProgramOwner)
	acct.Mem.Free()

	_, code = e.RegisterPrivateAccount(h, pub)
	assert.Equal(t, backend.AccountNotFound, code)
}

func TestPinata(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	winner, _ := e.CreateAccountPublic(h)
	pinataID := backend.Bytes32{0xaa}
	e.AddPinata(pinataID, amount(1234), 500)

	res, code := e.ClaimPinata(h, pinataID, winner, amount(1))
	require.Equal(t, backend.Success, code)
	assert.False(t, res.Success, "wrong solution")

	res, code = e.ClaimPinata(h, pinataID, winner, amount(1234))
	require.Equal(t, backend.Success, code)
	assert.True(t, res.Success)
	bal, _ := e.GetBalance(h, winner, true)
	assert.Equal(t, amount(500), bal)

	res, _ = e.ClaimPinata(h, pinataID, winner, amount(1234))
	assert.False(t, res.Success, "prize already claimed")

	_, code = e.ClaimPinata(h, backend.Bytes32{0xbb}, winner, amount(1))
	assert.Equal(t, backend.AccountNotFound, code)
}

func TestPinataPrivateOwned(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	winner, _ := e.CreateAccountPrivate(h)
	pinataID := backend.Bytes32{0xcc}
	e.AddPinata(pinataID, amount(7), 40)
	siblings := make([]byte, 3*32)

	_, code := e.ClaimPinataPrivateOwned(h, pinataID, winner, amount(7), 0, siblings)
	assert.Equal(t, backend.AccountNotFound, code, "winner must be initialized")

	_, code = e.RegisterPrivateAccount(h, winner)
	require.Equal(t, backend.Success, code)

	_, code = e.ClaimPinataPrivateOwned(h, pinataID, winner, amount(7), 0, siblings[:40])
	assert.Equal(t, backend.SerializationError, code)
	_, code = e.ClaimPinataPrivateOwned(h, pinataID, winner, amount(7), 8, siblings)
	assert.Equal(t, backend.InvalidConversion, code, "index beyond tree depth")

	res, code := e.ClaimPinataPrivateOwned(h, pinataID, winner, amount(7), 5, siblings)
	require.Equal(t, backend.Success, code)
	assert.True(t, res.Success)
	bal, _ := e.GetBalance(h, winner, false)
	assert.Equal(t, amount(40), bal)
}

func TestSync(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	e.Mine(5)

	height, code := e.GetCurrentBlockHeight(h)
	require.Equal(t, backend.Success, code)
	assert.EqualValues(t, 5, height)

	assert.Equal(t, backend.SyncError, e.SyncToBlock(h, 6))
	require.Equal(t, backend.Success, e.SyncToBlock(h, 4))
	last, _ := e.GetLastSyncedBlock(h)
	assert.EqualValues(t, 4, last)
}

func TestBase58(t *testing.T) {
	e := New()
	id := backend.Bytes32{1, 2, 3}

	text := e.AccountIDToBase58(id)
	require.False(t, text.Null)
	encoded := string(text.Bytes)
	text.Mem.Free()
	assert.Equal(t, base58.Encode(id[:]), encoded)

	back, code := e.AccountIDFromBase58(encoded)
	require.Equal(t, backend.Success, code)
	assert.Equal(t, id, back)

	_, code = e.AccountIDFromBase58("0OIl")
	assert.Equal(t, backend.InvalidAccountID, code)
	_, code = e.AccountIDFromBase58(base58.Encode([]byte{1, 2, 3}))
	assert.Equal(t, backend.InvalidAccountID, code)
}

func TestDoubleFreeIsCounted(t *testing.T) {
	e := New()
	text := e.AccountIDToBase58(backend.Bytes32{})
	text.Mem.Free()
	text.Mem.Free()
	assert.Equal(t, 1, e.Frees())
	assert.Equal(t, 1, e.DoubleFrees())
}

func TestCallLog(t *testing.T) {
	e := New()
	h, _ := newWalletHandle(t, e)
	_, _ = e.GetCurrentBlockHeight(h)
	assert.Equal(t, []string{"create_new", "get_current_block_height"}, e.Calls())
	e.ResetCalls()
	assert.Empty(t, e.Calls())
}

func TestWalletFileContents(t *testing.T) {
	e := New()
	store := filepath.Join(t.TempDir(), "w.json")
	h := e.CreateNew("", store, []byte("hunter2hunter2"))
	require.NotZero(t, h)
	_, code := e.CreateAccountPublic(h)
	require.Equal(t, backend.Success, code)
	_, code = e.CreateAccountPrivate(h)
	require.Equal(t, backend.Success, code)
	require.Equal(t, backend.Success, e.Save(h))

	raw, err := os.ReadFile(store)
	require.NoError(t, err)
	text := string(raw)
	assert.NotContains(t, text, "hunter2")
	assert.Contains(t, text, `"verifier"`)

	// Account secrets are kept in clear; the file mode is the only protection.
	w := e.wallets[h]
	pub, priv := w.accounts[0], w.accounts[1]
	assert.Contains(t, text, codec.EncodeHex(pub.signing.Serialize()))
	assert.Contains(t, text, codec.EncodeHex(priv.nsk[:]))
	assert.Contains(t, text, codec.EncodeHex(priv.viewing.Serialize()))

	info, err := os.Stat(store)
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}
