package simengine

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"
	"os"
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/mr-tron/base58"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/codec"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/internal/backend"
)

// AuthenticatedTransferProgram owns public accounts once they are registered.
var AuthenticatedTransferProgram = backend.Bytes32(sha256.Sum256([]byte("authenticated_transfer")))

type pinata struct {
	solution backend.U128
	prize    *big.Int
	claimed  bool
}

// Engine is a simulated wallet engine. It is safe for concurrent use.
type Engine struct {
	mu sync.Mutex

	nextHandle backend.Handle
	wallets    map[backend.Handle]*wallet

	height  uint64
	public  map[backend.Bytes32]*big.Int
	private map[backend.Bytes32]*big.Int
	nonces  map[backend.Bytes32]uint64
	pinatas map[backend.Bytes32]*pinata
	reject  bool

	nextAlloc   uint64
	live        map[uint64]allocation
	frees       int
	doubleFrees int
	destroys    map[backend.Handle]int
	calls       []string
}

var _ backend.Engine = (*Engine)(nil)

func New() *Engine {
	return &Engine{
		wallets:  make(map[backend.Handle]*wallet),
		public:   make(map[backend.Bytes32]*big.Int),
		private:  make(map[backend.Bytes32]*big.Int),
		nonces:   make(map[backend.Bytes32]uint64),
		pinatas:  make(map[backend.Bytes32]*pinata),
		live:     make(map[uint64]allocation),
		destroys: make(map[backend.Handle]int),
	}
}

// Fund credits amount to a public account, as a faucet would.
func (e *Engine) Fund(id backend.Bytes32, amount uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.credit(e.public, id, new(big.Int).SetUint64(amount))
}

// AddPinata places a prize on chain that can be claimed once with solution.
func (e *Engine) AddPinata(id backend.Bytes32, solution backend.U128, prize uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pinatas[id] = &pinata{solution: solution, prize: new(big.Int).SetUint64(prize)}
}

// RejectNext makes the next transaction come back with success=false and no
// state change.
func (e *Engine) RejectNext() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.reject = true
}

// Mine advances the chain by n empty blocks.
func (e *Engine) Mine(n uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.height += n
}

func (e *Engine) Height() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.height
}

// CheckPassword reports whether password matches the wallet behind h.
func (e *Engine) CheckPassword(h backend.Handle, password []byte) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	w, ok := e.wallets[h]
	return ok && w.checkPassword(password)
}

func (e *Engine) walletFor(h backend.Handle) (*wallet, backend.Code) {
	if h == 0 {
		return nil, backend.NullPointer
	}
	w, ok := e.wallets[h]
	if !ok {
		return nil, backend.WalletNotInitialized
	}
	return w, backend.Success
}

func (e *Engine) register(w *wallet) backend.Handle {
	e.nextHandle++
	e.wallets[e.nextHandle] = w
	return e.nextHandle
}

func publicID(pub *btcec.PublicKey) backend.Bytes32 {
	return sha256.Sum256(schnorr.SerializePubKey(pub))
}

func privateID(npk backend.Bytes32) backend.Bytes32 {
	return sha256.Sum256(npk[:])
}

// Lifecycle

func (e *Engine) CreateNew(configPath, storagePath string, password []byte) backend.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("create_new")

	if storagePath == "" || len(password) == 0 {
		return 0
	}
	if _, err := os.Stat(storagePath); err == nil {
		return 0
	}
	addr, err := loadConfig(configPath)
	if err != nil {
		return 0
	}
	w := newWallet(storagePath)
	w.sequencerAddr = addr
	if w.salt, w.verifier, err = newVerifier(password); err != nil {
		return 0
	}
	if err := w.save(); err != nil {
		return 0
	}
	return e.register(w)
}

func (e *Engine) Open(configPath, storagePath string) backend.Handle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("open")

	addr, err := loadConfig(configPath)
	if err != nil {
		return 0
	}
	w, err := loadWallet(storagePath)
	if err != nil {
		return 0
	}
	w.sequencerAddr = addr
	return e.register(w)
}

func (e *Engine) Destroy(h backend.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("destroy")
	e.destroys[h]++
	delete(e.wallets, h)
}

func (e *Engine) Save(h backend.Handle) backend.Code {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("save")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return code
	}
	if err := w.save(); err != nil {
		return backend.StorageError
	}
	return backend.Success
}

// Account management

func (e *Engine) CreateAccountPublic(h backend.Handle) (backend.Bytes32, backend.Code) {
	return e.createAccount(h, "create_account_public", generatePublic)
}

func (e *Engine) CreateAccountPrivate(h backend.Handle) (backend.Bytes32, backend.Code) {
	return e.createAccount(h, "create_account_private", generatePrivate)
}

func (e *Engine) createAccount(h backend.Handle, name string, gen func() (*account, error)) (backend.Bytes32, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record(name)
	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.Bytes32{}, code
	}
	a, err := gen()
	if err != nil {
		return backend.Bytes32{}, backend.RuntimeError
	}
	w.add(a)
	return a.id, backend.Success
}

func (e *Engine) ListAccounts(h backend.Handle) (backend.AccountList, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("list_accounts")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.AccountList{}, code
	}
	entries := make([]backend.AccountListEntry, len(w.accounts))
	for i, a := range w.accounts {
		entries[i] = backend.AccountListEntry{AccountID: a.id, IsPublic: a.public}
	}
	mem := e.allocFunc("account_list", func() { clear(entries) })
	return backend.AccountList{Entries: entries, Mem: mem}, backend.Success
}

// Account queries

func (e *Engine) GetBalance(h backend.Handle, id backend.Bytes32, isPublic bool) (backend.U128, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("get_balance")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.U128{}, code
	}
	book := e.public
	if !isPublic {
		if _, ok := w.owned(id, false); !ok {
			return backend.U128{}, backend.AccountNotFound
		}
		book = e.private
	}
	return e.balance(book, id), backend.Success
}

func (e *Engine) GetAccountPublic(h backend.Handle, id backend.Bytes32) (backend.Account, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("get_account_public")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.Account{}, code
	}
	var owner backend.Bytes32
	if a, ok := w.owned(id, true); ok && a.registered {
		owner = AuthenticatedTransferProgram
	}
	return e.account(owner, e.public, id, []byte{}), backend.Success
}

func (e *Engine) GetAccountPrivate(h backend.Handle, id backend.Bytes32) (backend.Account, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("get_account_private")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.Account{}, code
	}
	a, ok := w.owned(id, false)
	if !ok {
		return backend.Account{}, backend.AccountNotFound
	}
	npk := a.npk()
	return e.account(backend.Bytes32{}, e.private, id, npk[:]), backend.Success
}

// account builds a snapshot that takes ownership of data. Caller holds e.mu.
func (e *Engine) account(owner backend.Bytes32, book map[backend.Bytes32]*big.Int, id backend.Bytes32, data []byte) backend.Account {
	return backend.Account{
		ProgramOwner: owner,
		Balance:      e.balance(book, id),
		Nonce:        backend.U128(codec.AmountFromUint64(e.nonces[id])),
		Data:         data,
		Mem:          e.alloc("account", data),
	}
}

func (e *Engine) GetPublicAccountKey(h backend.Handle, id backend.Bytes32) (backend.Bytes32, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("get_public_account_key")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.Bytes32{}, code
	}
	a, ok := w.owned(id, true)
	if !ok {
		return backend.Bytes32{}, backend.KeyNotFound
	}
	return backend.Bytes32(schnorr.SerializePubKey(a.signing.PubKey())), backend.Success
}

func (e *Engine) GetPrivateAccountKeys(h backend.Handle, id backend.Bytes32) (backend.PrivateAccountKeys, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("get_private_account_keys")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.PrivateAccountKeys{}, code
	}
	a, ok := w.owned(id, false)
	if !ok {
		return backend.PrivateAccountKeys{}, backend.KeyNotFound
	}
	vpk := a.vpk()
	return backend.PrivateAccountKeys{
		NullifierPublicKey: a.npk(),
		ViewingPublicKey:   vpk,
		Mem:                e.alloc("private_account_keys", vpk),
	}, backend.Success
}

// Account encoding

func (e *Engine) AccountIDToBase58(id backend.Bytes32) backend.Text {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("account_id_to_base58")
	text := []byte(base58.Encode(id[:]))
	return backend.Text{Bytes: text, Mem: e.alloc("string", text)}
}

func (e *Engine) AccountIDFromBase58(text string) (backend.Bytes32, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("account_id_from_base58")
	raw, err := base58.Decode(text)
	if err != nil || len(raw) != len(backend.Bytes32{}) {
		return backend.Bytes32{}, backend.InvalidAccountID
	}
	return backend.Bytes32(raw), backend.Success
}

// Blockchain synchronisation

func (e *Engine) SyncToBlock(h backend.Handle, blockID uint64) backend.Code {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("sync_to_block")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return code
	}
	if blockID > e.height {
		return backend.SyncError
	}
	w.lastSynced = blockID
	return backend.Success
}

func (e *Engine) GetLastSyncedBlock(h backend.Handle) (uint64, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("get_last_synced_block")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return 0, code
	}
	return w.lastSynced, backend.Success
}

func (e *Engine) GetCurrentBlockHeight(h backend.Handle) (uint64, backend.Code) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("get_current_block_height")
	if _, code := e.walletFor(h); code != backend.Success {
		return 0, code
	}
	return e.height, backend.Success
}

// Configuration

func (e *Engine) SequencerAddr(h backend.Handle) backend.Text {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.record("get_sequencer_addr")
	w, code := e.walletFor(h)
	if code != backend.Success {
		return backend.Text{Null: true}
	}
	text := []byte(w.sequencerAddr)
	return backend.Text{Bytes: text, Mem: e.alloc("string", text)}
}

// Balance bookkeeping. Callers hold e.mu.

func (e *Engine) balance(book map[backend.Bytes32]*big.Int, id backend.Bytes32) backend.U128 {
	bal := book[id]
	if bal == nil {
		return backend.U128{}
	}
	a, err := codec.AmountFromBig(bal)
	if err != nil {
		return backend.U128{}
	}
	return backend.U128(a)
}

func (e *Engine) credit(book map[backend.Bytes32]*big.Int, id backend.Bytes32, amt *big.Int) bool {
	sum := new(big.Int).Add(amt, zeroIfNil(book[id]))
	if _, err := codec.AmountFromBig(sum); err != nil {
		return false
	}
	book[id] = sum
	return true
}

func (e *Engine) debit(book map[backend.Bytes32]*big.Int, id backend.Bytes32, amt *big.Int) bool {
	bal := zeroIfNil(book[id])
	if bal.Cmp(amt) < 0 {
		return false
	}
	book[id] = new(big.Int).Sub(bal, amt)
	return true
}

func zeroIfNil(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

// txHash derives a transaction hash from the block it lands in and its
// arguments.
func txHash(name string, height uint64, parts ...[]byte) []byte {
	h := sha256.New()
	h.Write([]byte(name))
	var n [8]byte
	binary.LittleEndian.PutUint64(n[:], height)
	h.Write(n[:])
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
