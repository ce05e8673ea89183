package simengine

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/argon2"

	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/codec"
	"github.com/logos-co/lez-wallet-go/pkg/lezwallet/internal/backend"
)

// DefaultSequencerAddr is used when no config file is given or the file does
// not name a sequencer.
const DefaultSequencerAddr = "http://127.0.0.1:3040"

const fileVersion = 1

// Argon2id parameters for the password verifier.
const (
	argonTime    = 1
	argonMemory  = 19 * 1024
	argonThreads = 1
	argonKeyLen  = 32
	saltLen      = 16
)

type walletFile struct {
	Version    int           `json:"version"`
	Salt       string        `json:"salt"`
	Verifier   string        `json:"verifier"`
	LastSynced uint64        `json:"last_synced_block"`
	Accounts   []accountFile `json:"accounts"`
}

type accountFile struct {
	Public     bool   `json:"public"`
	Secret     string `json:"secret"`
	Viewing    string `json:"viewing,omitempty"`
	Registered bool   `json:"registered"`
}

// loadConfig reads the sequencer address from the JSON config at path. An
// empty path selects the defaults.
func loadConfig(path string) (string, error) {
	if path == "" {
		return DefaultSequencerAddr, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if !gjson.ValidBytes(raw) {
		return "", fmt.Errorf("config %s: invalid json", path)
	}
	addr := gjson.GetBytes(raw, "sequencer_addr")
	switch {
	case !addr.Exists():
		return DefaultSequencerAddr, nil
	case addr.Type != gjson.String || addr.Str == "":
		return "", fmt.Errorf("config %s: sequencer_addr must be a non-empty string", path)
	}
	return addr.Str, nil
}

func newVerifier(password []byte) (salt, verifier []byte, err error) {
	salt = make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, nil, err
	}
	return salt, argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen), nil
}

// checkPassword reports whether password matches the verifier stored with w.
func (w *wallet) checkPassword(password []byte) bool {
	got := argon2.IDKey(password, w.salt, argonTime, argonMemory, argonThreads, argonKeyLen)
	return subtle.ConstantTimeCompare(got, w.verifier) == 1
}

func (w *wallet) save() error {
	f := walletFile{
		Version:    fileVersion,
		Salt:       codec.EncodeHex(w.salt),
		Verifier:   codec.EncodeHex(w.verifier),
		LastSynced: w.lastSynced,
		Accounts:   make([]accountFile, 0, len(w.accounts)),
	}
	for _, a := range w.accounts {
		af := accountFile{Public: a.public, Registered: a.registered}
		if a.public {
			af.Secret = codec.EncodeHex(a.signing.Serialize())
		} else {
			af.Secret = codec.EncodeHex(a.nsk[:])
			af.Viewing = codec.EncodeHex(a.viewing.Serialize())
		}
		f.Accounts = append(f.Accounts, af)
	}
	raw, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(w.storagePath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(w.storagePath, raw, 0o600)
}

var errFileVersion = errors.New("unsupported wallet file version")

func loadWallet(storagePath string) (*wallet, error) {
	raw, err := os.ReadFile(storagePath)
	if err != nil {
		return nil, err
	}
	var f walletFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if f.Version != fileVersion {
		return nil, errFileVersion
	}
	w := newWallet(storagePath)
	if w.salt, err = codec.DecodeHex(f.Salt, saltLen); err != nil {
		return nil, err
	}
	if w.verifier, err = codec.DecodeHex(f.Verifier, argonKeyLen); err != nil {
		return nil, err
	}
	w.lastSynced = f.LastSynced

	for i, af := range f.Accounts {
		secret, err := codec.DecodeHex(af.Secret, 32)
		if err != nil {
			return nil, fmt.Errorf("account %d: %w", i, err)
		}
		var a *account
		if af.Public {
			priv, _ := btcec.PrivKeyFromBytes(secret)
			a = newPublicAccount(priv)
		} else {
			view, err := codec.DecodeHex(af.Viewing, 32)
			if err != nil {
				return nil, fmt.Errorf("account %d: %w", i, err)
			}
			priv, _ := btcec.PrivKeyFromBytes(view)
			a = newPrivateAccount([32]byte(secret), priv)
		}
		a.registered = af.Registered
		w.add(a)
	}
	return w, nil
}

// account is a key pair held by a wallet. Public accounts sign with a
// secp256k1 key and are identified by the hash of its x-only public key.
// Private accounts are identified by the hash of their nullifier public key
// and receive through a secp256k1 viewing key.
type account struct {
	id         backend.Bytes32
	public     bool
	registered bool

	signing *btcec.PrivateKey

	nsk     [32]byte
	viewing *btcec.PrivateKey
}

func newPublicAccount(priv *btcec.PrivateKey) *account {
	return &account{id: publicID(priv.PubKey()), public: true, signing: priv}
}

func newPrivateAccount(nsk [32]byte, viewing *btcec.PrivateKey) *account {
	a := &account{public: false, nsk: nsk, viewing: viewing}
	a.id = privateID(a.npk())
	return a
}

func (a *account) npk() backend.Bytes32 { return sha256.Sum256(a.nsk[:]) }

func (a *account) vpk() []byte { return a.viewing.PubKey().SerializeCompressed() }

func generatePublic() (*account, error) {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return newPublicAccount(priv), nil
}

func generatePrivate() (*account, error) {
	var nsk [32]byte
	if _, err := rand.Read(nsk[:]); err != nil {
		return nil, err
	}
	view, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return newPrivateAccount(nsk, view), nil
}

// wallet is the per-handle state.
type wallet struct {
	storagePath   string
	sequencerAddr string
	salt          []byte
	verifier      []byte
	lastSynced    uint64
	accounts      []*account
	byID          map[backend.Bytes32]*account
}

func newWallet(storagePath string) *wallet {
	return &wallet{storagePath: storagePath, byID: make(map[backend.Bytes32]*account)}
}

func (w *wallet) add(a *account) {
	w.accounts = append(w.accounts, a)
	w.byID[a.id] = a
}

// owned returns the wallet's account id with the given visibility.
func (w *wallet) owned(id backend.Bytes32, public bool) (*account, bool) {
	a, ok := w.byID[id]
	if !ok || a.public != public {
		return nil, false
	}
	return a, true
}
