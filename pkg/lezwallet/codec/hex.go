package codec

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

// AnyLength disables the length check in DecodeHex.
const AnyLength = -1

const (
	AccountIDLen = 32
	AmountLen    = 16
	HashLen      = 32
)

// DecodeHex decodes text into bytes. Surrounding whitespace and a 0x or 0X
// prefix are ignored. When expectedLen is not AnyLength the decoded value must
// be exactly expectedLen bytes.
func DecodeHex(text string, expectedLen int) ([]byte, error) {
	s := strings.TrimSpace(text)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrInvalidFormat, len(s))
	}
	if expectedLen != AnyLength && len(s)/2 != expectedLen {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidLength, len(s)/2, expectedLen)
	}
	out := make([]byte, len(s)/2)
	if _, err := hex.Decode(out, []byte(s)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return out, nil
}

// EncodeHex returns the lowercase hex form of b without a prefix.
func EncodeHex(b []byte) string {
	return hex.EncodeToString(b)
}

// AccountID is a 32-byte account identifier.
type AccountID [AccountIDLen]byte

// DecodeAccountID parses a 64-character hex account identifier.
func DecodeAccountID(text string) (AccountID, error) {
	b, err := DecodeHex(text, AccountIDLen)
	if err != nil {
		return AccountID{}, fieldError("account_id", err)
	}
	return AccountID(b), nil
}

func (id AccountID) String() string { return EncodeHex(id[:]) }

// Hash32 is one 32-byte Merkle hash.
type Hash32 [HashLen]byte

func (h Hash32) String() string { return EncodeHex(h[:]) }

// Amount is an unsigned 128-bit integer stored little-endian.
type Amount [AmountLen]byte

// DecodeAmount parses a 32-character little-endian hex amount.
func DecodeAmount(text string) (Amount, error) {
	b, err := DecodeHex(text, AmountLen)
	if err != nil {
		return Amount{}, fieldError("amount", err)
	}
	return Amount(b), nil
}

// AmountFromUint64 returns v as an Amount.
func AmountFromUint64(v uint64) Amount {
	var a Amount
	binary.LittleEndian.PutUint64(a[:8], v)
	return a
}

var maxAmount = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// AmountFromBig converts v, which must lie in [0, 2^128-1].
func AmountFromBig(v *big.Int) (Amount, error) {
	if v == nil || v.Sign() < 0 || v.Cmp(maxAmount) > 0 {
		return Amount{}, fieldError("amount", fmt.Errorf("%w: value out of range", ErrInvalidLength))
	}
	var be [AmountLen]byte
	v.FillBytes(be[:])
	var a Amount
	for i := range be {
		a[i] = be[AmountLen-1-i]
	}
	return a, nil
}

// Big returns a as a big.Int.
func (a Amount) Big() *big.Int {
	var be [AmountLen]byte
	for i := range a {
		be[i] = a[AmountLen-1-i]
	}
	return new(big.Int).SetBytes(be[:])
}

// Uint64 returns the low 64 bits of a and whether the value fits.
func (a Amount) Uint64() (uint64, bool) {
	return binary.LittleEndian.Uint64(a[:8]), binary.LittleEndian.Uint64(a[8:]) == 0
}

func (a Amount) IsZero() bool { return a == Amount{} }

func (a Amount) String() string { return EncodeHex(a[:]) }
