package lezwallet

import "github.com/logos-co/lez-wallet-go/pkg/lezwallet/ownership"

// ZeroizeBytes overwrites buf with zeros. Callers holding a password or key
// material in a byte slice should zeroize it once the Session call returns;
// the Session already zeroizes its own copies.
func ZeroizeBytes(buf []byte) {
	ownership.ZeroizeBytes(buf)
}
