package ownership

import "runtime"

// ZeroizeBytes overwrites buf with zeros. runtime.KeepAlive keeps the stores
// from being eliminated (golang/go#33325). Copies made elsewhere are not
// reached.
func ZeroizeBytes(buf []byte) {
	clear(buf)
	runtime.KeepAlive(buf)
}
