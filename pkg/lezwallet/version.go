package lezwallet

import "github.com/logos-co/lez-wallet-go/pkg/lezwallet/internal/backend"

var (
	Version     = "v0.0.0-in-progress"
	UpstreamSHA = "unknown"
	UpstreamDir = "wallet-ffi"
)

// WrapperVersion returns the semantic version populated at build time via
// ldflags. In development it defaults to v0.0.0-in-progress.
func WrapperVersion() string {
	return Version
}

// UpstreamVersion returns the pinned wallet-ffi commit when the native engine
// is linked, and "unlinked" otherwise.
func UpstreamVersion() string {
	if !backend.Linked() {
		return "unlinked"
	}
	return UpstreamSHA
}
