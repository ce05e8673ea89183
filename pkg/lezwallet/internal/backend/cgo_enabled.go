//go:build cgo

package backend

const cgoEnabled = true
