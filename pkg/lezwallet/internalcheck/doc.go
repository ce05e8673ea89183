// Package internalcheck holds source-level policy tests for the lezwallet
// packages. It has no API.
package internalcheck
