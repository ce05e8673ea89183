// Package codec translates between the caller-facing text forms of wallet
// values and the fixed-size binary records the engine consumes.
//
// Hex text is accepted case-insensitively, with optional surrounding
// whitespace and an optional 0x prefix, and is always emitted lowercase
// without a prefix. Records encode to JSON objects with a fixed key set;
// empty optional binary fields encode as "" rather than null or an omitted
// key.
//
// Decoding is lenient on key order and strict on value shape: every present
// field must be a JSON value of the expected type and, for hex fields, of the
// expected decoded length. Missing optional fields decode as empty.
package codec
