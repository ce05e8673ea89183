package codec

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// DecodeSiblingList parses a JSON array of 32-byte hex hashes into one
// contiguous buffer of 32*N bytes in array order. A single bad element fails
// the whole list.
func DecodeSiblingList(text string) ([]byte, error) {
	if !gjson.Valid(text) {
		return nil, fieldError("siblings", fmt.Errorf("%w: invalid json", ErrMalformedJSON))
	}
	arr := gjson.Parse(text)
	if !arr.IsArray() {
		return nil, fieldError("siblings", fmt.Errorf("%w: expected array", ErrMalformedJSON))
	}
	items := arr.Array()
	buf := make([]byte, 0, len(items)*HashLen)
	for i, item := range items {
		field := fmt.Sprintf("siblings[%d]", i)
		if item.Type != gjson.String {
			return nil, fieldError(field, fmt.Errorf("%w: expected string", ErrMalformedJSON))
		}
		h, err := DecodeHex(item.Str, HashLen)
		if err != nil {
			return nil, fieldError(field, err)
		}
		buf = append(buf, h...)
	}
	return buf, nil
}

// EncodeSiblingList renders a contiguous hash buffer as a JSON array of hex
// strings.
func EncodeSiblingList(buf []byte) (string, error) {
	if len(buf)%HashLen != 0 {
		return "", fieldError("siblings", fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(buf), HashLen))
	}
	out := make([]string, 0, len(buf)/HashLen)
	for off := 0; off < len(buf); off += HashLen {
		out = append(out, EncodeHex(buf[off:off+HashLen]))
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Siblings splits a contiguous buffer into hashes. The buffer length must be
// a multiple of 32.
func Siblings(buf []byte) ([]Hash32, error) {
	if len(buf)%HashLen != 0 {
		return nil, fieldError("siblings", fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrInvalidLength, len(buf), HashLen))
	}
	out := make([]Hash32, len(buf)/HashLen)
	for i := range out {
		copy(out[i][:], buf[i*HashLen:])
	}
	return out, nil
}
