// Package z85 wraps the block-oriented Z85 codec with a deterministic
// padding scheme so that byte strings of any length round-trip through a
// single printable line.
//
// Z85 itself only handles input whose length is a multiple of four. Encoded
// output here is the Z85 encoding of the zero-padded input followed by one
// trailing character ('0'..'3') naming the pad count. Decoding rejects any
// character outside the Z85 alphabet, a bad pad marker, and nonzero padding
// bytes, so the encoding stays injective.
package z85

import (
	"errors"
	"fmt"

	"github.com/tilinna/z85"
)

var ErrInvalidEncoding = errors.New("invalid z85 data")

// EncodeToString encodes data of arbitrary length into a single Z85 line
// with a trailing pad-count character.
func EncodeToString(data []byte) string {
	pad := (4 - len(data)%4) % 4
	padded := make([]byte, len(data)+pad)
	copy(padded, data)

	out := make([]byte, z85.EncodedLen(len(padded))+1)
	if _, err := z85.Encode(out[:len(out)-1], padded); err != nil {
		// Input length is block-aligned by construction.
		panic(fmt.Sprintf("z85: encode of aligned input failed: %v", err))
	}
	out[len(out)-1] = byte('0' + pad)
	return string(out)
}

// DecodeString reverses EncodeToString.
func DecodeString(s string) ([]byte, error) {
	if len(s) < 1 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidEncoding)
	}
	padChar := s[len(s)-1]
	if padChar < '0' || padChar > '3' {
		return nil, fmt.Errorf("%w: bad pad marker %q", ErrInvalidEncoding, padChar)
	}
	pad := int(padChar - '0')

	body := []byte(s[:len(s)-1])
	if len(body)%5 != 0 {
		return nil, fmt.Errorf("%w: length %d is not block-aligned", ErrInvalidEncoding, len(body))
	}
	decoded := make([]byte, z85.DecodedLen(len(body)))
	if _, err := z85.Decode(decoded, body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if pad > len(decoded) {
		return nil, fmt.Errorf("%w: pad count exceeds payload", ErrInvalidEncoding)
	}
	for _, b := range decoded[len(decoded)-pad:] {
		if b != 0 {
			return nil, fmt.Errorf("%w: nonzero padding", ErrInvalidEncoding)
		}
	}
	return decoded[:len(decoded)-pad], nil
}

// EncodeBlock encodes data whose length is already a multiple of four,
// without a pad marker. Used for fixed-width values such as fingerprints.
func EncodeBlock(data []byte) string {
	if len(data)%4 != 0 {
		panic("z85: EncodeBlock requires block-aligned input")
	}
	out := make([]byte, z85.EncodedLen(len(data)))
	if _, err := z85.Encode(out, data); err != nil {
		panic(fmt.Sprintf("z85: encode of aligned input failed: %v", err))
	}
	return string(out)
}
