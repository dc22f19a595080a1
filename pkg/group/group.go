// Package group adapts the ristretto255 prime-order group for the signing
// core. It exposes exactly the arithmetic the ring construction needs and
// keeps every encoding canonical: decoding rejects any 32-byte string that is
// not the unique representation of a scalar or group element.
package group

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/gtank/ristretto255"
)

const (
	// ScalarSize is the canonical encoded width of a scalar in bytes.
	ScalarSize = 32
	// ElementSize is the canonical encoded width of a group element in bytes.
	ElementSize = 32
	// UniformSize is the number of uniform random bytes reduced into a scalar.
	UniformSize = 64
)

var ErrMalformedEncoding = errors.New("bytes are not a canonical group encoding")

// Scalar is an integer modulo the ristretto255 group order. Arithmetic on
// scalars is constant-time in the underlying library.
type Scalar struct {
	s *ristretto255.Scalar
}

// Element is a point in the ristretto255 group.
type Element struct {
	e *ristretto255.Element
}

// NewRandomScalar samples a uniformly distributed scalar from rand.
func NewRandomScalar(rand io.Reader) (*Scalar, error) {
	var buf [UniformSize]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return nil, fmt.Errorf("sample scalar: %w", err)
	}
	s, err := ristretto255.NewScalar().SetUniformBytes(buf[:])
	if err != nil {
		return nil, fmt.Errorf("sample scalar: %w", err)
	}
	zeroBytes(buf[:])
	return &Scalar{s: s}, nil
}

// ScalarFromHash reduces a 64-byte hash digest into a scalar.
func ScalarFromHash(digest []byte) (*Scalar, error) {
	if len(digest) != UniformSize {
		return nil, fmt.Errorf("%w: scalar-from-hash needs %d bytes, got %d", ErrMalformedEncoding, UniformSize, len(digest))
	}
	s, err := ristretto255.NewScalar().SetUniformBytes(digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return &Scalar{s: s}, nil
}

// DecodeScalar parses a canonical 32-byte scalar encoding. Values at or above
// the group order are rejected.
func DecodeScalar(b []byte) (*Scalar, error) {
	if len(b) != ScalarSize {
		return nil, fmt.Errorf("%w: scalar must be %d bytes, got %d", ErrMalformedEncoding, ScalarSize, len(b))
	}
	s, err := ristretto255.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return &Scalar{s: s}, nil
}

// Bytes returns the canonical 32-byte little-endian encoding.
func (s *Scalar) Bytes() []byte {
	return s.s.Bytes()
}

// Equal reports whether two scalars hold the same value, in constant time.
func (s *Scalar) Equal(t *Scalar) bool {
	return s.s.Equal(t.s) == 1
}

// Zeroize overwrites the scalar with zero. Call it on every exit path that
// handled secret material.
func (s *Scalar) Zeroize() {
	if _, err := s.s.SetCanonicalBytes(make([]byte, ScalarSize)); err != nil {
		panic(fmt.Sprintf("group: zeroize failed: %v", err))
	}
}

// MulScalars returns a*b mod the group order.
func MulScalars(a, b *Scalar) *Scalar {
	return &Scalar{s: ristretto255.NewScalar().Multiply(a.s, b.s)}
}

// SubScalars returns a-b mod the group order.
func SubScalars(a, b *Scalar) *Scalar {
	return &Scalar{s: ristretto255.NewScalar().Subtract(a.s, b.s)}
}

// ScalarBaseMult returns s*G for the group generator G.
func ScalarBaseMult(s *Scalar) *Element {
	return &Element{e: ristretto255.NewIdentityElement().ScalarBaseMult(s.s)}
}

// ScalarMult returns s*e.
func ScalarMult(s *Scalar, e *Element) *Element {
	return &Element{e: ristretto255.NewIdentityElement().ScalarMult(s.s, e.e)}
}

// AddElements returns a+b.
func AddElements(a, b *Element) *Element {
	return &Element{e: ristretto255.NewIdentityElement().Add(a.e, b.e)}
}

// DecodeElement parses a canonical 32-byte element encoding, rejecting any
// byte string that is not a valid ristretto255 point.
func DecodeElement(b []byte) (*Element, error) {
	if len(b) != ElementSize {
		return nil, fmt.Errorf("%w: element must be %d bytes, got %d", ErrMalformedEncoding, ElementSize, len(b))
	}
	e, err := ristretto255.NewIdentityElement().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return &Element{e: e}, nil
}

// Bytes returns the canonical 32-byte encoding.
func (e *Element) Bytes() []byte {
	return e.e.Bytes()
}

// Equal reports whether two elements are the same point.
func (e *Element) Equal(o *Element) bool {
	return e.e.Equal(o.e) == 1
}

// HasDuplicates reports whether any two elements share a canonical encoding.
func HasDuplicates(elems []*Element) bool {
	for i := range elems {
		for j := i + 1; j < len(elems); j++ {
			if bytes.Equal(elems[i].Bytes(), elems[j].Bytes()) {
				return true
			}
		}
	}
	return false
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
