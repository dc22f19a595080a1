package ring

import (
	"fmt"

	"zebra-sign/go-core/pkg/group"
)

// Pack serializes a signature into its fixed layout:
// challenge || response[0] || ... || response[n-1], 32*(n+1) bytes total.
func Pack(sig *Signature) []byte {
	out := make([]byte, 0, group.ScalarSize*(len(sig.responses)+1))
	out = append(out, sig.challenge.Bytes()...)
	for _, r := range sig.responses {
		out = append(out, r.Bytes()...)
	}
	return out
}

// Unpack parses a packed signature for a ring of the given size. The length
// must match exactly, and every 32-byte slice must decode to a canonical
// scalar.
func Unpack(b []byte, ringSize int) (*Signature, error) {
	if ringSize < 1 {
		return nil, ErrRingSize
	}
	want := group.ScalarSize * (ringSize + 1)
	if len(b) != want {
		return nil, fmt.Errorf("%w: have %d bytes, want %d for ring of %d", ErrTruncatedData, len(b), want, ringSize)
	}

	challenge, err := group.DecodeScalar(b[:group.ScalarSize])
	if err != nil {
		return nil, err
	}
	responses := make([]*group.Scalar, ringSize)
	for i := range responses {
		off := group.ScalarSize * (i + 1)
		responses[i], err = group.DecodeScalar(b[off : off+group.ScalarSize])
		if err != nil {
			return nil, err
		}
	}
	return &Signature{challenge: challenge, responses: responses}, nil
}
