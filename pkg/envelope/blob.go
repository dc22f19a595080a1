package envelope

import (
	"encoding/binary"
	"fmt"

	"zebra-sign/go-core/pkg/keys"
	"zebra-sign/go-core/pkg/ring"
)

// The signature line carries more than the packed signature: the display
// lines name the ring members but cannot reconstruct their keypoints, so the
// full certificates travel in the blob and the display lines are checked
// against them. Layout:
//
//	member count (4, little-endian) || cert[0] || ... || cert[n-1] || packed signature
//
// where the packed signature is the fixed 32*(n+1)-byte layout from pkg/ring.

func (m *SignedMessage) encodeBlob() []byte {
	out := binary.LittleEndian.AppendUint32(nil, uint32(len(m.members)))
	for _, k := range m.members {
		out = append(out, k.MarshalBinary()...)
	}
	return append(out, ring.Pack(m.sig)...)
}

func decodeBlob(b []byte) ([]*keys.PublicKey, *ring.Signature, error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("%w: signature blob truncated", ErrParse)
	}
	n := binary.LittleEndian.Uint32(b[:4])
	if n < 1 || n > maxRingSize {
		return nil, nil, fmt.Errorf("%w: ring size %d out of range", ErrParse, n)
	}
	b = b[4:]

	members := make([]*keys.PublicKey, n)
	for i := range members {
		var err error
		members[i], b, err = keys.UnmarshalPublicKey(b)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: certificate %d: %v", ErrParse, i, err)
		}
	}

	// Unpack insists on the exact remaining length, so trailing garbage in
	// the blob fails here.
	sig, err := ring.Unpack(b, int(n))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: packed signature: %v", ErrParse, err)
	}
	return members, sig, nil
}
