package keys

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"zebra-sign/go-core/pkg/group"
	"zebra-sign/go-core/pkg/ring"
)

// AttestationSize is the serialized width of a holder attestation:
// challenge (32) || member count (4, little-endian) || keypoint (32) ||
// response (32). The count is always 1 today; it keeps the layout open for
// multi-member attestations without a format break.
const AttestationSize = group.ScalarSize + 4 + group.ElementSize + group.ScalarSize

// maxIdentityField bounds name/email lengths when decoding, so a corrupt
// length prefix cannot drive allocation.
const maxIdentityField = 1 << 16

// MarshalBinary returns the canonical byte serialization of the certificate:
// length-prefixed name and email, the version discriminant, the keypoint, and
// the attestation. Fingerprints and the envelope wire format both hash or
// embed exactly these bytes.
func (k *PublicKey) MarshalBinary() []byte {
	name := []byte(k.holder.Name)
	email := []byte(k.holder.Email)
	out := make([]byte, 0, 4+len(name)+4+len(email)+1+group.ElementSize+AttestationSize)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(name)))
	out = append(out, name...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(email)))
	out = append(out, email...)
	out = append(out, versionByte)
	out = append(out, k.keypoint.Bytes()...)
	out = append(out, k.attestationBytes()...)
	return out
}

func (k *PublicKey) attestationBytes() []byte {
	out := make([]byte, 0, AttestationSize)
	out = append(out, k.attestation.Challenge().Bytes()...)
	out = binary.LittleEndian.AppendUint32(out, 1)
	out = append(out, k.keypoint.Bytes()...)
	out = append(out, k.attestation.Responses()[0].Bytes()...)
	return out
}

// decodeAttestation parses the fixed attestation layout and checks that the
// embedded keypoint matches the certificate's own.
func decodeAttestation(b []byte, keypoint *group.Element) (*ring.Signature, error) {
	if len(b) != AttestationSize {
		return nil, fmt.Errorf("%w: attestation must be %d bytes, got %d", ErrParse, AttestationSize, len(b))
	}
	challenge, err := group.DecodeScalar(b[:group.ScalarSize])
	if err != nil {
		return nil, fmt.Errorf("%w: attestation challenge: %v", ErrParse, err)
	}
	rest := b[group.ScalarSize:]
	if binary.LittleEndian.Uint32(rest[:4]) != 1 {
		return nil, fmt.Errorf("%w: attestation must have exactly one member", ErrParse)
	}
	rest = rest[4:]
	if !bytes.Equal(rest[:group.ElementSize], keypoint.Bytes()) {
		return nil, fmt.Errorf("%w: attestation keypoint does not match certificate", ErrParse)
	}
	response, err := group.DecodeScalar(rest[group.ElementSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: attestation response: %v", ErrParse, err)
	}
	return ring.NewSignature(challenge, []*group.Scalar{response}), nil
}

// UnmarshalPublicKey consumes one canonical certificate from the front of b
// and returns it together with the unconsumed remainder. It validates the
// structure and identity invariants but not the attestation; callers decide
// when the cryptographic check happens.
func UnmarshalPublicKey(b []byte) (*PublicKey, []byte, error) {
	name, b, err := readIdentityField(b, "name")
	if err != nil {
		return nil, nil, err
	}
	email, b, err := readIdentityField(b, "email")
	if err != nil {
		return nil, nil, err
	}
	holder, err := NewIdentity(string(name), string(email))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if len(b) < 1 || b[0] != versionByte {
		return nil, nil, fmt.Errorf("%w: unknown certificate version", ErrParse)
	}
	b = b[1:]

	if len(b) < group.ElementSize+AttestationSize {
		return nil, nil, fmt.Errorf("%w: certificate truncated", ErrParse)
	}
	keypoint, err := group.DecodeElement(b[:group.ElementSize])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: keypoint: %v", ErrParse, err)
	}
	b = b[group.ElementSize:]

	attestation, err := decodeAttestation(b[:AttestationSize], keypoint)
	if err != nil {
		return nil, nil, err
	}
	b = b[AttestationSize:]

	return &PublicKey{holder: holder, keypoint: keypoint, attestation: attestation}, b, nil
}

func readIdentityField(b []byte, field string) ([]byte, []byte, error) {
	if len(b) < 4 {
		return nil, nil, fmt.Errorf("%w: %s length truncated", ErrParse, field)
	}
	n := binary.LittleEndian.Uint32(b[:4])
	if n > maxIdentityField {
		return nil, nil, fmt.Errorf("%w: %s length %d exceeds limit", ErrParse, field, n)
	}
	b = b[4:]
	if uint32(len(b)) < n {
		return nil, nil, fmt.Errorf("%w: %s truncated", ErrParse, field)
	}
	return b[:n], b[n:], nil
}
