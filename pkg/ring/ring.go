// Package ring implements an AOS-style ring signature over ristretto255:
// a signer proves knowledge of the secret scalar for exactly one position in
// an ordered ring of keypoints, without revealing which. Challenges are
// chained around the ring with SHA3-512; the stored challenge is the one at
// position zero, and verification succeeds when walking the full ring
// reproduces it bit for bit.
package ring

import (
	"io"

	"golang.org/x/crypto/sha3"

	"zebra-sign/go-core/pkg/group"
)

// chainDomain separates this construction's hashes from any other SHA3 use.
// It is a protocol constant; changing it invalidates every existing signature.
const chainDomain = "zebra.ring.v1"

// Signature is a ring signature: the anchor challenge plus one response
// scalar per ring member, in ring order. Signatures are immutable once
// created.
type Signature struct {
	challenge *group.Scalar
	responses []*group.Scalar
}

// NewSignature assembles a signature from decoded parts.
func NewSignature(challenge *group.Scalar, responses []*group.Scalar) *Signature {
	return &Signature{challenge: challenge, responses: responses}
}

// Challenge returns the anchor challenge scalar (position zero by convention).
func (s *Signature) Challenge() *group.Scalar {
	return s.challenge
}

// Responses returns the per-member response scalars in ring order.
func (s *Signature) Responses() []*group.Scalar {
	return s.responses
}

// Size returns the ring length the signature was produced for.
func (s *Signature) Size() int {
	return len(s.responses)
}

// Sign produces a ring signature of message by the holder of secret, whose
// keypoint sits at signerIndex in ring. Ring order is significant: it fixes
// both the challenge chain and the canonical byte serialization, so sign and
// verify must see the same order. rand supplies the nonce and the decoy
// responses; pass crypto/rand.Reader unless deterministic output is required.
func Sign(rand io.Reader, message []byte, ring []*group.Element, secret *group.Scalar, signerIndex int) (*Signature, error) {
	n := len(ring)
	if n < 1 {
		return nil, ErrRingSize
	}
	if signerIndex < 0 || signerIndex >= n {
		return nil, ErrSignerIndex
	}
	if group.HasDuplicates(ring) {
		return nil, ErrDuplicateKey
	}
	if !group.ScalarBaseMult(secret).Equal(ring[signerIndex]) {
		return nil, ErrNotInRing
	}

	base := baseHash(message, ring)

	a, err := group.NewRandomScalar(rand)
	if err != nil {
		return nil, err
	}
	defer a.Zeroize()

	challenges := make([]*group.Scalar, n)
	responses := make([]*group.Scalar, n)
	challenges[(signerIndex+1)%n] = chainChallenge(base, group.ScalarBaseMult(a))

	// Walk forward from the position after the signer. Each step consumes the
	// challenge already assigned to position i and emits the next one, so the
	// walk ends by assigning the signer's own challenge.
	for offset := 1; offset < n; offset++ {
		i := (signerIndex + offset) % n
		responses[i], err = group.NewRandomScalar(rand)
		if err != nil {
			return nil, err
		}
		commitment := group.AddElements(
			group.ScalarBaseMult(responses[i]),
			group.ScalarMult(challenges[i], ring[i]),
		)
		challenges[(i+1)%n] = chainChallenge(base, commitment)
	}

	// Close the ring: r = a - c*k. Without the secret this equation has no
	// solution, which is what makes the signature unforgeable.
	ck := group.MulScalars(challenges[signerIndex], secret)
	responses[signerIndex] = group.SubScalars(a, ck)
	ck.Zeroize()

	return &Signature{challenge: challenges[0], responses: responses}, nil
}

// Verify reports whether sig is a valid signature of message under the given
// ring, in the given order. It is strictly boolean and reveals nothing about
// the signer's position. Structural mismatches (wrong response count,
// duplicated keypoints) verify as false rather than erroring, since callers
// treat an invalid signature as a normal outcome.
func Verify(sig *Signature, ring []*group.Element, message []byte) bool {
	if sig == nil || len(ring) == 0 || len(sig.responses) != len(ring) {
		return false
	}
	if group.HasDuplicates(ring) {
		return false
	}

	base := baseHash(message, ring)
	candidate := sig.challenge
	for i, keypoint := range ring {
		commitment := group.AddElements(
			group.ScalarBaseMult(sig.responses[i]),
			group.ScalarMult(candidate, keypoint),
		)
		candidate = chainChallenge(base, commitment)
	}
	return candidate.Equal(sig.challenge)
}

// baseHash binds the exact message bytes and the exact ordered keypoint set.
// Every challenge in the chain re-mixes this digest, so a signature cannot be
// replayed against a different message or a reordered ring.
func baseHash(message []byte, ring []*group.Element) []byte {
	h := sha3.New512()
	h.Write([]byte(chainDomain))
	h.Write(message)
	for _, keypoint := range ring {
		h.Write(keypoint.Bytes())
	}
	return h.Sum(nil)
}

func chainChallenge(base []byte, commitment *group.Element) *group.Scalar {
	h := sha3.New512()
	h.Write(base)
	h.Write(commitment.Bytes())
	s, err := group.ScalarFromHash(h.Sum(nil))
	if err != nil {
		// SHA3-512 digests are always 64 bytes.
		panic(err)
	}
	return s
}
