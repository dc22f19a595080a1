// Package keys implements the identity and certificate model: public-key
// certificates that attest to their own holder identity, the private keys
// that produce them, fingerprints for human comparison, and the single-line
// text format used to exchange certificates.
package keys

import (
	"bytes"
	"io"

	"github.com/mr-tron/base58/base58"
	"golang.org/x/crypto/sha3"

	"zebra-sign/go-core/internal/z85"
	"zebra-sign/go-core/pkg/group"
	"zebra-sign/go-core/pkg/ring"
)

// VersionTag names the protocol revision embedded in every certificate and
// envelope. Process-wide constant; bump it only with a format change.
const VersionTag = "Zebra 1.0 Beta"

// versionByte is the wire discriminant for VersionTag in the canonical
// certificate serialization.
const versionByte = 0x00

// PublicKey is a complete certificate: holder identity, version, keypoint,
// and the holder attestation. A constructed or parsed PublicKey's attestation
// may not be valid; check VerifyAttestation before trusting the identity
// binding.
type PublicKey struct {
	holder      Identity
	keypoint    *group.Element
	attestation *ring.Signature
}

// Holder returns the claimed identity.
func (k *PublicKey) Holder() Identity {
	return k.holder
}

// Keypoint returns the certificate's group element.
func (k *PublicKey) Keypoint() *group.Element {
	return k.keypoint
}

// VerifyAttestation reports whether the holder attestation is a valid
// self-signature over this certificate's identity and keypoint. An invalid
// attestation is an expected, recoverable outcome during ring verification,
// so this returns false rather than an error.
func (k *PublicKey) VerifyAttestation() bool {
	if k.attestation.Size() != 1 {
		return false
	}
	payload := attestationPayload(k.holder, k.keypoint)
	return ring.Verify(k.attestation, []*group.Element{k.keypoint}, payload)
}

// Fingerprint returns the human-comparable digest of the certificate:
// SHA3-256 of the canonical serialization, Z85-encoded, split into four
// 10-character groups. Identical certificates always produce identical
// fingerprints; any field change produces a different one.
func (k *PublicKey) Fingerprint() string {
	sum := sha3.Sum256(k.MarshalBinary())
	enc := z85.EncodeBlock(sum[:])
	return enc[0:10] + " " + enc[10:20] + " " + enc[20:30] + " " + enc[30:40]
}

// KeyID returns a short base58 handle for the keypoint, for logs and lookup
// tables. It covers only the keypoint, not the identity, and is not a
// substitute for Fingerprint when humans compare certificates.
func (k *PublicKey) KeyID() string {
	sum := sha3.Sum256(k.keypoint.Bytes())
	return "zebra1" + base58.Encode(sum[:])
}

// Equal reports whether two certificates serialize identically.
func (k *PublicKey) Equal(o *PublicKey) bool {
	return bytes.Equal(k.MarshalBinary(), o.MarshalBinary())
}

// PrivateKey holds the secret scalar together with the holder identity and
// the attestation cached at creation time, so one keypair always exports one
// canonical certificate. Private keys live in memory only; persisting them is
// a collaborator's concern, and callers should Zeroize them when done.
type PrivateKey struct {
	holder      Identity
	secret      *group.Scalar
	attestation *ring.Signature
}

// Generate samples a fresh keypair for holder and attests the identity with
// it. rand is normally crypto/rand.Reader.
func Generate(rand io.Reader, holder Identity) (*PrivateKey, *PublicKey, error) {
	return newKeyPair(rand, holder)
}

func newKeyPair(rand io.Reader, holder Identity) (*PrivateKey, *PublicKey, error) {
	secret, err := group.NewRandomScalar(rand)
	if err != nil {
		return nil, nil, err
	}
	keypoint := group.ScalarBaseMult(secret)
	attestation, err := ring.Sign(rand, attestationPayload(holder, keypoint), []*group.Element{keypoint}, secret, 0)
	if err != nil {
		return nil, nil, err
	}
	priv := &PrivateKey{holder: holder, secret: secret, attestation: attestation}
	return priv, priv.Public(), nil
}

// Holder returns the key's identity.
func (p *PrivateKey) Holder() Identity {
	return p.holder
}

// Public returns the certificate for this private key.
func (p *PrivateKey) Public() *PublicKey {
	return &PublicKey{
		holder:      p.holder,
		keypoint:    group.ScalarBaseMult(p.secret),
		attestation: p.attestation,
	}
}

// SignRing produces a ring signature of message with this key at signerIndex
// of ringPoints. The secret scalar never leaves the PrivateKey.
func (p *PrivateKey) SignRing(rand io.Reader, message []byte, ringPoints []*group.Element, signerIndex int) (*ring.Signature, error) {
	return ring.Sign(rand, message, ringPoints, p.secret, signerIndex)
}

// Zeroize wipes the secret scalar. The key is unusable afterwards.
func (p *PrivateKey) Zeroize() {
	p.secret.Zeroize()
}
