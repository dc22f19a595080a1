// Package zebra is the boundary facade of the signing core. Collaborating
// layers (a UI, a service) work in raw text: they hand this package key text
// and message text and get back envelope text and verification results,
// without touching group elements or packed signatures directly.
package zebra

import (
	"crypto/rand"
	"errors"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"zebra-sign/go-core/pkg/envelope"
	"zebra-sign/go-core/pkg/keys"
	"zebra-sign/go-core/pkg/ring"
)

// Result is the outcome of VerifyEnvelope for a document that parsed. Valid
// means the ring signature and every member attestation checked out; Message
// and Ring are extracted either way so a caller can show the user what was
// claimed even when the claim is false.
type Result struct {
	Valid   bool
	Message string
	Ring    []*keys.PublicKey
}

// Service exposes the boundary operations. The zero value is usable; options
// attach an entropy source other than crypto/rand or a metrics registry.
type Service struct {
	rand    io.Reader
	metrics *metrics
}

// Option configures a Service.
type Option func(*Service)

// WithRand overrides the entropy source. Meant for deterministic tests;
// production callers keep the default crypto/rand.Reader.
func WithRand(r io.Reader) Option {
	return func(s *Service) { s.rand = r }
}

// WithRegisterer registers the service's counters with reg. Without this
// option the service records nothing.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(s *Service) { s.metrics = newMetrics(reg) }
}

// NewService builds a Service with the given options applied.
func NewService(opts ...Option) *Service {
	s := &Service{rand: rand.Reader}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateKey samples a fresh keypair whose certificate attests to the given
// name and email.
func (s *Service) GenerateKey(name, email string) (*keys.PrivateKey, *keys.PublicKey, error) {
	holder, err := keys.NewIdentity(name, email)
	if err != nil {
		return nil, nil, err
	}
	return keys.Generate(s.entropy(), holder)
}

// RecoverKey re-derives the keypair for holder identity name/email from a
// BIP-39 mnemonic. The same phrase and identity always yield the same
// certificate.
func (s *Service) RecoverKey(name, email, mnemonic string) (*keys.PrivateKey, *keys.PublicKey, error) {
	holder, err := keys.NewIdentity(name, email)
	if err != nil {
		return nil, nil, err
	}
	return keys.FromMnemonic(holder, mnemonic)
}

// ExportPublicKey renders the single-line text form of a certificate.
func (s *Service) ExportPublicKey(pub *keys.PublicKey) string {
	return pub.String()
}

// ImportPublicKey parses certificate text and verifies its attestation.
func (s *Service) ImportPublicKey(text string) (*keys.PublicKey, error) {
	pub, err := keys.ParsePublicKey(text)
	if err != nil {
		s.metrics.countImport(false)
		return nil, err
	}
	s.metrics.countImport(true)
	return pub, nil
}

// Fingerprint renders the display fingerprint of a certificate.
func (s *Service) Fingerprint(pub *keys.PublicKey) string {
	return pub.Fingerprint()
}

// SignMessage signs message with priv, which must be the holder of
// ringCerts[signerIndex], and returns the envelope text. The caller supplies
// the ring explicitly, including the signer's own certificate; the envelope
// orders members canonically so the output does not leak the signer's
// position.
func (s *Service) SignMessage(message string, ringCerts []*keys.PublicKey, priv *keys.PrivateKey, signerIndex int) (string, error) {
	if signerIndex < 0 || signerIndex >= len(ringCerts) {
		s.metrics.countSign(false)
		return "", ring.ErrSignerIndex
	}
	if !ringCerts[signerIndex].Equal(priv.Public()) {
		s.metrics.countSign(false)
		return "", ring.ErrNotInRing
	}
	signed, err := envelope.Sign(s.entropy(), message, priv, ringCerts)
	if err != nil {
		s.metrics.countSign(false)
		return "", err
	}
	s.metrics.countSign(true)
	return signed.Format(), nil
}

// VerifyEnvelope parses envelope text and checks the signature. A document
// that does not parse is an error; a document that parses but fails the
// cryptographic check is a Result with Valid false.
func (s *Service) VerifyEnvelope(text string) (*Result, error) {
	signed, err := envelope.Parse(text)
	if err != nil {
		if errors.Is(err, envelope.ErrParse) {
			s.metrics.countParseFailure()
		}
		return nil, err
	}
	valid := signed.Verify()
	s.metrics.countVerify(valid)
	return &Result{Valid: valid, Message: signed.Message(), Ring: signed.Ring()}, nil
}

func (s *Service) entropy() io.Reader {
	if s.rand != nil {
		return s.rand
	}
	return rand.Reader
}
