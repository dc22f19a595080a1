package keys

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// hkdfInfoSigning versions the derivation so a future scheme change cannot
// silently produce the same scalars.
const hkdfInfoSigning = "zebra/keys/signing/v1"

// mnemonicEntropyBits is the entropy behind a generated recovery phrase.
const mnemonicEntropyBits = 256

// GenerateMnemonic returns a fresh BIP-39 recovery phrase suitable for
// FromMnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// FromMnemonic deterministically derives a keypair for holder from a BIP-39
// recovery phrase. The derivation covers the attestation nonce as well as the
// secret scalar, so the same phrase and identity always reproduce the same
// certificate, fingerprint included.
func FromMnemonic(holder Identity, mnemonic string) (*PrivateKey, *PublicKey, error) {
	mnemonic = strings.TrimSpace(mnemonic)
	if mnemonic == "" {
		return nil, nil, fmt.Errorf("%w: empty", ErrMnemonic)
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, nil, ErrMnemonic
	}
	seed := bip39.NewSeed(mnemonic, "")
	stream := hkdf.New(sha3.New512, seed, nil, []byte(hkdfInfoSigning))
	return newKeyPair(stream, holder)
}
