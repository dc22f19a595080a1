package keys

import "errors"

var (
	ErrParse              = errors.New("public key text is malformed")
	ErrAttestationInvalid = errors.New("certificate attestation does not verify")
	ErrIdentity           = errors.New("identity contains forbidden characters")
	ErrMnemonic           = errors.New("invalid mnemonic")
)
