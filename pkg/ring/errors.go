package ring

import "errors"

var (
	ErrRingSize      = errors.New("ring must contain at least one key")
	ErrSignerIndex   = errors.New("signer index is outside the ring")
	ErrDuplicateKey  = errors.New("ring contains a duplicated keypoint")
	ErrNotInRing     = errors.New("private key does not match the keypoint at the signer index")
	ErrTruncatedData = errors.New("packed signature has the wrong length")
)
