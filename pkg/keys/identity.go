package keys

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"zebra-sign/go-core/pkg/group"
)

// Identity is the descriptive holder of a key: a display name and an email
// address. It is immutable once embedded in a certificate and carries no
// cryptographic weight beyond what the holder attestation covers.
//
// The name may be any UTF-8 text free of control characters, so it always
// fits on one line of the text formats. The email is restricted to printable
// ASCII without whitespace or angle brackets: a blunt defense against
// homoglyph lookalikes, and what keeps the `<email>` delimiters unambiguous.
// The email may be empty.
type Identity struct {
	Name  string
	Email string
}

// NewIdentity validates and constructs an Identity.
func NewIdentity(name, email string) (Identity, error) {
	if !utf8.ValidString(name) {
		return Identity{}, fmt.Errorf("%w: name is not valid UTF-8", ErrIdentity)
	}
	if strings.ContainsFunc(name, unicode.IsControl) {
		return Identity{}, fmt.Errorf("%w: name contains a control character", ErrIdentity)
	}
	for i := 0; i < len(email); i++ {
		b := email[i]
		if b < '!' || b > '~' || b == '<' || b == '>' {
			return Identity{}, fmt.Errorf("%w: email byte %d is outside the allowed set", ErrIdentity, i)
		}
	}
	return Identity{Name: name, Email: email}, nil
}

// attestationWarning prefixes every attestation payload. If some other tool
// ever asks a user to sign bytes starting with this text, something is wrong.
const attestationWarning = "!!!DO NOT SIGN THE FOLLOWING MESSAGE. DOING SO IS A SECURITY RISK. SOMEONE IS PROBABLY TRYING TO TRICK YOU!!!"

// attestationPayload is the byte string the holder attestation signs: the
// warning, the identity fields separated by a 0xFF sentinel (never valid in
// UTF-8 or printable ASCII), and the keypoint. Signing it binds the identity
// claim to possession of the keypoint's secret.
func attestationPayload(holder Identity, keypoint *group.Element) []byte {
	b := make([]byte, 0, len(attestationWarning)+len(holder.Name)+1+len(holder.Email)+group.ElementSize)
	b = append(b, attestationWarning...)
	b = append(b, holder.Name...)
	b = append(b, 0xFF)
	b = append(b, holder.Email...)
	b = append(b, keypoint.Bytes()...)
	return b
}
