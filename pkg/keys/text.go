package keys

import (
	"encoding/hex"
	"fmt"
	"strings"

	"zebra-sign/go-core/pkg/group"
)

// The single-line text form of a certificate:
//
//	[<name> <<email>> <Zebra 1.0 Beta> <64 hex keypoint> <200 hex attestation>]
//
// The name may contain nearly arbitrary characters, so the line is parsed
// from the back: the attestation and keypoint have fixed hex widths, the
// version token sits in angle brackets just before them, and the email
// (which cannot contain spaces or angle brackets) is delimited right before
// that. This makes the encoding unambiguous in both directions, and because
// no field can contain a newline, lists of keys can be newline-separated.

const (
	keypointHexLen    = 2 * group.ElementSize
	attestationHexLen = 2 * AttestationSize
)

// String renders the canonical text form of the certificate.
func (k *PublicKey) String() string {
	return fmt.Sprintf("[%s <%s> <%s> %s %s]",
		k.holder.Name,
		k.holder.Email,
		VersionTag,
		strings.ToUpper(hex.EncodeToString(k.keypoint.Bytes())),
		strings.ToUpper(hex.EncodeToString(k.attestationBytes())),
	)
}

// ParsePublicKey parses the text form and verifies the holder attestation.
// Any structural deviation fails with ErrParse; a well-formed certificate
// whose attestation does not check out fails with ErrAttestationInvalid.
func ParsePublicKey(s string) (*PublicKey, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, fmt.Errorf("%w: key text must be a single line", ErrParse)
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: missing square brackets", ErrParse)
	}
	body := s[1 : len(s)-1]

	versionToken := "<" + VersionTag + ">"
	// " <" + "> " around the email, one space before each hex field and the
	// version token, plus the fixed-width fields themselves.
	minLen := 6 + len(versionToken) + keypointHexLen + attestationHexLen
	if len(body) < minLen {
		return nil, fmt.Errorf("%w: too short", ErrParse)
	}

	attEnd := len(body)
	attHex := body[attEnd-attestationHexLen:]
	if body[attEnd-attestationHexLen-1] != ' ' {
		return nil, fmt.Errorf("%w: missing separator before attestation", ErrParse)
	}
	kpEnd := attEnd - attestationHexLen - 1
	kpHex := body[kpEnd-keypointHexLen : kpEnd]
	if body[kpEnd-keypointHexLen-1] != ' ' {
		return nil, fmt.Errorf("%w: missing separator before keypoint", ErrParse)
	}
	verEnd := kpEnd - keypointHexLen - 1
	if !strings.HasSuffix(body[:verEnd], versionToken) {
		return nil, fmt.Errorf("%w: unsupported version token", ErrParse)
	}
	idEnd := verEnd - len(versionToken)
	if idEnd < 1 || body[idEnd-1] != ' ' {
		return nil, fmt.Errorf("%w: missing separator before version", ErrParse)
	}

	// What remains is `name <email>`; the email cannot contain '<' or '>'.
	rest := body[:idEnd-1]
	if !strings.HasSuffix(rest, ">") {
		return nil, fmt.Errorf("%w: malformed identity section", ErrParse)
	}
	open := strings.LastIndexByte(rest, '<')
	if open < 1 || rest[open-1] != ' ' {
		return nil, fmt.Errorf("%w: malformed identity section", ErrParse)
	}
	email := rest[open+1 : len(rest)-1]
	name := rest[:open-1]

	holder, err := NewIdentity(name, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	kpBytes, err := decodeUpperHex(kpHex)
	if err != nil {
		return nil, err
	}
	keypoint, err := group.DecodeElement(kpBytes)
	if err != nil {
		return nil, fmt.Errorf("%w: keypoint: %v", ErrParse, err)
	}
	attBytes, err := decodeUpperHex(attHex)
	if err != nil {
		return nil, err
	}
	attestation, err := decodeAttestation(attBytes, keypoint)
	if err != nil {
		return nil, err
	}

	key := &PublicKey{holder: holder, keypoint: keypoint, attestation: attestation}
	if !key.VerifyAttestation() {
		return nil, ErrAttestationInvalid
	}
	return key, nil
}

func decodeUpperHex(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'A' || c > 'F') {
			return nil, fmt.Errorf("%w: non-uppercase-hex character at %d", ErrParse, i)
		}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return b, nil
}
