// Package envelope binds a message, a ring of certificates, and a ring
// signature into one canonical text document, and parses such documents back.
// The grammar is deterministic and injective: every valid SignedMessage has
// exactly one text form, and parsing rejects any structural deviation.
package envelope

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"zebra-sign/go-core/internal/z85"
	"zebra-sign/go-core/pkg/group"
	"zebra-sign/go-core/pkg/keys"
	"zebra-sign/go-core/pkg/ring"
)

var ErrParse = errors.New("text is not a well-formed signed message")

// Fixed structural lines of the document. Process-wide constants: both
// formatting and parsing compare against these exact strings.
const (
	headerLine       = "The following message has been signed using " + keys.VersionTag + ":"
	fenceLine        = `"""`
	fingerprintsLine = "It was signed by someone with a private key corresponding to one of these fingerprints:"
	footerLine       = `To verify this signature, paste this entire message into the Zebra app (starting with "The following message" and ending with this line).`
)

// The shortest well-formed document has one message line and one ring member:
// header, two fences, three blanks around the fingerprint explainer, one
// display line, the signature line with its surrounding blanks, and the
// footer.
const minLines = 12

// maxRingSize bounds the member count read from the signature blob, so a
// hostile document cannot drive allocation.
const maxRingSize = 1024

// SignedMessage carries everything needed to verify that someone in the ring
// endorsed the message. Instances come from Sign or Parse and are immutable.
type SignedMessage struct {
	message string
	members []*keys.PublicKey
	sig     *ring.Signature
}

// New assembles a SignedMessage from parts already produced by the ring
// engine. The signature's response count must match the certificate count.
func New(message string, members []*keys.PublicKey, sig *ring.Signature) (*SignedMessage, error) {
	if len(members) == 0 {
		return nil, ring.ErrRingSize
	}
	if sig.Size() != len(members) {
		return nil, fmt.Errorf("%w: signature covers %d members, ring has %d", ring.ErrTruncatedData, sig.Size(), len(members))
	}
	return &SignedMessage{message: message, members: members, sig: sig}, nil
}

// Message returns the signed text.
func (m *SignedMessage) Message() string {
	return m.message
}

// Ring returns the member certificates in ring order.
func (m *SignedMessage) Ring() []*keys.PublicKey {
	return m.members
}

// Signature returns the ring signature.
func (m *SignedMessage) Signature() *ring.Signature {
	return m.sig
}

// Sign builds the canonical ring from the signer's key and the other
// certificates, signs message, and returns the envelope. The signer's own
// certificate is added automatically (an accidental copy among others is
// dropped, so the ring never gives the signer away by listing them twice),
// and the ring is sorted by compressed keypoint: its order is then a function
// of the key set alone, not of who signed.
func Sign(rand io.Reader, message string, priv *keys.PrivateKey, others []*keys.PublicKey) (*SignedMessage, error) {
	self := priv.Public()
	members := make([]*keys.PublicKey, 0, len(others)+1)
	for _, k := range others {
		if k.Equal(self) {
			continue
		}
		members = append(members, k)
	}
	members = append(members, self)
	if len(members) > maxRingSize {
		return nil, fmt.Errorf("%w: %d members exceeds the %d limit", ring.ErrRingSize, len(members), maxRingSize)
	}
	sort.Slice(members, func(i, j int) bool {
		return bytes.Compare(members[i].Keypoint().Bytes(), members[j].Keypoint().Bytes()) < 0
	})

	points := ringPoints(members)
	if group.HasDuplicates(points) {
		return nil, ring.ErrDuplicateKey
	}
	signerIndex := -1
	for i, k := range members {
		if k.Equal(self) {
			signerIndex = i
		}
	}
	if signerIndex < 0 {
		return nil, ring.ErrNotInRing
	}

	sig, err := priv.SignRing(rand, []byte(message), points, signerIndex)
	if err != nil {
		return nil, err
	}
	return &SignedMessage{message: message, members: members, sig: sig}, nil
}

// Verify reports whether the envelope is genuine: every member's attestation
// must hold and the chained challenge recomputation must close. Both checks
// are mandatory; a signature whose math checks out over self-inconsistent
// certificates is rejected. The result never indicates which member signed.
func (m *SignedMessage) Verify() bool {
	for _, k := range m.members {
		if !k.VerifyAttestation() {
			return false
		}
	}
	return ring.Verify(m.sig, ringPoints(m.members), []byte(m.message))
}

// Format renders the canonical document. Format and Parse are exact
// inverses.
func (m *SignedMessage) Format() string {
	parts := []string{headerLine, fenceLine, m.message, fenceLine, "", fingerprintsLine, ""}
	for _, k := range m.members {
		parts = append(parts, displayLine(k))
	}
	parts = append(parts, "", z85.EncodeToString(m.encodeBlob()), "", footerLine)
	return strings.Join(parts, "\n")
}

// Parse validates the document structure and extracts the signed message.
// Success means the text is syntactically canonical, not that the signature
// is valid; call Verify for that.
func Parse(text string) (*SignedMessage, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < minLines {
		return nil, fmt.Errorf("%w: %d lines, minimum is %d", ErrParse, len(lines), minLines)
	}
	if lines[0] != headerLine || lines[1] != fenceLine {
		return nil, fmt.Errorf("%w: bad header", ErrParse)
	}
	if lines[len(lines)-1] != footerLine || lines[len(lines)-2] != "" || lines[len(lines)-4] != "" {
		return nil, fmt.Errorf("%w: bad footer", ErrParse)
	}

	blob, err := z85.DecodeString(lines[len(lines)-3])
	if err != nil {
		return nil, fmt.Errorf("%w: signature line: %v", ErrParse, err)
	}
	members, sig, err := decodeBlob(blob)
	if err != nil {
		return nil, err
	}

	n := len(members)
	// Fixed lines account for 10 of the document; at least one message line
	// must remain beyond the n display lines.
	if len(lines) < n+11 {
		return nil, fmt.Errorf("%w: %d ring members do not fit in %d lines", ErrParse, n, len(lines))
	}
	displayStart := len(lines) - 4 - n
	for i, k := range members {
		if lines[displayStart+i] != displayLine(k) {
			return nil, fmt.Errorf("%w: ring member line %d does not match its certificate", ErrParse, i)
		}
	}
	if lines[displayStart-1] != "" ||
		lines[displayStart-2] != fingerprintsLine ||
		lines[displayStart-3] != "" ||
		lines[displayStart-4] != fenceLine {
		return nil, fmt.Errorf("%w: bad section separators", ErrParse)
	}

	message := strings.Join(lines[2:displayStart-4], "\n")
	return &SignedMessage{message: message, members: members, sig: sig}, nil
}

func displayLine(k *keys.PublicKey) string {
	holder := k.Holder()
	return holder.Name + " <" + holder.Email + "> " + k.Fingerprint()
}

func ringPoints(members []*keys.PublicKey) []*group.Element {
	points := make([]*group.Element, len(members))
	for i, k := range members {
		points[i] = k.Keypoint()
	}
	return points
}
