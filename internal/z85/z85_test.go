package z85

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestRoundTripAllTailLengths(t *testing.T) {
	for n := 0; n <= 13; n++ {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i*37 + 1)
		}
		enc := EncodeToString(data)
		if strings.ContainsAny(enc, " \n") {
			t.Fatalf("encoding of %d bytes contains whitespace: %q", n, enc)
		}
		dec, err := DecodeString(enc)
		if err != nil {
			t.Fatalf("decode failed for %d bytes: %v", n, err)
		}
		if !bytes.Equal(dec, data) {
			t.Fatalf("round trip mismatch for %d bytes: got %x want %x", n, dec, data)
		}
	}
}

func TestDecodeRejectsForeignCharacter(t *testing.T) {
	enc := EncodeToString([]byte("payload"))
	bad := "~" + enc[1:]
	if _, err := DecodeString(bad); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestDecodeRejectsBadPadMarker(t *testing.T) {
	enc := EncodeToString([]byte("payload"))
	bad := enc[:len(enc)-1] + "9"
	if _, err := DecodeString(bad); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestDecodeRejectsNonzeroPadding(t *testing.T) {
	// Encode 4 aligned bytes, then claim one of them was padding.
	enc := EncodeBlock([]byte{1, 2, 3, 4}) + "1"
	if _, err := DecodeString(enc); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestDecodeRejectsMisalignedBody(t *testing.T) {
	if _, err := DecodeString("abc0"); !errors.Is(err, ErrInvalidEncoding) {
		t.Fatalf("expected ErrInvalidEncoding, got %v", err)
	}
}

func TestEncodeBlockFingerprintWidth(t *testing.T) {
	if got := len(EncodeBlock(make([]byte, 32))); got != 40 {
		t.Fatalf("expected 40 characters for 32 bytes, got %d", got)
	}
}
