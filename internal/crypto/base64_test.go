package crypto

import (
	"bytes"
	"testing"
)

func TestBase64RoundTrip(t *testing.T) {
	data := []byte{0x00, 0xFF, 0x10, 0x80, 0x7F}

	decoded, err := FromBase64(ToBase64(data))
	if err != nil {
		t.Fatalf("FromBase64() error = %v", err)
	}
	if !bytes.Equal(decoded, data) {
		t.Error("round trip did not recover data")
	}
}

func TestDecodeBase64_Alphabets(t *testing.T) {
	// 0xFB 0xEF encodes to "++8=" (std) and "--8" (url, no padding)
	data := []byte{0xFB, 0xEF}

	tests := []struct {
		name    string
		encoded string
	}{
		{"standard with padding", "++8="},
		{"standard without padding", "++8"},
		{"url-safe without padding", "--8"},
		{"url-safe with padding", "--8="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := DecodeBase64(tt.encoded)
			if err != nil {
				t.Fatalf("DecodeBase64(%q) error = %v", tt.encoded, err)
			}
			if !bytes.Equal(decoded, data) {
				t.Errorf("DecodeBase64(%q) = %x, want %x", tt.encoded, decoded, data)
			}
		})
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	if _, err := DecodeBase64("not base64 at all!"); err == nil {
		t.Error("expected error for invalid input")
	}
}
