package vault

import (
	"strings"
	"testing"
)

func newTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := New("test-secret-32-bytes-long-123456")
	if err != nil {
		t.Fatalf("failed to create vault: %v", err)
	}
	return v
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	v := newTestVault(t)

	tests := []struct {
		name      string
		plaintext string
	}{
		{name: "empty string", plaintext: ""},
		{name: "short key", plaintext: "sk-abc123"},
		{name: "contains colon", plaintext: "left:right:more"},
		{name: "only colons", plaintext: ":::"},
		{name: "block-aligned length", plaintext: strings.Repeat("a", 32)},
		{name: "long key", plaintext: strings.Repeat("sk-proj-", 64)},
		{name: "non-ascii", plaintext: "clé-ацк-鍵"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := v.Encrypt(tt.plaintext)
			if err != nil {
				t.Fatalf("encrypt failed: %v", err)
			}
			got, err := v.Decrypt(token)
			if err != nil {
				t.Fatalf("decrypt failed: %v", err)
			}
			if got != tt.plaintext {
				t.Errorf("round trip mismatch: got %q, want %q", got, tt.plaintext)
			}
		})
	}
}

func TestEncryptFreshIV(t *testing.T) {
	v := newTestVault(t)

	const plaintext = "sk-same-input"
	token1, err := v.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("first encrypt failed: %v", err)
	}
	token2, err := v.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("second encrypt failed: %v", err)
	}

	if token1 == token2 {
		t.Error("expected distinct tokens for repeated encryption of the same input")
	}

	for i, token := range []string{token1, token2} {
		got, err := v.Decrypt(token)
		if err != nil {
			t.Fatalf("decrypt of token %d failed: %v", i+1, err)
		}
		if got != plaintext {
			t.Errorf("token %d decrypted to %q, want %q", i+1, got, plaintext)
		}
	}
}

func TestTokenEncoding(t *testing.T) {
	v := newTestVault(t)

	token, err := v.Encrypt("sk-check-shape")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	ivHex, ctHex, found := strings.Cut(token, ":")
	if !found {
		t.Fatalf("token %q missing separator", token)
	}
	if len(ivHex) != 32 {
		t.Errorf("expected 32 hex chars of iv, got %d", len(ivHex))
	}
	if len(ctHex) == 0 || len(ctHex)%32 != 0 {
		t.Errorf("ciphertext hex length %d is not a positive multiple of 32", len(ctHex))
	}
}

func TestDecryptMalformedToken(t *testing.T) {
	v := newTestVault(t)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "no separator", token: "deadbeef"},
		{name: "bad iv hex", token: "zz:deadbeef"},
		{name: "short iv", token: "dead:deadbeefdeadbeefdeadbeefdeadbeef"},
		{name: "bad ciphertext hex", token: strings.Repeat("ab", 16) + ":nothex"},
		{name: "empty ciphertext", token: strings.Repeat("ab", 16) + ":"},
		{name: "unaligned ciphertext", token: strings.Repeat("ab", 16) + ":abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Decrypt(tt.token); err == nil {
				t.Errorf("expected error decrypting %q, got nil", tt.token)
			}
		})
	}
}

func TestDecryptWrongKey(t *testing.T) {
	v1 := newTestVault(t)
	v2, err := New("a-different-secret-entirely-7890")
	if err != nil {
		t.Fatalf("failed to create vault: %v", err)
	}

	token, err := v1.Encrypt("sk-secret-value")
	if err != nil {
		t.Fatalf("encrypt failed: %v", err)
	}

	if got, err := v2.Decrypt(token); err == nil && got == "sk-secret-value" {
		t.Error("decrypt under the wrong key recovered the plaintext")
	}
}
