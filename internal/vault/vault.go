// Package vault guards the stored third-party API key at rest.
//
// Keys are encrypted with AES-256-CBC under a key derived from the app
// secret with scrypt. The encoded token is hex(iv) + ":" + hex(ciphertext),
// with a fresh random IV per encryption.
package vault

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	keyLength = 32
	scryptN   = 16384
	scryptR   = 8
	scryptP   = 1
)

// derivationSalt is constant across all values. The derived key is computed
// once per process, so the usual per-value salt does not apply here.
const derivationSalt = "salt"

var (
	ErrMalformedToken = errors.New("malformed ciphertext token")
	ErrBadPadding     = errors.New("invalid padding")
)

// Vault encrypts and decrypts API key material with a key derived
// from the app secret.
type Vault struct {
	key []byte
}

// New derives the AES key from the given secret. The derivation runs once;
// reuse the returned Vault for the life of the process.
func New(secret string) (*Vault, error) {
	key, err := scrypt.Key([]byte(secret), []byte(derivationSalt), scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return nil, fmt.Errorf("deriving vault key: %w", err)
	}
	return &Vault{key: key}, nil
}

// Encrypt encrypts plaintext and returns the encoded token
// hex(iv) + ":" + hex(ciphertext).
func (v *Vault) Encrypt(plaintext string) (string, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}

	padded := pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt reverses Encrypt. The token is split on the first ":"; anything
// after further colons belongs to the ciphertext.
func (v *Vault) Decrypt(token string) (string, error) {
	ivHex, ctHex, found := strings.Cut(token, ":")
	if !found {
		return "", ErrMalformedToken
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil || len(iv) != aes.BlockSize {
		return "", errors.Join(ErrMalformedToken, err)
	}
	ciphertext, err := hex.DecodeString(ctHex)
	if err != nil {
		return "", errors.Join(ErrMalformedToken, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", ErrMalformedToken
	}

	block, err := aes.NewCipher(v.key)
	if err != nil {
		return "", fmt.Errorf("creating cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	return unpad(plaintext, aes.BlockSize)
}

// pad applies PKCS#7 padding.
func pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

// unpad strips PKCS#7 padding, rejecting inconsistent bytes. A padding
// failure usually means the token was encrypted under a different secret.
func unpad(data []byte, blockSize int) (string, error) {
	if len(data) == 0 {
		return "", ErrBadPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return "", ErrBadPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return "", ErrBadPadding
		}
	}
	return string(data[:len(data)-n]), nil
}
