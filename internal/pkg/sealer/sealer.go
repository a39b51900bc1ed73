// Package sealer encrypts recovery phrases at rest.
//
// The key is SHA-256 of a process-wide secret and every seal draws a fresh
// random nonce for XChaCha20-Poly1305. A sealed value is stored as a single
// string: hex(ciphertext) ":" hex(nonce).
package sealer

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
)

const separator = ":"

var (
	ErrSecretRequired = errors.New("sealer: encryption secret is required")
	ErrInvalidFormat  = errors.New("sealer: invalid sealed value format")
	ErrDecrypt        = errors.New("sealer: unable to open sealed value")
)

type Sealer struct {
	aead cipher.AEAD
}

func New(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}

	key := sha256.Sum256([]byte(secret))
	defer zeroBytes(key[:])

	aead, err := chacha20poly1305.NewX(key[:])
	if err != nil {
		return nil, fmt.Errorf("sealer: init cipher: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("sealer: generate nonce: %w", err)
	}

	ciphertext := s.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext) + separator + hex.EncodeToString(nonce), nil
}

func (s *Sealer) Open(sealed string) (string, error) {
	parts := strings.Split(sealed, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", ErrInvalidFormat
	}

	ciphertext, err := hex.DecodeString(parts[0])
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext is not hex", ErrInvalidFormat)
	}

	nonce, err := hex.DecodeString(parts[1])
	if err != nil || len(nonce) != chacha20poly1305.NonceSizeX {
		return "", fmt.Errorf("%w: malformed nonce", ErrInvalidFormat)
	}

	plaintext, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}

	return string(plaintext), nil
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
