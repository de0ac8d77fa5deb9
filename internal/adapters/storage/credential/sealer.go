package credential

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// ErrTampered is returned when a sealed token fails authentication.
var ErrTampered = errors.New("sealed credential failed authentication")

const sealerInfo = "kitbox-credential-v1"

// Sealer encrypts tokens at rest with XChaCha20-Poly1305.
// The session id is bound as associated data, so a row copied to another session will not open.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives a 256-bit key from secret with HKDF-SHA256.
// PRE: len(secret) > 0
// POST: Returns a Sealer ready for concurrent use
func NewSealer(secret []byte) (*Sealer, error) {
	if len(secret) == 0 {
		return nil, errors.New("credential secret is empty")
	}
	key := make([]byte, chacha20poly1305.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(sealerInfo)), key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

// Seal encrypts token for sessionID. Output is nonce || ciphertext.
func (s *Sealer) Seal(sessionID, token string) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(token)+chacha20poly1305.Overhead)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return s.aead.Seal(nonce, nonce, []byte(token), []byte(sessionID)), nil
}

// Open decrypts a value produced by Seal for the same sessionID.
func (s *Sealer) Open(sessionID string, sealed []byte) (string, error) {
	n := s.aead.NonceSize()
	if len(sealed) < n {
		return "", ErrTampered
	}
	plain, err := s.aead.Open(nil, sealed[:n], sealed[n:], []byte(sessionID))
	if err != nil {
		return "", ErrTampered
	}
	return string(plain), nil
}
