package service

import (
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// aeadCipher adapts a cipher.AEAD to the nonce/ciphertext/tag representation.
//
// The standard library appends the tag to the ciphertext; Seal splits it off so the
// ciphertext keeps the plaintext length, and Open joins them back before verifying.
type aeadCipher struct {
	aead cipher.AEAD
}

// Seal encrypts plaintext with a nonce read from crypto/rand.
func (a *aeadCipher) Seal(plaintext, aad []byte) (cryptoDomain.Sealed, error) {
	nonce := make([]byte, a.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return cryptoDomain.Sealed{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := a.aead.Seal(nil, nonce, plaintext, aad)
	split := len(out) - a.aead.Overhead()

	return cryptoDomain.Sealed{
		Nonce:      nonce,
		Ciphertext: out[:split:split],
		Tag:        out[split:],
	}, nil
}

// Open verifies and decrypts sealed. Any failure, including malformed nonce or tag
// lengths, is reported as ErrAuthenticationFailed.
func (a *aeadCipher) Open(sealed cryptoDomain.Sealed, aad []byte) ([]byte, error) {
	// cipher.AEAD panics on a nonce of the wrong size
	if len(sealed.Nonce) != a.aead.NonceSize() || len(sealed.Tag) != a.aead.Overhead() {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}

	joined := make([]byte, 0, len(sealed.Ciphertext)+len(sealed.Tag))
	joined = append(joined, sealed.Ciphertext...)
	joined = append(joined, sealed.Tag...)

	plaintext, err := a.aead.Open(nil, sealed.Nonce, joined, aad)
	if err != nil {
		return nil, cryptoDomain.ErrAuthenticationFailed
	}
	return plaintext, nil
}
