package service

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM.
//
// Security properties:
//   - 256-bit key size
//   - 12-byte nonce, randomly generated per encryption
//   - 16-byte authentication tag, returned separately from the ciphertext
//
// The cipher instance is stateless and safe for concurrent use.
type AESGCMCipher struct {
	aeadCipher
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
// The key must be exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aeadCipher{aead: aead}}, nil
}
