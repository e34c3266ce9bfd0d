// Package service provides the cryptographic services of the secure store: AEAD ciphers
// (AES-256-GCM, ChaCha20-Poly1305), master key custody backed by a KMS keeper, and the
// master key manager that owns the key lifecycle.
package service

import (
	"context"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Seal encrypts plaintext under a freshly generated random nonce.
	Seal(plaintext, aad []byte) (cryptoDomain.Sealed, error)

	// Open verifies the tag and decrypts. It returns ErrAuthenticationFailed and no
	// plaintext when verification fails.
	Open(sealed cryptoDomain.Sealed, aad []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance for the specified algorithm.
	CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error)
}

// KeyCustody is the external key-custody service holding the master key.
type KeyCustody interface {
	// HasKey reports whether a key exists under alias.
	HasKey(ctx context.Context, alias string) (bool, error)

	// GenerateKey creates a key under alias with params bound to it.
	// Returns ErrMasterKeyAlreadyExists if another caller generated it first.
	GenerateKey(
		ctx context.Context,
		alias string,
		params cryptoDomain.KeyParams,
	) (cryptoDomain.KeyHandle, error)

	// GetKey returns a handle to the key stored under alias.
	GetKey(ctx context.Context, alias string) (cryptoDomain.KeyHandle, error)
}

// KeyManager owns the lifecycle of the single master key of a namespace.
type KeyManager interface {
	// EnsureKey returns the master key, generating it on first use.
	EnsureKey(ctx context.Context) (cryptoDomain.KeyHandle, error)

	// GetKey returns the master key or ErrKeyUnavailable.
	GetKey(ctx context.Context) (cryptoDomain.KeyHandle, error)
}

// Cipher performs per-value authenticated encryption with a master key handle.
type Cipher interface {
	Encrypt(
		ctx context.Context,
		handle cryptoDomain.KeyHandle,
		plaintext, aad []byte,
	) (cryptoDomain.Sealed, error)

	Decrypt(
		ctx context.Context,
		handle cryptoDomain.KeyHandle,
		sealed cryptoDomain.Sealed,
		aad []byte,
	) ([]byte, error)
}

// MasterKeyRepository persists wrapped master keys for one namespace.
type MasterKeyRepository interface {
	// Create stores a new wrapped key. Returns an error wrapping ErrConflict when a
	// key already exists under the same alias.
	Create(ctx context.Context, masterKey *cryptoDomain.MasterKey) error

	// Get loads the wrapped key stored under alias. Returns an error wrapping
	// ErrNotFound when absent.
	Get(ctx context.Context, alias string) (*cryptoDomain.MasterKey, error)
}
