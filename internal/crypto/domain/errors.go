package domain

import (
	"github.com/allisson/securestore/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so the transport layer can map them without knowing about cryptography.
var (
	// ErrUnsupportedAlgorithm indicates the requested encryption algorithm is not supported.
	ErrUnsupportedAlgorithm = errors.Wrap(errors.ErrInvalidInput, "unsupported algorithm")

	// ErrInvalidKeySize indicates the key material is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrKeyUnavailable indicates the custody service cannot produce the master key:
	// the service is down, the key was deleted, permission was revoked, or the key
	// was created for a different algorithm or purpose.
	//
	// HTTP Status: 503 Service Unavailable
	ErrKeyUnavailable = errors.Wrap(errors.ErrUnavailable, "master key unavailable")

	// ErrAuthenticationFailed indicates tag verification failed on decrypt.
	//
	// This error can occur due to:
	//   - Ciphertext, tag or nonce tampered with or corrupted
	//   - Record sealed under a different (lost or replaced) master key
	//   - Record copied under a different storage key
	//
	// For security reasons, the specific cause is not disclosed.
	//
	// HTTP Status: 500 Internal Server Error
	ErrAuthenticationFailed = errors.Wrap(errors.ErrIntegrity, "authentication failed")

	// ErrMasterKeyNotFound indicates no master key exists under the requested alias.
	ErrMasterKeyNotFound = errors.Wrap(errors.ErrNotFound, "master key not found")

	// ErrMasterKeyAlreadyExists indicates a master key was already generated under the alias.
	ErrMasterKeyAlreadyExists = errors.Wrap(errors.ErrConflict, "master key already exists")

	// ErrUnsupportedKMSScheme indicates a KMS key URI whose scheme has no registered driver.
	ErrUnsupportedKMSScheme = errors.Wrap(errors.ErrInvalidInput, "unsupported KMS key URI scheme")
)
