package domain

import (
	"github.com/allisson/securestore/internal/errors"
)

// Storage error definitions.
var (
	// ErrMalformedRecord indicates a persisted record is not valid base64 or is shorter
	// than a nonce plus a tag. Like an authentication failure it means the record was
	// corrupted or tampered with, and is never reported as an absent key.
	ErrMalformedRecord = errors.Wrap(errors.ErrIntegrity, "malformed record")

	// ErrStorageUnavailable indicates the backing medium could not complete a read or write.
	ErrStorageUnavailable = errors.Wrap(errors.ErrUnavailable, "storage unavailable")

	// ErrInvalidKey indicates a storage key rejected by ValidateKey. The empty string
	// is a valid key.
	ErrInvalidKey = errors.Wrap(errors.ErrInvalidInput, "invalid storage key")

	// ErrValueRequired indicates a set was called without a value at the bridge boundary.
	ErrValueRequired = errors.Wrap(errors.ErrInvalidInput, "Value string must be provided")
)
