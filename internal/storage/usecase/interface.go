// Package usecase defines the secure store facade: the five operations offered to the
// bridge layer, orchestrating the master key manager, the cipher, the record codec and
// the persistence store.
package usecase

import (
	"context"
)

// RecordRepository is the persistence store of one namespace. It maps storage keys to
// encoded records and never sees plaintext.
type RecordRepository interface {
	// Put creates or fully replaces the record under key. Returns only after the write
	// is durable.
	Put(ctx context.Context, key, record string) error

	// Get returns the record under key, or an error wrapping ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Delete removes the record under key. Absent keys are not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every record of the namespace and nothing else.
	Clear(ctx context.Context) error

	// ListKeys returns the storage keys of the namespace.
	ListKeys(ctx context.Context) ([]string, error)
}

// StorageUseCase is the secure store facade.
type StorageUseCase interface {
	// Set encrypts value and stores it under key, replacing any previous value.
	// A nil value removes the key.
	Set(ctx context.Context, key string, value *string) error

	// Get returns the decrypted value under key, or nil when the key is absent.
	// A record that fails authentication or parsing is an error, never an absence.
	Get(ctx context.Context, key string) (*string, error)

	// Remove deletes key. Removing an absent key succeeds.
	Remove(ctx context.Context, key string) error

	// Clear deletes every entry of the namespace. The master key is kept.
	Clear(ctx context.Context) error

	// Keys returns the keys currently stored, sorted.
	Keys(ctx context.Context) ([]string, error)
}
