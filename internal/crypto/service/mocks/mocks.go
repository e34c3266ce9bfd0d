// Package mocks provides mock implementations of the crypto service interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// MockKeyCustody is a mock implementation of KeyCustody.
type MockKeyCustody struct {
	mock.Mock
}

// HasKey mocks the HasKey method of KeyCustody.
func (m *MockKeyCustody) HasKey(ctx context.Context, alias string) (bool, error) {
	args := m.Called(ctx, alias)
	return args.Bool(0), args.Error(1)
}

// GenerateKey mocks the GenerateKey method of KeyCustody.
func (m *MockKeyCustody) GenerateKey(
	ctx context.Context,
	alias string,
	params cryptoDomain.KeyParams,
) (cryptoDomain.KeyHandle, error) {
	args := m.Called(ctx, alias, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KeyHandle), args.Error(1)
}

// GetKey mocks the GetKey method of KeyCustody.
func (m *MockKeyCustody) GetKey(ctx context.Context, alias string) (cryptoDomain.KeyHandle, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KeyHandle), args.Error(1)
}

// MockKeyManager is a mock implementation of KeyManager.
type MockKeyManager struct {
	mock.Mock
}

// EnsureKey mocks the EnsureKey method of KeyManager.
func (m *MockKeyManager) EnsureKey(ctx context.Context) (cryptoDomain.KeyHandle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KeyHandle), args.Error(1)
}

// GetKey mocks the GetKey method of KeyManager.
func (m *MockKeyManager) GetKey(ctx context.Context) (cryptoDomain.KeyHandle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(cryptoDomain.KeyHandle), args.Error(1)
}

// StaticKeyHandle is a KeyHandle over an in-memory key. Use copies the key so callers
// zeroing the buffer do not destroy it.
type StaticKeyHandle struct {
	KeyAlias  string
	KeyParams cryptoDomain.KeyParams
	Key       []byte

	// Err, when set, is returned by Use without calling fn.
	Err error
}

// Alias returns the configured alias.
func (h *StaticKeyHandle) Alias() string { return h.KeyAlias }

// Params returns the configured key parameters.
func (h *StaticKeyHandle) Params() cryptoDomain.KeyParams { return h.KeyParams }

// Use passes a copy of Key to fn and zeroes the copy afterwards.
func (h *StaticKeyHandle) Use(_ context.Context, fn func(key []byte) error) error {
	if h.Err != nil {
		return h.Err
	}
	key := append([]byte(nil), h.Key...)
	defer cryptoDomain.Zero(key)
	return fn(key)
}
