// Package mocks provides mock implementations of the storage use case interfaces for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRecordRepository is a mock implementation of RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

// Put mocks the Put method of RecordRepository.
func (m *MockRecordRepository) Put(ctx context.Context, key, record string) error {
	args := m.Called(ctx, key, record)
	return args.Error(0)
}

// Get mocks the Get method of RecordRepository.
func (m *MockRecordRepository) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// Delete mocks the Delete method of RecordRepository.
func (m *MockRecordRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Clear mocks the Clear method of RecordRepository.
func (m *MockRecordRepository) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// ListKeys mocks the ListKeys method of RecordRepository.
func (m *MockRecordRepository) ListKeys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockStorageUseCase is a mock implementation of StorageUseCase.
type MockStorageUseCase struct {
	mock.Mock
}

// Set mocks the Set method of StorageUseCase.
func (m *MockStorageUseCase) Set(ctx context.Context, key string, value *string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

// Get mocks the Get method of StorageUseCase.
func (m *MockStorageUseCase) Get(ctx context.Context, key string) (*string, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*string), args.Error(1)
}

// Remove mocks the Remove method of StorageUseCase.
func (m *MockStorageUseCase) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Clear mocks the Clear method of StorageUseCase.
func (m *MockStorageUseCase) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Keys mocks the Keys method of StorageUseCase.
func (m *MockStorageUseCase) Keys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
