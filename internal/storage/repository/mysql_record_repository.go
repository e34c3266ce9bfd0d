package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/allisson/securestore/internal/errors"
	storageDomain "github.com/allisson/securestore/internal/storage/domain"
)

// MySQLRecordRepository implements record persistence for MySQL.
//
// The table uses a composite PRIMARY KEY (namespace, storage_key) and a TEXT column for
// the encoded record; Put relies on ON DUPLICATE KEY UPDATE for single-statement upserts.
type MySQLRecordRepository struct {
	db        *sql.DB
	namespace string
}

// NewMySQLRecordRepository creates a repository bound to namespace.
func NewMySQLRecordRepository(db *sql.DB, namespace string) *MySQLRecordRepository {
	return &MySQLRecordRepository{db: db, namespace: namespace}
}

// Put creates or fully replaces the record stored under key.
func (m *MySQLRecordRepository) Put(ctx context.Context, key, record string) error {
	query := `INSERT INTO secure_storage_records (namespace, storage_key, record, updated_at)
			  VALUES (?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE record = VALUES(record), updated_at = VALUES(updated_at)`

	_, err := m.db.ExecContext(ctx, query, m.namespace, key, record, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: failed to put record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// Get returns the record stored under key.
func (m *MySQLRecordRepository) Get(ctx context.Context, key string) (string, error) {
	query := `SELECT record FROM secure_storage_records WHERE namespace = ? AND storage_key = ?`

	var record string
	err := m.db.QueryRowContext(ctx, query, m.namespace, key).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.Wrap(apperrors.ErrNotFound, "record not found")
		}
		return "", fmt.Errorf("%w: failed to get record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return record, nil
}

// Delete removes the record stored under key.
func (m *MySQLRecordRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM secure_storage_records WHERE namespace = ? AND storage_key = ?`

	if _, err := m.db.ExecContext(ctx, query, m.namespace, key); err != nil {
		return fmt.Errorf("%w: failed to delete record: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// Clear removes every record of the namespace.
func (m *MySQLRecordRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM secure_storage_records WHERE namespace = ?`

	if _, err := m.db.ExecContext(ctx, query, m.namespace); err != nil {
		return fmt.Errorf("%w: failed to clear records: %v", storageDomain.ErrStorageUnavailable, err)
	}
	return nil
}

// ListKeys returns the storage keys of the namespace, ordered by key.
func (m *MySQLRecordRepository) ListKeys(ctx context.Context) ([]string, error) {
	query := `SELECT storage_key FROM secure_storage_records WHERE namespace = ? ORDER BY storage_key`

	rows, err := m.db.QueryContext(ctx, query, m.namespace)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list keys: %v", storageDomain.ErrStorageUnavailable, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	return scanKeys(rows)
}
