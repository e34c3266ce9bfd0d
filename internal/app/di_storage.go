package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gocloud.dev/blob"

	"github.com/allisson/securestore/internal/config"
	"github.com/allisson/securestore/internal/database"
	storageHTTP "github.com/allisson/securestore/internal/storage/http"
	storageRepository "github.com/allisson/securestore/internal/storage/repository"
	storageUseCase "github.com/allisson/securestore/internal/storage/usecase"
)

type storageComponents struct {
	db         lazy[*sql.DB]
	bucket     lazy[*blob.Bucket]
	recordRepo lazy[storageUseCase.RecordRepository]
	useCase    lazy[storageUseCase.StorageUseCase]
	handler    lazy[*storageHTTP.StorageHandler]
}

// DB returns the connection pool of the SQL storage drivers.
func (c *Container) DB(ctx context.Context) (*sql.DB, error) {
	return c.storage.db.get(func() (*sql.DB, error) {
		if !c.config.IsSQL() {
			return nil, fmt.Errorf("storage driver %q does not use a database", c.config.StorageDriver)
		}

		db, err := database.Connect(ctx, database.Config{
			Driver:             c.config.StorageDriver,
			ConnectionString:   c.config.DBConnectionString,
			MaxOpenConnections: c.config.DBMaxOpenConnections,
			MaxIdleConnections: c.config.DBMaxIdleConnections,
			ConnMaxLifetime:    c.config.DBConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return db, nil
	})
}

// Bucket returns the namespace-scoped bucket of the blob storage driver.
func (c *Container) Bucket(ctx context.Context) (*blob.Bucket, error) {
	return c.storage.bucket.get(func() (*blob.Bucket, error) {
		if c.config.StorageDriver != config.StorageDriverBlob {
			return nil, fmt.Errorf("storage driver %q does not use a bucket", c.config.StorageDriver)
		}
		return storageRepository.OpenBucket(ctx, c.config.BlobBucketURL, c.config.StorageNamespace)
	})
}

// RecordRepository returns the record store of the configured driver.
func (c *Container) RecordRepository(ctx context.Context) (storageUseCase.RecordRepository, error) {
	return c.storage.recordRepo.get(func() (storageUseCase.RecordRepository, error) {
		switch c.config.StorageDriver {
		case config.StorageDriverPostgres, config.StorageDriverMySQL:
			db, err := c.DB(ctx)
			if err != nil {
				return nil, err
			}
			if c.config.StorageDriver == config.StorageDriverMySQL {
				return storageRepository.NewMySQLRecordRepository(db, c.config.StorageNamespace), nil
			}
			return storageRepository.NewPostgreSQLRecordRepository(db, c.config.StorageNamespace), nil
		case config.StorageDriverBlob:
			bucket, err := c.Bucket(ctx)
			if err != nil {
				return nil, err
			}
			return storageRepository.NewBlobRecordRepository(bucket), nil
		default:
			return nil, fmt.Errorf("unsupported storage driver: %s", c.config.StorageDriver)
		}
	})
}

// StorageUseCase returns the secure store facade, instrumented with operation metrics.
func (c *Container) StorageUseCase(ctx context.Context) (storageUseCase.StorageUseCase, error) {
	return c.storage.useCase.get(func() (storageUseCase.StorageUseCase, error) {
		recordRepo, err := c.RecordRepository(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get record repository for storage use case: %w", err)
		}

		keyManager, err := c.KeyManager(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get key manager for storage use case: %w", err)
		}

		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}

		useCase := storageUseCase.NewStorageUseCase(recordRepo, keyManager, c.Cipher(), c.Logger())
		return storageUseCase.NewStorageUseCaseWithMetrics(useCase, bm), nil
	})
}

// StorageHandler returns the HTTP handler of the storage endpoints.
func (c *Container) StorageHandler(ctx context.Context) (*storageHTTP.StorageHandler, error) {
	return c.storage.handler.get(func() (*storageHTTP.StorageHandler, error) {
		useCase, err := c.StorageUseCase(ctx)
		if err != nil {
			return nil, err
		}
		return storageHTTP.NewStorageHandler(useCase, c.Logger()), nil
	})
}

// StorageReadinessCheck pings the backing medium of the configured driver.
func (c *Container) StorageReadinessCheck(ctx context.Context) (func(ctx context.Context) error, error) {
	if c.config.IsSQL() {
		db, err := c.DB(ctx)
		if err != nil {
			return nil, err
		}
		return db.PingContext, nil
	}

	bucket, err := c.Bucket(ctx)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		ok, err := bucket.IsAccessible(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return errors.New("bucket is not accessible")
		}
		return nil
	}, nil
}
