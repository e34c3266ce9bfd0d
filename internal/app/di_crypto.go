package app

import (
	"context"
	"fmt"

	"github.com/allisson/securestore/internal/config"
	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
	cryptoRepository "github.com/allisson/securestore/internal/crypto/repository"
	cryptoService "github.com/allisson/securestore/internal/crypto/service"
)

type cryptoComponents struct {
	keeper        lazy[cryptoDomain.KMSKeeper]
	masterKeyRepo lazy[cryptoService.MasterKeyRepository]
	custody       lazy[cryptoService.KeyCustody]
	keyManager    lazy[cryptoService.KeyManager]
	cipher        lazy[cryptoService.Cipher]
}

// KMSKeeper returns the keeper wrapping the master key, opened from KMS_KEY_URI.
func (c *Container) KMSKeeper(ctx context.Context) (cryptoDomain.KMSKeeper, error) {
	return c.crypto.keeper.get(func() (cryptoDomain.KMSKeeper, error) {
		return cryptoService.NewKMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
	})
}

// MasterKeyRepository returns the wrapped master key store. It lives next to the records:
// in the database for the SQL drivers and in the bucket for the blob driver.
func (c *Container) MasterKeyRepository(ctx context.Context) (cryptoService.MasterKeyRepository, error) {
	return c.crypto.masterKeyRepo.get(func() (cryptoService.MasterKeyRepository, error) {
		namespace := c.config.StorageNamespace

		switch c.config.StorageDriver {
		case config.StorageDriverPostgres, config.StorageDriverMySQL:
			db, err := c.DB(ctx)
			if err != nil {
				return nil, err
			}
			if c.config.StorageDriver == config.StorageDriverMySQL {
				return cryptoRepository.NewMySQLMasterKeyRepository(db, namespace), nil
			}
			return cryptoRepository.NewPostgreSQLMasterKeyRepository(db, namespace), nil
		case config.StorageDriverBlob:
			bucket, err := c.Bucket(ctx)
			if err != nil {
				return nil, err
			}
			return cryptoRepository.NewBlobMasterKeyRepository(bucket, namespace), nil
		default:
			return nil, fmt.Errorf("unsupported storage driver: %s", c.config.StorageDriver)
		}
	})
}

// KeyCustody returns the custody service holding the KMS-wrapped master key.
func (c *Container) KeyCustody(ctx context.Context) (cryptoService.KeyCustody, error) {
	return c.crypto.custody.get(func() (cryptoService.KeyCustody, error) {
		keeper, err := c.KMSKeeper(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get kms keeper for key custody: %w", err)
		}

		repo, err := c.MasterKeyRepository(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get master key repository for key custody: %w", err)
		}

		return cryptoService.NewKeeperKeyCustody(keeper, repo), nil
	})
}

// KeyManager returns the master key manager, instrumented with operation metrics.
func (c *Container) KeyManager(ctx context.Context) (cryptoService.KeyManager, error) {
	return c.crypto.keyManager.get(func() (cryptoService.KeyManager, error) {
		alg, err := cryptoDomain.ParseAlgorithm(c.config.CipherAlgorithm)
		if err != nil {
			return nil, err
		}

		custody, err := c.KeyCustody(ctx)
		if err != nil {
			return nil, err
		}

		bm, err := c.BusinessMetrics()
		if err != nil {
			return nil, err
		}

		keyManager := cryptoService.NewKeyManager(
			custody,
			c.config.MasterKeyAlias,
			cryptoDomain.NewKeyParams(alg),
			c.Logger(),
		)
		return cryptoService.NewKeyManagerWithMetrics(keyManager, bm), nil
	})
}

// Cipher returns the per-value AEAD cipher.
func (c *Container) Cipher() cryptoService.Cipher {
	cipher, _ := c.crypto.cipher.get(func() (cryptoService.Cipher, error) {
		return cryptoService.NewCipherService(cryptoService.NewAEADManager()), nil
	})
	return cipher
}
