package service

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"gocloud.dev/secrets"
	"gocloud.dev/secrets/awskms"
	"gocloud.dev/secrets/azurekeyvault"
	"gocloud.dev/secrets/gcpkms"
	"gocloud.dev/secrets/hashivault"
	"gocloud.dev/secrets/localsecrets"

	cryptoDomain "github.com/allisson/securestore/internal/crypto/domain"
)

// KMSSchemes lists the key URI schemes a master key can be held under.
var KMSSchemes = []string{
	localsecrets.Scheme,
	awskms.Scheme,
	gcpkms.Scheme,
	azurekeyvault.Scheme,
	hashivault.Scheme,
}

// KMSService opens the KMS keeper that wraps the master key.
type KMSService interface {
	// OpenKeeper opens the keeper addressed by keyURI.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper checks the scheme of keyURI against KMSSchemes before dialing. A scheme
// mismatch fails with ErrUnsupportedKMSScheme and leaves the URI out of the message,
// unlike the driver lookup error, since base64key:// URIs carry the key itself.
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	scheme, err := kmsScheme(keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper (%s): %w", scheme, err)
	}
	return keeper, nil
}

func kmsScheme(keyURI string) (string, error) {
	u, err := url.Parse(keyURI)
	if err != nil {
		return "", fmt.Errorf("%w: malformed URI", cryptoDomain.ErrUnsupportedKMSScheme)
	}
	if !slices.Contains(KMSSchemes, u.Scheme) {
		return "", fmt.Errorf(
			"%w: %q, expected one of %s",
			cryptoDomain.ErrUnsupportedKMSScheme,
			u.Scheme,
			strings.Join(KMSSchemes, ", "),
		)
	}
	return u.Scheme, nil
}
