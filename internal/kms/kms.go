// Package kms resolves the decision-record signing key, optionally unwrapping
// it through an external KMS via gocloud.dev/secrets.
package kms

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// Keeper decrypts KMS-wrapped key material. *secrets.Keeper implements it.
type Keeper interface {
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
}

// Service opens keepers for configured KMS providers.
type Service interface {
	// OpenKeeper opens a secrets.Keeper for the configured KMS provider.
	// Returns an error if the KMS provider URI is invalid or connection fails.
	OpenKeeper(ctx context.Context, keyURI string) (Keeper, error)
}

type kmsService struct{}

// NewService creates a new KMS service instance.
func NewService() Service {
	return &kmsService{}
}

// OpenKeeper opens a secrets.Keeper for the configured KMS provider using the keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (Keeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// ResolveSigningKey returns the raw decision-record signing key.
//
// When keyURI is empty, encodedKey is treated as a base64-encoded raw key.
// Otherwise encodedKey holds a KMS-wrapped ciphertext that is unwrapped
// through the keeper opened for keyURI.
func ResolveSigningKey(ctx context.Context, svc Service, keyURI, encodedKey string) ([]byte, error) {
	if encodedKey == "" {
		return nil, fmt.Errorf("signing key is not configured")
	}

	decoded, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing key: %w", err)
	}

	if keyURI == "" {
		return decoded, nil
	}

	keeper, err := svc.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, err
	}

	key, err := keeper.Decrypt(ctx, decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap signing key: %w", err)
	}
	return key, nil
}
