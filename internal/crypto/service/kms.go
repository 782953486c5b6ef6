package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"

	// Register KMS provider drivers.
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// envKeyLoader loads the master key directly from its environment value.
type envKeyLoader struct {
	rawKey string
}

// NewEnvKeyLoader creates a KeyLoader that interprets the MASTER_KEY value
// as base64 or raw text.
func NewEnvKeyLoader(rawKey string) KeyLoader {
	return &envKeyLoader{rawKey: rawKey}
}

func (l *envKeyLoader) Load(_ context.Context) (*cryptoDomain.MasterKey, error) {
	return cryptoDomain.LoadMasterKey(l.rawKey)
}

// kmsKeyLoader unwraps a KMS-encrypted master key via a gocloud.dev keeper.
//
// Supported keeper URIs: gcpkms://, awskms://, azurekeyvault://,
// hashivault://, base64key:// (local development only).
type kmsKeyLoader struct {
	keyURI       string
	encryptedKey string
}

// NewKMSKeyLoader creates a KeyLoader that decrypts the base64-encoded
// wrapped key through the keeper at keyURI.
func NewKMSKeyLoader(keyURI, encryptedKey string) KeyLoader {
	return &kmsKeyLoader{keyURI: keyURI, encryptedKey: encryptedKey}
}

func (l *kmsKeyLoader) Load(ctx context.Context) (*cryptoDomain.MasterKey, error) {
	if l.encryptedKey == "" {
		return nil, cryptoDomain.ErrMasterKeyNotSet
	}

	wrapped, err := base64.StdEncoding.DecodeString(l.encryptedKey)
	if err != nil {
		return nil, fmt.Errorf("invalid MASTER_KEY_ENCRYPTED base64: %w", err)
	}

	keeper, err := secrets.OpenKeeper(ctx, l.keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer keeper.Close()

	raw, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return nil, fmt.Errorf("failed to unwrap master key: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	return cryptoDomain.NewMasterKey(raw)
}
