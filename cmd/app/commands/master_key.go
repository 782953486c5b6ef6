package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for field-level encryption. Key material is zeroed from memory after
// encoding.
//
// Without a KMS key URI the key is printed directly as MASTER_KEY. With a
// kmsKeyURI (e.g. "gcpkms://projects/.../cryptoKeys/...", "hashivault://keyname"
// or "base64key://..." for local development) the key is wrapped by the KMS
// keeper and printed as MASTER_KEY_ENCRYPTED plus the matching KMS_KEY_URI.
//
// Security: never use the base64key provider in production; use a cloud KMS
// keeper so the plaintext key is not part of the deployment environment.
func RunCreateMasterKey(
	ctx context.Context,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	logger.Info("generating master key", slog.Bool("kms", kmsKeyURI != ""))

	// Generate a cryptographically secure 32-byte master key
	masterKey := make([]byte, cryptoDomain.MasterKeySize)
	if _, err := rand.Read(masterKey); err != nil {
		return fmt.Errorf("failed to generate master key: %w", err)
	}
	defer cryptoDomain.Zero(masterKey)

	if kmsKeyURI == "" {
		_, _ = fmt.Fprintln(writer, "# Master Key Configuration")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "MASTER_KEY=%q\n", base64.StdEncoding.EncodeToString(masterKey))
		return nil
	}

	keeper, err := secrets.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, masterKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Master Key Configuration (KMS Mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "MASTER_KEY_ENCRYPTED=%q\n", base64.StdEncoding.EncodeToString(ciphertext))

	return nil
}
