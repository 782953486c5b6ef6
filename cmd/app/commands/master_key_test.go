package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
)

func TestRunCreateMasterKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("plain-mode", func(t *testing.T) {
		var out bytes.Buffer
		err := RunCreateMasterKey(ctx, logger, &out, "")

		require.NoError(t, err)
		require.Contains(t, out.String(), "MASTER_KEY=")

		key := extractEnvValue(t, out.String(), "MASTER_KEY")
		decoded, err := base64.StdEncoding.DecodeString(key)
		require.NoError(t, err)
		require.Len(t, decoded, cryptoDomain.MasterKeySize)
	})

	t.Run("plain-mode-keys-differ", func(t *testing.T) {
		var first, second bytes.Buffer
		require.NoError(t, RunCreateMasterKey(ctx, logger, &first, ""))
		require.NoError(t, RunCreateMasterKey(ctx, logger, &second, ""))

		require.NotEqual(t,
			extractEnvValue(t, first.String(), "MASTER_KEY"),
			extractEnvValue(t, second.String(), "MASTER_KEY"),
		)
	})

	t.Run("kms-mode", func(t *testing.T) {
		kmsKeyURI := "base64key://" + base64.URLEncoding.EncodeToString([]byte(strings.Repeat("w", 32)))

		var out bytes.Buffer
		err := RunCreateMasterKey(ctx, logger, &out, kmsKeyURI)

		require.NoError(t, err)
		require.Contains(t, out.String(), "KMS_KEY_URI=")
		require.Contains(t, out.String(), "MASTER_KEY_ENCRYPTED=")
		require.NotContains(t, out.String(), "MASTER_KEY=\"")

		wrapped := extractEnvValue(t, out.String(), "MASTER_KEY_ENCRYPTED")
		decoded, err := base64.StdEncoding.DecodeString(wrapped)
		require.NoError(t, err)
		// The keeper's ciphertext is longer than the plaintext key.
		require.Greater(t, len(decoded), cryptoDomain.MasterKeySize)
	})

	t.Run("invalid-kms-uri", func(t *testing.T) {
		err := RunCreateMasterKey(ctx, logger, &bytes.Buffer{}, "unknown-scheme://key")

		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to open KMS keeper")
	})
}

// extractEnvValue pulls the quoted value of name from KEY="value" output lines.
func extractEnvValue(t *testing.T, output, name string) string {
	t.Helper()

	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, name+"=") {
			value := strings.TrimPrefix(line, name+"=")
			return strings.Trim(value, `"`)
		}
	}

	t.Fatalf("output does not contain %s", name)
	return ""
}
