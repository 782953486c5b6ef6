package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	credentialUseCase "github.com/keyfold/keyfold/internal/credential/usecase"
	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
	cryptoService "github.com/keyfold/keyfold/internal/crypto/service"
)

// RunRewrapCredentials re-encrypts every credential's secret fields under a
// new master key. The process decrypts with the currently configured key and
// encrypts with the key given via newMasterKey (base64 or raw, 32 bytes),
// processing credentials in batches with a bounded worker pool.
//
// The new key only becomes the active MASTER_KEY after the command finishes;
// until then reads keep working against the old key.
func RunRewrapCredentials(
	ctx context.Context,
	credentialUC credentialUseCase.CredentialUseCase,
	logger *slog.Logger,
	writer io.Writer,
	newMasterKey string,
	batchSize, workers int,
) error {
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if workers <= 0 {
		return fmt.Errorf("workers must be greater than 0")
	}

	targetKey, err := cryptoDomain.LoadMasterKey(newMasterKey)
	if err != nil {
		return fmt.Errorf("invalid new master key: %w", err)
	}
	defer targetKey.Close()

	cipher, err := cryptoService.NewAESGCM(targetKey)
	if err != nil {
		return fmt.Errorf("failed to build target cipher: %w", err)
	}
	targetCodec := cryptoService.NewFieldCodec(cipher)

	logger.Info("starting credential rewrap process",
		slog.Int("batch_size", batchSize),
		slog.Int("workers", workers),
	)

	rewrapped, err := credentialUC.RewrapAll(ctx, targetCodec, batchSize, workers)
	if err != nil {
		return fmt.Errorf("failed to rewrap credentials: %w", err)
	}

	_, _ = fmt.Fprintf(writer, "Successfully rewrapped %d credential(s)\n", rewrapped)
	_, _ = fmt.Fprintln(writer, "Update MASTER_KEY to the new key and restart the service")

	logger.Info("credential rewrap process completed",
		slog.Int("total_rewrapped", rewrapped),
	)

	return nil
}
