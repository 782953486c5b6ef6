package app

import (
	"context"
	"fmt"

	cryptoDomain "github.com/keyfold/keyfold/internal/crypto/domain"
	cryptoService "github.com/keyfold/keyfold/internal/crypto/service"
)

// KeyLoader returns the master key loader. With KMS_KEY_URI set the wrapped
// key is unwrapped through a gocloud.dev keeper; otherwise the MASTER_KEY
// value is used directly.
func (c *Container) KeyLoader() cryptoService.KeyLoader {
	c.keyLoaderInit.Do(func() {
		if c.config.KMSKeyURI != "" {
			c.keyLoader = cryptoService.NewKMSKeyLoader(
				c.config.KMSKeyURI,
				c.config.MasterKeyEncrypted,
			)
			return
		}
		c.keyLoader = cryptoService.NewEnvKeyLoader(c.config.MasterKey)
	})
	return c.keyLoader
}

// MasterKey returns the deployment master key. Loading failures are
// startup-fatal: nothing else in the engine can run without the key.
func (c *Container) MasterKey() (*cryptoDomain.MasterKey, error) {
	c.masterKeyInit.Do(func() {
		key, err := c.KeyLoader().Load(context.Background())
		if err != nil {
			c.initErrors["masterKey"] = fmt.Errorf("failed to load master key: %w", err)
			return
		}
		c.masterKey = key
	})
	if storedErr, exists := c.initErrors["masterKey"]; exists {
		return nil, storedErr
	}
	return c.masterKey, nil
}

// FieldCodec returns the AES-256-GCM field codec keyed by the master key.
func (c *Container) FieldCodec() (cryptoService.FieldCodec, error) {
	c.fieldCodecInit.Do(func() {
		masterKey, err := c.MasterKey()
		if err != nil {
			c.initErrors["fieldCodec"] = err
			return
		}

		cipher, err := cryptoService.NewAESGCM(masterKey)
		if err != nil {
			c.initErrors["fieldCodec"] = fmt.Errorf("failed to create field cipher: %w", err)
			return
		}

		c.fieldCodec = cryptoService.NewFieldCodec(cipher)
	})
	if storedErr, exists := c.initErrors["fieldCodec"]; exists {
		return nil, storedErr
	}
	return c.fieldCodec, nil
}
