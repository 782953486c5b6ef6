package main

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/keyfold/keyfold/cmd/app/commands"
	"github.com/keyfold/keyfold/internal/app"
	"github.com/keyfold/keyfold/internal/config"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate a new master key for field-level encryption",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "kms-key-uri",
					Value: "",
					Usage: "KMS key URI to wrap the key with (e.g., gcpkms://..., hashivault://keyname, base64key://...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunCreateMasterKey(
					ctx,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("kms-key-uri"),
				)
			},
		},
		{
			Name:  "rewrap-credentials",
			Usage: "Re-encrypt all credential fields under a new master key",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "new-master-key",
					Aliases: []string{"k"},
					Usage:   "New master key (base64 or raw 32 bytes; omit to read NEW_MASTER_KEY)",
				},
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   100,
					Usage:   "Number of credentials to process per batch",
				},
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Value:   4,
					Usage:   "Number of concurrent rewrap workers per batch",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				credentialUC, err := container.CredentialUseCase()
				if err != nil {
					return err
				}

				newMasterKey := cmd.String("new-master-key")
				if newMasterKey == "" {
					newMasterKey = os.Getenv("NEW_MASTER_KEY")
				}

				return commands.RunRewrapCredentials(
					ctx,
					credentialUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					newMasterKey,
					int(cmd.Int("batch-size")),
					int(cmd.Int("workers")),
				)
			},
		},
	}
}
