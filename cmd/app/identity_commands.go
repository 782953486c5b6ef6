package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/keyfold/keyfold/cmd/app/commands"
	"github.com/keyfold/keyfold/internal/app"
	"github.com/keyfold/keyfold/internal/config"
)

func getIdentityCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-organization",
			Usage: "Create a new organization",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Organization name",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identityUC, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateOrganization(
					ctx,
					identityUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("name"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-user",
			Usage: "Create a new user in an organization",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "organization-id",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Organization ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "email",
					Aliases:  []string{"e"},
					Required: true,
					Usage:    "User email address",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "User display name",
				},
				&cli.StringFlag{
					Name:    "role",
					Aliases: []string{"r"},
					Value:   "USER",
					Usage:   "User role: USER, ACCOUNTANT or ADMIN",
				},
				&cli.StringFlag{
					Name:    "team-id",
					Aliases: []string{"t"},
					Usage:   "Team ID (UUID, optional)",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identityUC, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateUser(
					ctx,
					identityUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("organization-id"),
					cmd.String("email"),
					cmd.String("name"),
					cmd.String("role"),
					cmd.String("team-id"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "create-team",
			Usage: "Create a new team in an organization",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "organization-id",
					Aliases:  []string{"o"},
					Required: true,
					Usage:    "Organization ID (UUID)",
				},
				&cli.StringFlag{
					Name:     "name",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Team name",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				identityUC, err := container.IdentityUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateTeam(
					ctx,
					identityUC,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("organization-id"),
					cmd.String("name"),
					cmd.String("format"),
				)
			},
		},
	}
}
