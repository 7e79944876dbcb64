package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/keyhaven/fieldcrypt/cmd/app/commands"
	"github.com/keyhaven/fieldcrypt/internal/app"
	"github.com/keyhaven/fieldcrypt/internal/config"
)

func getSystemCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "selfcheck",
			Usage: "Round-trip sample values through every data class to verify the encryption stack",
			Flags: []cli.Flag{
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

				return commands.RunSelfCheck(
					ctx,
					container.SelfCheckUseCase(),
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "kdf-benchmark",
			Usage: "Measure key derivation cost to size migration workers",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "samples",
					Aliases: []string{"s"},
					Value:   10,
					Usage:   "Number of key derivations to time",
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

				return commands.RunKDFBenchmark(
					ctx,
					container.KeyDeriver(),
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("samples")),
					cmd.String("format"),
				)
			},
		},
	}
}
