package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/keyhaven/fieldcrypt/cmd/app/commands"
	"github.com/keyhaven/fieldcrypt/internal/app"
	"github.com/keyhaven/fieldcrypt/internal/config"
	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
)

func getMigrationCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "migrate",
			Usage: "Encrypt stored plaintext fields into the envelope format",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Data class: phone-number, two-factor-secret, or vault-item",
				},
				&cli.StringFlag{
					Name:    "input",
					Aliases: []string{"i"},
					Value:   "-",
					Usage:   "Input JSONL file with {id, value} rows ('-' for stdin)",
				},
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Value:   "-",
					Usage:   "Output JSONL file for {id, encrypted, salt, iv} rows ('-' for stdout)",
				},
				&cli.StringFlag{
					Name:  "secret-env",
					Value: "FIELDCRYPT_SECRET",
					Usage: "Name of the environment variable holding the user secret",
				},
				&cli.IntFlag{
					Name:    "workers",
					Aliases: []string{"w"},
					Value:   0,
					Usage:   "Concurrent encryption workers (0 uses MIGRATION_WORKERS)",
				},
				&cli.BoolFlag{
					Name:  "metrics",
					Value: false,
					Usage: "Expose the metrics endpoint while the migration runs",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				// Validated before os.Create can truncate a previous output file.
				secret := os.Getenv(cmd.String("secret-env"))
				if _, err := commands.CheckMigrateRequest(cmd.String("kind"), secret); err != nil {
					return err
				}

				cfg := config.Load()
				if workers := int(cmd.Int("workers")); workers > 0 {
					cfg.MigrationWorkers = workers
				}

				gin.SetMode(cfg.GetGinMode())

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				migrationUseCase, err := container.MigrationUseCase()
				if err != nil {
					return err
				}

				ioTuple := commands.DefaultIO()
				if path := cmd.String("input"); path != "-" {
					file, err := os.Open(path)
					if err != nil {
						return fmt.Errorf("failed to open input file: %w", err)
					}
					defer func() { _ = file.Close() }()
					ioTuple.Reader = file
				}
				if path := cmd.String("output"); path != "-" {
					file, err := os.Create(path)
					if err != nil {
						return fmt.Errorf("failed to create output file: %w", err)
					}
					defer func() { _ = file.Close() }()
					ioTuple.Writer = file
				}

				if cmd.Bool("metrics") {
					metricsServer, err := container.MetricsServer()
					if err != nil {
						return err
					}
					if metricsServer != nil {
						go func() {
							if err := metricsServer.Start(ctx); err != nil {
								container.Logger().Error("metrics server error", slog.Any("error", err))
							}
						}()
					}
				}

				return commands.RunMigrate(
					ctx,
					migrationUseCase,
					container.Logger(),
					ioTuple.Reader,
					ioTuple.Writer,
					cmd.String("kind"),
					secret,
				)
			},
		},
		{
			Name:  "generate-salt",
			Usage: "Generate storage-ready salts for a data class",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "kind",
					Aliases:  []string{"k"},
					Required: true,
					Usage:    "Data class: phone-number, two-factor-secret, notification-content, or vault-item",
				},
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"c"},
					Value:   1,
					Usage:   "Number of salts to generate",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				kind, err := envelopeDomain.ParseFieldKind(cmd.String("kind"))
				if err != nil {
					return err
				}

				var service commands.SaltGenerator
				switch kind {
				case envelopeDomain.FieldKindPhoneNumber:
					service = container.PhoneService()
				case envelopeDomain.FieldKindTwoFactorSecret:
					service = container.TwoFactorService()
				case envelopeDomain.FieldKindNotificationContent:
					service = container.NotificationService()
				case envelopeDomain.FieldKindVaultItem:
					service = container.VaultService()
				}

				return commands.RunGenerateSalt(
					service,
					container.Logger(),
					commands.DefaultIO().Writer,
					int(cmd.Int("count")),
				)
			},
		},
	}
}
