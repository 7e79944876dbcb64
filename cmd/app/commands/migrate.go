package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
	envelopeUsecase "github.com/keyhaven/fieldcrypt/internal/envelope/usecase"
)

const (
	// migrateChunkSize is the number of input rows encrypted per batch call.
	// Chunking keeps memory bounded on large exports: each chunk is written
	// to the output before the next one is read.
	migrateChunkSize = 256

	// migrateMaxLineBytes caps one input line. Vault items carry arbitrary
	// JSON payloads, so the cap is generous.
	migrateMaxLineBytes = 1024 * 1024
)

// CheckMigrateRequest validates the data class and the secret for a migrate
// run. Callers writing to a file should check before opening the output, so
// a request that fails fast does not truncate a previous result.
func CheckMigrateRequest(kindStr, secret string) (envelopeDomain.FieldKind, error) {
	kind, err := envelopeDomain.ParseFieldKind(kindStr)
	if err != nil {
		return "", err
	}

	// Notification content rows carry several encrypted columns.
	if kind == envelopeDomain.FieldKindNotificationContent {
		return "", fmt.Errorf("field kind %q does not fit the single-value row format", kind)
	}

	if secret == "" {
		return "", errors.New("migration secret is empty (set the environment variable named by --secret-env)")
	}

	return kind, nil
}

// RunMigrate encrypts stored plaintext fields into the envelope format. Input
// is JSONL rows of {id, value} and output is JSONL rows of
// {id, encrypted, salt, iv}. The user secret arrives through an environment
// variable, never a flag, and is never written to the log or the output.
//
// Rows already written stay valid when a later chunk fails; the error names
// the failing field ID so the operator can resume from it.
func RunMigrate(
	ctx context.Context,
	migrationUseCase envelopeUsecase.MigrationUseCase,
	logger *slog.Logger,
	input io.Reader,
	output io.Writer,
	kindStr string,
	secret string,
) error {
	kind, err := CheckMigrateRequest(kindStr, secret)
	if err != nil {
		return err
	}

	logger.Info("starting plaintext migration", slog.String("kind", string(kind)))
	start := time.Now()

	encoder := json.NewEncoder(output)
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), migrateMaxLineBytes)

	var (
		chunk    []envelopeDomain.LegacyField
		migrated int
		line     int
	)

	flush := func() error {
		if len(chunk) == 0 {
			return nil
		}

		results, err := migrationUseCase.MigrateBatch(ctx, kind, secret, chunk)
		if err != nil {
			return err
		}

		for i := range results {
			if err := encoder.Encode(results[i]); err != nil {
				return fmt.Errorf("failed to write output row: %w", err)
			}
		}

		migrated += len(results)
		chunk = chunk[:0]
		return nil
	}

	for scanner.Scan() {
		line++

		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		var field envelopeDomain.LegacyField
		if err := json.Unmarshal(raw, &field); err != nil {
			return fmt.Errorf("failed to parse input line %d: %w", line, err)
		}

		chunk = append(chunk, field)
		if len(chunk) >= migrateChunkSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	if err := flush(); err != nil {
		return err
	}

	logger.Info("migration completed",
		slog.String("kind", string(kind)),
		slog.Int("fields", migrated),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}
