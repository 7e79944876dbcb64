package commands

import (
	"fmt"
	"io"
	"log/slog"

	envelopeDomain "github.com/keyhaven/fieldcrypt/internal/envelope/domain"
)

// SaltGenerator is the slice of an envelope service the generate-salt
// command needs. All four envelope services satisfy it.
type SaltGenerator interface {
	Kind() envelopeDomain.FieldKind
	GenerateSalt() (string, error)
}

// RunGenerateSalt writes count storage-ready salts for the service's data
// class, one per line, in the class's storage encoding.
func RunGenerateSalt(
	service SaltGenerator,
	logger *slog.Logger,
	w io.Writer,
	count int,
) error {
	if count < 1 {
		return fmt.Errorf("count must be a positive number, got: %d", count)
	}

	for i := 0; i < count; i++ {
		salt, err := service.GenerateSalt()
		if err != nil {
			return fmt.Errorf("failed to generate salt: %w", err)
		}

		if _, err := fmt.Fprintln(w, salt); err != nil {
			return fmt.Errorf("failed to write salt: %w", err)
		}
	}

	logger.Info("salts generated",
		slog.String("kind", string(service.Kind())),
		slog.Int("count", count),
	)

	return nil
}
