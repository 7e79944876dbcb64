package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/keyhaven/fieldcrypt/internal/crypto/domain"
	cryptoService "github.com/keyhaven/fieldcrypt/internal/crypto/service"
)

// RunKDFBenchmark times repeated key derivations so operators can size the
// migration worker pool: every migrated field costs exactly one derivation.
// The derivation cost depends only on the fixed iteration count, so a random
// throwaway secret and salt are representative.
func RunKDFBenchmark(
	ctx context.Context,
	keyDeriver cryptoService.KeyDeriver,
	logger *slog.Logger,
	w io.Writer,
	samples int,
	format string,
) error {
	if samples < 1 {
		return fmt.Errorf("samples must be a positive number, got: %d", samples)
	}
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("benchmarking key derivation", slog.Int("samples", samples))

	secret := uuid.NewString()
	salt := []byte(uuid.NewString())

	var (
		total time.Duration
		min   time.Duration
		max   time.Duration
	)

	for i := 0; i < samples; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := time.Now()
		key, err := keyDeriver.DeriveKey(secret, salt)
		if err != nil {
			return fmt.Errorf("key derivation failed: %w", err)
		}
		elapsed := time.Since(start)
		cryptoDomain.Zero(key)

		total += elapsed
		if min == 0 || elapsed < min {
			min = elapsed
		}
		if elapsed > max {
			max = elapsed
		}
	}

	avg := total / time.Duration(samples)
	perSecond := float64(samples) / total.Seconds()

	if format == "json" {
		return outputBenchmarkJSON(w, samples, min, avg, max, perSecond)
	}

	outputBenchmarkText(w, samples, min, avg, max, perSecond)
	return nil
}

// outputBenchmarkText outputs the result in human-readable text format.
func outputBenchmarkText(w io.Writer, samples int, min, avg, max time.Duration, perSecond float64) {
	fmt.Fprintf(w, "key derivations: %d\n", samples)
	fmt.Fprintf(w, "min: %s  avg: %s  max: %s\n",
		min.Round(time.Millisecond),
		avg.Round(time.Millisecond),
		max.Round(time.Millisecond),
	)
	fmt.Fprintf(w, "throughput: %.1f derivations/second\n", perSecond)
}

// outputBenchmarkJSON outputs the result in JSON format for machine consumption.
func outputBenchmarkJSON(w io.Writer, samples int, min, avg, max time.Duration, perSecond float64) error {
	result := map[string]interface{}{
		"samples":    samples,
		"min_ms":     float64(min.Microseconds()) / 1000,
		"avg_ms":     float64(avg.Microseconds()) / 1000,
		"max_ms":     float64(max.Microseconds()) / 1000,
		"per_second": perSecond,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}
