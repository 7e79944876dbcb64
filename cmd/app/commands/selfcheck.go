package commands

import (
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

// RunSelfCheck round-trips a sample value through every data class under a
// throwaway secret and reports the result in text or JSON format. Returns an
// error when any check fails so the process exits non-zero.
func RunSelfCheck(
	ctx context.Context,
	selfCheckUseCase envelopeUsecase.SelfCheckUseCase,
	logger *slog.Logger,
	w io.Writer,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	logger.Info("running self check")

	report := selfCheckUseCase.Run(ctx)

	if format == "json" {
		if err := outputSelfCheckJSON(w, report); err != nil {
			return err
		}
	} else {
		outputSelfCheckText(w, report)
	}

	if !report.Passed {
		return errors.New("self check failed")
	}

	return nil
}

// outputSelfCheckText outputs the report in human-readable text format.
func outputSelfCheckText(w io.Writer, report *envelopeDomain.SelfCheckReport) {
	for _, result := range report.Results {
		if result.Passed {
			fmt.Fprintf(w, "ok   %-20s %s\n", result.Kind, result.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(w, "FAIL %-20s %s (%s)\n",
				result.Kind, result.Duration.Round(time.Millisecond), result.Detail)
		}
	}

	if report.Passed {
		fmt.Fprintf(w, "self check passed in %s\n", report.Duration.Round(time.Millisecond))
	} else {
		fmt.Fprintf(w, "self check FAILED in %s\n", report.Duration.Round(time.Millisecond))
	}
}

// outputSelfCheckJSON outputs the report in JSON format for machine consumption.
func outputSelfCheckJSON(w io.Writer, report *envelopeDomain.SelfCheckReport) error {
	checks := make([]map[string]interface{}, 0, len(report.Results))
	for _, result := range report.Results {
		checks = append(checks, map[string]interface{}{
			"kind":        string(result.Kind),
			"passed":      result.Passed,
			"duration_ms": result.Duration.Milliseconds(),
			"detail":      result.Detail,
		})
	}

	result := map[string]interface{}{
		"passed":      report.Passed,
		"duration_ms": report.Duration.Milliseconds(),
		"checks":      checks,
	}

	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	_, err = fmt.Fprintln(w, string(jsonBytes))
	return err
}
