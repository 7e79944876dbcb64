package domain

import (
	"time"
)

// SelfCheckResult records the outcome of one data class's health check: a
// full encrypt/decrypt round trip plus salt-shape and wrong-secret probes,
// run under a throwaway secret.
type SelfCheckResult struct {
	Kind     FieldKind
	Passed   bool
	Duration time.Duration
	// Detail describes the first failed check. Empty on pass. Never
	// contains secrets, keys, or field plaintext.
	Detail string
}

// SelfCheckReport aggregates the results for all data classes.
type SelfCheckReport struct {
	Results  []SelfCheckResult
	Passed   bool
	Duration time.Duration
}
