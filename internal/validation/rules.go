// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"
)

var (
	// phoneRegex matches E.164-style phone numbers with an optional leading plus.
	phoneRegex = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

	// base32Regex matches RFC 4648 base32 alphabet with optional trailing padding,
	// the shape of TOTP shared secrets.
	base32Regex = regexp.MustCompile(`^[A-Z2-7]+=*$`)
)

// PhoneNumber validates E.164-style phone number format.
var PhoneNumber = validation.NewStringRuleWithError(
	func(s string) bool {
		return phoneRegex.MatchString(s)
	},
	validation.NewError("validation_phone_number_format", "must be a valid phone number"),
)

// Base32Secret validates that a string looks like a base32-encoded TOTP secret.
var Base32Secret = validation.NewStringRuleWithError(
	func(s string) bool {
		return base32Regex.MatchString(s)
	},
	validation.NewError("validation_base32_secret", "must be a base32-encoded secret"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)
