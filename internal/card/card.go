// Package card validates payment card details before a subscription is
// forwarded downstream. Nothing here stores or logs card data.
package card

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

type Field string

const (
	FieldNumber         Field = "card_number"
	FieldExpirationDate Field = "expiration_date"
	FieldCVV            Field = "cvv"
	FieldHolderName     Field = "card_holder_name"
)

const (
	ReasonNumberLength      = "card number must be 15 or 16 digits long"
	ReasonNumberNotNumeric  = "card number must contain only digits"
	ReasonNumberChecksum    = "invalid card number"
	ReasonExpirationFormat  = "invalid expiration date format"
	ReasonExpired           = "card has expired"
	ReasonCVVLength         = "cvv must be 3 or 4 digits long"
	ReasonCVVNotNumeric     = "cvv must contain only digits"
	ReasonHolderNameEmpty   = "card holder name is required"
	ReasonHolderNameInvalid = "card holder name must contain only letters and spaces"
)

// Info is the card payload of a single request.
type Info struct {
	Number         string
	ExpirationDate string
	CVV            string
	HolderName     string
}

// String never includes card data so an Info can't leak through %v.
func (i Info) String() string {
	return "card.Info{redacted}"
}

type ValidationError struct {
	Field  Field
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field Field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

var (
	expirationPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/([0-9]{2})$`)
	holderNamePattern = regexp.MustCompile(`^[a-zA-Z ]+$`)
)

// Validate checks number, expiration, CVV and holder name in that order and
// stops at the first failure.
func Validate(info Info, now time.Time) error {
	if err := ValidateNumber(info.Number); err != nil {
		return err
	}

	if err := ValidateExpiration(info.ExpirationDate, now); err != nil {
		return err
	}

	if err := ValidateCVV(info.CVV); err != nil {
		return err
	}

	return ValidateHolderName(info.HolderName)
}

func ValidateNumber(number string) error {
	if len(number) < 15 || len(number) > 16 {
		return invalid(FieldNumber, ReasonNumberLength)
	}

	if !isDigits(number) {
		return invalid(FieldNumber, ReasonNumberNotNumeric)
	}

	if !Luhn(number) {
		return invalid(FieldNumber, ReasonNumberChecksum)
	}

	return nil
}

// Luhn reports whether a string of ASCII digits carries a valid check digit.
// Starting from the rightmost digit, every second digit is doubled and reduced
// by 9 when it exceeds 9.
func Luhn(digits string) bool {
	if digits == "" || !isDigits(digits) {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}

		sum += d
		double = !double
	}

	return sum%10 == 0
}

// ValidateExpiration accepts "MM/YY". A card is expired once its month is
// before the current month; the day of the month is not considered.
func ValidateExpiration(expiration string, now time.Time) error {
	matches := expirationPattern.FindStringSubmatch(expiration)
	if matches == nil {
		return invalid(FieldExpirationDate, ReasonExpirationFormat)
	}

	// Both groups are two ASCII digits once the pattern matched.
	month, _ := strconv.Atoi(matches[1])
	year, _ := strconv.Atoi(matches[2])

	currentYear := now.Year() % 100
	currentMonth := int(now.Month())
	if year < currentYear || (year == currentYear && month < currentMonth) {
		return invalid(FieldExpirationDate, ReasonExpired)
	}

	return nil
}

func ValidateCVV(cvv string) error {
	if len(cvv) < 3 || len(cvv) > 4 {
		return invalid(FieldCVV, ReasonCVVLength)
	}

	if !isDigits(cvv) {
		return invalid(FieldCVV, ReasonCVVNotNumeric)
	}

	return nil
}

func ValidateHolderName(name string) error {
	if name == "" {
		return invalid(FieldHolderName, ReasonHolderNameEmpty)
	}

	if !holderNamePattern.MatchString(name) {
		return invalid(FieldHolderName, ReasonHolderNameInvalid)
	}

	return nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
