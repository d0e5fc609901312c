package validators

import (
	"context"
	"fmt"
)

// Rule names accepted by PinValidator.Validate to restrict the check to a
// subset of rules.
const (
	RuleMinLength     = "min_length"
	RuleDigitsOnly    = "digits_only"
	RuleNotAscending  = "not_ascending"
	RuleNotDescending = "not_descending"
	RuleNotIdentical  = "not_identical"
	RuleNoDominant    = "no_dominant_digit"
)

const (
	// VaultPinMinLength is the minimum length of the vault PIN.
	VaultPinMinLength = 6
	// AdminPinMinLength is the minimum length of the admin PIN.
	AdminPinMinLength = 4
)

var vaultPinRules = []string{
	RuleMinLength,
	RuleDigitsOnly,
	RuleNotAscending,
	RuleNotDescending,
	RuleNotIdentical,
	RuleNoDominant,
}

var adminPinRules = []string{RuleMinLength, RuleDigitsOnly}

// PinValidator checks candidate PINs. Validate accepts a string and returns
// nil or an error wrapping [ErrInvalidPin]. It is pure and safe for
// concurrent use.
type PinValidator struct {
	minLength int
	rules     []string
}

// NewVaultPinValidator returns the complexity validator for the vault PIN:
// six or more digits, no ascending or descending run, not all identical, no
// digit in more than half of the positions.
func NewVaultPinValidator() Validator {
	return &PinValidator{minLength: VaultPinMinLength, rules: vaultPinRules}
}

// NewAdminPinValidator returns the validator for the admin PIN: four or more
// digits.
func NewAdminPinValidator() Validator {
	return &PinValidator{minLength: AdminPinMinLength, rules: adminPinRules}
}

func (v *PinValidator) Validate(_ context.Context, obj any, rules ...string) error {
	var pin string
	switch value := obj.(type) {
	case string:
		pin = value
	case *string:
		if value == nil {
			return ErrUnsupportedType
		}
		pin = *value
	default:
		return ErrUnsupportedType
	}

	if len(rules) == 0 {
		rules = v.rules
	}

	for _, r := range rules {
		if err := v.check(pin, r); err != nil {
			return err
		}
	}

	return nil
}

func (v *PinValidator) check(pin, rule string) error {
	switch rule {
	case RuleMinLength:
		if len(pin) < v.minLength {
			return fmt.Errorf("%w (minimum %d digits)", ErrPinTooShort, v.minLength)
		}
	case RuleDigitsOnly:
		if !isAllDigits(pin) {
			return ErrPinNotNumeric
		}
	case RuleNotAscending:
		if isRun(pin, 1) {
			return ErrPinAscending
		}
	case RuleNotDescending:
		if isRun(pin, -1) {
			return ErrPinDescending
		}
	case RuleNotIdentical:
		if isRun(pin, 0) {
			return ErrPinAllIdentical
		}
	case RuleNoDominant:
		if maxDigitCount(pin) > len(pin)/2 {
			return ErrPinDominantDigit
		}
	default:
		return ErrUnknownField
	}

	return nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isRun reports whether every byte of s equals the previous one plus step.
// Strings shorter than two characters are not runs.
func isRun(s string, step int) bool {
	if len(s) < 2 {
		return false
	}
	for i := 1; i < len(s); i++ {
		if int(s[i])-int(s[i-1]) != step {
			return false
		}
	}
	return true
}

func maxDigitCount(s string) int {
	counts := make(map[byte]int, 10)
	highest := 0
	for i := 0; i < len(s); i++ {
		counts[s[i]]++
		if counts[s[i]] > highest {
			highest = counts[s[i]]
		}
	}
	return highest
}
