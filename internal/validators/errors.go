package validators

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	// ErrInvalidPin is wrapped by every PIN rule violation below.
	ErrInvalidPin = errors.New("invalid PIN")

	ErrPinTooShort      = fmt.Errorf("%w: too short", ErrInvalidPin)
	ErrPinNotNumeric    = fmt.Errorf("%w: only digits are allowed", ErrInvalidPin)
	ErrPinAscending     = fmt.Errorf("%w: ascending sequence", ErrInvalidPin)
	ErrPinDescending    = fmt.Errorf("%w: descending sequence", ErrInvalidPin)
	ErrPinAllIdentical  = fmt.Errorf("%w: all digits identical", ErrInvalidPin)
	ErrPinDominantDigit = fmt.Errorf("%w: one digit fills more than half of the PIN", ErrInvalidPin)
)
