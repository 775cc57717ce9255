// Package literal turns raw literal token text into typed constant values.
//
// Malformed input is reported through an error, never a panic; the lowering
// stage turns those errors into constant nodes without a value.
package literal

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrMalformed is wrapped by every parse failure in this package.
	ErrMalformed = errors.New("malformed literal")
	// ErrUnsigned reports unsigned-suffixed integer literals, which have no
	// constant representation here yet.
	ErrUnsigned = errors.New("unsigned literals are not supported")
)

// Integer parses an integer literal token. A trailing L selects a 64-bit
// value (int64); otherwise the value must fit in 32 bits (int32). Decimal,
// 0x and 0b forms and '_' separators are accepted.
func Integer(text string) (value any, long bool, err error) {
	body := strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(body, "L") || strings.HasSuffix(body, "l") {
		long = true
		body = body[:len(body)-1]
	}
	if strings.HasSuffix(body, "u") || strings.HasSuffix(body, "U") {
		return nil, long, fmt.Errorf("%w: %q: %w", ErrMalformed, text, ErrUnsigned)
	}

	base := 10
	switch {
	case strings.HasPrefix(body, "0x"), strings.HasPrefix(body, "0X"):
		base, body = 16, body[2:]
	case strings.HasPrefix(body, "0b"), strings.HasPrefix(body, "0B"):
		base, body = 2, body[2:]
	}
	if body == "" || body[0] == '-' || body[0] == '+' {
		return nil, long, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	bits := 32
	if long {
		bits = 64
	}
	v, perr := strconv.ParseInt(body, base, bits)
	if perr != nil {
		return nil, long, fmt.Errorf("%w: %q: %s", ErrMalformed, text, reason(perr))
	}
	if long {
		return v, true, nil
	}
	return int32(v), false, nil // #nosec G115 -- ParseInt checked 32-bit range
}

// Float parses a floating point literal token. A trailing f or F selects
// single precision (float32); otherwise the value is a float64.
func Float(text string) (value any, single bool, err error) {
	body := strings.ReplaceAll(text, "_", "")
	if strings.HasSuffix(body, "f") || strings.HasSuffix(body, "F") {
		single = true
		body = body[:len(body)-1]
	}
	if body == "" || strings.ContainsFunc(body, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r == '.' || r == 'e' || r == 'E' || r == '+' || r == '-')
	}) {
		return nil, single, fmt.Errorf("%w: %q", ErrMalformed, text)
	}

	bits := 64
	if single {
		bits = 32
	}
	v, perr := strconv.ParseFloat(body, bits)
	if perr != nil {
		return nil, single, fmt.Errorf("%w: %q: %s", ErrMalformed, text, reason(perr))
	}
	if single {
		return float32(v), true, nil
	}
	return v, false, nil
}

// Boolean parses true/false.
func Boolean(text string) (bool, error) {
	switch text {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrMalformed, text)
}

func reason(err error) string {
	switch {
	case errors.Is(err, strconv.ErrRange):
		return "value out of range"
	case errors.Is(err, strconv.ErrSyntax):
		return "invalid syntax"
	default:
		return err.Error()
	}
}
