package utils

import (
	"fmt"
	"strings"
)

// ErrInvalidSymbol is returned for empty or malformed ticker input. It is an
// input error, rejected before any fetch is attempted.
type ErrInvalidSymbol struct {
	Input string
}

func (e *ErrInvalidSymbol) Error() string {
	return fmt.Sprintf("invalid symbol %q", e.Input)
}

// NormalizeSymbol trims and uppercases a ticker symbol. Symbols are
// case-insensitive on input and uppercase for display. Letters, digits, and
// the separators ".", "-", "^" are accepted (BRK.B, BF-B, ^GSPC).
func NormalizeSymbol(raw string) (string, error) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if s == "" || len(s) > 12 {
		return "", &ErrInvalidSymbol{Input: raw}
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '^':
		default:
			return "", &ErrInvalidSymbol{Input: raw}
		}
	}
	return s, nil
}
