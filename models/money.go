package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is a monetary amount in whole minor units (zero-decimal currency).
type Money int64

var ErrInvalidMoney = errors.New("invalid money value")

// ParseMoney parses a human-entered amount into Money.
//
// Accepted forms: plain digits ("10000"), an optional "Rp" prefix, and
// either "." or "," as thousands separators in consistent groups of three
// ("10.000", "Rp 1,250,000"). Anything else is rejected: negative values,
// fractional parts, mixed separators, and separator groups that are not
// exactly three digits wide (so "10,5" is an error, not ten-and-a-half).
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if up := strings.ToUpper(s); strings.HasPrefix(up, "RP") {
		s = strings.TrimSpace(s[2:])
	}
	if s == "" {
		return 0, fmt.Errorf("%w: empty input", ErrInvalidMoney)
	}
	if strings.HasPrefix(s, "-") {
		return 0, fmt.Errorf("%w: negative amount %q", ErrInvalidMoney, s)
	}

	sep := ""
	if strings.ContainsRune(s, '.') {
		sep = "."
	}
	if strings.ContainsRune(s, ',') {
		if sep != "" {
			return 0, fmt.Errorf("%w: mixed separators in %q", ErrInvalidMoney, s)
		}
		sep = ","
	}

	digits := s
	if sep != "" {
		groups := strings.Split(s, sep)
		if len(groups[0]) == 0 || len(groups[0]) > 3 {
			return 0, fmt.Errorf("%w: ambiguous format %q", ErrInvalidMoney, s)
		}
		for _, g := range groups[1:] {
			if len(g) != 3 {
				return 0, fmt.Errorf("%w: ambiguous format %q", ErrInvalidMoney, s)
			}
		}
		digits = strings.Join(groups, "")
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	return Money(n), nil
}

// Scan implements sql.Scanner so DECIMAL/BIGINT columns land as Money.
func (m *Money) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*m = 0
		return nil
	case int64:
		*m = Money(v)
		return nil
	case []byte:
		return m.scanString(string(v))
	case string:
		return m.scanString(v)
	default:
		return fmt.Errorf("%w: unsupported type %T", ErrInvalidMoney, value)
	}
}

func (m *Money) scanString(s string) error {
	// DECIMAL columns come back as "10000" or "10000.00"; strip a
	// zero-valued fraction before parsing.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		if strings.Trim(s[i+1:], "0") != "" {
			return fmt.Errorf("%w: fractional amount %q", ErrInvalidMoney, s)
		}
		s = s[:i]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	*m = Money(n)
	return nil
}

func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}
