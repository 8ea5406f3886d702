package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

var decimalDigits = regexp.MustCompile(`^[0-9]+$`)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Basic validators
func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v[field] = "must_be_positive"
	}
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) {
	if !val.IsPositive() {
		v[field] = "must_be_positive"
	}
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v[field] = "must_not_be_negative"
	}
}

// OneOf records a violation when value is not in allowed.
func OneOf[T comparable](field string, value T, allowed []T, v Violations) {
	for _, a := range allowed {
		if a == value {
			return
		}
	}
	v[field] = "not_allowed"
}

// ParseDecimalInt reads an unsigned base-10 integer. Leading zeros do not switch
// to octal, and signs, hex prefixes and underscores are rejected.
func ParseDecimalInt(s string) (int64, error) {
	if !decimalDigits.MatchString(s) {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	if t := strings.TrimLeft(s, "0"); t != "" {
		s = t
	} else {
		s = "0"
	}
	n, err := cast.ToInt64E(s)
	if err != nil {
		return 0, fmt.Errorf("%q is out of range", s)
	}
	return n, nil
}
