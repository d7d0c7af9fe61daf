package schema

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// DatetimeLayout is the wire format of datetime default values.
const DatetimeLayout = "2006-01-02T15:04:05.000Z07:00"

// maxSafeInteger is the largest integer a float64 holds without precision loss.
const maxSafeInteger = 1<<53 - 1

var (
	trueWords  = []string{"true", "t", "1", "y", "yes"}
	falseWords = []string{"false", "f", "0", "n", "no"}
)

// ParseBool parses the tri-state boolean fields of the column editor. An
// empty input leaves the value unset.
func ParseBool(raw string) (value, set bool, err error) {
	if raw == "" {
		return false, false, nil
	}
	v := strings.ToLower(raw)
	for _, w := range trueWords {
		if v == w {
			return true, true, nil
		}
	}
	for _, w := range falseWords {
		if v == w {
			return false, true, nil
		}
	}
	return false, false, &ValidationError{Err: ErrInvalidBool, Value: raw}
}

// CoerceDefault turns the raw text of a default value into its canonical
// form for the column type t. set is false when the input leaves the default
// unset, which is never an error. Types without default value support (text,
// multiple) always come back unset.
func CoerceDefault(t ColumnType, raw string) (value string, set bool, err error) {
	invalid := func() (string, bool, error) {
		return "", false, &ValidationError{Path: string(t), Err: ErrInvalidDefault, Value: raw}
	}
	switch t {
	case TypeString:
		return raw, raw != "", nil
	case TypeInt:
		n, ok := parseNumber(raw)
		if !ok || n != math.Trunc(n) || math.Abs(n) > maxSafeInteger {
			return invalid()
		}
		return strconv.FormatInt(int64(n), 10), true, nil
	case TypeFloat:
		n, ok := parseNumber(raw)
		if !ok {
			return invalid()
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true, nil
	case TypeBool:
		b, set, err := ParseBool(raw)
		if err != nil {
			return invalid()
		}
		if !set {
			return "", false, nil
		}
		return strconv.FormatBool(b), true, nil
	case TypeEmail, TypeLink:
		return raw, raw != "", nil
	case TypeDatetime:
		if strings.TrimSpace(raw) == "" {
			return invalid()
		}
		d, err := cast.ToTimeE(strings.TrimSpace(raw))
		if err != nil {
			return invalid()
		}
		return d.UTC().Format(DatetimeLayout), true, nil
	default:
		return "", false, nil
	}
}

// parseNumber accepts decimal and exponent notation and rejects NaN and
// infinities.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return float64(n), true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatDatetime renders t in the datetime wire format.
func FormatDatetime(t time.Time) string {
	return t.UTC().Format(DatetimeLayout)
}
