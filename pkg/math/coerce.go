package math

import (
	"encoding/json"
	stdmath "math"
	"strconv"
	"strings"
)

// ToNumber converts a decoded JSON value into a float64 the way a loosely typed document
// would: numbers pass through, booleans become 0 or 1, and strings are parsed after
// trimming whitespace (an empty string is 0). The second return value is false when the
// value has no numeric interpretation or the result is not finite.
func ToNumber(v interface{}) (float64, bool) {
	var n float64
	switch value := v.(type) {
	case float64:
		n = value
	case float32:
		n = float64(value)
	case int:
		n = float64(value)
	case int32:
		n = float64(value)
	case int64:
		n = float64(value)
	case uint:
		n = float64(value)
	case uint32:
		n = float64(value)
	case uint64:
		n = float64(value)
	case json.Number:
		f, err := value.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case bool:
		if value {
			n = 1
		}
	case string:
		s := strings.TrimSpace(value)
		if s == "" {
			return 0, true
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if stdmath.IsNaN(n) || stdmath.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// IsNumeric reports whether v is a Go numeric type, as opposed to something that merely
// converts to a number.
func IsNumeric(v interface{}) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return true
	}
	return false
}
