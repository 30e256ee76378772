package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseCents normalizes the venue's two price encodings into canonical cents.
//
// The venue reports prices either as fixed-point dollar strings ("0.420")
// or as legacy numerics where values greater than 1 are already cents and
// values at or below 1 are dollars. Both collapse to one rule once parsed
// to a float: v > 1 is cents, 0 < v <= 1 is dollars times 100.
//
// Returns nil for anything unparseable, non-positive, or outside the 0-100
// cent range. Never panics.
func ParseCents(v any) *int {
	var f float64

	switch val := v.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		f = parsed
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	default:
		return nil
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return nil
	}

	var cents int
	if f > 1 {
		cents = int(math.Round(f))
	} else {
		cents = int(math.Round(f * 100))
	}

	if cents < 0 || cents > 100 {
		return nil
	}
	return &cents
}

// Cents is a convenience constructor for *int price literals.
func Cents(v int) *int { return &v }
