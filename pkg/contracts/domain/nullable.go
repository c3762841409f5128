package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// NullFloat is a float64 that may be missing. The zero value is missing.
type NullFloat struct {
	Value float64
	Valid bool
}

// SomeFloat returns a present value. NaN and infinities are treated as missing.
func SomeFloat(v float64) NullFloat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NullFloat{}
	}
	return NullFloat{Value: v, Valid: true}
}

// MissingFloat returns the missing variant.
func MissingFloat() NullFloat {
	return NullFloat{}
}

// Or returns the value when present and fallback otherwise.
func (n NullFloat) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

// Format renders the value with the given precision, or "" when missing.
func (n NullFloat) Format(precision int) string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', precision, 64)
}

// String implements fmt.Stringer.
func (n NullFloat) String() string {
	if !n.Valid {
		return "n/a"
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

// MarshalJSON encodes missing values as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number or null.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = SomeFloat(v)
	return nil
}
