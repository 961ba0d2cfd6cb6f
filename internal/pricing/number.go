package pricing

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is a loosely typed numeric value as it arrives from catalog
// snapshots and cart payloads. It decodes JSON numbers, numeric strings,
// booleans and null. Anything unparseable decodes as an invalid Number
// instead of failing the whole payload. A key that was never sent leaves
// the zero Number, which is neither valid nor present.
type Number struct {
	value   float64
	valid   bool
	present bool
}

// Num wraps a float. NaN and infinities are invalid.
func Num(v float64) Number {
	return Number{value: v, valid: !math.IsNaN(v) && !math.IsInf(v, 0), present: true}
}

// Null is a value that was sent as null.
func Null() Number {
	return Number{present: true}
}

// NumPtr wraps an optional float; nil is invalid.
func NumPtr(v *float64) Number {
	if v == nil {
		return Number{}
	}
	return Num(*v)
}

// Float returns the value and whether it is present and numeric.
func (n Number) Float() (float64, bool) {
	return n.value, n.valid
}

// Valid reports whether the value is present and numeric.
func (n Number) Valid() bool {
	return n.valid
}

// Present reports whether the value was supplied at all, null and
// unparseable values included.
func (n Number) Present() bool {
	return n.present
}

// truthy mirrors the "x || fallback" idiom: missing, invalid and zero all fall through.
func (n Number) truthy() bool {
	return n.valid && n.value != 0
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Null()

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = Num(0)
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*n = Num(v)
		}
		return nil
	case 't':
		*n = Num(1)
		return nil
	case 'f':
		*n = Num(0)
		return nil
	case '{', '[':
		return nil
	}

	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		*n = Num(v)
	}
	return nil
}

// MarshalJSON implements json.Marshaler. Invalid values encode as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, n.value, 'f', -1, 64), nil
}

// firstTruthy returns the first non-zero numeric value, or 0.
func firstTruthy(values ...Number) float64 {
	for _, v := range values {
		if v.truthy() {
			return v.value
		}
	}
	return 0
}

// firstValid returns the first valid numeric value (zero included), or def.
func firstValid(def float64, values ...Number) float64 {
	for _, v := range values {
		if v.valid {
			return v.value
		}
	}
	return def
}

// toQuantity truncates a coerced quantity toward zero. Missing, invalid,
// zero and values outside the int range all become 1.
func toQuantity(n Number) int {
	q, ok := n.Float()
	if !ok || q >= math.MaxInt64 || q <= math.MinInt64 {
		return 1
	}
	if qty := int(q); qty != 0 {
		return qty
	}
	return 1
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
