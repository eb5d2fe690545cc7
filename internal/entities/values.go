package entities

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"

	"github.com/spf13/cast"
)

// Values is a partial book record keyed by column name. A key mapped to nil
// is present but null, which differs from a missing key.
type Values map[string]any

// Contains reports whether key is present, even if its value is nil.
func (v Values) Contains(key string) bool {
	_, ok := v[key]
	return ok
}

// Size returns the number of keys.
func (v Values) Size() int {
	return len(v)
}

// Keys returns the keys in sorted order.
func (v Values) Keys() []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsString returns the value for key converted to a string. The second
// result is false when the key is missing, null, or not convertible.
func (v Values) AsString(key string) (string, bool) {
	raw, ok := v[key]
	if !ok || raw == nil {
		return "", false
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

// AsInt returns the value for key converted to an int. Floats must be
// integral and strings must be decimal integers. Booleans are not numbers
// here.
func (v Values) AsInt(key string) (int, bool) {
	raw, ok := v[key]
	if !ok || raw == nil {
		return 0, false
	}

	switch n := raw.(type) {
	case bool:
		return 0, false
	case string:
		return parseDecimal(n)
	case json.Number:
		return parseDecimal(n.String())
	case float32:
		return integral(float64(n))
	case float64:
		return integral(n)
	}

	n, err := cast.ToIntE(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDecimal(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func integral(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Trunc(f) != f {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

// Clone returns a shallow copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
