package billing

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Number is a float64 that accepts anything a form can send: JSON numbers,
// numeric strings, empty strings and null. Anything unparsable becomes 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		*n = 0
		return nil
	}
	*n = Number(Coerce(raw))
	return nil
}

func (n Number) Float64() float64 {
	return float64(n)
}

// Coerce converts v to a finite float64, returning 0 for missing, non-numeric,
// NaN or infinite input.
func Coerce(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case Number:
		return finite(float64(t))
	case string:
		v = strings.TrimSpace(t)
	case bool:
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0
	}
	return finite(f)
}

func finite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
