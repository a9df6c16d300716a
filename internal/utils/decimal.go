package utils

import (
	"fmt"
	"math"

	"github.com/jackc/pgx/v5/pgtype"
)

func NumericToFloat64(value pgtype.Numeric) float64 {
	if !value.Valid {
		return 0
	}
	f, err := value.Float64Value()
	if err == nil {
		return f.Float64
	}
	// fallback to string parse
	text, err := value.MarshalJSON()
	if err != nil {
		return 0
	}
	var out float64
	if _, err := fmt.Sscan(string(text), &out); err != nil {
		return 0
	}
	return out
}

func Float64ToNumeric(value float64) pgtype.Numeric {
	var n pgtype.Numeric
	// Scan never fails for a plain decimal rendering
	_ = n.Scan(fmt.Sprintf("%.2f", value))
	return n
}

// Round2 rounds money amounts to pennies.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
