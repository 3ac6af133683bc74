package chart

import (
	"math"
	"strconv"
)

// Value is a chart number that encodes NaN and ±Inf as JSON null.
type Value float64

// Valid reports whether v is a finite number.
func (v Value) Valid() bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.Valid() {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, float64(v), 'f', -1, 64), nil
}
