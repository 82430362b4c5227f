// Package safecast implements functions to safely cast types to avoid panics
package safecast

import (
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// IntToUint8 safely converts an int to uint8 and checks for overflow.
func IntToUint8(value int) (uint8, error) {
	if value < 0 || value > math.MaxUint8 {
		return 0, fmt.Errorf("value %d exceeds uint8 range", value)
	}

	return cast.ToUint8E(value)
}

// IntToUint16 safely converts an int to uint16 and checks for overflow.
func IntToUint16(value int) (uint16, error) {
	if value < 0 || value > math.MaxUint16 {
		return 0, fmt.Errorf("value %d exceeds uint16 range", value)
	}

	return cast.ToUint16E(value)
}

// Float64ToUint16 safely converts a float64 to uint16, rejecting negatives,
// overflow and fractional values.
func Float64ToUint16(value float64) (uint16, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %g is negative, cannot convert to uint16", value)
	}
	if value > math.MaxUint16 {
		return 0, fmt.Errorf("value %g exceeds uint16 range", value)
	}
	if value != math.Trunc(value) {
		return 0, fmt.Errorf("value %g has fractional part, cannot convert to uint16", value)
	}

	return cast.ToUint16E(value)
}
