// Package safecast implements functions to safely cast types to avoid panics
package safecast

import (
	"fmt"
	"math"

	"github.com/spf13/cast"
)

// Uint64ToInt safely converts a uint64 to int using cast and checks for overflow
func Uint64ToInt(value uint64) (int, error) {
	if value > math.MaxInt {
		return 0, fmt.Errorf("value %d exceeds int range", value)
	}

	return cast.ToIntE(value)
}

// Uint64ToIntBounded converts a uint64 to int and checks that it does not exceed limit,
// which is how decoded offsets and lengths are validated against a buffer size.
func Uint64ToIntBounded(value uint64, limit int) (int, error) {
	n, err := Uint64ToInt(value)
	if err != nil {
		return 0, err
	}
	if n > limit {
		return 0, fmt.Errorf("value %d exceeds limit %d", value, limit)
	}

	return n, nil
}
