package util

import (
	"fmt"
	"math"
)

// Round Method to round to 2 decimals
func Round(f float64) float64 {
	return math.Round(f*100) / 100
}

// HumanBytes formats a size in bytes with a binary unit, e.g. "1.5 KiB".
func HumanBytes[T ~int | ~int64](bytes T) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", int64(bytes))
	}
	value := float64(bytes)
	suffixes := []string{"KiB", "MiB", "GiB", "TiB"}
	i := -1
	for value >= unit && i < len(suffixes)-1 {
		value /= unit
		i++
	}
	return fmt.Sprintf("%g %s", Round(value), suffixes[i])
}
