package core

import (
	"fmt"
	"math"
)

// FormatPrice renders a price with a magnitude suffix (K, M, B) and two
// decimals. The price scale and the axis renderer both use it.
func FormatPrice(value float64) string {
	return FormatPricePrecision(value, 2)
}

// FormatPricePrecision is FormatPrice with a configurable decimal count.
func FormatPricePrecision(value float64, decimals int) string {
	switch abs := math.Abs(value); {
	case abs >= 1e9:
		return fmt.Sprintf("$%.*fB", decimals, value/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("$%.*fM", decimals, value/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("$%.*fK", decimals, value/1e3)
	default:
		return fmt.Sprintf("$%.*f", decimals, value)
	}
}

// FormatVolume renders a volume with a magnitude suffix and no currency.
func FormatVolume(volume float64) string {
	switch {
	case volume >= 1e9:
		return fmt.Sprintf("%.2fB", volume/1e9)
	case volume >= 1e6:
		return fmt.Sprintf("%.2fM", volume/1e6)
	case volume >= 1e3:
		return fmt.Sprintf("%.2fK", volume/1e3)
	default:
		return fmt.Sprintf("%.0f", volume)
	}
}
