package scale

import (
	"fmt"
	"math"

	"github.com/raykavin/lwcharts/pkg/core"
	"gonum.org/v1/gonum/floats"
)

// minLogValue replaces non-positive bounds in logarithmic mode.
const minLogValue = 0.01

// Label is a price tick with its display text.
type Label struct {
	Value float64
	Text  string
}

// Labels generates n labels between min and max for the given mode.
func Labels(mode core.PriceScaleMode, minVal, maxVal float64, n int) []Label {
	if n <= 0 {
		return nil
	}

	switch mode {
	case core.PriceScaleLogarithmic:
		if minVal <= 0 {
			minVal = minLogValue
		}
		if maxVal <= minVal {
			maxVal = minVal * 10
		}
		exps := span(n, math.Log10(minVal), math.Log10(maxVal))
		labels := make([]Label, len(exps))
		for i, e := range exps {
			v := math.Pow(10, e)
			labels[i] = Label{Value: v, Text: core.FormatPrice(v)}
		}
		return labels

	case core.PriceScalePercentage:
		return format(span(n, minVal, maxVal), func(v float64) string {
			return fmt.Sprintf("%.1f%%", v)
		})

	case core.PriceScaleIndexed:
		return format(span(n, minVal, maxVal), func(v float64) string {
			return fmt.Sprintf("%.1f", v)
		})

	default:
		return format(span(n, minVal, maxVal), core.FormatPrice)
	}
}

func span(n int, lo, hi float64) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

func format(values []float64, fn func(float64) string) []Label {
	labels := make([]Label, len(values))
	for i, v := range values {
		labels[i] = Label{Value: v, Text: fn(v)}
	}
	return labels
}
