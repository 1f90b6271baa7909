package scale

import (
	"math"

	"github.com/raykavin/lwcharts/pkg/core"
)

const (
	defaultPadding = 0.05
	defaultMin     = 0.0
	defaultMax     = 100.0
)

// PriceScale maps prices of one pane onto the normalized [-1, 1] interval.
// Invariant: max > min.
type PriceScale struct {
	min     float64
	max     float64
	padding float64
}

// NewPriceScale returns a scale spanning (0, 100) with 5% padding.
func NewPriceScale() *PriceScale {
	return &PriceScale{min: defaultMin, max: defaultMax, padding: defaultPadding}
}

// Min returns the displayed lower bound.
func (p *PriceScale) Min() float64 { return p.min }

// Max returns the displayed upper bound.
func (p *PriceScale) Max() float64 { return p.max }

// Padding returns the auto padding ratio.
func (p *PriceScale) Padding() float64 { return p.padding }

// SetPadding sets the auto padding ratio, clamped to [0, 1].
func (p *PriceScale) SetPadding(ratio float64) {
	p.padding = core.Clamp(ratio, 0, 1)
}

// UpdateRange sets the displayed extent. A degenerate range is widened by
// one on each side before padding is applied.
func (p *PriceScale) UpdateRange(minVal, maxVal float64, autoPad bool) {
	if math.IsNaN(minVal) || math.IsNaN(maxVal) || math.IsInf(minVal, 0) || math.IsInf(maxVal, 0) {
		return
	}
	if minVal > maxVal {
		minVal, maxVal = maxVal, minVal
	}
	if minVal == maxVal {
		minVal--
		maxVal++
	}

	if autoPad {
		pad := (maxVal - minVal) * p.padding
		minVal -= pad
		maxVal += pad
	}

	p.min, p.max = minVal, maxVal
}

// YAtPrice converts a price to normalized Y.
func (p *PriceScale) YAtPrice(price float64) float64 {
	return (price-p.min)/(p.max-p.min)*2 - 1
}

// PriceAtY converts normalized Y back to a price.
func (p *PriceScale) PriceAtY(y float64) float64 {
	return (y+1)/2*(p.max-p.min) + p.min
}

// Labels returns n evenly spaced labels across the range in normal mode.
func (p *PriceScale) Labels(n int) []Label {
	return Labels(core.PriceScaleNormal, p.min, p.max, n)
}
