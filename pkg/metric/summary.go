package metric

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the values of a series over the visible range.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	// MeanInterval is the bootstrap confidence interval of the mean.
	MeanInterval Interval
}

// Interval is a confidence interval estimated by resampling.
type Interval struct {
	Lower  float64
	Upper  float64
	StdDev float64
	Mean   float64
}

// Summarize computes the summary of values with a 95% bootstrap interval
// of the mean over samples resamples.
func Summarize(values []float64, samples int) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	mean, std := stat.MeanStdDev(values, nil)
	return Summary{
		Count:        len(values),
		Min:          lo.Min(values),
		Max:          lo.Max(values),
		Mean:         mean,
		StdDev:       std,
		MeanInterval: Bootstrap(values, func(s []float64) float64 { return stat.Mean(s, nil) }, samples, 0.95),
	}
}

// Bootstrap estimates the confidence interval of measure by resampling
// values with replacement.
func Bootstrap(values []float64, measure func([]float64) float64, samples int, confidence float64) Interval {
	if len(values) == 0 || samples <= 0 {
		return Interval{}
	}

	data := make([]float64, 0, samples)
	resample := make([]float64, len(values))
	for i := 0; i < samples; i++ {
		for j := range resample {
			resample[j] = lo.Sample(values)
		}
		data = append(data, measure(resample))
	}
	sort.Float64s(data)

	tail := 1 - confidence
	mean, std := stat.MeanStdDev(data, nil)
	return Interval{
		Lower:  stat.Quantile(tail/2, stat.LinInterp, data, nil),
		Upper:  stat.Quantile(1-tail/2, stat.LinInterp, data, nil),
		StdDev: std,
		Mean:   mean,
	}
}
