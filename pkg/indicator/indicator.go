// Package indicator derives overlay series from chart records on go-talib.
// Every function trims the warmup records so the output can be fed straight
// into a line series.
package indicator

import (
	"errors"
	"fmt"

	"github.com/markcheno/go-talib"
	"github.com/raykavin/lwcharts/pkg/core"
)

var (
	ErrInsufficientData = errors.New("not enough records for the period")
	ErrInvalidPeriod    = errors.New("period must be at least 2")
)

// MaType represents moving average type
type MaType = talib.MaType

// Moving average type constants
const (
	TypeSMA = talib.SMA // Simple Moving Average
	TypeEMA = talib.EMA // Exponential Moving Average
	TypeWMA = talib.WMA // Weighted Moving Average
)

// Bands holds three aligned outputs, such as Bollinger upper, middle and
// lower bands or MACD line, signal and histogram.
type Bands struct {
	Upper  []core.Record
	Middle []core.Record
	Lower  []core.Record
}

// SMA calculates Simple Moving Average
func SMA(records []core.Record, period int, source core.Field) ([]core.Record, error) {
	return overlay(records, period, period-1, source, talib.Sma)
}

// EMA calculates Exponential Moving Average
func EMA(records []core.Record, period int, source core.Field) ([]core.Record, error) {
	return overlay(records, period, period-1, source, talib.Ema)
}

// WMA calculates Weighted Moving Average
func WMA(records []core.Record, period int, source core.Field) ([]core.Record, error) {
	return overlay(records, period, period-1, source, talib.Wma)
}

// RSI calculates Relative Strength Index on closes
func RSI(records []core.Record, period int) ([]core.Record, error) {
	return overlay(records, period, period, core.FieldClose, talib.Rsi)
}

// MACD calculates Moving Average Convergence/Divergence on closes.
// Upper is the MACD line, Middle the signal and Lower the histogram.
func MACD(records []core.Record, fast, slow, signal int) (Bands, error) {
	if fast < 2 || slow < 2 || signal < 1 {
		return Bands{}, fmt.Errorf("macd %d/%d/%d: %w", fast, slow, signal, ErrInvalidPeriod)
	}
	if slow < fast {
		fast, slow = slow, fast
	}

	input, err := values(records, core.FieldClose)
	if err != nil {
		return Bands{}, err
	}
	warmup := slow - 1 + signal - 1
	if len(input) <= warmup {
		return Bands{}, fmt.Errorf("macd needs %d records, got %d: %w", warmup+1, len(input), ErrInsufficientData)
	}

	line, sig, hist := talib.Macd(input, fast, slow, signal)
	return Bands{
		Upper:  points(records, line, warmup),
		Middle: points(records, sig, warmup),
		Lower:  points(records, hist, warmup),
	}, nil
}

// Bollinger calculates Bollinger Bands over an SMA of closes
func Bollinger(records []core.Record, period int, deviation float64) (Bands, error) {
	if period < 2 {
		return Bands{}, fmt.Errorf("bollinger %d: %w", period, ErrInvalidPeriod)
	}

	input, err := values(records, core.FieldClose)
	if err != nil {
		return Bands{}, err
	}
	warmup := period - 1
	if len(input) <= warmup {
		return Bands{}, fmt.Errorf("bollinger needs %d records, got %d: %w", period, len(input), ErrInsufficientData)
	}

	upper, middle, lower := talib.BBands(input, period, deviation, deviation, TypeSMA)
	return Bands{
		Upper:  points(records, upper, warmup),
		Middle: points(records, middle, warmup),
		Lower:  points(records, lower, warmup),
	}, nil
}

func overlay(records []core.Record, period, warmup int, source core.Field, fn func([]float64, int) []float64) ([]core.Record, error) {
	if period < 2 {
		return nil, fmt.Errorf("period %d: %w", period, ErrInvalidPeriod)
	}

	input, err := values(records, source)
	if err != nil {
		return nil, err
	}
	if len(input) <= warmup {
		return nil, fmt.Errorf("period %d needs %d records, got %d: %w", period, warmup+1, len(input), ErrInsufficientData)
	}
	return points(records, fn(input, period), warmup), nil
}

// values extracts source from every record.
func values(records []core.Record, source core.Field) ([]float64, error) {
	out := make([]float64, len(records))
	for i, rec := range records {
		v, ok := rec.Get(source)
		if !ok {
			return nil, &core.DataError{Series: "indicator", Index: i, Field: source, Err: core.ErrMissingField}
		}
		out[i] = v
	}
	return out, nil
}

func points(records []core.Record, output []float64, warmup int) []core.Record {
	out := make([]core.Record, 0, len(records)-warmup)
	for i := warmup; i < len(records); i++ {
		out = append(out, core.Point(records[i].Time, output[i]))
	}
	return out
}
