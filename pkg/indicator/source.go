package indicator

import (
	"fmt"

	"github.com/raykavin/lwcharts/pkg/core"
)

var sources = map[string]core.Field{
	"open":   core.FieldOpen,
	"high":   core.FieldHigh,
	"low":    core.FieldLow,
	"close":  core.FieldClose,
	"volume": core.FieldVolume,
	"value":  core.FieldValue,
}

// ParseSource maps a field name such as "close" to the record field.
func ParseSource(name string) (core.Field, error) {
	f, ok := sources[name]
	if !ok {
		return 0, fmt.Errorf("unknown indicator source %q", name)
	}
	return f, nil
}

// Compute runs a single-output indicator by name: sma, ema, wma or rsi.
func Compute(name string, records []core.Record, period int, source core.Field) ([]core.Record, error) {
	switch name {
	case "sma":
		return SMA(records, period, source)
	case "ema":
		return EMA(records, period, source)
	case "wma":
		return WMA(records, period, source)
	case "rsi":
		return RSI(records, period)
	default:
		return nil, fmt.Errorf("unknown indicator %q", name)
	}
}
