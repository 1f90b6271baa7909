package crosshair

import (
	"math"

	"github.com/dustin/go-humanize"
	"github.com/raykavin/lwcharts/pkg/core"
)

const tooltipTimeLayout = "2006-01-02 15:04"

// Tooltip formats the record under the crosshair. It is empty while hidden
// or when the pointer is not over data.
func (e *Engine) Tooltip() map[string]string {
	pos, ok := e.Position()
	if !ok || pos.Record == nil {
		return map[string]string{}
	}
	return Tooltip(pos)
}

// Tooltip formats a position for display.
func Tooltip(pos Position) map[string]string {
	if pos.Record == nil {
		return map[string]string{}
	}

	rec := *pos.Record
	out := map[string]string{
		"time":  rec.Time.Format(tooltipTimeLayout),
		"price": core.FormatPrice(pos.Price),
	}
	if rec.IsOHLC() {
		out["open"] = core.FormatPrice(rec.Open)
		out["high"] = core.FormatPrice(rec.High)
		out["low"] = core.FormatPrice(rec.Low)
		out["close"] = core.FormatPrice(rec.Close)
	}
	if rec.Has(core.FieldVolume) {
		out["volume"] = humanize.Comma(int64(math.Round(rec.Volume)))
	}
	if rec.Has(core.FieldValue) {
		out["value"] = core.FormatPrice(rec.Value)
	}
	return out
}
