package indicator

import (
	"math"

	"github.com/raykavin/lwcharts/pkg/core"
)

// HeikinAshi transforms bars into Heikin-Ashi bars, which filter out market
// noise:
//
//	HA_Close = (Open + High + Low + Close) / 4
//	HA_Open  = (previous HA_Open + previous HA_Close) / 2
//	HA_High  = max(High, HA_Open, HA_Close)
//	HA_Low   = min(Low, HA_Open, HA_Close)
//
// The first bar seeds HA_Open from its own open and close. Volume is kept.
func HeikinAshi(records []core.Record) ([]core.Record, error) {
	out := make([]core.Record, 0, len(records))
	var prevOpen, prevClose float64
	for i, rec := range records {
		if missing := rec.Missing(core.OHLCFields); missing != 0 {
			return nil, &core.DataError{Series: "heikin_ashi", Index: i, Field: missing, Err: core.ErrMissingField}
		}

		if i == 0 {
			prevOpen, prevClose = rec.Open, rec.Close
		}

		haOpen := (prevOpen + prevClose) / 2
		haClose := (rec.Open + rec.High + rec.Low + rec.Close) / 4
		ha := core.Bar(rec.Time,
			haOpen,
			math.Max(rec.High, math.Max(haOpen, haClose)),
			math.Min(rec.Low, math.Min(haOpen, haClose)),
			haClose,
		)
		if v, ok := rec.Get(core.FieldVolume); ok {
			ha = ha.WithVolume(v)
		}

		out = append(out, ha)
		prevOpen, prevClose = haOpen, haClose
	}
	return out, nil
}
