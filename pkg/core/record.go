package core

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
	"time"
)

// Field identifies one key of a Record.
type Field uint8

const (
	FieldTime Field = 1 << iota
	FieldValue
	FieldOpen
	FieldHigh
	FieldLow
	FieldClose
	FieldVolume
)

// OHLCFields is the set required by candlestick series.
const OHLCFields = FieldOpen | FieldHigh | FieldLow | FieldClose

var fieldNames = map[Field]string{
	FieldTime:   "time",
	FieldValue:  "value",
	FieldOpen:   "open",
	FieldHigh:   "high",
	FieldLow:    "low",
	FieldClose:  "close",
	FieldVolume: "volume",
}

// String returns the record key name, or a "|" joined list for a set.
func (f Field) String() string {
	if name, ok := fieldNames[f]; ok {
		return name
	}

	names := make([]string, 0, bits.OnesCount8(uint8(f)))
	for bit := FieldTime; bit <= FieldVolume; bit <<= 1 {
		if f&bit != 0 {
			names = append(names, fieldNames[bit])
		}
	}
	return strings.Join(names, "|")
}

// Record is one time-ordered data point: a scalar value or an OHLC bar.
// Fields tracks which keys were supplied so series can validate them.
type Record struct {
	Time   time.Time
	Value  float64
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
	Fields Field
}

// Point creates a scalar record.
func Point(t time.Time, value float64) Record {
	return Record{Time: t, Value: value, Fields: FieldTime | FieldValue}
}

// Bar creates an OHLC record.
func Bar(t time.Time, open, high, low, close float64) Record {
	return Record{
		Time:   t,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Fields: FieldTime | OHLCFields,
	}
}

// WithVolume returns a copy of the record carrying a volume.
func (r Record) WithVolume(volume float64) Record {
	r.Volume = volume
	r.Fields |= FieldVolume
	return r
}

// Has reports whether every field in f is present.
func (r Record) Has(f Field) bool {
	return r.Fields&f == f
}

// Missing returns the first field of want that the record lacks, or 0.
func (r Record) Missing(want Field) Field {
	for bit := FieldTime; bit <= FieldVolume; bit <<= 1 {
		if want&bit != 0 && r.Fields&bit == 0 {
			return bit
		}
	}
	return 0
}

// IsOHLC reports whether the record is a complete bar.
func (r Record) IsOHLC() bool {
	return r.Has(OHLCFields)
}

// Get returns the named field value and whether it is present.
func (r Record) Get(f Field) (float64, bool) {
	if !r.Has(f) {
		return 0, false
	}

	switch f {
	case FieldValue:
		return r.Value, true
	case FieldOpen:
		return r.Open, true
	case FieldHigh:
		return r.High, true
	case FieldLow:
		return r.Low, true
	case FieldClose:
		return r.Close, true
	case FieldVolume:
		return r.Volume, true
	default:
		return 0, false
	}
}

// Bounds returns the low and high price the record spans: (low, high) for
// bars, (value, value) for points and (close, close) for close-only records.
func (r Record) Bounds() (low, high float64, ok bool) {
	switch {
	case r.Has(FieldHigh | FieldLow):
		return r.Low, r.High, true
	case r.Has(FieldValue):
		return r.Value, r.Value, true
	case r.Has(FieldClose):
		return r.Close, r.Close, true
	}
	return 0, 0, false
}

// RecordFromMap builds a Record from a loosely typed mapping as produced by
// JSON decoders or CSV rows. Only present keys are marked in Fields.
func RecordFromMap(m map[string]any) (Record, error) {
	var rec Record

	if raw, ok := m["time"]; ok && raw != nil {
		t, err := parseTime(raw)
		if err != nil {
			return Record{}, fmt.Errorf("%w: time: %v", ErrInvalidRecord, err)
		}
		rec.Time = t
		rec.Fields |= FieldTime
	}

	targets := []struct {
		field Field
		dst   *float64
	}{
		{FieldValue, &rec.Value},
		{FieldOpen, &rec.Open},
		{FieldHigh, &rec.High},
		{FieldLow, &rec.Low},
		{FieldClose, &rec.Close},
		{FieldVolume, &rec.Volume},
	}

	for _, target := range targets {
		raw, ok := m[target.field.String()]
		if !ok || raw == nil {
			continue
		}
		v, err := toFloat(raw)
		if err != nil {
			return Record{}, fmt.Errorf("%w: %s: %v", ErrInvalidRecord, target.field, err)
		}
		*target.dst = v
		rec.Fields |= target.field
	}

	return rec, nil
}

func parseTime(raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case int:
		return time.Unix(int64(v), 0).UTC(), nil
	case int64:
		return time.Unix(v, 0).UTC(), nil
	case float64:
		return time.Unix(int64(v), 0).UTC(), nil
	case string:
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Unix(secs, 0).UTC(), nil
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, v)
	default:
		return time.Time{}, fmt.Errorf("unsupported time type %T", raw)
	}
}

func toFloat(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("unsupported number type %T", raw)
	}
}
