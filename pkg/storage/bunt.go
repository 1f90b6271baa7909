// Package storage persists bars so a chart can be reopened with the history
// a live feed accumulated.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/logger"
	"github.com/tidwall/buntdb"
)

// timeIndex orders bars by open time.
const timeIndex = "time_index"

// RecordFilter selects records on load.
type RecordFilter func(rec core.Record) bool

// WithSince keeps records at or after t.
func WithSince(t time.Time) RecordFilter {
	return func(rec core.Record) bool {
		return !rec.Time.Before(t)
	}
}

// WithUntil keeps records at or before t.
func WithUntil(t time.Time) RecordFilter {
	return func(rec core.Record) bool {
		return !rec.Time.After(t)
	}
}

// Bars stores the records of one series in BuntDB, one key per open time.
// Pushing a record for a stored time replaces it.
type Bars struct {
	log    logger.Logger
	db     *buntdb.DB
	series string
}

// Config holds configuration options for BuntDB
type Config struct {
	// Series namespaces the keys so several series can share a file.
	Series string
	// SyncPolicy determines how often data is synchronized to disk
	SyncPolicy buntdb.SyncPolicy
}

// DefaultConfig returns the default configuration for BuntDB
func DefaultConfig() Config {
	return Config{
		Series:     "bars",
		SyncPolicy: buntdb.EverySecond,
	}
}

// NewFromMemory creates an in-memory store with default configuration
func NewFromMemory(log logger.Logger) (*Bars, error) {
	return NewBars(log, ":memory:", DefaultConfig())
}

// NewFromFile creates a file-based store with default configuration
func NewFromFile(log logger.Logger, file string) (*Bars, error) {
	return NewBars(log, file, DefaultConfig())
}

// NewBars opens a BuntDB store with the specified configuration
func NewBars(log logger.Logger, sourceFile string, config Config) (*Bars, error) {
	if log == nil {
		log = logger.Nop()
	}

	db, err := buntdb.Open(sourceFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}

	if err := db.SetConfig(buntdb.Config{SyncPolicy: config.SyncPolicy}); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure buntdb: %w", err)
	}

	if err := db.CreateIndex(timeIndex, config.Series+":*", buntdb.IndexJSON("time")); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create time index: %w", err)
	}

	return &Bars{log: log, db: db, series: config.Series}, nil
}

// stored is the JSON form of a record.
type stored struct {
	Time   int64   `json:"time"`
	Value  float64 `json:"value,omitempty"`
	Open   float64 `json:"open,omitempty"`
	High   float64 `json:"high,omitempty"`
	Low    float64 `json:"low,omitempty"`
	Close  float64 `json:"close,omitempty"`
	Volume float64 `json:"volume,omitempty"`
	Fields uint8   `json:"fields"`
}

func (s stored) record() core.Record {
	return core.Record{
		Time:   time.UnixMilli(s.Time).UTC(),
		Value:  s.Value,
		Open:   s.Open,
		High:   s.High,
		Low:    s.Low,
		Close:  s.Close,
		Volume: s.Volume,
		Fields: core.Field(s.Fields),
	}
}

func (b *Bars) key(t time.Time) string {
	return fmt.Sprintf("%s:%d", b.series, t.UnixMilli())
}

// Push stores rec, replacing a stored record with the same open time. It
// makes Bars a feed sink.
func (b *Bars) Push(rec core.Record) error {
	return b.PushAll([]core.Record{rec})
}

// PushAll stores every record in one transaction.
func (b *Bars) PushAll(records []core.Record) error {
	return b.db.Update(func(tx *buntdb.Tx) error {
		for _, rec := range records {
			content, err := encode(rec)
			if err != nil {
				return err
			}
			if _, _, err := tx.Set(b.key(rec.Time), content, nil); err != nil {
				return fmt.Errorf("failed to store record: %w", err)
			}
		}
		return nil
	})
}

func encode(rec core.Record) (string, error) {
	if !rec.Has(core.FieldTime) {
		return "", fmt.Errorf("%w: missing time", core.ErrInvalidRecord)
	}

	content, err := json.Marshal(stored{
		Time:   rec.Time.UnixMilli(),
		Value:  rec.Value,
		Open:   rec.Open,
		High:   rec.High,
		Low:    rec.Low,
		Close:  rec.Close,
		Volume: rec.Volume,
		Fields: uint8(rec.Fields),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}
	return string(content), nil
}

// Records loads the stored records in time order, keeping those every
// filter accepts.
func (b *Bars) Records(_ context.Context, filters ...RecordFilter) ([]core.Record, error) {
	records := make([]core.Record, 0)

	err := b.db.View(func(tx *buntdb.Tx) error {
		err := tx.Ascend(timeIndex, func(key, value string) bool {
			var s stored
			if err := json.Unmarshal([]byte(value), &s); err != nil {
				b.log.WithField("key", key).WithError(err).Warn("skipping unreadable record")
				return true
			}

			rec := s.record()
			for _, filter := range filters {
				if !filter(rec) {
					return true
				}
			}
			records = append(records, rec)
			return true
		})
		if err != nil {
			return fmt.Errorf("failed to iterate over records: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}

	return records, nil
}

// Len returns the number of stored records.
func (b *Bars) Len() (int, error) {
	var n int
	err := b.db.View(func(tx *buntdb.Tx) error {
		return tx.AscendKeys(b.series+":*", func(_, _ string) bool {
			n++
			return true
		})
	})
	return n, err
}

// Close closes the database connection
func (b *Bars) Close() error {
	return b.db.Close()
}
