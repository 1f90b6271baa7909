package core

import (
	"strconv"
	"strings"
)

// Sequence is an ordered, append-only run of records. The only in-place
// mutation allowed is replacing the trailing record with one carrying the
// same timestamp.
type Sequence struct {
	records []Record
}

// NewSequence wraps records without copying. Callers hand over ownership.
func NewSequence(records []Record) *Sequence {
	return &Sequence{records: records}
}

// Values returns the underlying records. The slice must not be mutated.
func (s *Sequence) Values() []Record {
	return s.records
}

// Length returns the number of records.
func (s *Sequence) Length() int {
	return len(s.records)
}

// At returns the record at index i and whether i is in bounds.
func (s *Sequence) At(i int) (Record, bool) {
	if i < 0 || i >= len(s.records) {
		return Record{}, false
	}
	return s.records[i], true
}

// Last returns the record at a specified position from the end.
// position 0 is the last record, 1 is the second-to-last, etc.
func (s *Sequence) Last(position int) Record {
	return s.records[len(s.records)-1-position]
}

// LastValues returns the last size records, or all of them when size
// exceeds the length.
func (s *Sequence) LastValues(size int) []Record {
	if l := len(s.records); l > size {
		return s.records[l-size:]
	}
	return s.records
}

// Slice returns records [from, to] inclusive, clipped to the sequence.
func (s *Sequence) Slice(from, to int) []Record {
	if len(s.records) == 0 {
		return nil
	}
	from = Clamp(from, 0, len(s.records)-1)
	to = Clamp(to, from, len(s.records)-1)
	return s.records[from : to+1]
}

// Replace swaps the whole content. The input is copied so later upserts never
// write through to the caller's slice.
func (s *Sequence) Replace(records []Record) {
	s.records = append(make([]Record, 0, len(records)), records...)
}

// Upsert applies the live-update rule: a record with the trailing record's
// timestamp replaces it, a later one is appended and an earlier one is
// rejected with ErrOutOfOrder.
func (s *Sequence) Upsert(rec Record) (appended bool, err error) {
	if len(s.records) == 0 {
		s.records = append(s.records, rec)
		return true, nil
	}

	last := s.records[len(s.records)-1]
	switch {
	case rec.Time.Equal(last.Time):
		s.records[len(s.records)-1] = rec
		return false, nil
	case rec.Time.Before(last.Time):
		return false, ErrOutOfOrder
	default:
		s.records = append(s.records, rec)
		return true, nil
	}
}

// Accepts reports whether Upsert would take rec: ErrOutOfOrder when it is
// older than the trailing record.
func (s *Sequence) Accepts(rec Record) error {
	if n := len(s.records); n > 0 && rec.Time.Before(s.records[n-1].Time) {
		return ErrOutOfOrder
	}
	return nil
}

// NumDecPlaces returns the number of decimal places in a float64.
// Useful for formatting labels with the precision of the source data.
func NumDecPlaces(v float64) int64 {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	i := strings.IndexByte(s, '.')
	if i > -1 {
		return int64(len(s) - i - 1)
	}
	return 0
}
