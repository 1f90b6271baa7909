package series

import (
	"fmt"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/raykavin/lwcharts/pkg/render"
	"github.com/raykavin/lwcharts/pkg/scale"
	"github.com/samber/lo"
)

// Kind is the closed set of series variants.
type Kind string

const (
	KindLine        Kind = "line"
	KindArea        Kind = "area"
	KindCandlestick Kind = "candlestick"
	KindHistogram   Kind = "histogram"
)

// Kinds lists every variant.
var Kinds = []Kind{KindLine, KindArea, KindCandlestick, KindHistogram}

// ParseKind resolves a kind name.
func ParseKind(name string) (Kind, error) {
	if k, ok := lo.Find(Kinds, func(k Kind) bool { return string(k) == name }); ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown series kind %q", name)
}

// Series is implemented by Line, Area, Candlestick and Histogram only.
type Series interface {
	Name() string
	Kind() Kind
	Visible() bool
	SetVisible(visible bool)

	Len() int
	Data() []core.Record
	Last() (core.Record, bool)

	// SetData validates and replaces the records.
	SetData(records []core.Record) error
	// Update replaces the trailing record when timestamps match, appends
	// otherwise and rejects records older than the trailing one.
	Update(rec core.Record) (appended bool, err error)
	Validate(records []core.Record) error

	// PriceRange returns the low/high of the records inside r.
	PriceRange(r scale.Range) (low, high float64, ok bool)
	// Geometry builds the draw commands for the records inside r.
	Geometry(view string, ps *scale.PriceScale, r scale.Range) []render.Primitive
	// Render replaces the primitives previously drawn by this series.
	Render(backend render.Backend, view string, ps *scale.PriceScale, r scale.Range) error
	// Detach removes every primitive drawn by this series.
	Detach(backend render.Backend) error

	sealed()
}

// New creates a series of the given kind with its default style.
func New(kind Kind, name string) (Series, error) {
	switch kind {
	case KindLine:
		return NewLine(name, core.DefaultLineStyle()), nil
	case KindArea:
		return NewArea(name, core.DefaultAreaStyle()), nil
	case KindCandlestick:
		return NewCandlestick(name, core.DefaultCandlestickStyle()), nil
	case KindHistogram:
		return NewHistogram(name, core.DefaultHistogramStyle()), nil
	default:
		return nil, fmt.Errorf("unknown series kind %q", kind)
	}
}

type base struct {
	name     string
	kind     Kind
	required core.Field
	visible  bool
	data     *core.Sequence
	handles  []render.Handle
}

func newBase(name string, kind Kind, required core.Field) base {
	return base{
		name:     name,
		kind:     kind,
		required: core.FieldTime | required,
		visible:  true,
		data:     core.NewSequence(nil),
	}
}

func (b *base) sealed() {}

func (b *base) Name() string            { return b.name }
func (b *base) Kind() Kind              { return b.kind }
func (b *base) Visible() bool           { return b.visible }
func (b *base) SetVisible(visible bool) { b.visible = visible }
func (b *base) Len() int                { return b.data.Length() }
func (b *base) Data() []core.Record     { return b.data.Values() }

func (b *base) Last() (core.Record, bool) {
	if b.data.Length() == 0 {
		return core.Record{}, false
	}
	return b.data.Last(0), true
}

func (b *base) Validate(records []core.Record) error {
	if len(records) == 0 {
		return &core.DataError{Series: b.name, Index: -1, Err: core.ErrEmptyData}
	}
	for i, rec := range records {
		if err := b.check(i, rec); err != nil {
			return err
		}
	}
	return nil
}

func (b *base) check(index int, rec core.Record) error {
	missing := rec.Missing(b.required)
	if missing == 0 {
		return nil
	}
	return &core.DataError{Series: b.name, Index: index, Field: missing, Err: core.ErrMissingField}
}

func (b *base) SetData(records []core.Record) error {
	if err := b.Validate(records); err != nil {
		return err
	}
	b.data.Replace(records)
	return nil
}

func (b *base) Update(rec core.Record) (bool, error) {
	if err := b.check(b.data.Length(), rec); err != nil {
		return false, err
	}
	appended, err := b.data.Upsert(rec)
	if err != nil {
		return false, fmt.Errorf("%s: update at %s: %w", b.name, rec.Time.Format("2006-01-02 15:04:05"), err)
	}
	return appended, nil
}

func (b *base) visibleRecords(r scale.Range) []core.Record {
	return scale.VisibleSlice(b.data.Values(), r)
}

func (b *base) PriceRange(r scale.Range) (float64, float64, bool) {
	return PriceRange(b.visibleRecords(r))
}

// PriceRange unions the bounds of records: high/low for bars, value
// otherwise.
func PriceRange(records []core.Record) (low, high float64, ok bool) {
	type bounds struct{ low, high float64 }

	all := lo.FilterMap(records, func(rec core.Record, _ int) (bounds, bool) {
		l, h, ok := rec.Bounds()
		return bounds{l, h}, ok
	})
	if len(all) == 0 {
		return 0, 0, false
	}

	low = lo.MinBy(all, func(a, b bounds) bool { return a.low < b.low }).low
	high = lo.MaxBy(all, func(a, b bounds) bool { return a.high > b.high }).high
	return low, high, true
}

// start returns the absolute index of the first visible record, the X of
// its slot.
func start(r scale.Range) float64 {
	if r.Start < 0 {
		return 0
	}
	return float64(int(r.Start))
}

func (b *base) draw(backend render.Backend, primitives []render.Primitive) error {
	if !b.visible {
		primitives = nil
	}
	handles, err := render.Replace(backend, b.handles, primitives)
	b.handles = handles
	if err != nil {
		return fmt.Errorf("%s: render: %w", b.name, err)
	}
	return nil
}

func (b *base) Detach(backend render.Backend) error {
	remaining, err := render.Remove(backend, b.handles)
	b.handles = remaining
	if err != nil {
		return fmt.Errorf("%s: detach: %w", b.name, err)
	}
	return nil
}

func (b *base) tag(part string) string {
	return b.name + ":" + part
}
