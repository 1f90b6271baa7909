package core

// LineStyle configures line series and the stroke of area series.
type LineStyle struct {
	Color Color
	Width float64
	Style string // solid, dotted, dashed
}

// DefaultLineStyle mirrors the stock blue 2px line.
func DefaultLineStyle() LineStyle {
	return LineStyle{Color: "#2196F3", Width: 2, Style: "solid"}
}

// CandlestickStyle configures candlestick series.
type CandlestickStyle struct {
	UpColor         Color
	DownColor       Color
	WickColor       Color
	BorderUpColor   Color
	BorderDownColor Color
	WickVisible     bool
	BorderVisible   bool
	BodyWidth       float64 // fraction of one record slot
}

func DefaultCandlestickStyle() CandlestickStyle {
	return CandlestickStyle{
		UpColor:         "#26a69a",
		DownColor:       "#ef5350",
		WickColor:       "#333333",
		BorderUpColor:   "#26a69a",
		BorderDownColor: "#ef5350",
		WickVisible:     true,
		BorderVisible:   true,
		BodyWidth:       0.6,
	}
}

// HistogramStyle configures histogram series.
type HistogramStyle struct {
	Color     Color
	DownColor Color // optional, used when the record carries open/close and close < open
	BarWidth  float64
}

func DefaultHistogramStyle() HistogramStyle {
	return HistogramStyle{Color: "#2196F3", BarWidth: 0.6}
}

// AreaStyle configures area series.
type AreaStyle struct {
	LineColor Color
	FillColor Color
	LineWidth float64
	FillAlpha float64
}

func DefaultAreaStyle() AreaStyle {
	return AreaStyle{LineColor: "#2196F3", FillColor: "#2196F3", LineWidth: 2, FillAlpha: 0.3}
}

// PriceScaleMode selects how the price axis labels its range.
type PriceScaleMode string

const (
	PriceScaleNormal      PriceScaleMode = "normal"
	PriceScaleLogarithmic PriceScaleMode = "logarithmic"
	PriceScalePercentage  PriceScaleMode = "percentage"
	PriceScaleIndexed     PriceScaleMode = "indexed_to_100"
)

// Margins are top/bottom fractions reserved on the price axis.
type Margins struct {
	Top    float64
	Bottom float64
}

// NewMargins clamps both margins to [0, 1].
func NewMargins(top, bottom float64) Margins {
	return Margins{Top: Clamp(top, 0, 1), Bottom: Clamp(bottom, 0, 1)}
}

// PriceScaleOptions is the flat option record accepted by ConfigurePriceScale.
type PriceScaleOptions struct {
	AutoScale      bool
	Mode           PriceScaleMode
	InvertScale    bool
	AlignLabels    bool
	Margins        Margins
	BorderVisible  bool
	BorderColor    Color
	TextColor      Color
	Visible        bool
	TicksVisible   bool
	EntireTextOnly bool
	MinimumWidth   int
	Position       string // "right" or "left"
	LabelCount     int
}

func DefaultPriceScaleOptions() PriceScaleOptions {
	return PriceScaleOptions{
		AutoScale:     true,
		Mode:          PriceScaleNormal,
		AlignLabels:   true,
		Margins:       NewMargins(0.2, 0.1),
		BorderVisible: true,
		BorderColor:   "#2B2B43",
		TextColor:     "#D1D4DC",
		Visible:       true,
		MinimumWidth:  50,
		Position:      "right",
		LabelCount:    8,
	}
}

// CrosshairOptions configures the crosshair lines.
type CrosshairOptions struct {
	Mode            string
	VertColor       Color
	HorizColor      Color
	VertStyle       string // solid or dashed
	HorizStyle      string
	Width           float64
	DashLength      float64
	GapLength       float64
	LabelBackground Color
	LabelTextColor  Color
	Visible         bool
}

func DefaultCrosshairOptions() CrosshairOptions {
	return CrosshairOptions{
		Mode:            "normal",
		VertColor:       "#999999",
		HorizColor:      "#999999",
		VertStyle:       "solid",
		HorizStyle:      "solid",
		Width:           1,
		DashLength:      10,
		GapLength:       5,
		LabelBackground: "#131722",
		LabelTextColor:  "#FFFFFF",
		Visible:         true,
	}
}

// ChartOptions holds the canvas-level settings.
type ChartOptions struct {
	Width           int
	Height          int
	Title           string
	BackgroundColor Color
	TextColor       Color
	GridColor       Color
	ShowGrid        bool
	ShowLegend      bool
	AutoScale       bool
}

func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:           800,
		Height:          600,
		Title:           "Financial Chart",
		BackgroundColor: "#ffffff",
		TextColor:       "#000000",
		GridColor:       "#e0e0e0",
		ShowGrid:        true,
		ShowLegend:      true,
		AutoScale:       true,
	}
}
