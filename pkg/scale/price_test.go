package scale

import (
	"math"
	"testing"

	"github.com/raykavin/lwcharts/pkg/core"
	"github.com/stretchr/testify/require"
)

func TestPriceScale_Defaults(t *testing.T) {
	ps := NewPriceScale()
	require.Equal(t, 0.0, ps.Min())
	require.Equal(t, 100.0, ps.Max())
	require.Equal(t, 0.05, ps.Padding())
}

func TestPriceScale_UpdateRangePadding(t *testing.T) {
	ps := NewPriceScale()

	ps.UpdateRange(50, 150, true)
	require.InDelta(t, 45.0, ps.Min(), 1e-9)
	require.InDelta(t, 155.0, ps.Max(), 1e-9)

	ps.UpdateRange(50, 150, false)
	require.Equal(t, 50.0, ps.Min())
	require.Equal(t, 150.0, ps.Max())
}

func TestPriceScale_DegenerateRangeWidened(t *testing.T) {
	ps := NewPriceScale()
	ps.UpdateRange(10, 10, false)
	require.Equal(t, 9.0, ps.Min())
	require.Equal(t, 11.0, ps.Max())

	ps.UpdateRange(10, 10, true)
	require.InDelta(t, 8.9, ps.Min(), 1e-9)
	require.InDelta(t, 11.1, ps.Max(), 1e-9)

	ps.UpdateRange(20, 5, false)
	require.Equal(t, 5.0, ps.Min())
	require.Equal(t, 20.0, ps.Max())

	ps.UpdateRange(math.NaN(), 3, false)
	require.Equal(t, 5.0, ps.Min())
}

func TestPriceScale_RoundTrip(t *testing.T) {
	ps := NewPriceScale()
	ps.UpdateRange(12.5, 987.25, true)

	for i := 0; i <= 100; i++ {
		p := ps.Min() + (ps.Max()-ps.Min())*float64(i)/100
		require.InDelta(t, p, ps.PriceAtY(ps.YAtPrice(p)), 1e-9)
	}

	require.InDelta(t, -1.0, ps.YAtPrice(ps.Min()), 1e-12)
	require.InDelta(t, 1.0, ps.YAtPrice(ps.Max()), 1e-12)
	require.InDelta(t, ps.Min(), ps.PriceAtY(-1), 1e-9)
}

func TestPriceScale_SetPadding(t *testing.T) {
	ps := NewPriceScale()
	ps.SetPadding(0.5)
	ps.UpdateRange(0, 10, true)
	require.Equal(t, -5.0, ps.Min())
	require.Equal(t, 15.0, ps.Max())

	ps.SetPadding(-1)
	require.Equal(t, 0.0, ps.Padding())
}

func TestLabels_Modes(t *testing.T) {
	normal := Labels(core.PriceScaleNormal, 0, 100, 5)
	require.Len(t, normal, 5)
	require.Equal(t, 0.0, normal[0].Value)
	require.Equal(t, 100.0, normal[4].Value)
	require.Equal(t, "$25.00", normal[1].Text)

	log := Labels(core.PriceScaleLogarithmic, 0, 1000, 6)
	require.Len(t, log, 6)
	require.InDelta(t, 0.01, log[0].Value, 1e-12)
	require.InDelta(t, 1000.0, log[5].Value, 1e-9)

	pct := Labels(core.PriceScalePercentage, -10, 10, 3)
	require.Equal(t, []string{"-10.0%", "0.0%", "10.0%"}, []string{pct[0].Text, pct[1].Text, pct[2].Text})

	idx := Labels(core.PriceScaleIndexed, 100, 110, 2)
	require.Equal(t, "110.0", idx[1].Text)

	require.Len(t, Labels(core.PriceScaleNormal, 0, 1, 1), 1)
	require.Nil(t, Labels(core.PriceScaleNormal, 0, 1, 0))
}
