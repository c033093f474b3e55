// Package chart turns aggregate rows into donut charts and renders them as SVG or PNG.
package chart

import (
	"math"

	"github.com/spec-kit/ticket-dashboard/internal/domain"
)

// Geometry constants of the donut.
const (
	StartAngle     = -90.0
	FullCircle     = 360.0
	HoleRatio      = 0.52
	SeparatorWidth = 2.0
)

// NoDataLabel is the single legend entry of an empty chart.
const NoDataLabel = "No data"

// OtherLabel is used when a bucket has neither a label nor a raw value.
const OtherLabel = "(other)"

// Wedge is one slice of the pie, angles in degrees clockwise from 3 o'clock.
type Wedge struct {
	Value    int
	StartDeg float64
	SweepDeg float64
	Color    string
}

// EndDeg is where the wedge stops.
func (w Wedge) EndDeg() float64 {
	return w.StartDeg + w.SweepDeg
}

// LegendEntry is one line of the legend.
type LegendEntry struct {
	Color   string
	Label   string
	Value   int
	Percent int
	NoData  bool
}

// Chart is the render model of one donut.
type Chart struct {
	Dimension domain.StatDimension
	Title     string
	Hidden    bool
	Wedges    []Wedge
	Legend    []LegendEntry
	Total     int
	HoleRatio float64
}

// DrawPie lays rows out as proportional wedges in input order, starting at
// 12 o'clock. Empty input, or input whose totals sum to zero, yields a hidden
// chart with a single no-data legend entry. Percentages are rounded per slice
// and need not sum to 100.
func DrawPie(rows []domain.StatRow, scheme Scheme) Chart {
	c := Chart{Dimension: scheme.Dimension, Title: scheme.Title, HoleRatio: HoleRatio}

	total := domain.SumTotals(rows)
	if len(rows) == 0 || total <= 0 {
		c.Hidden = true
		c.Legend = []LegendEntry{{Label: NoDataLabel, NoData: true}}
		return c
	}
	c.Total = total

	angle := StartAngle
	c.Wedges = make([]Wedge, 0, len(rows))
	c.Legend = make([]LegendEntry, 0, len(rows))
	for i, row := range rows {
		value := row.Total
		if value < 0 {
			value = 0
		}
		share := float64(value) / float64(total)
		sweep := share * FullCircle
		color := scheme.color(row, i)

		c.Wedges = append(c.Wedges, Wedge{
			Value:    value,
			StartDeg: angle,
			SweepDeg: sweep,
			Color:    color,
		})
		angle += sweep

		c.Legend = append(c.Legend, LegendEntry{
			Color:   color,
			Label:   scheme.label(row),
			Value:   value,
			Percent: int(math.Round(share * 100)),
		})
	}
	return c
}

// SweepSum adds the sweeps of all wedges.
func (c Chart) SweepSum() float64 {
	sum := 0.0
	for _, w := range c.Wedges {
		sum += w.SweepDeg
	}
	return sum
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// pointOn returns the point of the circle (cx,cy,r) at deg.
func pointOn(cx, cy, r, deg float64) (float64, float64) {
	a := radians(deg)
	return cx + r*math.Cos(a), cy + r*math.Sin(a)
}
