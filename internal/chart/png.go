package chart

import (
	"io"
	"strconv"

	"git.sr.ht/~sbinet/gg"
)

// WritePNG rasterizes c into a size×size PNG with a transparent background.
func WritePNG(w io.Writer, c Chart, size int, style Style) error {
	dc := gg.NewContext(size, size)
	cx, cy := float64(size)/2, float64(size)/2

	if c.Hidden {
		dc.SetHexColor(style.Muted)
		dc.DrawStringAnchored(NoDataLabel, cx, cy, 0.5, 0.5)
		return dc.EncodePNG(w)
	}

	r := float64(size)/2 - 10
	for _, wedge := range c.Wedges {
		if wedge.SweepDeg <= 0 {
			continue
		}
		dc.MoveTo(cx, cy)
		dc.DrawArc(cx, cy, r, radians(wedge.StartDeg), radians(wedge.EndDeg()))
		dc.ClosePath()
		dc.SetHexColor(wedge.Color)
		dc.FillPreserve()
		dc.SetHexColor(style.Separator)
		dc.SetLineWidth(SeparatorWidth)
		dc.Stroke()
	}

	dc.DrawCircle(cx, cy, r*c.HoleRatio)
	dc.SetHexColor(style.Hole)
	dc.Fill()

	dc.SetHexColor(style.Text)
	dc.DrawStringAnchored(strconv.Itoa(c.Total), cx, cy, 0.5, 0.5)
	return dc.EncodePNG(w)
}
