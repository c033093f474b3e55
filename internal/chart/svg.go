package chart

import (
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"
)

// Style holds the surface colours, which follow the theme.
type Style struct {
	Separator string
	Hole      string
	Text      string
	Muted     string
}

// DarkStyle matches the dark theme.
var DarkStyle = Style{Separator: "#0d0f14", Hole: "#151821", Text: "#e8eaf0", Muted: "#8b90a0"}

// LightStyle matches the light theme.
var LightStyle = Style{Separator: "#ffffff", Hole: "#f4f5f8", Text: "#1a1d26", Muted: "#6b7080"}

// WriteSVG renders c as a size×size SVG document. Hidden charts render an
// empty surface with a muted no-data caption.
func WriteSVG(w io.Writer, c Chart, size int, style Style) error {
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(size, size, `role="img"`, fmt.Sprintf(`aria-label="%s"`, c.Title))
	defer canvas.End()

	center := size / 2
	if c.Hidden {
		canvas.Text(center, center, NoDataLabel, "text-anchor:middle;dominant-baseline:middle;font-size:14px;fill:"+style.Muted)
		return ew.err
	}

	cx, cy := float64(center), float64(center)
	r := float64(size)/2 - 10
	sepStyle := fmt.Sprintf("stroke:%s;stroke-width:%g", style.Separator, SeparatorWidth)
	for _, wedge := range c.Wedges {
		if wedge.SweepDeg <= 0 {
			continue
		}
		if wedge.SweepDeg >= FullCircle {
			canvas.Circle(center, center, int(r), "fill:"+wedge.Color+";"+sepStyle)
			continue
		}
		canvas.Path(wedgePath(cx, cy, r, wedge), "fill:"+wedge.Color+";"+sepStyle)
	}

	canvas.Circle(center, center, int(r*c.HoleRatio), "fill:"+style.Hole)
	fontSize := int(r * 0.28)
	canvas.Text(center, center, strconv.Itoa(c.Total),
		fmt.Sprintf("text-anchor:middle;dominant-baseline:central;font-weight:bold;font-size:%dpx;font-family:Syne,sans-serif;fill:%s", fontSize, style.Text))
	return ew.err
}

// wedgePath is the SVG path of a wedge: center, out to the start point, arc, back.
func wedgePath(cx, cy, r float64, w Wedge) string {
	x1, y1 := pointOn(cx, cy, r, w.StartDeg)
	x2, y2 := pointOn(cx, cy, r, w.EndDeg())
	large := 0
	if w.SweepDeg > 180 {
		large = 1
	}
	return fmt.Sprintf("M%.2f,%.2f L%.2f,%.2f A%.2f,%.2f 0 %d 1 %.2f,%.2f Z", cx, cy, x1, y1, r, r, large, x2, y2)
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	if err != nil {
		e.err = err
	}
	return n, err
}
