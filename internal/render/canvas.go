package render

// Canvas is the drawing surface abstraction. The renderer only ever emits
// scenes through this interface; concrete surfaces (SVG files, terminal
// cells) implement it independently.
type Canvas interface {
	// Begin opens a drawing of the given pixel size.
	Begin(width, height int)
	// Raster draws a background image stretched over the full viewport.
	// Canvases that cannot draw rasters ignore the call.
	Raster(r *Raster)
	// Polyline strokes a connected point sequence.
	Polyline(pts []Point, style Style)
	// Circle draws a marker at a pixel position.
	Circle(x, y, radius float64, style Style)
	// Text draws a short annotation anchored at a pixel position.
	Text(x, y float64, text, color string)
	// End finishes the drawing.
	End()
}

// Draw emits the scene onto a canvas in fixed z-order: background,
// graticule, overlays, pointings, labels, legend.
func (s *Scene) Draw(c Canvas) {
	c.Begin(s.Width, s.Height)

	if s.Background != nil {
		c.Raster(s.Background)
	}
	for _, line := range s.Graticule {
		c.Polyline(line.Points, line.Style)
	}
	for _, line := range s.Overlays {
		c.Polyline(line.Points, line.Style)
	}
	for _, m := range s.Markers {
		c.Circle(m.X, m.Y, m.RadiusPx, m.Style)
	}
	for _, l := range s.Labels {
		c.Text(l.X, l.Y, l.Text, l.Color)
	}
	s.drawLegend(c)

	c.End()
}

// Legend layout constants, pixels.
const (
	legendMargin    = 12.0
	legendRowHeight = 16.0
)

func (s *Scene) drawLegend(c Canvas) {
	if len(s.Legend) == 0 {
		return
	}

	x := legendMargin
	y := float64(s.Height) - legendMargin - float64(len(s.Legend)-1)*legendRowHeight
	for _, e := range s.Legend {
		swatch := "●"
		if e.Dashed {
			swatch = "○"
		}
		c.Text(x, y, swatch, e.Color)
		c.Text(x+14, y, e.Text, colorLabel)
		y += legendRowHeight
	}
}
