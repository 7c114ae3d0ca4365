package render

import (
	"encoding/base64"
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
)

const svgBackgroundFill = "#0B1120"

// SVGCanvas draws scenes into an SVG document.
type SVGCanvas struct {
	doc *svg.SVG
}

// NewSVGCanvas creates a canvas writing SVG markup to w.
func NewSVGCanvas(w io.Writer) *SVGCanvas {
	return &SVGCanvas{doc: svg.New(w)}
}

func (c *SVGCanvas) Begin(width, height int) {
	c.doc.Start(width, height)
	c.doc.Rect(0, 0, width, height, "fill:"+svgBackgroundFill)
}

func (c *SVGCanvas) Raster(r *Raster) {
	if r == nil || len(r.Data) == 0 {
		return
	}
	mime := r.MIME
	if mime == "" {
		mime = "image/png"
	}
	uri := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(r.Data))
	c.doc.Image(0, 0, 0, 0, uri, `width="100%"`, `height="100%"`, `preserveAspectRatio="none"`)
}

func (c *SVGCanvas) Polyline(pts []Point, style Style) {
	if len(pts) < 2 {
		return
	}
	xs := make([]int, len(pts))
	ys := make([]int, len(pts))
	for i, p := range pts {
		xs[i] = px(p.X)
		ys[i] = px(p.Y)
	}
	c.doc.Polyline(xs, ys, strokeStyle(style))
}

func (c *SVGCanvas) Circle(x, y, radius float64, style Style) {
	r := px(radius)
	if r < 1 {
		r = 1
	}
	c.doc.Circle(px(x), px(y), r, circleStyle(style))
}

func (c *SVGCanvas) Text(x, y float64, text, color string) {
	c.doc.Text(px(x), px(y), text,
		fmt.Sprintf("fill:%s;font-size:11px;font-family:monospace;dominant-baseline:middle", color))
}

func (c *SVGCanvas) End() {
	c.doc.End()
}

// WriteSVG draws a scene as a standalone SVG document.
func WriteSVG(w io.Writer, s *Scene) {
	s.Draw(NewSVGCanvas(w))
}

func strokeStyle(s Style) string {
	parts := []string{"fill:none", "stroke:" + s.Color}
	if s.Dashed {
		parts = append(parts, "stroke-dasharray:4 3")
	}
	if s.Opacity > 0 && s.Opacity < 1 {
		parts = append(parts, fmt.Sprintf("stroke-opacity:%.2f", s.Opacity))
	}
	if s.Fill {
		parts[0] = "fill:" + s.Color
		if s.Opacity > 0 && s.Opacity < 1 {
			parts = append(parts, fmt.Sprintf("fill-opacity:%.2f", s.Opacity))
		}
	}
	return strings.Join(parts, ";")
}

func circleStyle(s Style) string {
	if s.Dashed {
		// Queued markers: outline only.
		return fmt.Sprintf("fill:none;stroke:%s;stroke-dasharray:3 2", s.Color)
	}
	parts := []string{"fill:" + s.Color, "stroke:none"}
	if s.Opacity > 0 && s.Opacity < 1 {
		parts = append(parts, fmt.Sprintf("fill-opacity:%.2f", s.Opacity))
	}
	return strings.Join(parts, ";")
}

func px(v float64) int {
	return int(math.Round(v))
}
