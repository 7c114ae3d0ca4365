package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dsa110/dsa110-contimg-sub002/internal/render"
)

// Cell glyphs.
const (
	glyphLine        = '·'
	glyphLineDashed  = '┄'
	glyphMarker      = '●'
	glyphMarkerOpen  = '○'
	glyphRing        = '∘'
	colorCanvasBlank = "236"
)

// cellCanvas implements render.Canvas on a terminal cell grid. One pixel is
// one cell; rasters are ignored (the terminal cannot draw them).
type cellCanvas struct {
	width  int
	height int
	cells  [][]rune
	colors [][]lipgloss.Color
}

func newCellCanvas() *cellCanvas {
	return &cellCanvas{}
}

func (c *cellCanvas) Begin(width, height int) {
	c.width = width
	c.height = height
	c.cells = make([][]rune, height)
	c.colors = make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		c.cells[y] = make([]rune, width)
		c.colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			c.cells[y][x] = ' '
			c.colors[y][x] = colorCanvasBlank
		}
	}
}

// Raster is a no-op: cell grids cannot show the background image.
func (c *cellCanvas) Raster(*render.Raster) {}

func (c *cellCanvas) Polyline(pts []render.Point, style render.Style) {
	glyph := glyphLine
	if style.Dashed {
		glyph = glyphLineDashed
	}
	for i := 1; i < len(pts); i++ {
		c.line(pts[i-1], pts[i], glyph, style.Color)
	}
}

func (c *cellCanvas) Circle(x, y, radius float64, style render.Style) {
	center := glyphMarker
	if style.Dashed || !style.Fill {
		center = glyphMarkerOpen
	}
	c.setCell(int(math.Round(x)), int(math.Round(y)), center, style.Color)

	// Large markers get a sampled ring around the center cell.
	if radius >= 2 {
		steps := int(radius * 6)
		if steps < 8 {
			steps = 8
		}
		for i := 0; i < steps; i++ {
			a := 2 * math.Pi * float64(i) / float64(steps)
			rx := int(math.Round(x + radius*math.Cos(a)))
			ry := int(math.Round(y + radius*math.Sin(a)))
			if rx == int(math.Round(x)) && ry == int(math.Round(y)) {
				continue
			}
			c.setCellIfBlank(rx, ry, glyphRing, style.Color)
		}
	}
}

func (c *cellCanvas) Text(x, y float64, text, color string) {
	cx := int(math.Round(x))
	cy := int(math.Round(y))
	for i, r := range []rune(text) {
		c.setCell(cx+i, cy, r, color)
	}
}

func (c *cellCanvas) End() {}

// line walks a segment cell by cell.
func (c *cellCanvas) line(a, b render.Point, glyph rune, color string) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		c.setCellIfBlank(int(math.Round(a.X)), int(math.Round(a.Y)), glyph, color)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		c.setCellIfBlank(int(math.Round(a.X+dx*t)), int(math.Round(a.Y+dy*t)), glyph, color)
	}
}

func (c *cellCanvas) setCell(x, y int, glyph rune, color string) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.cells[y][x] = glyph
	c.colors[y][x] = lipgloss.Color(color)
}

// setCellIfBlank draws only over empty cells so lines never overwrite
// markers or labels.
func (c *cellCanvas) setCellIfBlank(x, y int, glyph rune, color string) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	if c.cells[y][x] != ' ' {
		return
	}
	c.cells[y][x] = glyph
	c.colors[y][x] = lipgloss.Color(color)
}

func (c *cellCanvas) String() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		for x := 0; x < c.width; x++ {
			style := lipgloss.NewStyle().Foreground(c.colors[y][x])
			b.WriteString(style.Render(string(c.cells[y][x])))
		}
		if y < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}
