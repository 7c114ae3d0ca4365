package ui

import (
	"strings"
	"testing"

	"github.com/dsa110/dsa110-contimg-sub002/internal/render"
)

func TestCellCanvasMarkers(t *testing.T) {
	c := newCellCanvas()
	c.Begin(20, 10)

	c.Circle(5, 5, 1, render.Style{Color: "#14B8A6", Fill: true})
	c.Circle(10, 5, 1, render.Style{Color: "#FBBF24", Dashed: true})

	if c.cells[5][5] != glyphMarker {
		t.Errorf("filled marker glyph = %q", c.cells[5][5])
	}
	if c.cells[5][10] != glyphMarkerOpen {
		t.Errorf("dashed marker glyph = %q", c.cells[5][10])
	}
}

func TestCellCanvasPolylineDoesNotOverwrite(t *testing.T) {
	c := newCellCanvas()
	c.Begin(20, 10)

	c.Circle(5, 5, 1, render.Style{Color: "#fff", Fill: true})
	c.Polyline([]render.Point{{X: 0, Y: 5}, {X: 19, Y: 5}}, render.Style{Color: "#333"})

	if c.cells[5][5] != glyphMarker {
		t.Error("line overwrote a marker cell")
	}
	if c.cells[5][1] != glyphLine {
		t.Errorf("line cell = %q", c.cells[5][1])
	}
}

func TestCellCanvasBounds(t *testing.T) {
	c := newCellCanvas()
	c.Begin(5, 5)

	// Out-of-bounds drawing is ignored, never panics.
	c.Circle(-3, 10, 1, render.Style{Color: "#fff"})
	c.Text(4, 4, "overflowing", "#fff")
	c.Polyline([]render.Point{{X: -10, Y: -10}, {X: 20, Y: 20}}, render.Style{Color: "#fff"})

	if c.cells[4][4] != 'o' {
		t.Errorf("in-bounds text head = %q", c.cells[4][4])
	}
}

func TestCellCanvasString(t *testing.T) {
	c := newCellCanvas()
	c.Begin(4, 2)
	c.Text(0, 0, "ab", "#fff")

	out := c.String()
	if !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Errorf("rendered canvas missing text: %q", out)
	}
	if strings.Count(out, "\n") != 1 {
		t.Errorf("newline count = %d, want 1", strings.Count(out, "\n"))
	}
}

func TestSceneDrawOnCellCanvas(t *testing.T) {
	m := testMapModel()
	scene := m.BuildScene(60, 20)

	c := newCellCanvas()
	scene.Draw(c)

	if c.width != 60 || c.height != 20 {
		t.Errorf("canvas size = %dx%d", c.width, c.height)
	}
}
