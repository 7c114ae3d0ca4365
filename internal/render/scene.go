// Package render builds drawable scenes from pointing sets, reference
// overlays and a projection. A scene is rebuilt from scratch on every call
// and drawn through the Canvas interface, so the same inputs always produce
// the same output regardless of what was rendered before.
package render

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/dsa110/dsa110-contimg-sub002/internal/astro"
	"github.com/dsa110/dsa110-contimg-sub002/internal/overlay"
	"github.com/dsa110/dsa110-contimg-sub002/internal/pointing"
	"github.com/dsa110/dsa110-contimg-sub002/internal/projection"
)

// Scheme selects how pointings are colored.
type Scheme string

const (
	SchemeStatus  Scheme = "status"
	SchemeEpoch   Scheme = "epoch"
	SchemeUniform Scheme = "uniform"
)

// ParseScheme maps a scheme name to a Scheme, defaulting to status coloring.
func ParseScheme(s string) Scheme {
	switch Scheme(s) {
	case SchemeStatus, SchemeEpoch, SchemeUniform:
		return Scheme(s)
	default:
		return SchemeStatus
	}
}

// Status colors.
const (
	colorCompleted = "#14B8A6" // teal
	colorScheduled = "#3B82F6" // blue
	colorFailed    = "#EF4444" // red
	colorQueued    = "#FBBF24" // amber, drawn as dashed outline
	colorUnknown   = "#9CA3AF" // gray
)

// Overlay and chrome colors.
const (
	colorGalacticPlane = "#FB923C"
	colorEcliptic      = "#4ADE80"
	colorGraticule     = "#334155"
	colorHorizon       = "#64748B"
	colorLabel         = "#E2E8F0"
	colorUniform       = "#38BDF8"
)

// epochPalette cycles over distinct epochs in the epoch color scheme.
var epochPalette = []string{
	"#60A5FA", "#34D399", "#FBBF24", "#F87171",
	"#A78BFA", "#2DD4BF", "#F472B6", "#FB923C",
}

// DefaultRadiusDeg is the field-of-view radius applied to pointings that
// carry none.
const DefaultRadiusDeg = 1.6

// minHitRadiusPx keeps tiny markers clickable.
const minHitRadiusPx = 4.0

// Style describes how a shape is stroked or filled.
type Style struct {
	Color   string
	Fill    bool
	Dashed  bool
	Opacity float64 // 0 means opaque
}

// Point is a pixel position.
type Point struct {
	X, Y float64
}

// Polyline is a projected curve; segments that crossed the projection seam
// are already split apart.
type Polyline struct {
	Points []Point
	Style  Style
}

// Marker is one drawn pointing.
type Marker struct {
	X, Y     float64
	RadiusPx float64
	Style    Style
	Pointing pointing.Pointing
}

// Label is a short text annotation anchored at a pixel position.
type Label struct {
	X, Y  float64
	Text  string
	Color string
}

// LegendEntry pairs a color swatch with its meaning.
type LegendEntry struct {
	Color  string
	Dashed bool
	Text   string
}

// Overlays selects which reference curves are drawn.
type Overlays struct {
	Graticule     bool
	GalacticPlane bool
	Ecliptic      bool
	Horizon       bool
	// HorizonDecLimit is the array's southern declination limit, degrees.
	HorizonDecLimit float64
	Footprints      []overlay.Footprint
}

// Params bundles the inputs of a scene build.
type Params struct {
	Pointings  []pointing.Pointing
	Overlays   Overlays
	Scheme     Scheme
	ShowLabels bool
	// DefaultRadiusDeg applies to pointings that carry no radius; zero
	// means DefaultRadiusDeg.
	DefaultRadiusDeg float64
	// Palette overrides the epoch color palette when non-empty.
	Palette []string
	// Background is attached to the scene when non-nil; the canvas decides
	// whether it can draw rasters at all.
	Background *Raster
}

func (p Params) defaultRadius() float64 {
	if p.DefaultRadiusDeg > 0 {
		return p.DefaultRadiusDeg
	}
	return DefaultRadiusDeg
}

func (p Params) palette() []string {
	if len(p.Palette) > 0 {
		return p.Palette
	}
	return epochPalette
}

// Raster is a fetched background image, embedded verbatim by canvases that
// support it.
type Raster struct {
	Data []byte
	MIME string
}

// Scene is one complete drawing, layered in fixed z-order: background,
// graticule, overlays, pointings, labels, legend.
type Scene struct {
	Width, Height int

	Background *Raster
	Graticule  []Polyline
	Overlays   []Polyline
	Markers    []Marker
	Labels     []Label
	Legend     []LegendEntry
}

// BuildScene projects the inputs into a fresh scene. Pointings whose
// position is unprojectable under the active projection are skipped.
// Draw order follows input order.
func BuildScene(proj *projection.Projection, p Params) *Scene {
	w, h := proj.Size()
	s := &Scene{
		Width:      w,
		Height:     h,
		Background: p.Background,
	}

	if p.Overlays.Graticule {
		lines := projection.Graticule(0, 0, 0)
		for _, line := range lines {
			s.Graticule = append(s.Graticule, projectCurve(proj, line, Style{Color: colorGraticule})...)
		}
	}

	s.buildOverlays(proj, p.Overlays)
	s.buildMarkers(proj, p)
	s.Legend = buildLegend(p.Pointings, p.Scheme, p.palette())

	return s
}

func (s *Scene) buildOverlays(proj *projection.Projection, ov Overlays) {
	if ov.Horizon {
		outline := curves.horizonOutline(ov.HorizonDecLimit)
		style := Style{Color: colorHorizon, Fill: true, Opacity: 0.15}
		s.Overlays = append(s.Overlays, projectCurve(proj, outline, style)...)
	}
	for _, fp := range ov.Footprints {
		outline := curves.footprintOutline(fp)
		style := Style{Color: fp.Color, Dashed: !fp.UsedInPipeline}
		s.Overlays = append(s.Overlays, projectCurve(proj, outline, style)...)
	}
	if ov.GalacticPlane {
		curve := curves.galacticPlane()
		s.Overlays = append(s.Overlays, projectCurve(proj, curve, Style{Color: colorGalacticPlane, Dashed: true})...)
	}
	if ov.Ecliptic {
		curve := curves.ecliptic()
		s.Overlays = append(s.Overlays, projectCurve(proj, curve, Style{Color: colorEcliptic, Dashed: true})...)
	}
}

// curveCache holds overlay sample sequences, which depend only on their
// generator parameters and not on the viewport. Pan and zoom rebuild the
// scene with a new projection but reuse the same equatorial samples.
type curveCache struct {
	mu        sync.Mutex
	galactic  []astro.Equatorial
	eclipticC []astro.Equatorial
	horizon   map[float64][]astro.Equatorial
	footprint map[string][]astro.Equatorial
}

var curves = curveCache{
	horizon:   make(map[float64][]astro.Equatorial),
	footprint: make(map[string][]astro.Equatorial),
}

func (c *curveCache) galacticPlane() []astro.Equatorial {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.galactic == nil {
		c.galactic = overlay.GalacticPlane(overlay.DefaultSamples)
	}
	return c.galactic
}

func (c *curveCache) ecliptic() []astro.Equatorial {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.eclipticC == nil {
		c.eclipticC = overlay.Ecliptic(overlay.DefaultSamples)
	}
	return c.eclipticC
}

func (c *curveCache) horizonOutline(decLimit float64) []astro.Equatorial {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.horizon[decLimit]; ok {
		return cached
	}
	outline := overlay.HorizonOutline(decLimit, overlay.DefaultEdgeStep)
	c.horizon[decLimit] = outline
	return outline
}

// footprintOutline caches by footprint ID; the footprint set is fixed for
// the lifetime of the process (built-ins or one config load).
func (c *curveCache) footprintOutline(fp overlay.Footprint) []astro.Equatorial {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.footprint[fp.ID]; ok {
		return cached
	}
	outline := overlay.FootprintOutline(fp, overlay.DefaultEdgeStep)
	c.footprint[fp.ID] = outline
	return outline
}

func (s *Scene) buildMarkers(proj *projection.Projection, p Params) {
	epochColors := epochColorMap(p.Pointings, p.palette())

	for _, pt := range p.Pointings {
		x, y, ok := proj.Project(pt.RAdeg, pt.DecDeg)
		if !ok {
			continue
		}

		radius := pt.RadiusDeg
		if radius <= 0 {
			radius = p.defaultRadius()
		}
		radiusPx := radius * proj.LocalScale(pt.RAdeg, pt.DecDeg)
		if radiusPx < 1 {
			radiusPx = 1
		}

		s.Markers = append(s.Markers, Marker{
			X:        x,
			Y:        y,
			RadiusPx: radiusPx,
			Style:    markerStyle(pt, p.Scheme, epochColors),
			Pointing: pt,
		})

		if p.ShowLabels {
			s.Labels = append(s.Labels, Label{
				X:     x + radiusPx + 2,
				Y:     y,
				Text:  pt.DisplayName(),
				Color: colorLabel,
			})
		}
	}
}

// markerStyle picks fill and color for one pointing under the active scheme.
// Queued pointings render as a dashed outline regardless of scheme so the
// not-yet-observed state stays visible.
func markerStyle(pt pointing.Pointing, scheme Scheme, epochColors map[time.Time]string) Style {
	var color string
	switch scheme {
	case SchemeEpoch:
		color = colorUnknown
		if pt.HasEpoch() {
			color = epochColors[pt.Epoch.UTC()]
		}
	case SchemeUniform:
		color = colorUniform
	default:
		switch pt.Status {
		case pointing.StatusCompleted:
			color = colorCompleted
		case pointing.StatusScheduled:
			color = colorScheduled
		case pointing.StatusFailed:
			color = colorFailed
		case pointing.StatusQueued:
			color = colorQueued
		default:
			color = colorUnknown
		}
	}

	if pt.Status == pointing.StatusQueued {
		return Style{Color: color, Dashed: true}
	}
	return Style{Color: color, Fill: true, Opacity: 0.8}
}

// epochColorMap assigns palette colors to distinct epochs in chronological
// order, wrapping when the palette runs out.
func epochColorMap(pts []pointing.Pointing, palette []string) map[time.Time]string {
	epochs := pointing.DistinctEpochs(pts)
	m := make(map[time.Time]string, len(epochs))
	for i, e := range epochs {
		m[e.UTC()] = palette[i%len(palette)]
	}
	return m
}

// buildLegend derives legend entries from the scheme and the statuses or
// epochs actually present, in stable order.
func buildLegend(pts []pointing.Pointing, scheme Scheme, palette []string) []LegendEntry {
	switch scheme {
	case SchemeEpoch:
		epochs := pointing.DistinctEpochs(pts)
		entries := make([]LegendEntry, 0, len(epochs))
		for i, e := range epochs {
			entries = append(entries, LegendEntry{
				Color: palette[i%len(palette)],
				Text:  e.UTC().Format("2006-01-02"),
			})
		}
		return entries

	case SchemeUniform:
		return []LegendEntry{{Color: colorUniform, Text: "pointing"}}

	default:
		counts := pointing.CountByStatus(pts)
		var entries []LegendEntry
		for _, st := range pointing.AllStatuses() {
			if counts[st] == 0 {
				continue
			}
			entries = append(entries, LegendEntry{
				Color:  statusColor(st),
				Dashed: st == pointing.StatusQueued,
				Text:   fmt.Sprintf("%s (%d)", st, counts[st]),
			})
		}
		return entries
	}
}

func statusColor(st pointing.Status) string {
	switch st {
	case pointing.StatusCompleted:
		return colorCompleted
	case pointing.StatusScheduled:
		return colorScheduled
	case pointing.StatusFailed:
		return colorFailed
	case pointing.StatusQueued:
		return colorQueued
	default:
		return colorUnknown
	}
}

// seamJumpPx is the pixel distance between consecutive curve samples beyond
// which the curve is assumed to have crossed the projection seam and is
// split into separate polylines.
const seamJumpPx = 80.0

// projectCurve maps an equatorial point sequence through the projection,
// dropping unprojectable samples and splitting at seam crossings.
func projectCurve(proj *projection.Projection, curve []astro.Equatorial, style Style) []Polyline {
	var out []Polyline
	var current []Point

	flush := func() {
		if len(current) >= 2 {
			out = append(out, Polyline{Points: current, Style: style})
		}
		current = nil
	}

	for _, eq := range curve {
		x, y, ok := proj.Project(eq.RAdeg, eq.DecDeg)
		if !ok {
			flush()
			continue
		}
		if n := len(current); n > 0 {
			prev := current[n-1]
			if math.Hypot(x-prev.X, y-prev.Y) > seamJumpPx {
				flush()
			}
		}
		current = append(current, Point{X: x, Y: y})
	}
	flush()

	return out
}

// HitTest returns the topmost (last drawn) pointing whose marker covers the
// given pixel position, or nil when nothing is hit.
func (s *Scene) HitTest(x, y float64) *pointing.Pointing {
	for i := len(s.Markers) - 1; i >= 0; i-- {
		m := s.Markers[i]
		r := m.RadiusPx
		if r < minHitRadiusPx {
			r = minHitRadiusPx
		}
		if math.Hypot(x-m.X, y-m.Y) <= r {
			pt := m.Pointing
			return &pt
		}
	}
	return nil
}
