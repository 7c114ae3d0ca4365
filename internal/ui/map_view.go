package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dsa110/dsa110-contimg-sub002/internal/config"
	"github.com/dsa110/dsa110-contimg-sub002/internal/overlay"
	"github.com/dsa110/dsa110-contimg-sub002/internal/pointing"
	"github.com/dsa110/dsa110-contimg-sub002/internal/projection"
	"github.com/dsa110/dsa110-contimg-sub002/internal/render"
	"github.com/dsa110/dsa110-contimg-sub002/internal/state"
)

const (
	// Pan step in pixels, zoom step multiplicative.
	panStep  = 4.0
	zoomStep = 1.25

	maxZoom = 20.0
	minZoom = 0.25

	glyphCursor = '+'

	colorCursor   = "229" // bright gold
	colorSelected = "#FBBF24"
	colorStatus   = "#E2E8F0"
	colorDim      = "60"
)

// projectionCycle is the order the p key walks through.
var projectionCycle = []projection.Kind{
	projection.KindAitoff,
	projection.KindMollweide,
	projection.KindHammer,
	projection.KindMercator,
}

var schemeCycle = []render.Scheme{
	render.SchemeStatus,
	render.SchemeEpoch,
	render.SchemeUniform,
}

// MapModel renders the all-sky coverage map with pan, zoom, overlay
// toggles, cursor-driven hover/select and timeline playback.
type MapModel struct {
	width  int
	height int

	// Viewport state
	kind     projection.Kind
	scheme   render.Scheme
	zoom     float64
	centerRA float64
	panX     float64
	panY     float64

	// Overlay toggles
	overlays   render.Overlays
	surveysOn  bool
	footprints []overlay.Footprint
	showLabels bool

	// Cursor (cell coordinates inside the canvas)
	cursorX int
	cursorY int

	// Selection
	selected *pointing.Pointing

	// Timeline playback
	player     *render.Player
	timelineOn bool

	// Rendering defaults from config
	defaultRadiusDeg float64
	epochPalette     []string

	// Background raster; kept on the model so SVG export sees it even
	// though the cell canvas cannot draw it.
	background *render.Raster

	// Data snapshot
	pointings []pointing.Pointing
}

// NewMapModel creates a map view from configuration defaults.
func NewMapModel(cfg config.Config, player *render.Player) MapModel {
	return MapModel{
		kind:   projection.ParseKind(cfg.Map.Projection),
		scheme: render.ParseScheme(cfg.Map.ColorScheme),
		zoom:   1.0,
		overlays: render.Overlays{
			Graticule:       cfg.Overlays.Graticule,
			GalacticPlane:   cfg.Overlays.GalacticPlane,
			Ecliptic:        cfg.Overlays.Ecliptic,
			Horizon:         cfg.Overlays.Horizon,
			HorizonDecLimit: cfg.Overlays.HorizonDecLimitDeg,
		},
		surveysOn:        cfg.Overlays.Surveys,
		footprints:       cfg.SurveyFootprints(),
		defaultRadiusDeg: cfg.Map.DefaultRadiusDeg,
		epochPalette:     cfg.Map.EpochPalette,
		player:           player,
	}
}

// SetSize updates the viewport size.
func (m MapModel) SetSize(width, height int) MapModel {
	m.width = width
	m.height = height
	if m.cursorX >= m.canvasWidth() {
		m.cursorX = m.canvasWidth() / 2
	}
	if m.cursorY >= m.canvasHeight() {
		m.cursorY = m.canvasHeight() / 2
	}
	return m
}

// UpdateData updates with a new data snapshot.
func (m MapModel) UpdateData(snapshot state.Snapshot) MapModel {
	m.pointings = snapshot.Pointings
	if m.player != nil {
		m.player.SetEpochs(snapshot.Epochs)
	}

	// Drop a selection that no longer exists upstream.
	if m.selected != nil {
		if _, ok := findPointing(m.pointings, m.selected.ID); !ok {
			m.selected = nil
		}
	}
	return m
}

// SetBackground attaches a fetched background raster.
func (m MapModel) SetBackground(r *render.Raster) MapModel {
	m.background = r
	return m
}

// Selected returns the currently selected pointing, nil when none.
func (m MapModel) Selected() *pointing.Pointing {
	return m.selected
}

// canvas area excludes one header line and two status lines.
func (m MapModel) canvasWidth() int  { return m.width }
func (m MapModel) canvasHeight() int { return m.height - 3 }

// Update handles messages.
func (m MapModel) Update(msg tea.Msg) (MapModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	// Cursor: hover follows it, enter selects.
	case "up":
		m.cursorY = clampInt(m.cursorY-1, 0, m.canvasHeight()-1)
	case "down":
		m.cursorY = clampInt(m.cursorY+1, 0, m.canvasHeight()-1)
	case "left":
		m.cursorX = clampInt(m.cursorX-1, 0, m.canvasWidth()-1)
	case "right":
		m.cursorX = clampInt(m.cursorX+1, 0, m.canvasWidth()-1)
	case "enter":
		m.selected = m.hit()

	// Pan and zoom
	case "h":
		m.panX += panStep
	case "l":
		m.panX -= panStep
	case "k":
		m.panY += panStep
	case "j":
		m.panY -= panStep
	case "+", "=":
		if m.zoom*zoomStep <= maxZoom {
			m.zoom *= zoomStep
		}
	case "-":
		if m.zoom/zoomStep >= minZoom {
			m.zoom /= zoomStep
		}
	case "0":
		m.zoom = 1.0
		m.panX, m.panY = 0, 0
		m.centerRA = 0
	case "r":
		m.centerRA += 30
		if m.centerRA >= 360 {
			m.centerRA -= 360
		}

	// Projection and color scheme
	case "p":
		m.kind = cycleKind(m.kind)
	case "c":
		m.scheme = cycleScheme(m.scheme)

	// Overlay toggles
	case "g":
		m.overlays.Graticule = !m.overlays.Graticule
	case "G":
		m.overlays.GalacticPlane = !m.overlays.GalacticPlane
	case "e":
		m.overlays.Ecliptic = !m.overlays.Ecliptic
	case "v":
		m.overlays.Horizon = !m.overlays.Horizon
	case "s":
		m.surveysOn = !m.surveysOn
	case "L":
		m.showLabels = !m.showLabels

	// Timeline playback
	case " ":
		if m.player != nil {
			m.timelineOn = true
			m.player.Toggle()
		}
	case "t":
		m.timelineOn = !m.timelineOn
		if !m.timelineOn && m.player != nil {
			m.player.Stop()
		}
	case "[":
		if m.player != nil {
			m.timelineOn = true
			m.player.Step(-1)
		}
	case "]":
		if m.player != nil {
			m.timelineOn = true
			m.player.Step(1)
		}
	case ">":
		if m.player != nil {
			m.player.SetSpeed(playbackSpeedUp(m.playerSpeed()))
		}
	case "<":
		if m.player != nil {
			m.player.SetSpeed(playbackSpeedDown(m.playerSpeed()))
		}
	}

	return m, nil
}

func (m MapModel) playerSpeed() float64 {
	return m.player.Status().Speed
}

func playbackSpeedUp(s float64) float64 {
	switch {
	case s < 1:
		return 1
	case s < 2:
		return 2
	case s < 4:
		return 4
	default:
		return 8
	}
}

func playbackSpeedDown(s float64) float64 {
	switch {
	case s > 4:
		return 4
	case s > 2:
		return 2
	case s > 1:
		return 1
	default:
		return 0.5
	}
}

func cycleKind(k projection.Kind) projection.Kind {
	for i, c := range projectionCycle {
		if c == k {
			return projectionCycle[(i+1)%len(projectionCycle)]
		}
	}
	return projectionCycle[0]
}

func cycleScheme(s render.Scheme) render.Scheme {
	for i, c := range schemeCycle {
		if c == s {
			return schemeCycle[(i+1)%len(schemeCycle)]
		}
	}
	return schemeCycle[0]
}

// visiblePointings applies the cumulative timeline cut when the timeline is
// engaged.
func (m MapModel) visiblePointings() []pointing.Pointing {
	if !m.timelineOn || m.player == nil {
		return m.pointings
	}
	st := m.player.Status()
	if st.Index < 0 {
		return m.pointings
	}
	return pointing.Apply(m.pointings, pointing.Filter{EpochCut: st.Cut})
}

// Projection builds the projection for the current viewport state. Exposed
// so SVG export renders exactly what the map shows.
func (m MapModel) Projection(width, height int) *projection.Projection {
	return projection.New(m.kind, width, height,
		projection.WithZoom(m.zoom),
		projection.WithRotation(m.centerRA),
		projection.WithPan(m.panX, m.panY),
	)
}

// BuildScene builds the current scene at the given size.
func (m MapModel) BuildScene(width, height int) *render.Scene {
	ov := m.overlays
	if m.surveysOn {
		ov.Footprints = m.footprints
	}
	return render.BuildScene(m.Projection(width, height), render.Params{
		Pointings:        m.visiblePointings(),
		Overlays:         ov,
		Scheme:           m.scheme,
		ShowLabels:       m.showLabels,
		DefaultRadiusDeg: m.defaultRadiusDeg,
		Palette:          m.epochPalette,
		Background:       m.background,
	})
}

// hit returns the pointing under the cursor, topmost first.
func (m MapModel) hit() *pointing.Pointing {
	if m.canvasWidth() <= 0 || m.canvasHeight() <= 0 {
		return nil
	}
	scene := m.BuildScene(m.canvasWidth(), m.canvasHeight())
	return scene.HitTest(float64(m.cursorX), float64(m.cursorY))
}

// View renders the map view.
func (m MapModel) View() string {
	if m.width < 40 || m.height < 12 {
		return "Sky map requires a larger terminal"
	}

	w, h := m.canvasWidth(), m.canvasHeight()
	scene := m.BuildScene(w, h)

	canvas := newCellCanvas()
	scene.Draw(canvas)
	canvas.setCell(m.cursorX, m.cursorY, glyphCursor, colorCursor)

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(canvas.String())
	b.WriteString("\n")
	b.WriteString(m.renderStatus(scene))
	return b.String()
}

func (m MapModel) renderHeader() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))

	parts := []string{
		titleStyle.Render("Sky Coverage"),
		dimStyle.Render(fmt.Sprintf("proj:%s", m.kind)),
		dimStyle.Render(fmt.Sprintf("color:%s", m.scheme)),
		dimStyle.Render(fmt.Sprintf("zoom:%.2fx", m.zoom)),
		dimStyle.Render(fmt.Sprintf("center RA:%.0f°", m.centerRA)),
	}
	if m.timelineOn && m.player != nil {
		st := m.player.Status()
		if st.Index >= 0 {
			parts = append(parts, dimStyle.Render(fmt.Sprintf("epoch %d/%d [%s] %gx",
				st.Index+1, st.Epochs, st.State, st.Speed)))
		}
	}
	return strings.Join(parts, " | ")
}

func (m MapModel) renderStatus(scene *render.Scene) string {
	accent := lipgloss.NewStyle().Foreground(lipgloss.Color(colorStatus))
	sel := lipgloss.NewStyle().Foreground(lipgloss.Color(colorSelected))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))

	// First line: hover, then selection.
	var line1 string
	if hov := scene.HitTest(float64(m.cursorX), float64(m.cursorY)); hov != nil {
		line1 = accent.Render(fmt.Sprintf(">>> %s | RA %.3f° Dec %+.3f° | %s%s",
			hov.DisplayName(), hov.RAdeg, hov.DecDeg, hov.Status, epochSuffix(*hov)))
	} else {
		line1 = dim.Render(fmt.Sprintf("cursor (%d,%d) | %d pointings shown",
			m.cursorX, m.cursorY, len(scene.Markers)))
	}
	if m.selected != nil {
		line1 += sel.Render(fmt.Sprintf("  [selected: %s]", m.selected.DisplayName()))
	}

	line2 := dim.Render("arrows: cursor | enter: select | hjkl: pan | +/-: zoom | p/c: proj/color | gGevsL: overlays | space: play | [ ]: step")
	return line1 + "\n" + line2
}

func epochSuffix(p pointing.Pointing) string {
	if !p.HasEpoch() {
		return ""
	}
	return " | " + p.Epoch.UTC().Format("2006-01-02")
}

func findPointing(pts []pointing.Pointing, id string) (pointing.Pointing, bool) {
	for _, p := range pts {
		if p.ID == id {
			return p, true
		}
	}
	return pointing.Pointing{}, false
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
