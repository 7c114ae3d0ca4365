// Package projection builds 2D cartographic projections of the celestial
// sphere, mapping equatorial coordinates to pixel positions in a viewport.
package projection

import (
	"math"

	"github.com/dsa110/dsa110-contimg-sub002/internal/astro"
)

// Kind names a supported map projection.
type Kind string

const (
	KindAitoff    Kind = "aitoff"
	KindMollweide Kind = "mollweide"
	KindHammer    Kind = "hammer"
	KindMercator  Kind = "mercator"
)

// ParseKind maps a projection name to a Kind. Unknown names fall back to
// Aitoff; the fallback is an explicit default, not an error.
func ParseKind(s string) Kind {
	switch Kind(s) {
	case KindAitoff, KindMollweide, KindHammer, KindMercator:
		return Kind(s)
	default:
		return KindAitoff
	}
}

// mercatorMaxLatDeg is the declination cutoff beyond which Mercator output
// is treated as unprojectable (the projection diverges at the poles).
const mercatorMaxLatDeg = 85.0

// Projection converts equatorial coordinates to pixel coordinates for a
// fixed viewport. The whole sphere is scaled to fit centered; zoom and pan
// adjust the transform without altering the underlying projection math.
type Projection struct {
	kind   Kind
	width  int
	height int

	zoomFactor float64
	rotationRA float64 // RA at the projection center, degrees
	panX, panY float64 // pixel offsets applied after scaling

	scale float64 // pixels per projection unit
}

// Option configures a Projection.
type Option func(*Projection)

// WithZoom sets a multiplicative zoom factor (1.0 = fit viewport).
func WithZoom(z float64) Option {
	return func(p *Projection) {
		if z > 0 {
			p.zoomFactor = z
		}
	}
}

// WithRotation sets the right ascension mapped to the projection center.
func WithRotation(raDeg float64) Option {
	return func(p *Projection) {
		p.rotationRA = astro.NormalizeRA(raDeg)
	}
}

// WithPan offsets the projected image by a pixel amount.
func WithPan(dx, dy float64) Option {
	return func(p *Projection) {
		p.panX = dx
		p.panY = dy
	}
}

// New constructs a projection for the given viewport. Unknown kinds fall
// back to Aitoff. A non-positive width or height yields a degenerate but
// deterministic projection (every projectable point lands on the viewport
// midpoint); it never panics.
func New(kind Kind, width, height int, opts ...Option) *Projection {
	p := &Projection{
		kind:       ParseKind(string(kind)),
		width:      width,
		height:     height,
		zoomFactor: 1.0,
	}
	for _, opt := range opts {
		opt(p)
	}

	extX, extY := p.extents()
	if width > 0 && height > 0 {
		sx := float64(width) / (2 * extX)
		sy := float64(height) / (2 * extY)
		p.scale = math.Min(sx, sy) * p.zoomFactor
	}

	return p
}

// Kind returns the active projection kind.
func (p *Projection) Kind() Kind { return p.kind }

// Size returns the viewport dimensions in pixels.
func (p *Projection) Size() (width, height int) { return p.width, p.height }

// extents returns the half-ranges of the projection plane, used to fit the
// full sphere into the viewport.
func (p *Projection) extents() (x, y float64) {
	switch p.kind {
	case KindHammer, KindMollweide:
		return 2 * math.Sqrt2, math.Sqrt2
	case KindMercator:
		phi := degToRad(mercatorMaxLatDeg)
		return math.Pi, math.Log(math.Tan(math.Pi/4 + phi/2))
	default: // Aitoff
		return math.Pi, math.Pi / 2
	}
}

// Project maps an equatorial position to pixel coordinates. The returned
// bool is false when the point is unprojectable under the active kind
// (e.g. the Mercator polar cutoff); such points are skipped by callers.
func (p *Projection) Project(raDeg, decDeg float64) (x, y float64, ok bool) {
	decDeg = astro.ClampDec(decDeg)

	// Shift into the projection frame and adopt the [-180,180) longitude
	// convention: RA at or past 180 becomes negative longitude.
	lonDeg := astro.NormalizeRA(raDeg - p.rotationRA)
	if lonDeg >= 180 {
		lonDeg -= 360
	}

	px, py, ok := p.planar(degToRad(lonDeg), degToRad(decDeg))
	if !ok || math.IsNaN(px) || math.IsNaN(py) {
		return 0, 0, false
	}

	// Screen y grows downward.
	x = float64(p.width)/2 + px*p.scale + p.panX
	y = float64(p.height)/2 - py*p.scale + p.panY
	return x, y, true
}

// planar evaluates the raw projection formulas on longitude/latitude in
// radians, returning coordinates in the projection plane.
func (p *Projection) planar(lam, phi float64) (float64, float64, bool) {
	switch p.kind {
	case KindHammer:
		d := math.Sqrt(1 + math.Cos(phi)*math.Cos(lam/2))
		if d == 0 {
			return 0, 0, false
		}
		x := 2 * math.Sqrt2 * math.Cos(phi) * math.Sin(lam/2) / d
		y := math.Sqrt2 * math.Sin(phi) / d
		return x, y, true

	case KindMollweide:
		theta := mollweideTheta(phi)
		x := 2 * math.Sqrt2 / math.Pi * lam * math.Cos(theta)
		y := math.Sqrt2 * math.Sin(theta)
		return x, y, true

	case KindMercator:
		if math.Abs(phi) > degToRad(mercatorMaxLatDeg) {
			return 0, 0, false
		}
		return lam, math.Log(math.Tan(math.Pi/4 + phi/2)), true

	default: // Aitoff
		alpha := math.Acos(clamp(math.Cos(phi)*math.Cos(lam/2), -1, 1))
		sinc := 1.0
		if alpha > 1e-9 {
			sinc = math.Sin(alpha) / alpha
		}
		x := 2 * math.Cos(phi) * math.Sin(lam/2) / sinc
		y := math.Sin(phi) / sinc
		return x, y, true
	}
}

// mollweideTheta solves 2θ + sin 2θ = π sin φ by Newton iteration.
func mollweideTheta(phi float64) float64 {
	if math.Abs(phi) >= math.Pi/2-1e-9 {
		return math.Copysign(math.Pi/2, phi)
	}

	target := math.Pi * math.Sin(phi)
	theta := phi
	for i := 0; i < 10; i++ {
		f := 2*theta + math.Sin(2*theta) - target
		df := 2 + 2*math.Cos(2*theta)
		if math.Abs(df) < 1e-12 {
			break
		}
		next := theta - f/df
		if math.Abs(next-theta) < 1e-12 {
			theta = next
			break
		}
		theta = next
	}
	return theta
}

// LocalScale estimates pixels per degree at a sky position by projecting a
// small declination offset. Field-of-view radii are converted to pixel
// radii through this, recomputed every render. Returns 0 when the position
// is unprojectable.
func (p *Projection) LocalScale(raDeg, decDeg float64) float64 {
	const step = 0.5

	x0, y0, ok := p.Project(raDeg, decDeg)
	if !ok {
		return 0
	}

	// Probe toward the equator so the offset stays on the sphere.
	probe := decDeg - step
	if decDeg < 0 {
		probe = decDeg + step
	}
	x1, y1, ok := p.Project(raDeg, probe)
	if !ok {
		return 0
	}

	return math.Hypot(x1-x0, y1-y0) / step
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
