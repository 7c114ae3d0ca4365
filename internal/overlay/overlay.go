// Package overlay generates sampled equatorial point sequences for sky-map
// reference curves: the galactic plane, the ecliptic, survey footprints and
// the visibility horizon. Sequences are fed through a projection by the
// renderer; every emitted point already satisfies the coordinate invariants
// (RA in [0,360), Dec in [-90,90]).
package overlay

import (
	"github.com/dsa110/dsa110-contimg-sub002/internal/astro"
)

// DefaultSamples is the point count for full-circle overlays; generators
// return one extra closing sample.
const DefaultSamples = 360

// Edge sampling bounds for footprint polygons, degrees per step.
const (
	DefaultEdgeStep = 3.0
	minEdgeStep     = 2.0
	maxEdgeStep     = 5.0
)

// GalacticPlane returns n+1 equatorial samples tracing galactic latitude
// zero, longitude swept 0..360 (the last sample closes the loop).
func GalacticPlane(n int) []astro.Equatorial {
	if n <= 0 {
		n = DefaultSamples
	}

	pts := make([]astro.Equatorial, 0, n+1)
	for i := 0; i <= n; i++ {
		l := 360 * float64(i) / float64(n)
		pts = append(pts, sanitize(astro.GalacticToEquatorial(l, 0)))
	}
	return pts
}

// Ecliptic returns n+1 equatorial samples tracing the ecliptic, longitude
// swept 0..360 (the last sample closes the loop).
func Ecliptic(n int) []astro.Equatorial {
	if n <= 0 {
		n = DefaultSamples
	}

	pts := make([]astro.Equatorial, 0, n+1)
	for i := 0; i <= n; i++ {
		lon := 360 * float64(i) / float64(n)
		pts = append(pts, sanitize(astro.EclipticToEquatorial(lon)))
	}
	return pts
}

// FootprintOutline returns a closed rectangular polygon in equatorial space
// for a survey footprint: bottom edge (dec=min, RA min→max), right edge
// (RA=max, dec min→max), top edge (dec=max, RA max→min), left edge (RA=min,
// dec max→min). Edges are sampled every step degrees (clamped to 2–5) so
// the polygon renders smoothly under a projection. A nil RA range means the
// footprint spans all right ascensions.
func FootprintOutline(fp Footprint, step float64) []astro.Equatorial {
	raMin, raMax := 0.0, 360.0
	if fp.RARange != nil {
		raMin, raMax = fp.RARange.MinDeg, fp.RARange.MaxDeg
	}
	return rectOutline(raMin, raMax, fp.DecMinDeg, fp.DecMaxDeg, step)
}

// HorizonOutline returns a closed polygon covering the sky at or below the
// given declination limit, RA swept over the full circle. Used to shade the
// region the array cannot observe.
func HorizonOutline(decLimitDeg float64, step float64) []astro.Equatorial {
	return rectOutline(0, 360, -90, astro.ClampDec(decLimitDeg), step)
}

// rectOutline walks the four edges of a dec/RA rectangle at the given
// sampling step, closing the loop on the starting corner.
func rectOutline(raMin, raMax, decMin, decMax, step float64) []astro.Equatorial {
	if step < minEdgeStep || step > maxEdgeStep {
		step = DefaultEdgeStep
	}
	decMin = astro.ClampDec(decMin)
	decMax = astro.ClampDec(decMax)

	var pts []astro.Equatorial
	add := func(ra, dec float64) {
		pts = append(pts, sanitize(astro.Equatorial{RAdeg: ra, DecDeg: dec}))
	}

	// Bottom: RA min → max at dec=min.
	for ra := raMin; ra < raMax; ra += step {
		add(ra, decMin)
	}
	// Right: dec min → max at RA=max.
	for dec := decMin; dec < decMax; dec += step {
		add(raMax, dec)
	}
	// Top: RA max → min at dec=max.
	for ra := raMax; ra > raMin; ra -= step {
		add(ra, decMax)
	}
	// Left: dec max → min at RA=min.
	for dec := decMax; dec > decMin; dec -= step {
		add(raMin, dec)
	}

	// Close the loop on the starting corner.
	add(raMin, decMin)
	return pts
}

func sanitize(eq astro.Equatorial) astro.Equatorial {
	return astro.Equatorial{
		RAdeg:  astro.NormalizeRA(eq.RAdeg),
		DecDeg: astro.ClampDec(eq.DecDeg),
	}
}
