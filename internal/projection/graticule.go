package projection

import (
	"github.com/dsa110/dsa110-contimg-sub002/internal/astro"
)

// Default graticule spacing in degrees.
const (
	DefaultRAStep  = 30.0
	DefaultDecStep = 30.0
)

// Graticule returns the coordinate grid as polylines of equatorial points:
// meridians at every raStep degrees of right ascension and parallels at
// every decStep degrees of declination. Each line is densely sampled so it
// stays smooth under any supported projection.
func Graticule(raStep, decStep float64, samples int) [][]astro.Equatorial {
	if raStep <= 0 {
		raStep = DefaultRAStep
	}
	if decStep <= 0 {
		decStep = DefaultDecStep
	}
	if samples <= 0 {
		samples = 90
	}

	var lines [][]astro.Equatorial

	// Meridians: constant RA, declination swept pole to pole.
	for ra := 0.0; ra < 360; ra += raStep {
		line := make([]astro.Equatorial, 0, samples+1)
		for i := 0; i <= samples; i++ {
			dec := -90 + 180*float64(i)/float64(samples)
			line = append(line, astro.Equatorial{
				RAdeg:  astro.NormalizeRA(ra),
				DecDeg: astro.ClampDec(dec),
			})
		}
		lines = append(lines, line)
	}

	// Parallels: constant declination, RA swept over the full circle.
	// The poles themselves degenerate to points and are skipped.
	for dec := -90 + decStep; dec < 90; dec += decStep {
		line := make([]astro.Equatorial, 0, samples+1)
		for i := 0; i <= samples; i++ {
			ra := 360 * float64(i) / float64(samples)
			line = append(line, astro.Equatorial{
				RAdeg:  astro.NormalizeRA(ra),
				DecDeg: astro.ClampDec(dec),
			})
		}
		lines = append(lines, line)
	}

	return lines
}
