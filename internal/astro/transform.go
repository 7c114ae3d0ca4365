// Package astro provides celestial coordinate transformations and sky math.
package astro

import (
	"math"
)

// IAU J2000 reference values for the galactic coordinate frame.
const (
	// NGPRAdeg is the right ascension of the north galactic pole.
	NGPRAdeg = 192.85948

	// NGPDecDeg is the declination of the north galactic pole.
	NGPDecDeg = 27.12825

	// AscendingNodeDeg is the galactic longitude of the ascending node
	// of the galactic plane on the equator.
	AscendingNodeDeg = 32.93192

	// ObliquityDeg is Earth's axial tilt at the J2000 epoch.
	ObliquityDeg = 23.4392911
)

// Equatorial is a J2000 equatorial coordinate pair in degrees.
type Equatorial struct {
	RAdeg  float64 // Right ascension, [0, 360)
	DecDeg float64 // Declination, [-90, 90]
}

// GalacticToEquatorial converts galactic longitude/latitude (degrees) to
// equatorial RA/Dec using the IAU J2000 north-galactic-pole reference.
// The function is total: any real input yields a valid coordinate, with
// longitude taken modulo 360.
func GalacticToEquatorial(l, b float64) Equatorial {
	l = NormalizeRA(l)

	bRad := degToRad(b)
	decGP := degToRad(NGPDecDeg)
	dl := degToRad(l - AscendingNodeDeg)

	sinDec := math.Sin(bRad)*math.Sin(decGP) + math.Cos(bRad)*math.Cos(decGP)*math.Sin(dl)
	dec := math.Asin(clamp(sinDec, -1, 1))

	y := math.Cos(bRad) * math.Cos(dl)
	x := math.Sin(bRad)*math.Cos(decGP) - math.Cos(bRad)*math.Sin(decGP)*math.Sin(dl)
	ra := NGPRAdeg + radToDeg(math.Atan2(y, x))

	return Equatorial{
		RAdeg:  NormalizeRA(ra),
		DecDeg: radToDeg(dec),
	}
}

// EclipticToEquatorial converts an ecliptic longitude (degrees, latitude
// assumed zero — i.e. a point on the ecliptic itself) to equatorial RA/Dec
// by rotating through Earth's obliquity.
func EclipticToEquatorial(lon float64) Equatorial {
	lon = NormalizeRA(lon)

	lonRad := degToRad(lon)
	eps := degToRad(ObliquityDeg)

	dec := math.Asin(clamp(math.Sin(lonRad)*math.Sin(eps), -1, 1))
	ra := math.Atan2(math.Sin(lonRad)*math.Cos(eps), math.Cos(lonRad))

	return Equatorial{
		RAdeg:  NormalizeRA(radToDeg(ra)),
		DecDeg: radToDeg(dec),
	}
}

// NormalizeRA wraps a right ascension (or any longitude-like angle) into
// the [0, 360) range.
func NormalizeRA(ra float64) float64 {
	ra = math.Mod(ra, 360)
	if ra < 0 {
		ra += 360
	}
	return ra
}

// ClampDec limits a declination to the [-90, 90] range.
func ClampDec(dec float64) float64 {
	return clamp(dec, -90, 90)
}

// AngularSeparation returns the great-circle distance in degrees between
// two equatorial positions.
func AngularSeparation(a, b Equatorial) float64 {
	ra1 := degToRad(a.RAdeg)
	dec1 := degToRad(a.DecDeg)
	ra2 := degToRad(b.RAdeg)
	dec2 := degToRad(b.DecDeg)

	cosSep := math.Sin(dec1)*math.Sin(dec2) + math.Cos(dec1)*math.Cos(dec2)*math.Cos(ra1-ra2)
	return radToDeg(math.Acos(clamp(cosSep, -1, 1)))
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

// degToRad converts degrees to radians.
func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// radToDeg converts radians to degrees.
func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}
