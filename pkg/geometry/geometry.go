package geometry

import "math"

// Constants for observer-relative calculations
const (
	// EarthRadiusFeet is the spherical Earth radius used for all
	// great-circle math in this package.
	EarthRadiusFeet = 20903520.0

	// FeetPerMile converts slant distances to statute miles.
	FeetPerMile = 5280.0

	// DegreesToRadians converts degrees to radians
	DegreesToRadians = math.Pi / 180.0

	// RadiansToDegrees converts radians to degrees
	RadiansToDegrees = 180.0 / math.Pi
)

// Observer is the fixed ground position all vectors are computed from.
type Observer struct {
	// Latitude in decimal degrees (-90 to +90)
	Latitude float64

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64

	// Altitude in feet above mean sea level
	Altitude float64
}

// Vector is the observer-relative geometry to a single target.
type Vector struct {
	// Bearing is the initial great-circle bearing in degrees true,
	// normalized to [0, 360). 0 = North, 90 = East.
	Bearing float64

	// Elevation is the angle above the observer's local horizon in
	// degrees. Negative values are below the horizon.
	Elevation float64

	// Distance is the straight-line (slant) range in feet.
	Distance float64
}

// Slant returns the bearing, elevation angle, and slant distance from the
// observer to a target at the given position and altitude in feet.
//
// The caller must know the target's full position; there is no "unknown"
// result. Closed-form spherical trigonometry only: initial bearing from
// the great-circle navigation formula, angular separation from the
// spherical law of cosines, and elevation from the right-triangle
// decomposition of the chord between the two altitude-displaced points.
func Slant(obs Observer, lat, lon, altFeet float64) Vector {
	srcLat := obs.Latitude * DegreesToRadians
	dstLat := lat * DegreesToRadians
	lambda := (lon - obs.Longitude) * DegreesToRadians

	bearing := math.Atan2(
		math.Sin(lambda),
		math.Cos(srcLat)*math.Tan(dstLat)-math.Sin(srcLat)*math.Cos(lambda),
	)
	bearing = math.Mod(bearing+2*math.Pi, 2*math.Pi)

	// Angular separation between the surface points. Clamp against
	// floating-point excursions outside acos's domain at tiny angles.
	rho := math.Acos(clamp1(math.Sin(srcLat)*math.Sin(dstLat) +
		math.Cos(srcLat)*math.Cos(dstLat)*math.Cos(lambda)))

	// Chord geometry between two points at different altitudes above the
	// sphere: l1 is the half-plane offset of the target from the
	// observer's vertical, l2 the along-vertical distance to that
	// offset, l3 the remaining height of the target above it.
	r1 := EarthRadiusFeet + obs.Altitude
	l1 := math.Sin(rho) * r1
	l2 := math.Sqrt(r1*r1 - l1*l1)
	l3 := (EarthRadiusFeet + altFeet) - l2
	dist := math.Hypot(l1, l3)

	t1 := math.Acos(clamp1(l1 / r1))
	t2 := math.Acos(clamp1(l1 / dist))
	incl := t1 + t2 - math.Pi/2

	return Vector{
		Bearing:   bearing * RadiansToDegrees,
		Elevation: incl * RadiansToDegrees,
		Distance:  dist,
	}
}

func clamp1(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}
