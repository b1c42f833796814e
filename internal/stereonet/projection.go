// Package stereonet projects planar and linear orientation data onto a
// lower-hemisphere equal-area (Schmidt) net of unit radius.
//
// Geographic frame: X points east, Y north, Z up. Plane azimuths follow the
// right-hand rule, so a plane dips towards strike+90.
package stereonet

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"table2spatial/internal/models"
)

const deg = math.Pi / 180

// XY is a projected point on the net.
type XY struct {
	X, Y float64
}

// Normalize wraps an azimuth into [0, 360).
func Normalize(azimuth float64) float64 {
	a := math.Mod(azimuth, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// ToStrike converts a plane azimuth to a right-hand-rule strike. Dip
// directions are rotated by -90 degrees.
func ToStrike(azimuth float64, kind models.AzimuthType) float64 {
	if kind == models.AzimuthDipDirection {
		return Normalize(azimuth - 90)
	}
	return Normalize(azimuth)
}

// LineVector returns the downward unit vector of a line with the given trend
// and plunge, both in degrees.
func LineVector(trend, plunge float64) r3.Vec {
	t, p := trend*deg, plunge*deg
	return r3.Vec{
		X: math.Sin(t) * math.Cos(p),
		Y: math.Cos(t) * math.Cos(p),
		Z: -math.Sin(p),
	}
}

// Project maps a unit vector onto the lower-hemisphere equal-area net.
// Upward vectors are replaced by their antipode.
func Project(v r3.Vec) XY {
	v = r3.Unit(v)
	if v.Z > 0 {
		v = r3.Scale(-1, v)
	}
	horizontal := math.Hypot(v.X, v.Y)
	if horizontal == 0 {
		return XY{}
	}
	// Angle from the downward vertical.
	theta := math.Atan2(horizontal, -v.Z)
	r := math.Sqrt2 * math.Sin(theta/2)
	return XY{X: r * v.X / horizontal, Y: r * v.Y / horizontal}
}

// Line projects a trend/plunge measurement.
func Line(trend, plunge float64) XY {
	return Project(LineVector(trend, plunge))
}

// Pole projects the normal of a strike/dip plane.
func Pole(strike, dip float64) XY {
	return Line(strike-90, 90-dip)
}

// PoleAttitude returns the trend and plunge of a plane's pole.
func PoleAttitude(strike, dip float64) (trend, plunge float64) {
	return Normalize(strike - 90), 90 - dip
}

// planeVector returns the unit vector lying in the plane at the given rake,
// measured from the strike direction towards the dip direction.
func planeVector(strike, dip, rake float64) r3.Vec {
	along := LineVector(strike, 0)
	down := LineVector(strike+90, dip)
	r := rake * deg
	return r3.Add(r3.Scale(math.Cos(r), along), r3.Scale(math.Sin(r), down))
}

// Rake projects a line contained in a plane.
func Rake(strike, dip, rake float64) XY {
	return Project(planeVector(strike, dip, rake))
}

// RakeAttitude returns the trend and plunge of a rake line.
func RakeAttitude(strike, dip, rake float64) (trend, plunge float64) {
	v := r3.Unit(planeVector(strike, dip, rake))
	if v.Z > 0 {
		v = r3.Scale(-1, v)
	}
	plunge = math.Asin(-v.Z) / deg
	trend = Normalize(math.Atan2(v.X, v.Y) / deg)
	return trend, plunge
}

// Plane samples the great circle of a plane from one end of the strike line
// to the other.
func Plane(strike, dip float64, samples int) []XY {
	if samples < 2 {
		samples = 2
	}
	out := make([]XY, samples)
	for i := range out {
		rake := 180 * float64(i) / float64(samples-1)
		out[i] = Rake(strike, dip, rake)
	}
	return out
}

// SmallCircle samples the lower-hemisphere part of the cone of half-angle
// halfAngle around axis. Discontinuities at the primitive split the result
// into separate runs.
func SmallCircle(axis r3.Vec, halfAngle float64, samples int) [][]XY {
	axis = r3.Unit(axis)
	ref := r3.Vec{Z: 1}
	if math.Abs(r3.Dot(axis, ref)) > 0.99 {
		ref = r3.Vec{X: 1}
	}
	u := r3.Unit(r3.Cross(axis, ref))
	w := r3.Cross(axis, u)

	c, s := math.Cos(halfAngle*deg), math.Sin(halfAngle*deg)
	var runs [][]XY
	var current []XY
	for i := 0; i <= samples; i++ {
		phi := 2 * math.Pi * float64(i) / float64(samples)
		v := r3.Add(r3.Scale(c, axis), r3.Scale(s, r3.Add(r3.Scale(math.Cos(phi), u), r3.Scale(math.Sin(phi), w))))
		if v.Z > 1e-12 {
			if len(current) > 1 {
				runs = append(runs, current)
			}
			current = nil
			continue
		}
		current = append(current, Project(v))
	}
	if len(current) > 1 {
		runs = append(runs, current)
	}
	return runs
}

// Primitive samples the outer circle of the net.
func Primitive(samples int) []XY {
	out := make([]XY, samples+1)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(samples)
		out[i] = XY{X: math.Cos(a), Y: math.Sin(a)}
	}
	return out
}

// Graticule returns the net's grid at the given spacing: great circles through
// the N-S axis and small circles around it.
func Graticule(spacing float64, samples int) [][]XY {
	var lines [][]XY
	for d := spacing; d < 90; d += spacing {
		lines = append(lines, Plane(0, d, samples), Plane(180, d, samples))
	}
	north := r3.Vec{Y: 1}
	for a := spacing; a < 180; a += spacing {
		if a == 90 {
			continue
		}
		lines = append(lines, SmallCircle(north, a, samples*2)...)
	}
	return lines
}
