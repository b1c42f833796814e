package stereonet

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"table2spatial/internal/models"
)

const tol = 1e-9

func assertXY(t *testing.T, want, got XY, msg string) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tol, msg+" (x)")
	assert.InDelta(t, want.Y, got.Y, tol, msg+" (y)")
}

func TestToStrike(t *testing.T) {
	assert.Equal(t, 0.0, ToStrike(90, models.AzimuthDipDirection))
	assert.Equal(t, 270.0, ToStrike(0, models.AzimuthDipDirection))
	assert.Equal(t, 90.0, ToStrike(90, models.AzimuthStrike))
	assert.Equal(t, 0.0, ToStrike(360, models.AzimuthStrike))
	assert.Equal(t, 350.0, Normalize(-10))
}

func TestLineProjection(t *testing.T) {
	assertXY(t, XY{0, 0}, Line(123, 90), "vertical line")
	assertXY(t, XY{0, 1}, Line(0, 0), "horizontal north")
	assertXY(t, XY{1, 0}, Line(90, 0), "horizontal east")
	assertXY(t, XY{0, -1}, Line(180, 0), "horizontal south")

	// Equal-area radius for a 30 degree plunge.
	p := Line(0, 30)
	assert.InDelta(t, math.Sqrt2*math.Sin(30*deg), p.Y, tol)
	assert.InDelta(t, 0, p.X, tol)
}

func TestProjectFlipsUpperHemisphere(t *testing.T) {
	down := LineVector(45, 20)
	up := down
	up.X, up.Y, up.Z = -down.X, -down.Y, -down.Z
	assertXY(t, Project(down), Project(up), "antipode")
}

func TestPole(t *testing.T) {
	assertXY(t, XY{0, 0}, Pole(0, 0), "horizontal plane")
	assertXY(t, XY{-1, 0}, Pole(0, 90), "vertical N-S plane")

	trend, plunge := PoleAttitude(90, 45)
	assert.Equal(t, 0.0, trend)
	assert.Equal(t, 45.0, plunge)
	assertXY(t, Line(0, 45), Pole(90, 45), "pole of plane dipping south")
}

func TestRakeAttitude(t *testing.T) {
	trend, plunge := RakeAttitude(0, 30, 90)
	assert.InDelta(t, 90, trend, tol)
	assert.InDelta(t, 30, plunge, tol)

	trend, plunge = RakeAttitude(0, 30, 0)
	assert.InDelta(t, 0, trend, tol)
	assert.InDelta(t, 0, plunge, tol)

	assertXY(t, Line(90, 30), Rake(0, 30, 90), "down-dip rake")
}

func TestPlaneEndsOnStrike(t *testing.T) {
	pts := Plane(30, 60, 91)
	require.Len(t, pts, 91)

	assertXY(t, Line(30, 0), pts[0], "strike end")
	assertXY(t, Line(210, 0), pts[90], "opposite strike end")
	assertXY(t, Line(120, 60), pts[45], "dip point")

	for _, p := range pts {
		assert.LessOrEqual(t, math.Hypot(p.X, p.Y), 1+tol)
	}
}

func TestPrimitiveAndGraticule(t *testing.T) {
	prim := Primitive(36)
	require.Len(t, prim, 37)
	for _, p := range prim {
		assert.InDelta(t, 1, math.Hypot(p.X, p.Y), tol)
	}

	grid := Graticule(10, 36)
	assert.NotEmpty(t, grid)
	for _, line := range grid {
		require.GreaterOrEqual(t, len(line), 2)
		for _, p := range line {
			assert.LessOrEqual(t, math.Hypot(p.X, p.Y), 1+1e-6)
		}
	}
}
