package geo

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateProjection(t *testing.T) {
	// Kigali area: zone 36, southern hemisphere.
	points := []orb.Point{
		{30.0619, -1.9441},
		{30.1234, -1.5678},
	}

	proj := EstimateProjection(points)
	assert.Equal(t, 36, proj.Zone)
	assert.True(t, proj.South)

	// Phoenix area: zone 12, northern hemisphere.
	proj = EstimateProjection([]orb.Point{{-112.074, 33.448}})
	assert.Equal(t, 12, proj.Zone)
	assert.False(t, proj.South)
}

func TestForwardInverseRoundTrip(t *testing.T) {
	cases := []orb.Point{
		{30.0619, -1.9441},
		{30.5, -2.25},
		{-112.074, 33.448},
		{2.3522, 48.8566},
	}

	for _, pt := range cases {
		proj := EstimateProjection([]orb.Point{pt})

		projected := proj.Forward(pt)
		back := proj.Inverse(projected)

		require.InDelta(t, pt[0], back[0], 1e-6, "lon round trip for %v", pt)
		require.InDelta(t, pt[1], back[1], 1e-6, "lat round trip for %v", pt)
	}
}

func TestProjectedDistanceMatchesHaversine(t *testing.T) {
	a := orb.Point{30.0619, -1.9441}
	b := orb.Point{30.0719, -1.9441} // ~1112 m east along a parallel

	proj := EstimateProjection([]orb.Point{a, b})
	d := planar.Distance(proj.Forward(a), proj.Forward(b))

	// Haversine reference on a spherical earth.
	const r = 6371000.0
	dLon := (b[0] - a[0]) * math.Pi / 180
	lat := a[1] * math.Pi / 180
	h := math.Cos(lat) * math.Cos(lat) * math.Sin(dLon/2) * math.Sin(dLon/2)
	ref := 2 * r * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	// UTM vs spherical haversine agree to well under 1%.
	assert.InEpsilon(t, ref, d, 0.01)
}

func TestForwardKnownPoint(t *testing.T) {
	// UTM zone 31N reference: the 3°E central meridian on the equator
	// maps to the false easting with zero northing.
	proj := Projection{Zone: 31}
	p := proj.Forward(orb.Point{3, 0})

	assert.InDelta(t, 500000, p[0], 0.001)
	assert.InDelta(t, 0, p[1], 0.001)
}
