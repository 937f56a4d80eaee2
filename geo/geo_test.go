package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	nyc    = Point{Lat: 40.7128, Lng: -74.0060}
	north  = Point{Lat: 40.7628, Lng: -74.0060} // 0.05 degrees north of nyc
	london = Point{Lat: 51.5074, Lng: -0.1278}
)

func TestDistanceKmSymmetric(t *testing.T) {
	assert.InDelta(t, DistanceKm(nyc, london), DistanceKm(london, nyc), 1e-9)
	assert.InDelta(t, DistanceKm(nyc, north), DistanceKm(north, nyc), 1e-9)
}

func TestDistanceKmZeroForSamePoint(t *testing.T) {
	assert.Zero(t, DistanceKm(nyc, nyc))
}

func TestDistanceKmKnownValues(t *testing.T) {
	// 0.05 degrees of latitude is roughly 5.56 km
	assert.InDelta(t, 5.56, DistanceKm(nyc, north), 0.05)
	// transatlantic sanity check
	assert.InDelta(t, 5570, DistanceKm(nyc, london), 20)
}

func TestProjectToViewportInvertsLatitude(t *testing.T) {
	b := Bounds{MinLat: 40, MaxLat: 41, MinLng: -75, MaxLng: -74}

	topHigh, _ := ProjectToViewport(Point{Lat: 40.9, Lng: -74.5}, b)
	topLow, _ := ProjectToViewport(Point{Lat: 40.1, Lng: -74.5}, b)
	// higher latitude renders closer to the top of the screen
	assert.Less(t, topHigh, topLow)

	top, left := ProjectToViewport(Point{Lat: 40.5, Lng: -74.5}, b)
	assert.InDelta(t, 50, top, 1e-9)
	assert.InDelta(t, 50, left, 1e-9)
}

func TestProjectToViewportClampsOutOfBounds(t *testing.T) {
	b := Bounds{MinLat: 40, MaxLat: 41, MinLng: -75, MaxLng: -74}
	top, left := ProjectToViewport(Point{Lat: 50, Lng: -60}, b)
	assert.Equal(t, 5.0, top)
	assert.Equal(t, 95.0, left)
}

func TestFitBoundsAlwaysPositiveArea(t *testing.T) {
	cases := map[string][]Point{
		"empty":      {},
		"single":     {nyc},
		"coincident": {nyc, nyc, nyc},
		"spread":     {nyc, north, {Lat: 40.70, Lng: -74.10}},
	}
	for name, pts := range cases {
		b := FitBounds(pts, 0.4)
		assert.Greater(t, b.MaxLat, b.MinLat, name)
		assert.Greater(t, b.MaxLng, b.MinLng, name)
	}
}

func TestFitBoundsContainsAllPoints(t *testing.T) {
	pts := []Point{nyc, north, {Lat: 40.70, Lng: -74.10}}
	b := FitBounds(pts, 0.4)
	for _, p := range pts {
		assert.GreaterOrEqual(t, p.Lat, b.MinLat)
		assert.LessOrEqual(t, p.Lat, b.MaxLat)
		assert.GreaterOrEqual(t, p.Lng, b.MinLng)
		assert.LessOrEqual(t, p.Lng, b.MaxLng)
	}
}

func TestInterpolateTowardsConverges(t *testing.T) {
	current := nyc
	target := north
	prev := DistanceKm(current, target)
	ticks := 0
	for DistanceKm(current, target) >= ConvergenceEpsilonKm {
		current = InterpolateTowards(current, target, 0.1)
		d := DistanceKm(current, target)
		require.Less(t, d, prev, "distance must strictly decrease")
		prev = d
		ticks++
		require.Less(t, ticks, 100, "must converge in a bounded number of steps")
	}

	// fixed point at convergence
	at := InterpolateTowards(current, target, 0.1)
	assert.Equal(t, target, at)
	assert.Equal(t, target, InterpolateTowards(at, target, 0.1))
}
