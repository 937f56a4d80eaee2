package tracking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worklink-api/geo"
)

var (
	jobSite = geo.Point{Lat: 40.7128, Lng: -74.0060}
	// roughly 1 km south of the job site
	origin = geo.Point{Lat: 40.7038, Lng: -74.0060}
)

func TestSessionConvergesWithinBoundedTicks(t *testing.T) {
	s := NewSession(origin, jobSite, 0.1)

	prev := geo.DistanceKm(origin, jobSite)
	require.InDelta(t, 1.0, prev, 0.05)

	var pos Position
	ticks := 0
	for !pos.Arrived {
		pos = s.Tick()
		d := geo.DistanceKm(pos.Point, jobSite)
		require.LessOrEqual(t, d, prev, "each tick observes the prior tick's result")
		prev = d
		ticks++
		require.Less(t, ticks, 50, "session must converge")
	}

	assert.Equal(t, jobSite, pos.Point)
	assert.Zero(t, pos.ETAMinutes)
}

func TestTickDecrementsETAClampedAtOne(t *testing.T) {
	far := geo.Point{Lat: 41.5, Lng: -74.0060} // ~87 km out
	s := NewSession(far, jobSite, 0.05)

	first := s.Position()
	assert.Greater(t, first.ETAMinutes, 1)

	prevETA := first.ETAMinutes
	for i := 0; i < 300; i++ {
		pos := s.Tick()
		if pos.Arrived {
			assert.Zero(t, pos.ETAMinutes)
			return
		}
		assert.GreaterOrEqual(t, pos.ETAMinutes, 1)
		assert.LessOrEqual(t, pos.ETAMinutes, prevETA)
		prevETA = pos.ETAMinutes
	}
	t.Fatal("session never arrived")
}

func TestStopFreezesPosition(t *testing.T) {
	s := NewSession(origin, jobSite, 0.1)
	moved := s.Tick()
	s.Stop()

	after := s.Tick()
	assert.Equal(t, moved, after, "ticks after stop must not move the position")

	// stop is idempotent
	s.Stop()
	assert.Equal(t, moved, s.Position())
}

func TestRunStopsCleanly(t *testing.T) {
	s := NewSession(origin, jobSite, 0.1)
	s.Run(time.Millisecond)
	time.Sleep(10 * time.Millisecond)
	s.Stop()

	frozen := s.Position()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, frozen, s.Position(), "no tick may land after Stop returns")
}

func TestManagerReplacesAndStopsSessions(t *testing.T) {
	m := NewManager()

	first := m.Start("t-1", origin, jobSite, time.Hour)
	second := m.Start("t-1", origin, jobSite, time.Hour)
	assert.NotSame(t, first, second, "starting again replaces the session")

	got, ok := m.Get("t-1")
	require.True(t, ok)
	assert.Same(t, second, got)

	m.Stop("t-1")
	_, ok = m.Get("t-1")
	assert.False(t, ok)

	// stopping an unknown task is a no-op
	m.Stop("t-unknown")
}
