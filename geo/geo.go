package geo

import "math"

const (
	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371

	// ConvergenceEpsilonKm is the distance below which interpolation snaps
	// to its target and stays there.
	ConvergenceEpsilonKm = 0.01

	// minBoundsDelta pads a degenerate bounding box so it always has area.
	minBoundsDelta = 0.01

	// viewport clamp margin in percent, keeps markers on canvas
	clampMin = 5
	clampMax = 95
)

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Bounds is an axis-aligned lat/lng box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

func toRad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

// DistanceKm returns the great-circle distance between two points in
// kilometers. Symmetric; zero iff the points are identical.
func DistanceKm(a, b Point) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// ProjectToViewport maps a point to a 0-100% screen position inside bounds.
// Latitude is inverted because screen Y grows downward. Output is clamped
// to [5,95] so a point outside bounds never produces a pathological layout.
func ProjectToViewport(p Point, b Bounds) (topPct, leftPct float64) {
	latRange := b.MaxLat - b.MinLat
	lngRange := b.MaxLng - b.MinLng
	if latRange == 0 {
		latRange = minBoundsDelta
	}
	if lngRange == 0 {
		lngRange = minBoundsDelta
	}
	topPct = clamp((b.MaxLat-p.Lat)/latRange*100, clampMin, clampMax)
	leftPct = clamp((p.Lng-b.MinLng)/lngRange*100, clampMin, clampMax)
	return topPct, leftPct
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// FitBounds computes the minimal box containing all points, then expands
// each axis by paddingRatio of its span. A zero span (single or coincident
// points) substitutes a fixed minimum delta so the box has non-zero area.
func FitBounds(points []Point, paddingRatio float64) Bounds {
	if len(points) == 0 {
		return Bounds{
			MinLat: -minBoundsDelta, MaxLat: minBoundsDelta,
			MinLng: -minBoundsDelta, MaxLng: minBoundsDelta,
		}
	}
	b := Bounds{
		MinLat: points[0].Lat, MaxLat: points[0].Lat,
		MinLng: points[0].Lng, MaxLng: points[0].Lng,
	}
	for _, p := range points[1:] {
		b.MinLat = math.Min(b.MinLat, p.Lat)
		b.MaxLat = math.Max(b.MaxLat, p.Lat)
		b.MinLng = math.Min(b.MinLng, p.Lng)
		b.MaxLng = math.Max(b.MaxLng, p.Lng)
	}
	latPad := (b.MaxLat - b.MinLat) * paddingRatio
	if latPad == 0 {
		latPad = minBoundsDelta
	}
	lngPad := (b.MaxLng - b.MinLng) * paddingRatio
	if lngPad == 0 {
		lngPad = minBoundsDelta
	}
	b.MinLat -= latPad
	b.MaxLat += latPad
	b.MinLng -= lngPad
	b.MaxLng += lngPad
	return b
}

// InterpolateTowards moves current a fraction of the remaining vector toward
// target. Repeated application converges: once within ConvergenceEpsilonKm
// the result is the target itself, a fixed point.
func InterpolateTowards(current, target Point, fraction float64) Point {
	if DistanceKm(current, target) < ConvergenceEpsilonKm {
		return target
	}
	return Point{
		Lat: current.Lat + (target.Lat-current.Lat)*fraction,
		Lng: current.Lng + (target.Lng-current.Lng)*fraction,
	}
}
