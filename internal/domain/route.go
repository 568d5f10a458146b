package domain

import "github.com/paulmach/orb"

// Step kinds reported by the optimization service.
type StepKind string

const (
	StepStart StepKind = "start"
	StepJob   StepKind = "job"
	StepEnd   StepKind = "end"
)

// Vehicle is the single vehicle of a routing request: fixed start and end.
type Vehicle struct {
	ID      int
	Profile string
	Start   CanonicalPoint
	End     CanonicalPoint
}

// Job is one mandatory destination visit. IDs are dense 1..N in input
// order; the id is the only stable link back to the original row.
type Job struct {
	ID       int
	Location CanonicalPoint
	Priority int
}

// RoutingRequest is the vehicle-routing problem handed to the
// optimization service: one vehicle, one job per destination.
type RoutingRequest struct {
	Vehicle Vehicle
	Jobs    []Job
}

// VisitStep is one row of the optimization service's step sequence.
// JobID is zero for start/end steps. Cumulative distance is monotonically
// non-decreasing over the sequence.
type VisitStep struct {
	Kind                StepKind
	JobID               int
	Location            orb.Point
	CumulativeDistanceM float64
}

// RouteSegment is one leg of the optimized route, derived by differencing
// consecutive step cumulative distances.
type RouteSegment struct {
	Name     string
	Origin   orb.Point
	End      orb.Point
	LengthKm float64
}

// OrderedDestination is a destination row joined back onto its visit rank.
// Rank 0 means the spatial join found no match (a data-quality signal,
// not an error); such rows keep their input data and sort last.
type OrderedDestination struct {
	Name                string
	Identifier          string
	Rank                int
	CumulativeDistanceM float64
	Geometry            orb.Point
}

// PathSegment is an elementary two-point piece of the detailed path,
// tagged with its road surface and metrically accurate length. Segment
// endpoints chain: segment i ends where segment i+1 starts.
type PathSegment struct {
	Geometry orb.LineString
	Surface  SurfaceType
	LengthM  float64
}

// SurfaceRange tags the coordinate index range [Start, End] of a path
// geometry with a raw surface code.
type SurfaceRange struct {
	Start int
	End   int
	Code  int
}

// SurfaceSummaryEntry is the directions service's own per-surface total,
// kept as an optional cross-check against the locally computed statistics.
type SurfaceSummaryEntry struct {
	Surface   SurfaceType
	DistanceM float64
	Share     float64
}

// DirectionsResult is the typed portion of a directions response the
// pipeline consumes: path geometry plus parallel surface annotations.
type DirectionsResult struct {
	Geometry      orb.LineString
	SurfaceRanges []SurfaceRange
	Summary       []SurfaceSummaryEntry
}

// RouteResult is the output of the whole pipeline, consumed by the UI
// collaborator (and by the HTTP/CLI callers in this repository).
type RouteResult struct {
	Path           []PathSegment
	SurfaceStats   []SurfaceStatistic
	ServiceSummary []SurfaceSummaryEntry
	Source         CanonicalPoint
	FinalStop      CanonicalPoint
	Destinations   []OrderedDestination
	Segments       []RouteSegment
	DestIDField    string
}

// TotalLengthKm sums the route segment lengths.
func (r *RouteResult) TotalLengthKm() float64 {
	var total float64
	for _, s := range r.Segments {
		total += s.LengthKm
	}
	return total
}
