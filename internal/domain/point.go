package domain

import "github.com/paulmach/orb"

// Immutable geographic point in WGS-84 degrees, plus the human-readable
// identifier carried through from the input table (may be empty).
type CanonicalPoint struct {
	Identifier string
	Lon        float64
	Lat        float64
}

// Return the point as [lon, lat] for external API compatibility.
func (p CanonicalPoint) LonLat() []float64 { return []float64{p.Lon, p.Lat} }

// Return the point as an orb geometry for projection and distance work.
func (p CanonicalPoint) Point() orb.Point { return orb.Point{p.Lon, p.Lat} }

// Table is a parsed input table as supplied by the caller (CSV, XLSX,
// pick-list, map clicks). Cell values are strings; coordinate parsing
// happens during normalization. Row order is significant: it drives
// job id assignment.
type Table struct {
	Columns []string
	Rows    [][]string
}
