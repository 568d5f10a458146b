package services

import (
	"fmt"
	"sort"

	"route-surface-service/internal/domain"
	"route-surface-service/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// SegmentBySurface decomposes a continuous path geometry into elementary
// two-point segments, each tagged with the surface code of the range its
// start index falls in and measured in a locally accurate projected
// coordinate system. Ranges are inclusive on both ends; when ranges
// overlap the last applied one wins; uncovered indices classify as
// Unknown. Returned geometries stay in WGS-84 degrees.
func SegmentBySurface(geometry orb.LineString, ranges []domain.SurfaceRange) ([]domain.PathSegment, error) {
	if len(geometry) < 2 {
		return nil, fmt.Errorf("segment path: geometry has %d coordinates, need at least 2", len(geometry))
	}

	segmentCount := len(geometry) - 1

	codes := make([]int, segmentCount)
	for i := range codes {
		codes[i] = -1
	}
	for _, r := range ranges {
		start := r.Start
		if start < 0 {
			start = 0
		}
		for i := start; i <= r.End && i < segmentCount; i++ {
			codes[i] = r.Code
		}
	}

	proj := geo.EstimateProjection(geometry)
	projected := make([]orb.Point, len(geometry))
	for i, pt := range geometry {
		projected[i] = proj.Forward(pt)
	}

	segments := make([]domain.PathSegment, 0, segmentCount)
	for i := 0; i < segmentCount; i++ {
		segments = append(segments, domain.PathSegment{
			Geometry: orb.LineString{geometry[i], geometry[i+1]},
			Surface:  domain.SurfaceFromCode(codes[i]),
			LengthM:  planar.Distance(projected[i], projected[i+1]),
		})
	}

	return segments, nil
}

// SurfaceStatistics aggregates elementary path segments by surface type:
// total kilometers and share of the whole route per type, rounded to two
// decimals, sorted descending by length.
func SurfaceStatistics(segments []domain.PathSegment) []domain.SurfaceStatistic {
	totals := make(map[domain.SurfaceType]float64)
	var totalM float64
	for _, s := range segments {
		totals[s.Surface] += s.LengthM
		totalM += s.LengthM
	}

	stats := make([]domain.SurfaceStatistic, 0, len(totals))
	for surface, meters := range totals {
		pct := 0.0
		if totalM > 0 {
			pct = meters / totalM * 100
		}
		stats = append(stats, domain.SurfaceStatistic{
			Surface:       surface,
			TotalLengthKm: round2(meters / 1000),
			Percentage:    round2(pct),
		})
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].TotalLengthKm != stats[j].TotalLengthKm {
			return stats[i].TotalLengthKm > stats[j].TotalLengthKm
		}
		return stats[i].Surface < stats[j].Surface
	})

	return stats
}
