package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"route-surface-service/internal/domain"
	"route-surface-service/internal/geo"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"github.com/sirupsen/logrus"
)

// Radius of the circular buffer used to join destinations back onto
// ranked job steps, in projected meters.
const joinRadiusM = 10.0

// VisitSequence is the Visit Sequencer's output: destination rows joined
// onto their visit ranks, per-leg route segments, and the ordered stop
// coordinates to feed the directions request.
type VisitSequence struct {
	Ordered       []domain.OrderedDestination
	Segments      []domain.RouteSegment
	OrderedCoords []orb.Point
}

// SequenceVisits reconstructs the visiting order from an optimization
// step sequence and joins it back onto the original destination rows.
//
// Steps are sorted ascending by cumulative distance; that sort, not the
// service's array order, is the authoritative visit order. Destinations
// are matched to ranked job steps by spatial proximity: a destination
// within joinRadiusM of a job step's projected coordinate takes that
// step's rank, nearest center winning when several qualify. Unmatched
// destinations keep a zero rank and are logged, never dropped.
func SequenceVisits(steps []domain.VisitStep, destinations []domain.CanonicalPoint, logger *logrus.Logger) (*VisitSequence, error) {
	if logger == nil {
		logger = logrus.New()
	}

	if len(steps) < 2 {
		return nil, fmt.Errorf("sequence visits: optimization returned %d steps, need at least start and end", len(steps))
	}

	sorted := make([]domain.VisitStep, len(steps))
	copy(sorted, steps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CumulativeDistanceM < sorted[j].CumulativeDistanceM
	})

	jobSteps := make([]domain.VisitStep, 0, len(sorted))
	for _, s := range sorted {
		switch s.Kind {
		case domain.StepStart, domain.StepEnd:
		case domain.StepJob:
			if s.JobID < 1 || s.JobID > len(destinations) {
				return nil, fmt.Errorf("sequence visits: step job id %d outside 1..%d", s.JobID, len(destinations))
			}
			jobSteps = append(jobSteps, s)
		default:
			return nil, fmt.Errorf("sequence visits: unexpected step kind %q", s.Kind)
		}
	}

	// One shared projection keeps the 10 m buffer test metrically honest.
	all := make([]orb.Point, 0, len(sorted)+len(destinations))
	for _, s := range sorted {
		all = append(all, s.Location)
	}
	for _, d := range destinations {
		all = append(all, d.Point())
	}
	proj := geo.EstimateProjection(all)

	projected := make([]orb.Point, len(jobSteps))
	for i, s := range jobSteps {
		projected[i] = proj.Forward(s.Location)
	}

	ordered := make([]domain.OrderedDestination, 0, len(destinations))
	for _, dest := range destinations {
		destProjected := proj.Forward(dest.Point())

		rank := 0
		bestDist := math.Inf(1)
		for i := range jobSteps {
			d := planar.Distance(destProjected, projected[i])
			if d <= joinRadiusM && d < bestDist {
				bestDist = d
				rank = i + 1
			}
		}

		row := domain.OrderedDestination{
			Identifier: dest.Identifier,
			Rank:       rank,
			Geometry:   dest.Point(),
		}

		if rank > 0 {
			row.Name = fmt.Sprintf("destination %d", rank)
			row.CumulativeDistanceM = jobSteps[rank-1].CumulativeDistanceM
		} else {
			logger.WithFields(logrus.Fields{
				"identifier": dest.Identifier,
				"lon":        dest.Lon,
				"lat":        dest.Lat,
			}).Warn("destination matched no visit rank")
		}

		ordered = append(ordered, row)
	}

	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := ordered[i].Rank, ordered[j].Rank
		if ri == 0 {
			return false
		}
		if rj == 0 {
			return true
		}
		return ri < rj
	})

	labels, err := stepLabels(sorted)
	if err != nil {
		return nil, err
	}

	segments := make([]domain.RouteSegment, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		segments = append(segments, domain.RouteSegment{
			Name:     labels[i-1] + " to " + labels[i],
			Origin:   sorted[i-1].Location,
			End:      sorted[i].Location,
			LengthKm: round2((sorted[i].CumulativeDistanceM - sorted[i-1].CumulativeDistanceM) / 1000),
		})
	}

	substituteDestinationNames(segments, ordered)

	coords := make([]orb.Point, len(sorted))
	for i, s := range sorted {
		coords[i] = s.Location
	}

	return &VisitSequence{
		Ordered:       ordered,
		Segments:      segments,
		OrderedCoords: coords,
	}, nil
}

// stepLabels assigns the generic display label for each step in visit
// order: home_base, destination N, final_stop.
func stepLabels(sorted []domain.VisitStep) ([]string, error) {
	labels := make([]string, len(sorted))
	rank := 0
	for i, s := range sorted {
		switch s.Kind {
		case domain.StepStart:
			labels[i] = "home_base"
		case domain.StepEnd:
			labels[i] = "final_stop"
		case domain.StepJob:
			rank++
			labels[i] = fmt.Sprintf("destination %d", rank)
		default:
			return nil, fmt.Errorf("sequence visits: unexpected step kind %q", s.Kind)
		}
	}
	return labels, nil
}

// substituteDestinationNames replaces the generic "destination N" labels
// inside segment names with the matched destinations' identifiers.
// Ranks are processed in descending order so "destination 10" is
// rewritten before "destination 1" can clobber its prefix.
func substituteDestinationNames(segments []domain.RouteSegment, ordered []domain.OrderedDestination) {
	byRank := make(map[int]string, len(ordered))
	maxRank := 0
	for _, d := range ordered {
		if d.Rank > 0 && d.Identifier != "" {
			byRank[d.Rank] = d.Identifier
			if d.Rank > maxRank {
				maxRank = d.Rank
			}
		}
	}

	for rank := maxRank; rank >= 1; rank-- {
		name, ok := byRank[rank]
		if !ok {
			continue
		}
		generic := fmt.Sprintf("destination %d", rank)
		for i := range segments {
			segments[i].Name = strings.ReplaceAll(segments[i].Name, generic, name)
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
