package services

import (
	"math"
	"testing"

	"route-surface-service/internal/domain"

	"github.com/paulmach/orb"
)

func kigaliSteps() ([]domain.VisitStep, []domain.CanonicalPoint) {
	// Three destinations visited out of input order: job 2 first, then
	// job 1, then job 3.
	d1 := domain.CanonicalPoint{Identifier: "Alpha", Lon: 30.10, Lat: -1.90}
	d2 := domain.CanonicalPoint{Identifier: "Bravo", Lon: 30.20, Lat: -1.95}
	d3 := domain.CanonicalPoint{Identifier: "Charlie", Lon: 30.30, Lat: -2.00}

	steps := []domain.VisitStep{
		{Kind: domain.StepStart, Location: orb.Point{30.05, -1.94}, CumulativeDistanceM: 0},
		{Kind: domain.StepJob, JobID: 2, Location: d2.Point(), CumulativeDistanceM: 5000},
		{Kind: domain.StepJob, JobID: 1, Location: d1.Point(), CumulativeDistanceM: 12000},
		{Kind: domain.StepJob, JobID: 3, Location: d3.Point(), CumulativeDistanceM: 18000},
		{Kind: domain.StepEnd, Location: orb.Point{30.35, -2.05}, CumulativeDistanceM: 25000},
	}

	return steps, []domain.CanonicalPoint{d1, d2, d3}
}

func TestSequenceVisitsRanksAndSegments(t *testing.T) {
	steps, destinations := kigaliSteps()

	seq, err := SequenceVisits(steps, destinations, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Visit order: Bravo (rank 1), Alpha (rank 2), Charlie (rank 3).
	if len(seq.Ordered) != 3 {
		t.Fatalf("expected 3 ordered destinations, got %d", len(seq.Ordered))
	}
	wantOrder := []struct {
		identifier string
		rank       int
		distance   float64
	}{
		{"Bravo", 1, 5000},
		{"Alpha", 2, 12000},
		{"Charlie", 3, 18000},
	}
	for i, want := range wantOrder {
		got := seq.Ordered[i]
		if got.Identifier != want.identifier || got.Rank != want.rank {
			t.Errorf("ordered[%d] = %s rank %d, want %s rank %d", i, got.Identifier, got.Rank, want.identifier, want.rank)
		}
		if got.CumulativeDistanceM != want.distance {
			t.Errorf("ordered[%d] distance = %v, want %v", i, got.CumulativeDistanceM, want.distance)
		}
	}

	if len(seq.Segments) != 4 {
		t.Fatalf("expected 4 route segments, got %d", len(seq.Segments))
	}
	wantSegments := []struct {
		name   string
		length float64
	}{
		{"home_base to Bravo", 5.00},
		{"Bravo to Alpha", 7.00},
		{"Alpha to Charlie", 6.00},
		{"Charlie to final_stop", 7.00},
	}
	var totalKm float64
	for i, want := range wantSegments {
		got := seq.Segments[i]
		if got.Name != want.name {
			t.Errorf("segment %d name = %q, want %q", i, got.Name, want.name)
		}
		if got.LengthKm != want.length {
			t.Errorf("segment %d length = %v, want %v", i, got.LengthKm, want.length)
		}
		if got.LengthKm < 0 {
			t.Errorf("segment %d has negative length", i)
		}
		totalKm += got.LengthKm
	}
	if math.Abs(totalKm-25.0) > 1e-9 {
		t.Errorf("segment lengths sum to %v km, want 25", totalKm)
	}

	// The ordered coordinates feed the directions request: start, jobs
	// in visit order, end.
	if len(seq.OrderedCoords) != 5 {
		t.Fatalf("expected 5 ordered coordinates, got %d", len(seq.OrderedCoords))
	}
	if seq.OrderedCoords[1] != destinations[1].Point() {
		t.Errorf("second coordinate should be Bravo's, got %v", seq.OrderedCoords[1])
	}
}

func TestSequenceVisitsSortsByCumulativeDistance(t *testing.T) {
	steps, destinations := kigaliSteps()

	// Shuffle the service's array order; the distance sort is the
	// authoritative visit order.
	shuffled := []domain.VisitStep{steps[3], steps[0], steps[4], steps[2], steps[1]}

	seq, err := SequenceVisits(shuffled, destinations, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if seq.Ordered[0].Identifier != "Bravo" || seq.Ordered[0].Rank != 1 {
		t.Errorf("first visit = %s rank %d, want Bravo rank 1", seq.Ordered[0].Identifier, seq.Ordered[0].Rank)
	}
	if seq.Segments[0].Name != "home_base to Bravo" {
		t.Errorf("first segment = %q", seq.Segments[0].Name)
	}
}

func TestSequenceVisitsUnmatchedDestination(t *testing.T) {
	steps, destinations := kigaliSteps()

	// A destination nowhere near any ranked step keeps a zero rank and
	// sorts last; it is never dropped.
	destinations = append(destinations, domain.CanonicalPoint{
		Identifier: "Far Away",
		Lon:        31.5,
		Lat:        -3.5,
	})

	seq, err := SequenceVisits(steps, destinations, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seq.Ordered) != 4 {
		t.Fatalf("expected 4 ordered destinations, got %d", len(seq.Ordered))
	}

	last := seq.Ordered[3]
	if last.Identifier != "Far Away" || last.Rank != 0 {
		t.Errorf("last row = %s rank %d, want Far Away rank 0", last.Identifier, last.Rank)
	}

	// Route segments are unaffected by the join mismatch.
	if len(seq.Segments) != 4 {
		t.Errorf("expected 4 segments, got %d", len(seq.Segments))
	}
}

func TestSequenceVisitsNearestStepWinsOverlappingBuffers(t *testing.T) {
	// Two stops ~11 m apart along a parallel. A destination sitting
	// between them falls inside both 10 m buffers; the nearer stop's
	// rank must win. 0.0001 degrees of longitude is ~11.1 m here.
	a := orb.Point{30.1000, -1.90}
	b := orb.Point{30.1001, -1.90}

	steps := []domain.VisitStep{
		{Kind: domain.StepStart, Location: orb.Point{30.05, -1.94}, CumulativeDistanceM: 0},
		{Kind: domain.StepJob, JobID: 1, Location: a, CumulativeDistanceM: 5000},
		{Kind: domain.StepJob, JobID: 2, Location: b, CumulativeDistanceM: 9000},
		{Kind: domain.StepEnd, Location: orb.Point{30.15, -1.85}, CumulativeDistanceM: 14000},
	}
	destinations := []domain.CanonicalPoint{
		// ~8.9 m from a, ~2.2 m from b: inside both buffers, nearer b.
		{Identifier: "Gatehouse", Lon: 30.10008, Lat: -1.90},
		// Coincides with a; b is just outside its buffer.
		{Identifier: "Depot Annex", Lon: 30.1000, Lat: -1.90},
	}

	seq, err := SequenceVisits(steps, destinations, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seq.Ordered) != 2 {
		t.Fatalf("expected 2 ordered destinations, got %d", len(seq.Ordered))
	}
	if seq.Ordered[0].Identifier != "Depot Annex" || seq.Ordered[0].Rank != 1 {
		t.Errorf("ordered[0] = %s rank %d, want Depot Annex rank 1", seq.Ordered[0].Identifier, seq.Ordered[0].Rank)
	}
	if seq.Ordered[1].Identifier != "Gatehouse" || seq.Ordered[1].Rank != 2 {
		t.Errorf("ordered[1] = %s rank %d, want Gatehouse rank 2", seq.Ordered[1].Identifier, seq.Ordered[1].Rank)
	}
	if seq.Ordered[1].CumulativeDistanceM != 9000 {
		t.Errorf("Gatehouse distance = %v, want the nearer stop's 9000", seq.Ordered[1].CumulativeDistanceM)
	}
}

func TestSequenceVisitsTooFewSteps(t *testing.T) {
	_, destinations := kigaliSteps()

	_, err := SequenceVisits([]domain.VisitStep{{Kind: domain.StepStart}}, destinations, nil)
	if err == nil {
		t.Fatal("expected error for single-step sequence")
	}
}

func TestSequenceVisitsRejectsUnknownJobID(t *testing.T) {
	steps, destinations := kigaliSteps()
	steps[1].JobID = 17

	_, err := SequenceVisits(steps, destinations, nil)
	if err == nil {
		t.Fatal("expected error for out-of-range job id")
	}
}
