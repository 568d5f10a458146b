package services

import (
	"context"
	"errors"
	"testing"

	"route-surface-service/internal/domain"

	"github.com/paulmach/orb"
)

type mockOptimizer struct {
	steps []domain.VisitStep
	err   error
	got   *domain.RoutingRequest
}

func (m *mockOptimizer) Optimize(ctx context.Context, req domain.RoutingRequest) ([]domain.VisitStep, error) {
	m.got = &req
	if m.err != nil {
		return nil, m.err
	}
	return m.steps, nil
}

type mockDirections struct {
	result    *domain.DirectionsResult
	err       error
	gotCoords []orb.Point
}

func (m *mockDirections) Directions(ctx context.Context, coordinates []orb.Point) (*domain.DirectionsResult, error) {
	m.gotCoords = coordinates
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func planTables() PlanRequest {
	return PlanRequest{
		Source: domain.Table{
			Columns: []string{"Name", "Y", "X"},
			Rows:    [][]string{{"Depot", "-1.94", "30.05"}},
		},
		Destinations: domain.Table{
			Columns: []string{"site_name", "Latitude", "Longitude"},
			Rows: [][]string{
				{"Alpha", "-1.90", "30.10"},
				{"Bravo", "-1.95", "30.20"},
			},
		},
		FinalStop: domain.Table{
			Columns: []string{"lat", "lon"},
			Rows:    [][]string{{"-2.05", "30.35"}},
		},
		DestIDField: "site_name",
	}
}

func TestPlanOptimalRoute(t *testing.T) {
	optimizer := &mockOptimizer{
		steps: []domain.VisitStep{
			{Kind: domain.StepStart, Location: orb.Point{30.05, -1.94}, CumulativeDistanceM: 0},
			{Kind: domain.StepJob, JobID: 2, Location: orb.Point{30.20, -1.95}, CumulativeDistanceM: 8000},
			{Kind: domain.StepJob, JobID: 1, Location: orb.Point{30.10, -1.90}, CumulativeDistanceM: 15000},
			{Kind: domain.StepEnd, Location: orb.Point{30.35, -2.05}, CumulativeDistanceM: 21000},
		},
	}

	geometry := orb.LineString{
		{30.05, -1.94}, {30.12, -1.93}, {30.20, -1.95}, {30.10, -1.90}, {30.35, -2.05},
	}
	directions := &mockDirections{
		result: &domain.DirectionsResult{
			Geometry: geometry,
			SurfaceRanges: []domain.SurfaceRange{
				{Start: 0, End: 1, Code: 3},
				{Start: 2, End: 4, Code: 10},
			},
			Summary: []domain.SurfaceSummaryEntry{
				{Surface: domain.SurfaceAsphalt, DistanceM: 12000, Share: 57},
			},
		},
	}

	planner := NewPlanner(optimizer, directions, nil)

	result, err := planner.PlanOptimalRoute(context.Background(), planTables())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The routing request preserved input order and display names.
	if optimizer.got == nil {
		t.Fatal("optimizer was not called")
	}
	if optimizer.got.Vehicle.Start.Identifier != "Depot" {
		t.Errorf("source name = %q, want name column value", optimizer.got.Vehicle.Start.Identifier)
	}
	if optimizer.got.Vehicle.End.Identifier != "Final stop" {
		t.Errorf("final stop name = %q", optimizer.got.Vehicle.End.Identifier)
	}
	if len(optimizer.got.Jobs) != 2 || optimizer.got.Jobs[0].Location.Identifier != "Alpha" {
		t.Errorf("jobs = %+v", optimizer.got.Jobs)
	}

	// Directions received the stops in visit order.
	if len(directions.gotCoords) != 4 {
		t.Fatalf("directions got %d coordinates, want 4", len(directions.gotCoords))
	}
	if directions.gotCoords[1] != (orb.Point{30.20, -1.95}) {
		t.Errorf("first visited stop = %v, want Bravo's location", directions.gotCoords[1])
	}

	// Assembled output.
	if len(result.Destinations) != 2 || result.Destinations[0].Identifier != "Bravo" {
		t.Errorf("ordered destinations = %+v", result.Destinations)
	}
	if len(result.Segments) != 3 {
		t.Errorf("expected 3 route segments, got %d", len(result.Segments))
	}
	if len(result.Path) != len(geometry)-1 {
		t.Errorf("expected %d path segments, got %d", len(geometry)-1, len(result.Path))
	}
	if len(result.SurfaceStats) == 0 {
		t.Error("expected surface statistics")
	}
	if len(result.ServiceSummary) != 1 {
		t.Errorf("expected service summary to be echoed, got %+v", result.ServiceSummary)
	}
	if result.DestIDField != "site_name" {
		t.Errorf("dest id field = %q", result.DestIDField)
	}
}

func TestPlanOptimalRouteEmptyDestinations(t *testing.T) {
	planner := NewPlanner(&mockOptimizer{}, &mockDirections{}, nil)

	req := planTables()
	req.Destinations.Rows = nil

	_, err := planner.PlanOptimalRoute(context.Background(), req)
	if !errors.Is(err, domain.ErrEmptyDestinations) {
		t.Fatalf("expected ErrEmptyDestinations, got %v", err)
	}
}

func TestPlanOptimalRouteStopsBeforeNetworkOnBadInput(t *testing.T) {
	optimizer := &mockOptimizer{}
	planner := NewPlanner(optimizer, &mockDirections{}, nil)

	req := planTables()
	req.Source.Columns = []string{"Name", "northing", "easting"}

	_, err := planner.PlanOptimalRoute(context.Background(), req)

	var missing *domain.MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if optimizer.got != nil {
		t.Error("optimizer must not be called when normalization fails")
	}
}

func TestPlanOptimalRoutePropagatesServiceError(t *testing.T) {
	svcErr := &domain.UnroutableLocationError{Name: "Alpha"}
	planner := NewPlanner(&mockOptimizer{err: svcErr}, &mockDirections{}, nil)

	_, err := planner.PlanOptimalRoute(context.Background(), planTables())

	var unroutable *domain.UnroutableLocationError
	if !errors.As(err, &unroutable) || unroutable.Name != "Alpha" {
		t.Fatalf("expected UnroutableLocationError for Alpha, got %v", err)
	}
}
