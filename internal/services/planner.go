package services

import (
	"context"
	"fmt"

	"route-surface-service/internal/domain"
	"route-surface-service/internal/platform/obs"
	"route-surface-service/internal/ports"

	"github.com/sirupsen/logrus"
)

// Display names used when an input table carries no usable identifier.
const (
	defaultSourceName      = "Starting point"
	defaultFinalStopName   = "Final stop"
	defaultDestinationName = "Unnamed Destination"
)

// PlanRequest carries the caller-supplied input tables and the chosen
// destination identifier column.
type PlanRequest struct {
	Source       domain.Table
	Destinations domain.Table
	FinalStop    domain.Table
	DestIDField  string
}

// Planner runs the whole route-computation pipeline. It holds no mutable
// state beyond its injected collaborators, so concurrent invocations for
// different requests are safe; every invocation re-queries both external
// services.
type Planner struct {
	optimizer  ports.Optimizer
	directions ports.DirectionsProvider
	logger     *logrus.Logger
}

func NewPlanner(optimizer ports.Optimizer, directions ports.DirectionsProvider, logger *logrus.Logger) *Planner {
	if logger == nil {
		logger = logrus.New()
	}
	return &Planner{
		optimizer:  optimizer,
		directions: directions,
		logger:     logger,
	}
}

// PlanOptimalRoute is the pipeline's single entry operation.
//
// Stages run synchronously: normalize inputs, build the routing request,
// ask the optimization service for a step sequence, reconstruct the
// visit order, re-request detailed geometry with surface annotations for
// the ordered stops, then split and aggregate by surface. Any stage's
// failure aborts the whole computation; there is no partial result and
// no internal retry.
func (p *Planner) PlanOptimalRoute(ctx context.Context, req PlanRequest) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "planner.PlanOptimalRoute")(&err)

	sourcePoints, err := NormalizePoints("source", req.Source, "name", defaultSourceName)
	if err != nil {
		return nil, err
	}
	if len(sourcePoints) == 0 {
		return nil, fmt.Errorf("plan route: source table has no rows")
	}
	source := sourcePoints[0]

	finalPoints, err := NormalizePoints("final_stop", req.FinalStop, "name", defaultFinalStopName)
	if err != nil {
		return nil, err
	}
	if len(finalPoints) == 0 {
		return nil, fmt.Errorf("plan route: final_stop table has no rows")
	}
	finalStop := finalPoints[0]

	destinations, err := NormalizePoints("destinations", req.Destinations, req.DestIDField, defaultDestinationName)
	if err != nil {
		return nil, err
	}

	routingReq, err := BuildRoutingRequest(source, finalStop, destinations)
	if err != nil {
		return nil, err
	}

	steps, err := p.optimizer.Optimize(ctx, routingReq)
	if err != nil {
		return nil, err
	}

	sequence, err := SequenceVisits(steps, destinations, p.logger)
	if err != nil {
		return nil, err
	}

	directions, err := p.directions.Directions(ctx, sequence.OrderedCoords)
	if err != nil {
		return nil, err
	}

	path, err := SegmentBySurface(directions.Geometry, directions.SurfaceRanges)
	if err != nil {
		return nil, err
	}

	return &domain.RouteResult{
		Path:           path,
		SurfaceStats:   SurfaceStatistics(path),
		ServiceSummary: directions.Summary,
		Source:         source,
		FinalStop:      finalStop,
		Destinations:   sequence.Ordered,
		Segments:       sequence.Segments,
		DestIDField:    req.DestIDField,
	}, nil
}
