package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"route-surface-service/internal/domain"
	"route-surface-service/internal/platform/obs"

	"github.com/paulmach/orb"
)

// Submitted points within this many degrees of a coordinate parsed from
// a service error message (both axes) are treated as the offending
// point. Roughly 11 meters.
const coordinateMatchTolerance = 0.0001

type optimizationRequest struct {
	Vehicles []vehiclePayload    `json:"vehicles"`
	Jobs     []jobPayload        `json:"jobs"`
	Options  optimizationOptions `json:"options"`
}

type vehiclePayload struct {
	ID      int       `json:"id"`
	Profile string    `json:"profile"`
	Start   []float64 `json:"start"`
	End     []float64 `json:"end"`
}

type jobPayload struct {
	ID       int       `json:"id"`
	Location []float64 `json:"location"`
	Priority int       `json:"priority"`
}

type optimizationOptions struct {
	G bool `json:"g"`
}

type optimizationResponse struct {
	Routes []struct {
		Steps []optimizationStep `json:"steps"`
	} `json:"routes"`
}

type optimizationStep struct {
	Type     string    `json:"type"`
	Job      *int      `json:"job"`
	Location []float64 `json:"location"`
	Distance float64   `json:"distance"`
}

// Error bodies come back as JSON in a couple of shapes; both carry the
// message under "error".
type serviceErrorBody struct {
	Error string `json:"error"`
}

var (
	// "Could not find routable point ... coordinate 2: 30.1234 -1.5678"
	routablePointPattern = regexp.MustCompile(`coordinate \d+: (-?\d+\.?\d*)\s+(-?\d+\.?\d*)`)
	// "Unfound route(s) from location [30.1234,-1.5678]"
	unfoundRoutePattern = regexp.MustCompile(`location \[(-?\d+\.?\d*),(-?\d+\.?\d*)\]`)
)

// Optimize submits the vehicle-routing problem and returns the step
// sequence in the order the service produced it.
func (c *Client) Optimize(ctx context.Context, req domain.RoutingRequest) (_ []domain.VisitStep, err error) {
	defer obs.Time(ctx, "ors.Optimize")(&err)

	endpoint := c.baseURL + "/optimization"

	body := optimizationRequest{
		Vehicles: []vehiclePayload{{
			ID:      req.Vehicle.ID,
			Profile: req.Vehicle.Profile,
			Start:   req.Vehicle.Start.LonLat(),
			End:     req.Vehicle.End.LonLat(),
		}},
		Jobs:    make([]jobPayload, 0, len(req.Jobs)),
		Options: optimizationOptions{G: true},
	}
	for _, job := range req.Jobs {
		body.Jobs = append(body.Jobs, jobPayload{
			ID:       job.ID,
			Location: job.Location.LonLat(),
			Priority: job.Priority,
		})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal optimization request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.do(httpReq)
	if err != nil {
		return nil, c.classifyOptimizationError(ctx, err, req)
	}
	defer resp.Body.Close()

	var decoded optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &domain.ServiceError{Service: "optimization", Message: fmt.Sprintf("decode response: %v", err)}
	}

	if len(decoded.Routes) == 0 {
		return nil, &domain.ServiceError{Service: "optimization", Message: "response contains no routes"}
	}

	rawSteps := decoded.Routes[0].Steps
	steps := make([]domain.VisitStep, 0, len(rawSteps))
	for i, s := range rawSteps {
		if len(s.Location) != 2 {
			return nil, &domain.ServiceError{
				Service: "optimization",
				Message: fmt.Sprintf("step %d has %d location coordinates, want 2", i, len(s.Location)),
			}
		}

		step := domain.VisitStep{
			Kind:                domain.StepKind(s.Type),
			Location:            orb.Point{s.Location[0], s.Location[1]},
			CumulativeDistanceM: s.Distance,
		}
		if s.Job != nil {
			step.JobID = *s.Job
		}
		steps = append(steps, step)
	}

	return steps, nil
}

// classifyOptimizationError recovers the information the raw service
// error discards: when the service rejects a specific point, the error
// text carries its coordinates, and matching them against the submitted
// points lets us name the offending location. Unrecognized error shapes
// and unmatched coordinates propagate the original error unchanged.
func (c *Client) classifyOptimizationError(ctx context.Context, err error, req domain.RoutingRequest) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var he *httpStatusError
	if !errors.As(err, &he) {
		return &domain.ServiceError{Service: "optimization", Message: err.Error()}
	}

	message := he.Body
	var decoded serviceErrorBody
	if jsonErr := json.Unmarshal([]byte(he.Body), &decoded); jsonErr == nil && decoded.Error != "" {
		message = decoded.Error
	}

	if lon, lat, ok := parseOffendingCoordinate(message); ok {
		if name, found := matchSubmittedPoint(req, lon, lat); found {
			c.logger.WithField("name", name).Warn("optimization rejected an unroutable point")
			return &domain.UnroutableLocationError{Name: name}
		}
	}

	return &domain.ServiceError{Service: "optimization", Status: he.Code, Message: message}
}

func parseOffendingCoordinate(message string) (lon, lat float64, ok bool) {
	var m []string
	switch {
	case strings.Contains(message, "Could not find routable point"):
		m = routablePointPattern.FindStringSubmatch(message)
	case strings.Contains(message, "Unfound route(s) from location"):
		m = unfoundRoutePattern.FindStringSubmatch(message)
	}
	if len(m) != 3 {
		return 0, 0, false
	}

	lon, lonErr := strconv.ParseFloat(m[1], 64)
	lat, latErr := strconv.ParseFloat(m[2], 64)
	if lonErr != nil || latErr != nil {
		return 0, 0, false
	}
	return lon, lat, true
}

// matchSubmittedPoint searches every point of the request (start, end,
// each job) for one within tolerance of the parsed coordinate on both
// axes, returning its human-readable identifier.
func matchSubmittedPoint(req domain.RoutingRequest, lon, lat float64) (string, bool) {
	points := make([]domain.CanonicalPoint, 0, 2+len(req.Jobs))
	points = append(points, req.Vehicle.Start, req.Vehicle.End)
	for _, job := range req.Jobs {
		points = append(points, job.Location)
	}

	for _, p := range points {
		if math.Abs(p.Lon-lon) < coordinateMatchTolerance && math.Abs(p.Lat-lat) < coordinateMatchTolerance {
			return p.Identifier, true
		}
	}
	return "", false
}
