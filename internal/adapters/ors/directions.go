package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"route-surface-service/internal/domain"
	"route-surface-service/internal/platform/obs"

	"github.com/paulmach/orb"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
	ExtraInfo   []string    `json:"extra_info"`
}

type directionsResponse struct {
	Features []struct {
		Geometry struct {
			Type        string         `json:"type"`
			Coordinates orb.LineString `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Extras struct {
				Surface struct {
					Values  [][]int `json:"values"`
					Summary []struct {
						Value    float64 `json:"value"`
						Distance float64 `json:"distance"`
						Amount   float64 `json:"amount"`
					} `json:"summary"`
				} `json:"surface"`
			} `json:"extras"`
		} `json:"properties"`
	} `json:"features"`
}

// Directions requests turn-by-turn geometry plus per-range surface codes
// for the ordered stop coordinates. Coordinate order is preserved: the
// returned surface ranges index into the geometry the service builds for
// exactly this stop order. Failures propagate unchanged; ambiguity about
// offending points only arises at the optimization stage.
func (c *Client) Directions(ctx context.Context, coordinates []orb.Point) (_ *domain.DirectionsResult, err error) {
	defer obs.Time(ctx, "ors.Directions")(&err)

	if len(coordinates) < 2 {
		return nil, fmt.Errorf("directions: need at least 2 coordinates, got %d", len(coordinates))
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, c.directionsProfile)

	body := directionsRequest{
		Coordinates: make([][]float64, 0, len(coordinates)),
		ExtraInfo:   []string{"surface"},
	}
	for _, pt := range coordinates {
		body.Coordinates = append(body.Coordinates, []float64{pt[0], pt[1]})
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal directions request: %w", err)
	}

	httpReq, err := c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		var he *httpStatusError
		if errors.As(err, &he) {
			return nil, &domain.ServiceError{Service: "directions", Status: he.Code, Message: he.Body}
		}
		return nil, &domain.ServiceError{Service: "directions", Message: err.Error()}
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &domain.ServiceError{Service: "directions", Message: fmt.Sprintf("decode response: %v", err)}
	}

	if len(decoded.Features) == 0 {
		return nil, &domain.ServiceError{Service: "directions", Message: "response contains no features"}
	}

	feature := decoded.Features[0]
	if len(feature.Geometry.Coordinates) < 2 {
		return nil, &domain.ServiceError{
			Service: "directions",
			Message: fmt.Sprintf("route geometry has %d coordinates, want at least 2", len(feature.Geometry.Coordinates)),
		}
	}

	ranges := make([]domain.SurfaceRange, 0, len(feature.Properties.Extras.Surface.Values))
	for i, v := range feature.Properties.Extras.Surface.Values {
		if len(v) != 3 {
			return nil, &domain.ServiceError{
				Service: "directions",
				Message: fmt.Sprintf("surface range %d has %d values, want [start end code]", i, len(v)),
			}
		}
		ranges = append(ranges, domain.SurfaceRange{Start: v[0], End: v[1], Code: v[2]})
	}

	summary := make([]domain.SurfaceSummaryEntry, 0, len(feature.Properties.Extras.Surface.Summary))
	for _, s := range feature.Properties.Extras.Surface.Summary {
		summary = append(summary, domain.SurfaceSummaryEntry{
			Surface:   domain.SurfaceFromCode(int(s.Value)),
			DistanceM: s.Distance,
			Share:     s.Amount,
		})
	}

	return &domain.DirectionsResult{
		Geometry:      feature.Geometry.Coordinates,
		SurfaceRanges: ranges,
		Summary:       summary,
	}, nil
}
