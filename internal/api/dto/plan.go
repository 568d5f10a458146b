package dto

import (
	"sort"
	"strconv"
	"time"

	"route-surface-service/internal/domain"
	"route-surface-service/internal/ports"

	"github.com/paulmach/orb/geojson"
)

// PlanRouteRequest carries the three input tables as lists of row
// objects, the way a spreadsheet upload or pick-list serializes them.
type PlanRouteRequest struct {
	Source       []map[string]any `json:"source"`
	Destinations []map[string]any `json:"destinations"`
	FinalStop    []map[string]any `json:"final_stop"`
	DestIDField  string           `json:"dest_id_field"`
}

// TableFromRows converts row objects into the pipeline's table shape.
// Columns are the sorted union of row keys; cell values stringify the
// way they arrived (numbers keep full precision).
func TableFromRows(rows []map[string]any) domain.Table {
	columnSet := make(map[string]struct{})
	for _, row := range rows {
		for k := range row {
			columnSet[k] = struct{}{}
		}
	}

	columns := make([]string, 0, len(columnSet))
	for k := range columnSet {
		columns = append(columns, k)
	}
	sort.Strings(columns)

	table := domain.Table{Columns: columns, Rows: make([][]string, 0, len(rows))}
	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, col := range columns {
			cells[i] = stringifyCell(row[col])
		}
		table.Rows = append(table.Rows, cells)
	}

	return table
}

func stringifyCell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}

type PointResponse struct {
	Name string  `json:"name"`
	Lon  float64 `json:"lon"`
	Lat  float64 `json:"lat"`
}

type OrderedDestinationResponse struct {
	Name       string  `json:"name"`
	Identifier string  `json:"identifier"`
	Rank       int     `json:"rank"`
	Matched    bool    `json:"matched"`
	DistanceM  float64 `json:"distance_m"`
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
}

type RouteSegmentResponse struct {
	Name      string  `json:"segment_name"`
	OriginLon float64 `json:"origin_lon"`
	OriginLat float64 `json:"origin_lat"`
	EndLon    float64 `json:"end_lon"`
	EndLat    float64 `json:"end_lat"`
	LengthKm  float64 `json:"length_km"`
}

type SurfaceStatResponse struct {
	Surface       string  `json:"surface"`
	TotalLengthKm float64 `json:"total_length_km"`
	Percentage    float64 `json:"percentage"`
}

type SurfaceSummaryResponse struct {
	Surface   string  `json:"surface"`
	DistanceM float64 `json:"distance_m"`
	Share     float64 `json:"share"`
}

type PlanRouteResponse struct {
	PlanID         string                       `json:"plan_id,omitempty"`
	DestIDField    string                       `json:"dest_id_field"`
	Source         PointResponse                `json:"source"`
	FinalStop      PointResponse                `json:"final_stop"`
	Destinations   []OrderedDestinationResponse `json:"destinations"`
	Segments       []RouteSegmentResponse       `json:"route_segments"`
	SurfaceStats   []SurfaceStatResponse        `json:"surface_statistics"`
	ServiceSummary []SurfaceSummaryResponse     `json:"service_surface_summary,omitempty"`
	Path           *geojson.FeatureCollection   `json:"path"`
}

// FromRouteResult maps the pipeline output onto the response shape.
func FromRouteResult(result *domain.RouteResult, planID string) PlanRouteResponse {
	res := PlanRouteResponse{
		PlanID:      planID,
		DestIDField: result.DestIDField,
		Source: PointResponse{
			Name: result.Source.Identifier,
			Lon:  result.Source.Lon,
			Lat:  result.Source.Lat,
		},
		FinalStop: PointResponse{
			Name: result.FinalStop.Identifier,
			Lon:  result.FinalStop.Lon,
			Lat:  result.FinalStop.Lat,
		},
		Destinations: make([]OrderedDestinationResponse, 0, len(result.Destinations)),
		Segments:     make([]RouteSegmentResponse, 0, len(result.Segments)),
		SurfaceStats: make([]SurfaceStatResponse, 0, len(result.SurfaceStats)),
		Path:         PathFeatureCollection(result.Path),
	}

	for _, d := range result.Destinations {
		res.Destinations = append(res.Destinations, OrderedDestinationResponse{
			Name:       d.Name,
			Identifier: d.Identifier,
			Rank:       d.Rank,
			Matched:    d.Rank > 0,
			DistanceM:  d.CumulativeDistanceM,
			Lon:        d.Geometry[0],
			Lat:        d.Geometry[1],
		})
	}

	for _, s := range result.Segments {
		res.Segments = append(res.Segments, RouteSegmentResponse{
			Name:      s.Name,
			OriginLon: s.Origin[0],
			OriginLat: s.Origin[1],
			EndLon:    s.End[0],
			EndLat:    s.End[1],
			LengthKm:  s.LengthKm,
		})
	}

	for _, s := range result.SurfaceStats {
		res.SurfaceStats = append(res.SurfaceStats, SurfaceStatResponse{
			Surface:       string(s.Surface),
			TotalLengthKm: s.TotalLengthKm,
			Percentage:    s.Percentage,
		})
	}

	for _, s := range result.ServiceSummary {
		res.ServiceSummary = append(res.ServiceSummary, SurfaceSummaryResponse{
			Surface:   string(s.Surface),
			DistanceM: s.DistanceM,
			Share:     s.Share,
		})
	}

	return res
}

// PathFeatureCollection renders the annotated path as GeoJSON, one
// feature per elementary segment, preserving route order.
func PathFeatureCollection(path []domain.PathSegment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i, seg := range path {
		feature := geojson.NewFeature(seg.Geometry)
		feature.Properties["seq"] = i + 1
		feature.Properties["surface"] = string(seg.Surface)
		feature.Properties["length_m"] = seg.LengthM
		fc.Append(feature)
	}
	return fc
}

type StoredPlanResponse struct {
	ID               string                `json:"id"`
	DestIDField      string                `json:"dest_id_field"`
	DestinationCount int                   `json:"destination_count"`
	TotalLengthKm    float64               `json:"total_length_km"`
	SurfaceStats     []SurfaceStatResponse `json:"surface_statistics"`
	CreatedAt        time.Time             `json:"created_at"`
}

type ListStoredPlansResponse struct {
	Plans []StoredPlanResponse `json:"plans"`
}

// FromStoredPlans maps persisted plan summaries onto the response shape.
func FromStoredPlans(plans []ports.StoredPlan) ListStoredPlansResponse {
	res := ListStoredPlansResponse{Plans: make([]StoredPlanResponse, 0, len(plans))}
	for _, p := range plans {
		stats := make([]SurfaceStatResponse, 0, len(p.SurfaceStats))
		for _, s := range p.SurfaceStats {
			stats = append(stats, SurfaceStatResponse{
				Surface:       string(s.Surface),
				TotalLengthKm: s.TotalLengthKm,
				Percentage:    s.Percentage,
			})
		}
		res.Plans = append(res.Plans, StoredPlanResponse{
			ID:               p.ID,
			DestIDField:      p.DestIDField,
			DestinationCount: p.DestinationCount,
			TotalLengthKm:    p.TotalLengthKm,
			SurfaceStats:     stats,
			CreatedAt:        p.CreatedAt,
		})
	}
	return res
}
