package services

import (
	"fmt"
	"strconv"
	"strings"

	"route-surface-service/internal/domain"
)

// Recognized aliases for the canonical coordinate columns.
var columnAliases = map[string]string{
	"lat":       "lat",
	"latitude":  "lat",
	"y":         "lat",
	"lon":       "lon",
	"longitude": "lon",
	"x":         "lon",
}

// NormalizePoints harmonizes an input table with inconsistent column
// naming into canonical points, one per row, preserving row order.
//
// Column names are lower-cased and whitespace-trimmed before alias
// resolution. The identifier is taken from idField when that column
// exists (matched after the same normalization); rows without one fall
// back to defaultName. Fails with domain.MissingColumnError when no
// latitude or longitude column resolves.
func NormalizePoints(tableName string, table domain.Table, idField string, defaultName string) ([]domain.CanonicalPoint, error) {
	latIdx, lonIdx, idIdx := -1, -1, -1

	normIDField := strings.ToLower(strings.TrimSpace(idField))

	for i, col := range table.Columns {
		name := strings.ToLower(strings.TrimSpace(col))

		if canonical, ok := columnAliases[name]; ok {
			// First alias wins when a table carries both, e.g. lat and y.
			if canonical == "lat" && latIdx < 0 {
				latIdx = i
			}
			if canonical == "lon" && lonIdx < 0 {
				lonIdx = i
			}
			continue
		}

		if normIDField != "" && name == normIDField && idIdx < 0 {
			idIdx = i
		}
	}

	if latIdx < 0 {
		return nil, &domain.MissingColumnError{Table: tableName, Column: "lat"}
	}
	if lonIdx < 0 {
		return nil, &domain.MissingColumnError{Table: tableName, Column: "lon"}
	}

	points := make([]domain.CanonicalPoint, 0, len(table.Rows))
	for r, row := range table.Rows {
		lat, err := parseCoordinate(row, latIdx)
		if err != nil {
			return nil, fmt.Errorf("normalize %s row %d: latitude: %w", tableName, r+1, err)
		}

		lon, err := parseCoordinate(row, lonIdx)
		if err != nil {
			return nil, fmt.Errorf("normalize %s row %d: longitude: %w", tableName, r+1, err)
		}

		identifier := defaultName
		if idIdx >= 0 && idIdx < len(row) {
			if v := strings.TrimSpace(row[idIdx]); v != "" {
				identifier = v
			}
		}

		points = append(points, domain.CanonicalPoint{
			Identifier: identifier,
			Lon:        lon,
			Lat:        lat,
		})
	}

	return points, nil
}

func parseCoordinate(row []string, idx int) (float64, error) {
	if idx >= len(row) {
		return 0, fmt.Errorf("row has only %d cells", len(row))
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", row[idx], err)
	}
	return v, nil
}
