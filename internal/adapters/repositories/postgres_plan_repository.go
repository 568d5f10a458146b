package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"route-surface-service/internal/domain"
	"route-surface-service/internal/platform/obs"
	"route-surface-service/internal/ports"

	"github.com/google/uuid"
)

// PostgresPlanRepository persists computed route plans: one summary row
// per plan plus its route segments. The plan's surface statistics are
// stored as a JSON document since callers only ever read them back
// whole.
type PostgresPlanRepository struct {
	DB *sql.DB
}

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{DB: db}
}

// Initialize the plan tables.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createPlansQuery := `
	CREATE TABLE IF NOT EXISTS route_plans (
		id UUID PRIMARY KEY,
		dest_id_field TEXT NOT NULL,
		destination_count INTEGER NOT NULL,
		total_length_km DOUBLE PRECISION NOT NULL,
		surface_stats JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createSegmentsQuery := `
	CREATE TABLE IF NOT EXISTS route_plan_segments (
		plan_id UUID NOT NULL REFERENCES route_plans(id) ON DELETE CASCADE,
		seq INTEGER NOT NULL,
		segment_name TEXT NOT NULL,
		origin_lon DOUBLE PRECISION NOT NULL,
		origin_lat DOUBLE PRECISION NOT NULL,
		end_lon DOUBLE PRECISION NOT NULL,
		end_lat DOUBLE PRECISION NOT NULL,
		length_km DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (plan_id, seq)
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_route_plans_created_at
	ON route_plans(created_at DESC);
	`

	statements := []string{
		createPlansQuery,
		createSegmentsQuery,
		createIndexQuery,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}

	return nil
}

// SavePlan stores the plan summary and its segments in one transaction.
func (r *PostgresPlanRepository) SavePlan(ctx context.Context, result *domain.RouteResult) (_ string, err error) {
	defer obs.Time(ctx, "plans.SavePlan")(&err)

	if r.DB == nil {
		return "", errors.New("save plan: DB is nil")
	}
	if result == nil {
		return "", errors.New("save plan: result is nil")
	}

	stats, err := json.Marshal(result.SurfaceStats)
	if err != nil {
		return "", fmt.Errorf("save plan: marshal surface stats: %w", err)
	}

	id := uuid.NewString()

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insertPlan := `
	INSERT INTO route_plans (id, dest_id_field, destination_count, total_length_km, surface_stats)
	VALUES ($1, $2, $3, $4, $5);
	`
	if _, err := tx.ExecContext(ctx, insertPlan,
		id, result.DestIDField, len(result.Destinations), result.TotalLengthKm(), stats,
	); err != nil {
		return "", fmt.Errorf("save plan: insert route_plans: %w", err)
	}

	insertSegment := `
	INSERT INTO route_plan_segments (plan_id, seq, segment_name, origin_lon, origin_lat, end_lon, end_lat, length_km)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	stmt, err := tx.PrepareContext(ctx, insertSegment)
	if err != nil {
		return "", fmt.Errorf("save plan: prepare segment insert: %w", err)
	}
	defer stmt.Close()

	for i, seg := range result.Segments {
		if _, err := stmt.ExecContext(ctx,
			id, i+1, seg.Name,
			seg.Origin[0], seg.Origin[1],
			seg.End[0], seg.End[1],
			seg.LengthKm,
		); err != nil {
			return "", fmt.Errorf("save plan: insert segment %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save plan: commit: %w", err)
	}

	return id, nil
}

// ListPlans returns recently stored plan summaries, newest first.
func (r *PostgresPlanRepository) ListPlans(ctx context.Context, limit int) (_ []ports.StoredPlan, err error) {
	defer obs.Time(ctx, "plans.ListPlans")(&err)

	if r.DB == nil {
		return nil, errors.New("list plans: DB is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	q := `
	SELECT id, dest_id_field, destination_count, total_length_km, surface_stats, created_at
	FROM route_plans
	ORDER BY created_at DESC
	LIMIT $1;
	`

	rows, err := r.DB.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: query route_plans: %w", err)
	}
	defer rows.Close()

	out := make([]ports.StoredPlan, 0, limit)
	for rows.Next() {
		var plan ports.StoredPlan
		var stats []byte

		if err := rows.Scan(
			&plan.ID, &plan.DestIDField, &plan.DestinationCount,
			&plan.TotalLengthKm, &stats, &plan.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("list plans: scan row: %w", err)
		}

		if err := json.Unmarshal(stats, &plan.SurfaceStats); err != nil {
			return nil, fmt.Errorf("list plans: unmarshal surface stats for %s: %w", plan.ID, err)
		}

		out = append(out, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: row iteration: %w", err)
	}

	return out, nil
}
