package analytics

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bhavneetv/golden-hour/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *repoPG) Recent(ctx context.Context, limit int) ([]Record, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT created_at, risk_score, deterioration_probability_60min, triage_category,
			status, heart_rate, systolic_bp, spo2, temperature
		FROM triage_records
		ORDER BY id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.CreatedAt, &rec.RiskScore, &rec.DeteriorationProb,
			&rec.TriageCategory, &rec.Status, &rec.HeartRate, &rec.SystolicBP,
			&rec.SpO2, &rec.Temperature); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *repoPG) StatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT status, COUNT(*) FROM triage_records GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}
