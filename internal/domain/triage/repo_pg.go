package triage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

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

func (r *repoPG) InTx(ctx context.Context, fn func(context.Context) error) error {
	return db.InTx(ctx, r.pool, fn)
}

const recordCols = `id, patient_id, created_at, age, gender, rural, heart_rate, systolic_bp,
	spo2, temperature, symptoms_json, risk_score, deterioration_probability_60min,
	triage_category, action, status`

func scanRecord(row pgx.Row) (*Record, error) {
	var rec Record
	var symptomsJSON []byte
	err := row.Scan(&rec.ID, &rec.PatientID, &rec.CreatedAt, &rec.Age, &rec.Gender, &rec.Rural,
		&rec.HeartRate, &rec.SystolicBP, &rec.SpO2, &rec.Temperature, &symptomsJSON,
		&rec.RiskScore, &rec.DeteriorationProbability, &rec.TriageCategory, &rec.Action, &rec.Status)
	if err != nil {
		return nil, err
	}
	if len(symptomsJSON) > 0 {
		if err := json.Unmarshal(symptomsJSON, &rec.Symptoms); err != nil {
			return nil, fmt.Errorf("decode symptoms: %w", err)
		}
	}
	if rec.Symptoms == nil {
		rec.Symptoms = []string{}
	}
	return &rec, nil
}

func (r *repoPG) Create(ctx context.Context, rec *Record) error {
	symptomsJSON, err := json.Marshal(rec.Symptoms)
	if err != nil {
		return fmt.Errorf("encode symptoms: %w", err)
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO triage_records (patient_id, created_at, age, gender, rural, heart_rate,
			systolic_bp, spo2, temperature, symptoms_json, risk_score,
			deterioration_probability_60min, triage_category, action, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
		RETURNING id`,
		rec.PatientID, rec.CreatedAt, rec.Age, rec.Gender, rec.Rural, rec.HeartRate,
		rec.SystolicBP, rec.SpO2, rec.Temperature, symptomsJSON, rec.RiskScore,
		rec.DeteriorationProbability, rec.TriageCategory, rec.Action, rec.Status,
	).Scan(&rec.ID)
}

func (r *repoPG) LatestByPatient(ctx context.Context, patientID string) (*Record, error) {
	rec, err := scanRecord(r.conn(ctx).QueryRow(ctx,
		`SELECT `+recordCols+` FROM triage_records WHERE patient_id = $1 ORDER BY id DESC LIMIT 1`,
		patientID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return rec, err
}

func (r *repoPG) HistoryByPatient(ctx context.Context, patientID string, limit int) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM triage_records WHERE patient_id = $1 ORDER BY id DESC LIMIT $2`,
		patientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *repoPG) LatestPerPatient(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+recordCols+` FROM triage_records r
		WHERE r.id IN (
			SELECT MAX(id) FROM triage_records GROUP BY patient_id
		)
		ORDER BY r.risk_score DESC, r.id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *repoPG) RecentForTraining(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+recordCols+` FROM triage_records ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRecords(rows)
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE triage_records SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func collectRecords(rows pgx.Rows) ([]*Record, error) {
	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
