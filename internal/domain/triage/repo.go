package triage

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record matches the lookup.
var ErrNotFound = errors.New("triage record not found")

type Repository interface {
	Create(ctx context.Context, r *Record) error
	LatestByPatient(ctx context.Context, patientID string) (*Record, error)
	HistoryByPatient(ctx context.Context, patientID string, limit int) ([]*Record, error)
	LatestPerPatient(ctx context.Context, limit int) ([]*Record, error)
	RecentForTraining(ctx context.Context, limit int) ([]*Record, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
	// InTx runs fn inside a single transaction; repository calls made with
	// the context fn receives share it.
	InTx(ctx context.Context, fn func(context.Context) error) error
}
