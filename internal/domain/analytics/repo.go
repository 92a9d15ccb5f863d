package analytics

import "context"

// Repository reads aggregate slices of the triage record table.
type Repository interface {
	// Recent returns the newest records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
	// StatusCounts returns record counts grouped by status.
	StatusCounts(ctx context.Context) (map[string]int, error)
}
