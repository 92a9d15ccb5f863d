package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type mockRepo struct {
	records      []Record
	statusCounts map[string]int
	recentErr    error
	statusErr    error
}

func (m *mockRepo) Recent(_ context.Context, limit int) ([]Record, error) {
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	if len(m.records) > limit {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *mockRepo) StatusCounts(context.Context) (map[string]int, error) {
	if m.statusErr != nil {
		return nil, m.statusErr
	}
	return m.statusCounts, nil
}

var testNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	svc := NewService(repo, zerolog.Nop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func rec(age time.Duration, category, status string) Record {
	return Record{
		CreatedAt:         testNow.Add(-age),
		RiskScore:         50,
		DeteriorationProb: 0.5,
		TriageCategory:    category,
		Status:            status,
		HeartRate:         90,
		SystolicBP:        120,
		SpO2:              96,
		Temperature:       37,
	}
}

func TestSummaryWindowsAndCounts(t *testing.T) {
	repo := &mockRepo{
		records: []Record{
			rec(1*time.Hour, "RED", "WAITING"),
			rec(6*time.Hour, "ORANGE", "IN_TREATMENT"),
			rec(30*time.Hour, "GREEN", "DISCHARGED"),    // outside 24h, inside 7d
			rec(8*24*time.Hour, "YELLOW", "DISCHARGED"), // outside both windows
		},
		statusCounts: map[string]int{"WAITING": 1, "IN_TREATMENT": 1, "DISCHARGED": 2},
	}
	svc := newTestService(repo)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalRecords != 4 {
		t.Errorf("expected 4 total, got %d", summary.TotalRecords)
	}
	if summary.TotalRecords24h != 2 {
		t.Errorf("expected 2 in 24h window, got %d", summary.TotalRecords24h)
	}
	if summary.CriticalCases24h != 2 {
		t.Errorf("expected 2 critical in 24h, got %d", summary.CriticalCases24h)
	}
	if summary.TriageCounts.Red != 1 || summary.TriageCounts.Yellow != 1 {
		t.Errorf("unexpected overall triage counts: %+v", summary.TriageCounts)
	}
	if summary.TriageCounts24h.Green != 0 || summary.TriageCounts24h.Orange != 1 {
		t.Errorf("unexpected 24h triage counts: %+v", summary.TriageCounts24h)
	}
	if summary.StatusCounts["DISCHARGED"] != 2 {
		t.Errorf("unexpected status counts: %+v", summary.StatusCounts)
	}
}

func TestSummaryAverages(t *testing.T) {
	r1 := rec(1*time.Hour, "GREEN", "WAITING")
	r1.RiskScore = 40
	r1.DeteriorationProb = 0.4
	r2 := rec(2*time.Hour, "GREEN", "WAITING")
	r2.RiskScore = 45
	r2.DeteriorationProb = 0.45
	repo := &mockRepo{records: []Record{r1, r2}, statusCounts: map[string]int{}}
	svc := newTestService(repo)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.AverageRiskScore == nil || *summary.AverageRiskScore != 42.5 {
		t.Errorf("unexpected average risk: %v", summary.AverageRiskScore)
	}
	if summary.AverageDeteriorationProbability24 == nil || *summary.AverageDeteriorationProbability24 != 0.43 {
		t.Errorf("unexpected average deterioration: %v", summary.AverageDeteriorationProbability24)
	}
}

func TestSummaryEmptyCorpus(t *testing.T) {
	svc := newTestService(&mockRepo{statusCounts: map[string]int{}})

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.AverageRiskScore != nil || summary.AverageRiskScore24h != nil {
		t.Error("averages must be null with no records")
	}
	if summary.AverageDeteriorationProbability24 != nil {
		t.Error("deterioration average must be null with no 24h records")
	}
	if summary.VitalsAlertRates24h.HypoxiaPct != 0 {
		t.Errorf("expected zero alert rates, got %+v", summary.VitalsAlertRates24h)
	}
	if len(summary.HourlyVolume24h) != 8 || len(summary.DailyVolume7d) != 7 {
		t.Errorf("expected fixed bucket counts, got %d hourly and %d daily",
			len(summary.HourlyVolume24h), len(summary.DailyVolume7d))
	}
}

func TestSummaryHourlyBuckets(t *testing.T) {
	// Window starts 2026-08-23T12:00Z; buckets every 3 hours.
	repo := &mockRepo{
		records: []Record{
			rec(23*time.Hour, "RED", "WAITING"),   // 13:00, first bucket
			rec(22*time.Hour, "GREEN", "WAITING"), // 14:00, first bucket
			rec(1*time.Hour, "ORANGE", "WAITING"), // 11:00, last bucket
		},
		statusCounts: map[string]int{},
	}
	svc := newTestService(repo)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buckets := summary.HourlyVolume24h
	if buckets[0].Hour != "12:00" {
		t.Errorf("expected first bucket at 12:00, got %s", buckets[0].Hour)
	}
	if buckets[0].Total != 2 || buckets[0].Red != 1 || buckets[0].Green != 1 {
		t.Errorf("unexpected first bucket: %+v", buckets[0])
	}
	if buckets[7].Hour != "09:00" {
		t.Errorf("expected last bucket at 09:00, got %s", buckets[7].Hour)
	}
	if buckets[7].Total != 1 || buckets[7].Orange != 1 {
		t.Errorf("unexpected last bucket: %+v", buckets[7])
	}
}

func TestSummaryDailyBucketsOldestFirst(t *testing.T) {
	repo := &mockRepo{
		records: []Record{
			rec(1*time.Hour, "RED", "WAITING"),
			rec(3*24*time.Hour, "ORANGE", "WAITING"),
			rec(3*24*time.Hour, "GREEN", "WAITING"),
		},
		statusCounts: map[string]int{},
	}
	svc := newTestService(repo)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	days := summary.DailyVolume7d
	if days[0].Day != "2026-08-18" || days[6].Day != "2026-08-24" {
		t.Errorf("unexpected day range: %s .. %s", days[0].Day, days[6].Day)
	}
	if days[6].Total != 1 || days[6].Critical != 1 {
		t.Errorf("unexpected today bucket: %+v", days[6])
	}
	if days[3].Total != 2 || days[3].Critical != 1 {
		t.Errorf("unexpected -3d bucket: %+v", days[3])
	}
}

func TestSummaryAlertRates(t *testing.T) {
	hypoxic := rec(1*time.Hour, "RED", "WAITING")
	hypoxic.SpO2 = 85
	hypoxic.SystolicBP = 80
	normal := rec(2*time.Hour, "GREEN", "WAITING")
	febrile := rec(3*time.Hour, "YELLOW", "WAITING")
	febrile.Temperature = 39.0
	febrile.HeartRate = 130
	repo := &mockRepo{records: []Record{hypoxic, normal, febrile}, statusCounts: map[string]int{}}
	svc := newTestService(repo)

	summary, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rates := summary.VitalsAlertRates24h
	if rates.HypoxiaPct != 33.3 || rates.HypotensionPct != 33.3 {
		t.Errorf("unexpected hypoxia/hypotension rates: %+v", rates)
	}
	if rates.TachycardiaPct != 33.3 || rates.FeverPct != 33.3 {
		t.Errorf("unexpected tachycardia/fever rates: %+v", rates)
	}
}

func TestSummaryRepoErrorPropagates(t *testing.T) {
	svc := newTestService(&mockRepo{recentErr: errors.New("connection refused")})
	if _, err := svc.Summary(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	svc = newTestService(&mockRepo{statusErr: errors.New("connection refused")})
	if _, err := svc.Summary(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
