package analytics

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/bhavneetv/golden-hour/internal/domain/triage"
)

// scanWindow bounds the summary to the newest records.
const scanWindow = 5000

type Service struct {
	repo   Repository
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Summary aggregates the newest records into rolling 24h and 7d views.
func (s *Service) Summary(ctx context.Context) (*Summary, error) {
	records, err := s.repo.Recent(ctx, scanWindow)
	if err != nil {
		return nil, err
	}
	statusCounts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	nowUTC := s.now().UTC()
	lookback24h := nowUTC.Add(-24 * time.Hour)
	lookback7d := nowUTC.Add(-7 * 24 * time.Hour)

	var records24h, records7d []Record
	for _, rec := range records {
		createdAt := rec.CreatedAt.UTC()
		if !createdAt.Before(lookback24h) {
			records24h = append(records24h, rec)
		}
		if !createdAt.Before(lookback7d) {
			records7d = append(records7d, rec)
		}
	}

	summary := &Summary{
		GeneratedAt:         nowUTC.Format(time.RFC3339Nano),
		TotalRecords:        len(records),
		TotalRecords24h:     len(records24h),
		CriticalCases24h:    countCritical(records24h),
		AverageRiskScore:    averageRisk(records),
		AverageRiskScore24h: averageRisk(records24h),
		TriageCounts:        countTriage(records),
		TriageCounts24h:     countTriage(records24h),
		StatusCounts:        statusCounts,
		HourlyVolume24h:     hourlyVolume(records24h, lookback24h),
		DailyVolume7d:       dailyVolume(records7d, nowUTC),
		VitalsAlertRates24h: alertRates(records24h),
	}
	if len(records24h) > 0 {
		sum := 0.0
		for _, rec := range records24h {
			sum += rec.DeteriorationProb
		}
		avg := round2(sum / float64(len(records24h)))
		summary.AverageDeteriorationProbability24 = &avg
	}

	s.logger.Debug().
		Int("total_records", summary.TotalRecords).
		Int("records_24h", summary.TotalRecords24h).
		Msg("analytics summary built")
	return summary, nil
}

func countTriage(records []Record) TriageCounts {
	var counts TriageCounts
	for _, rec := range records {
		switch rec.TriageCategory {
		case triage.CategoryRed:
			counts.Red++
		case triage.CategoryOrange:
			counts.Orange++
		case triage.CategoryYellow:
			counts.Yellow++
		case triage.CategoryGreen:
			counts.Green++
		}
	}
	return counts
}

func countCritical(records []Record) int {
	critical := 0
	for _, rec := range records {
		if rec.TriageCategory == triage.CategoryRed || rec.TriageCategory == triage.CategoryOrange {
			critical++
		}
	}
	return critical
}

func averageRisk(records []Record) *float64 {
	if len(records) == 0 {
		return nil
	}
	sum := 0
	for _, rec := range records {
		sum += rec.RiskScore
	}
	avg := round1(float64(sum) / float64(len(records)))
	return &avg
}

// hourlyVolume splits the trailing 24 hours into eight 3-hour buckets,
// labeled by bucket start time.
func hourlyVolume(records24h []Record, lookback24h time.Time) []HourlyBucket {
	buckets := make([]HourlyBucket, 0, 8)
	for i := 0; i < 8; i++ {
		start := lookback24h.Add(time.Duration(i) * 3 * time.Hour)
		end := start.Add(3 * time.Hour)

		var bucketRecords []Record
		for _, rec := range records24h {
			createdAt := rec.CreatedAt.UTC()
			if !createdAt.Before(start) && createdAt.Before(end) {
				bucketRecords = append(bucketRecords, rec)
			}
		}
		counts := countTriage(bucketRecords)
		buckets = append(buckets, HourlyBucket{
			Hour:   start.Format("15:04"),
			Total:  len(bucketRecords),
			Red:    counts.Red,
			Orange: counts.Orange,
			Yellow: counts.Yellow,
			Green:  counts.Green,
		})
	}
	return buckets
}

// dailyVolume counts per calendar day over the trailing week, oldest first.
func dailyVolume(records7d []Record, nowUTC time.Time) []DailyBucket {
	buckets := make([]DailyBucket, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		day := nowUTC.AddDate(0, 0, -offset)
		dayKey := day.Format("2006-01-02")

		total := 0
		critical := 0
		for _, rec := range records7d {
			if rec.CreatedAt.UTC().Format("2006-01-02") != dayKey {
				continue
			}
			total++
			if rec.TriageCategory == triage.CategoryRed || rec.TriageCategory == triage.CategoryOrange {
				critical++
			}
		}
		buckets = append(buckets, DailyBucket{Day: dayKey, Total: total, Critical: critical})
	}
	return buckets
}

func alertRates(records24h []Record) AlertRates {
	total := len(records24h)
	if total == 0 {
		return AlertRates{}
	}
	var hypoxia, hypotension, tachycardia, fever int
	for _, rec := range records24h {
		if rec.SpO2 < 90 {
			hypoxia++
		}
		if rec.SystolicBP < 90 {
			hypotension++
		}
		if rec.HeartRate > 120 {
			tachycardia++
		}
		if rec.Temperature > 38.5 {
			fever++
		}
	}
	pct := func(n int) float64 { return round1(float64(n) / float64(total) * 100) }
	return AlertRates{
		HypoxiaPct:     pct(hypoxia),
		HypotensionPct: pct(hypotension),
		TachycardiaPct: pct(tachycardia),
		FeverPct:       pct(fever),
	}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
