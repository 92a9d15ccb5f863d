// Package analytics aggregates triage activity into department-level summary
// metrics: volume, acuity mix, and vitals alert rates over rolling windows.
package analytics

import "time"

// Record is the slim projection of a triage record used for aggregation.
type Record struct {
	CreatedAt         time.Time `db:"created_at"`
	RiskScore         int       `db:"risk_score"`
	DeteriorationProb float64   `db:"deterioration_probability_60min"`
	TriageCategory    string    `db:"triage_category"`
	Status            string    `db:"status"`
	HeartRate         int       `db:"heart_rate"`
	SystolicBP        int       `db:"systolic_bp"`
	SpO2              float64   `db:"spo2"`
	Temperature       float64   `db:"temperature"`
}

// TriageCounts breaks a window down by triage category.
type TriageCounts struct {
	Red    int `json:"RED"`
	Orange int `json:"ORANGE"`
	Yellow int `json:"YELLOW"`
	Green  int `json:"GREEN"`
}

// HourlyBucket is one 3-hour slice of the trailing 24 hours.
type HourlyBucket struct {
	Hour   string `json:"hour"`
	Total  int    `json:"total"`
	Red    int    `json:"red"`
	Orange int    `json:"orange"`
	Yellow int    `json:"yellow"`
	Green  int    `json:"green"`
}

// DailyBucket is one calendar day of the trailing week, oldest first.
type DailyBucket struct {
	Day      string `json:"day"`
	Total    int    `json:"total"`
	Critical int    `json:"critical"`
}

// AlertRates are the share of 24h records breaching each vitals threshold.
type AlertRates struct {
	HypoxiaPct     float64 `json:"hypoxia_pct"`
	HypotensionPct float64 `json:"hypotension_pct"`
	TachycardiaPct float64 `json:"tachycardia_pct"`
	FeverPct       float64 `json:"fever_pct"`
}

// Summary is the full analytics response.
type Summary struct {
	GeneratedAt                       string         `json:"generated_at"`
	TotalRecords                      int            `json:"total_records"`
	TotalRecords24h                   int            `json:"total_records_24h"`
	CriticalCases24h                  int            `json:"critical_cases_24h"`
	AverageRiskScore                  *float64       `json:"average_risk_score"`
	AverageRiskScore24h               *float64       `json:"average_risk_score_24h"`
	AverageDeteriorationProbability24 *float64       `json:"average_deterioration_probability_24h"`
	TriageCounts                      TriageCounts   `json:"triage_counts"`
	TriageCounts24h                   TriageCounts   `json:"triage_counts_24h"`
	StatusCounts                      map[string]int `json:"status_counts"`
	HourlyVolume24h                   []HourlyBucket `json:"hourly_volume_24h"`
	DailyVolume7d                     []DailyBucket  `json:"daily_volume_7d"`
	VitalsAlertRates24h               AlertRates     `json:"vitals_alert_rates_24h"`
}
