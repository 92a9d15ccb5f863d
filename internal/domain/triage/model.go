// Package triage implements acute-risk scoring, disposition prediction and
// the emergency queue for incoming patients.
package triage

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Disposition labels, ordered by acuity. The order is load-bearing: predicted
// probabilities are reported in this order before sorting.
const (
	MoveICUAdmission = "ICU_ADMISSION"
	MoveInTreatment  = "IN_TREATMENT"
	MoveReferred     = "REFERRED"
	MoveObservation  = "OBSERVATION"
	MoveDischarged   = "DISCHARGED"
)

var MoveLabels = []string{MoveICUAdmission, MoveInTreatment, MoveReferred, MoveObservation, MoveDischarged}

// Queue statuses a record can be moved through.
const (
	StatusWaiting     = "WAITING"
	StatusInTreatment = "IN_TREATMENT"
	StatusReferred    = "REFERRED"
	StatusDischarged  = "DISCHARGED"
)

// Triage categories.
const (
	CategoryRed    = "RED"
	CategoryOrange = "ORANGE"
	CategoryYellow = "YELLOW"
	CategoryGreen  = "GREEN"
)

// Accepted input ranges for vitals and demographics.
const (
	AgeMin         = 0
	AgeMax         = 120
	HeartRateMin   = 20
	HeartRateMax   = 240
	SystolicBPMin  = 50
	SystolicBPMax  = 260
	SpO2Min        = 50.0
	SpO2Max        = 100.0
	TemperatureMin = 30.0
	TemperatureMax = 45.0

	MaxSymptoms      = 12
	MaxSymptomLength = 80
	MaxPatientIDLen  = 64
)

// Vitals is a single vitals snapshot.
type Vitals struct {
	HeartRate   int     `json:"heart_rate"`
	SystolicBP  int     `json:"systolic_bp"`
	SpO2        float64 `json:"spo2"`
	Temperature float64 `json:"temperature"`
}

// PatientInput is the triage intake payload.
type PatientInput struct {
	PatientID string   `json:"patient_id"`
	Age       int      `json:"age"`
	Gender    string   `json:"gender"`
	Rural     bool     `json:"rural"`
	Vitals    Vitals   `json:"vitals"`
	Symptoms  []string `json:"symptoms"`
}

// Record maps to the triage_records table.
type Record struct {
	ID                       int64     `db:"id" json:"id"`
	PatientID                string    `db:"patient_id" json:"patient_id"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
	Age                      int       `db:"age" json:"age"`
	Gender                   string    `db:"gender" json:"gender"`
	Rural                    bool      `db:"rural" json:"rural"`
	HeartRate                int       `db:"heart_rate" json:"heart_rate"`
	SystolicBP               int       `db:"systolic_bp" json:"systolic_bp"`
	SpO2                     float64   `db:"spo2" json:"spo2"`
	Temperature              float64   `db:"temperature" json:"temperature"`
	Symptoms                 []string  `db:"symptoms_json" json:"symptoms"`
	RiskScore                int       `db:"risk_score" json:"risk_score"`
	DeteriorationProbability float64   `db:"deterioration_probability_60min" json:"deterioration_probability_60min"`
	TriageCategory           string    `db:"triage_category" json:"triage_category"`
	Action                   string    `db:"action" json:"action"`
	Status                   string    `db:"status" json:"status"`
}

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func rangeError(field string, low, high float64) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s must be between %g and %g.", field, low, high)}
}

// Validate checks demographics and vitals against accepted ranges and
// normalizes the symptom list in place.
func (p *PatientInput) Validate() error {
	p.PatientID = strings.TrimSpace(p.PatientID)
	if p.PatientID == "" {
		return &ValidationError{Field: "patient_id", Message: "patient_id cannot be empty."}
	}
	if len(p.PatientID) > MaxPatientIDLen {
		return &ValidationError{Field: "patient_id", Message: fmt.Sprintf("patient_id must be at most %d characters long.", MaxPatientIDLen)}
	}

	checks := []struct {
		field     string
		value     float64
		low, high float64
	}{
		{"Age", float64(p.Age), AgeMin, AgeMax},
		{"Heart rate", float64(p.Vitals.HeartRate), HeartRateMin, HeartRateMax},
		{"Systolic BP", float64(p.Vitals.SystolicBP), SystolicBPMin, SystolicBPMax},
		{"SpO2", p.Vitals.SpO2, SpO2Min, SpO2Max},
		{"Temperature", p.Vitals.Temperature, TemperatureMin, TemperatureMax},
	}
	for _, c := range checks {
		if math.IsNaN(c.value) || math.IsInf(c.value, 0) || c.value < c.low || c.value > c.high {
			return rangeError(c.field, c.low, c.high)
		}
	}

	cleaned, err := NormalizeSymptoms(p.Symptoms)
	if err != nil {
		return err
	}
	p.Symptoms = cleaned
	return nil
}

// NormalizeSymptoms collapses whitespace, drops empties and case-insensitive
// duplicates while keeping first occurrence order.
func NormalizeSymptoms(symptoms []string) ([]string, error) {
	cleaned := make([]string, 0, len(symptoms))
	seen := make(map[string]bool)
	for _, symptom := range symptoms {
		normalized := strings.Join(strings.Fields(symptom), " ")
		if normalized == "" {
			continue
		}
		if len(normalized) > MaxSymptomLength {
			return nil, &ValidationError{
				Field:   "symptoms",
				Message: fmt.Sprintf("Each symptom must be at most %d characters long.", MaxSymptomLength),
			}
		}
		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, normalized)
	}
	if len(cleaned) > MaxSymptoms {
		return nil, &ValidationError{
			Field:   "symptoms",
			Message: fmt.Sprintf("Provide at most %d symptoms.", MaxSymptoms),
		}
	}
	return cleaned, nil
}

// ValidStatus reports whether s is an accepted queue status.
func ValidStatus(s string) bool {
	switch s {
	case StatusWaiting, StatusInTreatment, StatusReferred, StatusDischarged:
		return true
	}
	return false
}
