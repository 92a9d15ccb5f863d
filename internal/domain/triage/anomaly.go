package triage

import "math"

// AnomalyInsights summarizes how far the latest vitals sit outside safe bands.
type AnomalyInsights struct {
	AnomalyScore int      `json:"anomaly_score"`
	AnomalyLevel string   `json:"anomaly_level"`
	AIWatchouts  []string `json:"ai_watchouts"`
}

// Anomaly level bands.
const (
	AnomalyCritical = "CRITICAL"
	AnomalyHigh     = "HIGH"
	AnomalyModerate = "MODERATE"
	AnomalyLow      = "LOW"
)

// ComputeAnomalyInsights scores vitals deviations with per-vital caps, adds
// an age bonus, and returns the top watchout messages.
func ComputeAnomalyInsights(v Vitals, age int) AnomalyInsights {
	score := 0.0
	var watchouts []string

	if v.HeartRate < 50 {
		score += math.Min(float64(50-v.HeartRate)*0.8, 22)
		watchouts = append(watchouts, "Bradycardia pattern detected; increase monitoring frequency.")
	} else if v.HeartRate > 120 {
		score += math.Min(float64(v.HeartRate-120)*0.5, 25)
		watchouts = append(watchouts, "Marked tachycardia trend may indicate hemodynamic stress.")
	}

	if v.SystolicBP < 90 {
		score += math.Min(float64(90-v.SystolicBP)*0.7, 26)
		watchouts = append(watchouts, "Hypotension risk flagged; prepare rapid fluid/vasopressor pathway.")
	} else if v.SystolicBP > 180 {
		score += math.Min(float64(v.SystolicBP-180)*0.35, 15)
		watchouts = append(watchouts, "Severe hypertension pattern detected; reassess organ-risk signs.")
	}

	if v.SpO2 < 92 {
		score += math.Min((92-v.SpO2)*3.1, 35)
		watchouts = append(watchouts, "Oxygenation is below safe range and may deteriorate quickly.")
	}

	if v.Temperature > 38.5 {
		score += math.Min((v.Temperature-38.5)*9.0, 20)
		watchouts = append(watchouts, "Fever trend suggests higher infectious deterioration risk.")
	} else if v.Temperature < 35.0 {
		score += math.Min((35.0-v.Temperature)*10.0, 20)
		watchouts = append(watchouts, "Hypothermia trend detected; evaluate for shock/sepsis progression.")
	}

	if age >= 75 {
		score += 8
	} else if age >= 65 {
		score += 4
	}

	anomalyScore := int(math.Min(math.Round(score), 100))
	var level string
	switch {
	case anomalyScore >= 75:
		level = AnomalyCritical
	case anomalyScore >= 50:
		level = AnomalyHigh
	case anomalyScore >= 25:
		level = AnomalyModerate
	default:
		level = AnomalyLow
	}

	if len(watchouts) == 0 {
		watchouts = append(watchouts, "No severe anomaly patterns detected in the latest vitals.")
	}
	if len(watchouts) > 3 {
		watchouts = watchouts[:3]
	}

	return AnomalyInsights{
		AnomalyScore: anomalyScore,
		AnomalyLevel: level,
		AIWatchouts:  watchouts,
	}
}
