package triage

import "math"

// CalculateRisk computes the deterministic acute-risk score from threshold
// breaches and the matching 60-minute deterioration probability.
func CalculateRisk(v Vitals, age int) (score int, probability float64) {
	if v.SpO2 < 90 {
		score += 30
	}
	if v.SystolicBP < 90 {
		score += 25
	}
	if v.HeartRate > 120 {
		score += 20
	}
	if v.Temperature > 38.5 {
		score += 15
	}
	if age > 65 {
		score += 10
	}
	if score > 100 {
		score = 100
	}
	probability = math.Round(float64(score)) / 100
	return score, probability
}

// Category maps a risk score to a triage color band.
func Category(score int) string {
	switch {
	case score >= 80:
		return CategoryRed
	case score >= 60:
		return CategoryOrange
	case score >= 40:
		return CategoryYellow
	default:
		return CategoryGreen
	}
}

// ActionFor returns the immediate action for a triage category.
func ActionFor(category string) string {
	if category == CategoryRed {
		return "IMMEDIATE_ATTENTION"
	}
	return "MONITOR"
}

// RiskFactor is one contribution to a risk explanation.
type RiskFactor struct {
	Factor string `json:"factor"`
	Impact string `json:"impact"`
}

// ExtractRiskFactors lists up to three threshold breaches driving the risk
// score, most impactful first.
func ExtractRiskFactors(v Vitals, age int) []RiskFactor {
	var factors []RiskFactor
	if v.SpO2 < 90 {
		factors = append(factors, RiskFactor{Factor: "Low SpO2", Impact: "HIGH"})
	}
	if v.SystolicBP < 90 {
		factors = append(factors, RiskFactor{Factor: "Hypotension", Impact: "HIGH"})
	}
	if v.HeartRate > 120 {
		factors = append(factors, RiskFactor{Factor: "Tachycardia", Impact: "MEDIUM"})
	}
	if v.Temperature > 38.5 {
		factors = append(factors, RiskFactor{Factor: "High Temperature", Impact: "MEDIUM"})
	}
	if age > 65 {
		factors = append(factors, RiskFactor{Factor: "Older Age", Impact: "LOW"})
	}
	if len(factors) == 0 {
		factors = append(factors, RiskFactor{Factor: "Vitals within normal thresholds", Impact: "LOW"})
	}
	if len(factors) > 3 {
		factors = factors[:3]
	}
	return factors
}
