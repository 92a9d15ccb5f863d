package triage

import "strings"

// symptomKeywords maps binary symptom features to their trigger phrases.
// Matching is a case-insensitive substring check over the joined symptom text.
var symptomKeywords = map[string][]string{
	"symptom_respiratory": {"shortness of breath", "breathlessness", "dyspnea", "wheezing", "low oxygen"},
	"symptom_chest_pain":  {"chest pain", "chest pressure", "tightness", "angina"},
	"symptom_neuro":       {"confusion", "seizure", "fainting", "syncope", "stroke", "slurred speech"},
	"symptom_infection":   {"fever", "chills", "cough", "sore throat", "infection"},
	"symptom_trauma":      {"injury", "fracture", "bleeding", "trauma", "accident"},
	"symptom_dehydration": {"vomiting", "diarrhea", "dehydration", "dry mouth"},
}

// ExtractSymptomFlags converts free-text symptoms into binary features.
func ExtractSymptomFlags(symptoms []string) map[string]bool {
	text := strings.ToLower(strings.Join(symptoms, " "))
	flags := make(map[string]bool, len(symptomKeywords))
	for feature, keywords := range symptomKeywords {
		flags[feature] = false
		for _, keyword := range keywords {
			if strings.Contains(text, keyword) {
				flags[feature] = true
				break
			}
		}
	}
	return flags
}

// FeatureInput carries everything the feature extractor needs for one case.
type FeatureInput struct {
	Age         int
	Rural       bool
	HeartRate   int
	SystolicBP  int
	SpO2        float64
	Temperature float64
	RiskScore   int
	Triage      string
	Symptoms    []string
}

// BuildFeatures derives the binary feature vector used by the disposition
// predictor.
func BuildFeatures(in FeatureInput) map[string]bool {
	features := map[string]bool{
		"risk_ge_80":    in.RiskScore >= 80,
		"risk_60_79":    in.RiskScore >= 60 && in.RiskScore < 80,
		"risk_40_59":    in.RiskScore >= 40 && in.RiskScore < 60,
		"spo2_low":      in.SpO2 < 90,
		"bp_low":        in.SystolicBP < 90,
		"hr_high":       in.HeartRate > 120,
		"temp_high":     in.Temperature > 38.5,
		"elderly":       in.Age >= 65,
		"rural":         in.Rural,
		"triage_red":    in.Triage == CategoryRed,
		"triage_orange": in.Triage == CategoryOrange,
	}
	for feature, value := range ExtractSymptomFlags(in.Symptoms) {
		features[feature] = value
	}
	return features
}

// FeatureInput builds the predictor input for a stored record.
func (r *Record) FeatureInput() FeatureInput {
	return FeatureInput{
		Age:         r.Age,
		Rural:       r.Rural,
		HeartRate:   r.HeartRate,
		SystolicBP:  r.SystolicBP,
		SpO2:        r.SpO2,
		Temperature: r.Temperature,
		RiskScore:   r.RiskScore,
		Triage:      r.TriageCategory,
		Symptoms:    r.Symptoms,
	}
}
