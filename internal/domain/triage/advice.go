package triage

import "strings"

// BuildRuleRecommendations derives care-planning advice from threshold
// breaches, symptom flags and the predicted disposition. Capped at six.
func BuildRuleRecommendations(record *Record, prediction Prediction) []string {
	var recs []string
	flags := ExtractSymptomFlags(record.Symptoms)

	if record.SpO2 < 90 {
		recs = append(recs, "Start oxygen escalation protocol and prepare high-dependency monitoring.")
	}
	if record.SystolicBP < 90 {
		recs = append(recs, "Trigger shock pathway: fluids, vasopressor readiness, and 5-min BP checks.")
	}
	if record.Temperature > 38.5 {
		recs = append(recs, "Order sepsis screen and empiric infection bundle per hospital policy.")
	}
	if flags["symptom_chest_pain"] {
		recs = append(recs, "Perform ECG and cardiac enzyme panel; keep defibrillator-ready monitoring in place.")
	}
	if flags["symptom_respiratory"] {
		recs = append(recs, "Initiate respiratory bundle: ABG, chest imaging, and non-invasive support readiness.")
	}
	if flags["symptom_neuro"] {
		recs = append(recs, "Run urgent neuro-assessment pathway and frequent GCS checks with stroke-screen protocol.")
	}
	if flags["symptom_dehydration"] {
		recs = append(recs, "Start controlled IV hydration and strict urine-output tracking for perfusion monitoring.")
	}

	if prediction.PredictedNextMove == MoveICUAdmission {
		recs = append(recs, "Reserve ICU bed immediately and notify critical care team for handoff.")
	}
	if prediction.PredictedNextMove == MoveReferred {
		recs = append(recs, "Prepare referral packet and transportation coordination with receiving center.")
	}
	if prediction.Next24hTrajectory == "WORSENING" {
		recs = append(recs, "Increase review cadence to every 10 minutes and pre-alert escalation team.")
	}
	if record.Rural && (prediction.PredictedNextMove == MoveReferred || prediction.PredictedNextMove == MoveICUAdmission) {
		recs = append(recs, "Stabilize before transfer and keep tele-critical-care bridge active during transport.")
	}

	recs = append(recs, "Repeat vitals every 15 minutes until patient status stabilizes.")

	recs = DedupeTextItems(recs)
	if len(recs) > 6 {
		recs = recs[:6]
	}
	return recs
}

// MergeRecommendations interleaves AI output with the rule-based advice: the
// top two rules first, then AI lines, then the rest, deduplicated and capped
// at four. Falls back to rules alone when the AI contributed nothing usable.
func MergeRecommendations(ruleRecs, aiRecs []string) []string {
	split := 2
	if split > len(ruleRecs) {
		split = len(ruleRecs)
	}
	merged := make([]string, 0, len(ruleRecs)+len(aiRecs))
	merged = append(merged, ruleRecs[:split]...)
	merged = append(merged, aiRecs...)
	merged = append(merged, ruleRecs[split:]...)

	final := DedupeTextItems(merged)
	if len(final) > 4 {
		final = final[:4]
	}
	if len(final) == 0 {
		if len(ruleRecs) > 4 {
			return ruleRecs[:4]
		}
		return ruleRecs
	}
	return final
}

// DedupeTextItems collapses whitespace and removes case-insensitive
// duplicates while preserving order.
func DedupeTextItems(items []string) []string {
	cleaned := make([]string, 0, len(items))
	seen := make(map[string]bool)
	for _, item := range items {
		normalized := strings.Join(strings.Fields(item), " ")
		if normalized == "" {
			continue
		}
		key := strings.ToLower(normalized)
		if seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, normalized)
	}
	return cleaned
}
