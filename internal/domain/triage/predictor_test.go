package triage

import (
	"math"
	"testing"
)

func TestSymptomFlagsCaseInsensitive(t *testing.T) {
	flags := ExtractSymptomFlags([]string{"Chest PAIN", "Shortness Of Breath"})
	if !flags["symptom_chest_pain"] {
		t.Error("expected chest pain flag")
	}
	if !flags["symptom_respiratory"] {
		t.Error("expected respiratory flag")
	}
	if flags["symptom_trauma"] {
		t.Error("did not expect trauma flag")
	}
}

func TestBuildFeaturesRiskBands(t *testing.T) {
	features := BuildFeatures(FeatureInput{RiskScore: 65, Triage: CategoryOrange, SpO2: 95, SystolicBP: 110, HeartRate: 90, Temperature: 37, Age: 40})
	if features["risk_ge_80"] || !features["risk_60_79"] || features["risk_40_59"] {
		t.Errorf("risk bands wrong for 65: %v", features)
	}
	if !features["triage_orange"] || features["triage_red"] {
		t.Errorf("triage flags wrong: %v", features)
	}
}

func criticalInput() FeatureInput {
	return FeatureInput{
		Age: 79, Rural: true, HeartRate: 132, SystolicBP: 82,
		SpO2: 84, Temperature: 39.2, RiskScore: 100, Triage: CategoryRed,
		Symptoms: []string{"shortness of breath", "confusion"},
	}
}

func wellInput() FeatureInput {
	return FeatureInput{
		Age: 29, HeartRate: 84, SystolicBP: 124,
		SpO2: 99, Temperature: 36.7, RiskScore: 0, Triage: CategoryGreen,
	}
}

func seedSamples() []Sample {
	return BuildTrainingSamples(nil)
}

func TestPredictProbabilitiesSumToOne(t *testing.T) {
	prediction := PredictNextMove(criticalInput(), seedSamples())
	sum := 0.0
	for _, p := range prediction.Probabilities {
		if p.Probability < 0 || p.Probability > 1 {
			t.Errorf("probability out of range: %+v", p)
		}
		sum += p.Probability
	}
	if math.Abs(sum-1.0) > 0.001 {
		t.Errorf("probabilities should sum to 1, got %g", sum)
	}
}

func TestPredictCriticalCase(t *testing.T) {
	prediction := PredictNextMove(criticalInput(), seedSamples())
	if prediction.PredictedNextMove != MoveICUAdmission {
		t.Errorf("expected ICU_ADMISSION, got %s", prediction.PredictedNextMove)
	}
	if prediction.Priority != "P1 - CRITICAL" {
		t.Errorf("expected P1 - CRITICAL, got %s", prediction.Priority)
	}
	if prediction.Next24hTrajectory != "WORSENING" {
		t.Errorf("expected WORSENING, got %s", prediction.Next24hTrajectory)
	}
	if prediction.TrainingSampleCount != len(seedSamples()) {
		t.Errorf("expected %d training samples, got %d", len(seedSamples()), prediction.TrainingSampleCount)
	}
}

func TestPredictWellPatient(t *testing.T) {
	prediction := PredictNextMove(wellInput(), seedSamples())
	if prediction.PredictedNextMove != MoveDischarged && prediction.PredictedNextMove != MoveObservation {
		t.Errorf("expected benign disposition, got %s", prediction.PredictedNextMove)
	}
	if prediction.Priority == "P1 - CRITICAL" || prediction.Priority == "P2 - HIGH" {
		t.Errorf("unexpected priority for well patient: %s", prediction.Priority)
	}
}

func TestPredictEmptyCorpusFallback(t *testing.T) {
	prediction := PredictNextMove(criticalInput(), nil)
	if prediction.PredictedNextMove != MoveObservation {
		t.Errorf("expected OBSERVATION fallback, got %s", prediction.PredictedNextMove)
	}
	if prediction.LikelyOutcomeProbability != 1.0 {
		t.Errorf("expected certainty 1.0, got %g", prediction.LikelyOutcomeProbability)
	}
	if prediction.ConfidenceBand != "LOW" {
		t.Errorf("expected LOW confidence, got %s", prediction.ConfidenceBand)
	}
	if prediction.TrainingSampleCount != 0 {
		t.Errorf("expected 0 samples, got %d", prediction.TrainingSampleCount)
	}
	// The anomaly detector still runs on the vitals themselves.
	if prediction.AnomalyScore == 0 {
		t.Error("expected non-zero anomaly score for critical vitals")
	}
}

func TestPredictSmallCorpusLowConfidence(t *testing.T) {
	samples := seedSamples()[:5]
	prediction := PredictNextMove(criticalInput(), samples)
	if prediction.ConfidenceBand != "LOW" {
		t.Errorf("expected LOW confidence below 8 samples, got %s", prediction.ConfidenceBand)
	}
}

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		probability float64
		samples     int
		want        string
	}{
		{0.9, 5, "LOW"},
		{0.9, 100, "HIGH"},
		{0.7, 100, "HIGH"},
		{0.6, 100, "MEDIUM"},
		{0.5, 100, "MEDIUM"},
		{0.4, 100, "LOW"},
	}
	for _, tt := range tests {
		if got := classifyConfidence(tt.probability, tt.samples); got != tt.want {
			t.Errorf("classifyConfidence(%g, %d) = %s, want %s", tt.probability, tt.samples, got, tt.want)
		}
	}
}

func TestAdjustmentsBoostICUForSevereHypoxia(t *testing.T) {
	uniform := []MoveProbability{
		{Move: MoveICUAdmission, Probability: 0.2},
		{Move: MoveInTreatment, Probability: 0.2},
		{Move: MoveReferred, Probability: 0.2},
		{Move: MoveObservation, Probability: 0.2},
		{Move: MoveDischarged, Probability: 0.2},
	}
	in := FeatureInput{Age: 60, SpO2: 85, SystolicBP: 110, HeartRate: 90, Temperature: 37, RiskScore: 50}
	adjusted := adjustProbabilities(uniform, in)
	if adjusted[0].Move != MoveICUAdmission {
		t.Errorf("expected ICU_ADMISSION boosted to top, got %s", adjusted[0].Move)
	}
	if probabilityOf(adjusted, MoveDischarged) >= 0.2 {
		t.Error("expected DISCHARGED probability suppressed")
	}
}

func TestAdjustmentsWellnessPattern(t *testing.T) {
	uniform := []MoveProbability{
		{Move: MoveICUAdmission, Probability: 0.2},
		{Move: MoveInTreatment, Probability: 0.2},
		{Move: MoveReferred, Probability: 0.2},
		{Move: MoveObservation, Probability: 0.2},
		{Move: MoveDischarged, Probability: 0.2},
	}
	in := FeatureInput{Age: 30, SpO2: 99, SystolicBP: 124, HeartRate: 84, Temperature: 36.7, RiskScore: 0}
	adjusted := adjustProbabilities(uniform, in)
	if adjusted[0].Move != MoveDischarged {
		t.Errorf("expected DISCHARGED boosted to top, got %s", adjusted[0].Move)
	}
}

func TestBuildTrainingSamplesRemapsStatuses(t *testing.T) {
	records := []*Record{
		{Status: StatusWaiting, TriageCategory: CategoryGreen},
		{Status: StatusInTreatment, TriageCategory: CategoryOrange},
		{Status: "UNKNOWN", TriageCategory: CategoryGreen},
	}
	samples := BuildTrainingSamples(records)
	seedCount := len(SeedCorpus())
	if len(samples) != seedCount+2 {
		t.Fatalf("expected %d samples, got %d", seedCount+2, len(samples))
	}
	if samples[seedCount].Outcome != MoveObservation {
		t.Errorf("WAITING should train as OBSERVATION, got %s", samples[seedCount].Outcome)
	}
	if samples[seedCount+1].Outcome != MoveInTreatment {
		t.Errorf("IN_TREATMENT should train as IN_TREATMENT, got %s", samples[seedCount+1].Outcome)
	}
}
