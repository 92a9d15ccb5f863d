package triage

import "testing"

func TestAnomalyNormalVitals(t *testing.T) {
	insights := ComputeAnomalyInsights(Vitals{HeartRate: 80, SystolicBP: 120, SpO2: 98, Temperature: 36.8}, 30)
	if insights.AnomalyScore != 0 {
		t.Errorf("expected score 0, got %d", insights.AnomalyScore)
	}
	if insights.AnomalyLevel != AnomalyLow {
		t.Errorf("expected LOW, got %s", insights.AnomalyLevel)
	}
	if len(insights.AIWatchouts) != 1 || insights.AIWatchouts[0] != "No severe anomaly patterns detected in the latest vitals." {
		t.Errorf("expected placeholder watchout, got %v", insights.AIWatchouts)
	}
}

func TestAnomalyCriticalCase(t *testing.T) {
	// HR 135: min(7.5, 25)=7.5; SBP 80: min(7, 26)=7; SpO2 84: min(24.8, 35)=24.8;
	// temp 39.5: min(9, 20)=9; age 80: +8. Total 56.3 -> 56.
	insights := ComputeAnomalyInsights(Vitals{HeartRate: 135, SystolicBP: 80, SpO2: 84, Temperature: 39.5}, 80)
	if insights.AnomalyScore != 56 {
		t.Errorf("expected score 56, got %d", insights.AnomalyScore)
	}
	if insights.AnomalyLevel != AnomalyHigh {
		t.Errorf("expected HIGH, got %s", insights.AnomalyLevel)
	}
	if len(insights.AIWatchouts) != 3 {
		t.Errorf("expected watchouts capped at 3, got %d", len(insights.AIWatchouts))
	}
}

func TestAnomalyElderlyShockPattern(t *testing.T) {
	// HR 40: min(8, 22)=8; SBP 70: min(14, 26)=14; SpO2 85: min(21.7, 35)=21.7;
	// temp 36 in range; age 80: +8. Total 51.7 -> 52, HIGH.
	insights := ComputeAnomalyInsights(Vitals{HeartRate: 40, SystolicBP: 70, SpO2: 85, Temperature: 36}, 80)
	if insights.AnomalyScore != 52 {
		t.Errorf("expected score 52, got %d", insights.AnomalyScore)
	}
	if insights.AnomalyLevel != AnomalyHigh {
		t.Errorf("expected HIGH, got %s", insights.AnomalyLevel)
	}
	if len(insights.AIWatchouts) != 3 {
		t.Errorf("expected 3 watchouts, got %d", len(insights.AIWatchouts))
	}
}

func TestAnomalyPerVitalCaps(t *testing.T) {
	// Each deviation far beyond its cap: 25 + 26 + 35 + 20 + 8 = 114, clamped to 100.
	insights := ComputeAnomalyInsights(Vitals{HeartRate: 239, SystolicBP: 51, SpO2: 50, Temperature: 44.9}, 90)
	if insights.AnomalyScore != 100 {
		t.Errorf("expected clamp at 100, got %d", insights.AnomalyScore)
	}
	if insights.AnomalyLevel != AnomalyCritical {
		t.Errorf("expected CRITICAL, got %s", insights.AnomalyLevel)
	}
}

func TestAnomalyBradycardiaAndHypothermia(t *testing.T) {
	// HR 40: min(8, 22)=8; temp 33: min(20, 20)=20. No age bonus. Total 28.
	insights := ComputeAnomalyInsights(Vitals{HeartRate: 40, SystolicBP: 120, SpO2: 97, Temperature: 33.0}, 50)
	if insights.AnomalyScore != 28 {
		t.Errorf("expected score 28, got %d", insights.AnomalyScore)
	}
	if insights.AnomalyLevel != AnomalyModerate {
		t.Errorf("expected MODERATE, got %s", insights.AnomalyLevel)
	}
}

func TestAnomalyAgeBonusTiers(t *testing.T) {
	vitals := Vitals{HeartRate: 125, SystolicBP: 120, SpO2: 97, Temperature: 36.8}
	young := ComputeAnomalyInsights(vitals, 50)
	older := ComputeAnomalyInsights(vitals, 68)
	oldest := ComputeAnomalyInsights(vitals, 78)
	if older.AnomalyScore != young.AnomalyScore+4 {
		t.Errorf("expected +4 for age 65-74: young=%d older=%d", young.AnomalyScore, older.AnomalyScore)
	}
	if oldest.AnomalyScore != young.AnomalyScore+8 {
		t.Errorf("expected +8 for age 75+: young=%d oldest=%d", young.AnomalyScore, oldest.AnomalyScore)
	}
}

func TestAnomalyHypertensionBranch(t *testing.T) {
	// SBP 200: min(7, 15)=7.
	insights := ComputeAnomalyInsights(Vitals{HeartRate: 80, SystolicBP: 200, SpO2: 97, Temperature: 36.8}, 40)
	if insights.AnomalyScore != 7 {
		t.Errorf("expected score 7, got %d", insights.AnomalyScore)
	}
	if insights.AIWatchouts[0] != "Severe hypertension pattern detected; reassess organ-risk signs." {
		t.Errorf("unexpected watchout: %v", insights.AIWatchouts)
	}
}
