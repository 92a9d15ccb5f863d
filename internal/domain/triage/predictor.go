package triage

import (
	"math"
	"sort"
)

const probabilityFloor = 1e-6

// MoveProbability pairs a disposition label with its predicted probability.
type MoveProbability struct {
	Move        string  `json:"move"`
	Probability float64 `json:"probability"`
}

// Prediction is the full disposition forecast for one case.
type Prediction struct {
	PredictedNextMove        string            `json:"predicted_next_move"`
	Priority                 string            `json:"priority"`
	Probabilities            []MoveProbability `json:"probabilities"`
	LikelyOutcome            string            `json:"likely_outcome"`
	LikelyOutcomeProbability float64           `json:"likely_outcome_probability"`
	CriticalRiskEstimatePct  int               `json:"critical_risk_estimate_pct"`
	TrainingSampleCount      int               `json:"training_sample_count"`
	ConfidenceBand           string            `json:"confidence_band"`
	Next24hTrajectory        string            `json:"next_24h_trajectory"`
	AnomalyInsights
}

// PredictNextMove retrains a Bernoulli Naive Bayes model on the samples and
// forecasts the next disposition for the given case. An empty corpus falls
// back to a certain OBSERVATION prediction.
func PredictNextMove(in FeatureInput, samples []Sample) Prediction {
	anomaly := ComputeAnomalyInsights(Vitals{
		HeartRate:   in.HeartRate,
		SystolicBP:  in.SystolicBP,
		SpO2:        in.SpO2,
		Temperature: in.Temperature,
	}, in.Age)

	if len(samples) == 0 {
		return Prediction{
			PredictedNextMove:        MoveObservation,
			Priority:                 "P3 - MEDIUM",
			Probabilities:            []MoveProbability{{Move: MoveObservation, Probability: 1.0}},
			LikelyOutcome:            MoveObservation,
			LikelyOutcomeProbability: 1.0,
			ConfidenceBand:           "LOW",
			Next24hTrajectory:        "STABLE",
			AnomalyInsights:          anomaly,
		}
	}

	features := BuildFeatures(in)

	classCounts := make(map[string]int, len(MoveLabels))
	trueCounts := make(map[string]map[string]int, len(MoveLabels))
	for _, label := range MoveLabels {
		classCounts[label] = 0
		trueCounts[label] = make(map[string]int, len(features))
	}

	for _, sample := range samples {
		counts, ok := trueCounts[sample.Outcome]
		if !ok {
			continue
		}
		classCounts[sample.Outcome]++
		for name, value := range sample.Features {
			if value {
				if _, known := features[name]; known {
					counts[name]++
				}
			}
		}
	}

	observed := 0
	for _, count := range classCounts {
		observed += count
	}
	total := observed
	if total == 0 {
		total = 1
	}

	logScores := make(map[string]float64, len(MoveLabels))
	for _, label := range MoveLabels {
		labelCount := classCounts[label]
		logProb := math.Log(float64(labelCount+1) / float64(total+len(MoveLabels)))
		for name, value := range features {
			pTrue := float64(trueCounts[label][name]+1) / float64(labelCount+2)
			p := pTrue
			if !value {
				p = 1 - pTrue
			}
			logProb += math.Log(math.Max(p, 1e-9))
		}
		logScores[label] = logProb
	}

	maxLog := math.Inf(-1)
	for _, score := range logScores {
		if score > maxLog {
			maxLog = score
		}
	}
	expScores := make(map[string]float64, len(MoveLabels))
	denom := 0.0
	for label, score := range logScores {
		expScores[label] = math.Exp(score - maxLog)
		denom += expScores[label]
	}
	if denom == 0 {
		denom = 1
	}

	probabilities := make([]MoveProbability, 0, len(MoveLabels))
	for _, label := range MoveLabels {
		probabilities = append(probabilities, MoveProbability{
			Move:        label,
			Probability: round4(expScores[label] / denom),
		})
	}
	sortByProbability(probabilities)

	probabilities = adjustProbabilities(probabilities, in)

	topMove := probabilities[0].Move
	topProbability := probabilities[0].Probability

	var priority string
	switch {
	case topMove == MoveICUAdmission || in.RiskScore >= 80:
		priority = "P1 - CRITICAL"
	case topMove == MoveInTreatment || topMove == MoveReferred || in.RiskScore >= 60:
		priority = "P2 - HIGH"
	case topMove == MoveObservation || in.RiskScore >= 40:
		priority = "P3 - MEDIUM"
	default:
		priority = "P4 - LOW"
	}

	criticalPct := int(math.Round((probabilityOf(probabilities, MoveICUAdmission) +
		probabilityOf(probabilities, MoveInTreatment)) * 100))

	trajectory := "STABLE"
	if criticalPct >= 45 || anomaly.AnomalyScore >= 70 {
		trajectory = "WORSENING"
	} else if criticalPct <= 15 && (topMove == MoveDischarged || topMove == MoveObservation) {
		trajectory = "IMPROVING"
	}

	return Prediction{
		PredictedNextMove:        topMove,
		Priority:                 priority,
		Probabilities:            probabilities,
		LikelyOutcome:            topMove,
		LikelyOutcomeProbability: round4(topProbability),
		CriticalRiskEstimatePct:  criticalPct,
		TrainingSampleCount:      observed,
		ConfidenceBand:           classifyConfidence(topProbability, observed),
		Next24hTrajectory:        trajectory,
		AnomalyInsights:          anomaly,
	}
}

// adjustProbabilities applies clinical multipliers on top of the statistical
// estimate, then renormalizes. Multiplier order matters: acuity gates first,
// then symptom modifiers, then the wellness pattern.
func adjustProbabilities(probabilities []MoveProbability, in FeatureInput) []MoveProbability {
	flags := ExtractSymptomFlags(in.Symptoms)

	adjusted := make(map[string]float64, len(probabilities))
	for _, item := range probabilities {
		adjusted[item.Move] = math.Max(item.Probability, probabilityFloor)
	}

	if in.SpO2 < 88 || in.SystolicBP < 85 || in.RiskScore >= 85 {
		adjusted[MoveICUAdmission] *= 1.35
		adjusted[MoveInTreatment] *= 1.2
		adjusted[MoveDischarged] *= 0.4
	} else if in.RiskScore >= 60 {
		adjusted[MoveInTreatment] *= 1.25
		adjusted[MoveReferred] *= 1.1
	}

	if flags["symptom_respiratory"] {
		adjusted[MoveICUAdmission] *= 1.15
		adjusted[MoveInTreatment] *= 1.15
	}
	if flags["symptom_chest_pain"] && in.Age >= 45 {
		adjusted[MoveInTreatment] *= 1.2
		adjusted[MoveReferred] *= 1.1
	}
	if flags["symptom_neuro"] {
		adjusted[MoveICUAdmission] *= 1.1
		adjusted[MoveInTreatment] *= 1.2
	}
	if flags["symptom_trauma"] {
		adjusted[MoveInTreatment] *= 1.1
	}
	if flags["symptom_dehydration"] && in.RiskScore < 60 {
		adjusted[MoveObservation] *= 1.1
		adjusted[MoveReferred] *= 1.1
	}

	if in.RiskScore < 25 && in.SpO2 >= 96 && in.SystolicBP >= 105 &&
		in.HeartRate <= 105 && in.Temperature <= 37.8 &&
		!flags["symptom_chest_pain"] && !flags["symptom_neuro"] {
		adjusted[MoveDischarged] *= 1.3
		adjusted[MoveObservation] *= 1.2
		adjusted[MoveICUAdmission] *= 0.5
	}

	total := 0.0
	for _, value := range adjusted {
		total += value
	}
	if total == 0 {
		total = 1
	}

	normalized := make([]MoveProbability, 0, len(MoveLabels))
	for _, label := range MoveLabels {
		normalized = append(normalized, MoveProbability{
			Move:        label,
			Probability: round4(adjusted[label] / total),
		})
	}
	sortByProbability(normalized)
	return normalized
}

func classifyConfidence(topProbability float64, sampleCount int) string {
	if sampleCount < 8 {
		return "LOW"
	}
	if topProbability >= 0.7 {
		return "HIGH"
	}
	if topProbability >= 0.5 {
		return "MEDIUM"
	}
	return "LOW"
}

func probabilityOf(probabilities []MoveProbability, move string) float64 {
	for _, item := range probabilities {
		if item.Move == move {
			return item.Probability
		}
	}
	return 0
}

func sortByProbability(probabilities []MoveProbability) {
	sort.SliceStable(probabilities, func(i, j int) bool {
		return probabilities[i].Probability > probabilities[j].Probability
	})
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
