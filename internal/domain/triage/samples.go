package triage

// Sample is one labeled training case for the disposition predictor.
type Sample struct {
	Features map[string]bool
	Outcome  string
}

// TrainingWindow caps how many recent live records feed each retraining pass.
const TrainingWindow = 800

// statusToOutcome maps a record's queue status to its training label.
// WAITING cases have no resolved disposition yet and train as OBSERVATION.
var statusToOutcome = map[string]string{
	StatusWaiting:     MoveObservation,
	StatusInTreatment: MoveInTreatment,
	StatusReferred:    MoveReferred,
	StatusDischarged:  MoveDischarged,
}

// BuildTrainingSamples assembles the training corpus: the static seed set
// followed by recent live records labeled by their current status.
func BuildTrainingSamples(records []*Record) []Sample {
	samples := make([]Sample, 0, len(seedOutcomes)+len(seedOutcomesExpanded)+len(records))

	for _, seed := range SeedCorpus() {
		samples = append(samples, Sample{
			Features: BuildFeatures(FeatureInput{
				Age:         seed.Age,
				Rural:       seed.Rural,
				HeartRate:   seed.HeartRate,
				SystolicBP:  seed.SystolicBP,
				SpO2:        seed.SpO2,
				Temperature: seed.Temperature,
				RiskScore:   seed.RiskScore,
				Triage:      Category(seed.RiskScore),
				Symptoms:    seed.Symptoms,
			}),
			Outcome: seed.Outcome,
		})
	}

	for _, record := range records {
		outcome, ok := statusToOutcome[record.Status]
		if !ok {
			continue
		}
		samples = append(samples, Sample{
			Features: BuildFeatures(record.FeatureInput()),
			Outcome:  outcome,
		})
	}

	return samples
}
