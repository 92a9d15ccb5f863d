package triage

// SeedOutcome is one historical case used to prime the disposition predictor
// so it produces sensible output before enough live records accumulate.
type SeedOutcome struct {
	Age         int
	Rural       bool
	HeartRate   int
	SystolicBP  int
	SpO2        float64
	Temperature float64
	RiskScore   int
	Outcome     string
	Symptoms    []string
}

var seedOutcomes = []SeedOutcome{
	{Age: 79, Rural: true, HeartRate: 132, SystolicBP: 82, SpO2: 84.0, Temperature: 39.2, RiskScore: 100, Outcome: MoveICUAdmission},
	{Age: 67, Rural: false, HeartRate: 126, SystolicBP: 86, SpO2: 88.0, Temperature: 38.7, RiskScore: 100, Outcome: MoveICUAdmission},
	{Age: 71, Rural: true, HeartRate: 118, SystolicBP: 84, SpO2: 89.0, Temperature: 38.9, RiskScore: 80, Outcome: MoveICUAdmission},
	{Age: 63, Rural: false, HeartRate: 124, SystolicBP: 92, SpO2: 89.0, Temperature: 38.4, RiskScore: 60, Outcome: MoveInTreatment},
	{Age: 58, Rural: false, HeartRate: 128, SystolicBP: 95, SpO2: 91.0, Temperature: 39.0, RiskScore: 35, Outcome: MoveInTreatment},
	{Age: 46, Rural: true, HeartRate: 122, SystolicBP: 96, SpO2: 92.0, Temperature: 38.8, RiskScore: 35, Outcome: MoveInTreatment},
	{Age: 54, Rural: true, HeartRate: 116, SystolicBP: 98, SpO2: 93.0, Temperature: 37.8, RiskScore: 0, Outcome: MoveReferred},
	{Age: 50, Rural: true, HeartRate: 112, SystolicBP: 104, SpO2: 94.0, Temperature: 37.5, RiskScore: 0, Outcome: MoveReferred},
	{Age: 41, Rural: false, HeartRate: 104, SystolicBP: 110, SpO2: 95.0, Temperature: 37.1, RiskScore: 0, Outcome: MoveObservation},
	{Age: 38, Rural: false, HeartRate: 98, SystolicBP: 118, SpO2: 97.0, Temperature: 36.9, RiskScore: 0, Outcome: MoveObservation},
	{Age: 29, Rural: false, HeartRate: 88, SystolicBP: 122, SpO2: 98.0, Temperature: 36.8, RiskScore: 0, Outcome: MoveDischarged},
	{Age: 35, Rural: false, HeartRate: 90, SystolicBP: 124, SpO2: 99.0, Temperature: 36.7, RiskScore: 0, Outcome: MoveDischarged},
	{Age: 62, Rural: false, HeartRate: 121, SystolicBP: 88, SpO2: 90.0, Temperature: 38.2, RiskScore: 45, Outcome: MoveInTreatment},
	{Age: 74, Rural: true, HeartRate: 130, SystolicBP: 90, SpO2: 87.0, Temperature: 39.1, RiskScore: 75, Outcome: MoveICUAdmission},
	{Age: 65, Rural: true, HeartRate: 108, SystolicBP: 100, SpO2: 92.0, Temperature: 37.6, RiskScore: 10, Outcome: MoveReferred},
	{Age: 52, Rural: false, HeartRate: 96, SystolicBP: 114, SpO2: 96.0, Temperature: 37.0, RiskScore: 0, Outcome: MoveObservation},
	{Age: 47, Rural: false, HeartRate: 92, SystolicBP: 120, SpO2: 97.0, Temperature: 36.9, RiskScore: 0, Outcome: MoveDischarged},
	{Age: 69, Rural: true, HeartRate: 123, SystolicBP: 89, SpO2: 90.0, Temperature: 38.7, RiskScore: 70, Outcome: MoveInTreatment},
	{Age: 57, Rural: true, HeartRate: 106, SystolicBP: 101, SpO2: 94.0, Temperature: 37.4, RiskScore: 0, Outcome: MoveReferred},
	{Age: 33, Rural: false, HeartRate: 87, SystolicBP: 123, SpO2: 99.0, Temperature: 36.6, RiskScore: 0, Outcome: MoveDischarged},
}

// seedOutcomesExpanded adds symptom-bearing cases so symptom features carry
// signal even with an empty live corpus.
var seedOutcomesExpanded = []SeedOutcome{
	{Age: 84, Rural: true, HeartRate: 138, SystolicBP: 78, SpO2: 82.0, Temperature: 39.4, RiskScore: 100, Outcome: MoveICUAdmission, Symptoms: []string{"shortness of breath", "confusion"}},
	{Age: 76, Rural: false, HeartRate: 128, SystolicBP: 84, SpO2: 86.0, Temperature: 38.9, RiskScore: 90, Outcome: MoveICUAdmission, Symptoms: []string{"chest pain", "sweating"}},
	{Age: 68, Rural: true, HeartRate: 134, SystolicBP: 88, SpO2: 87.0, Temperature: 38.7, RiskScore: 85, Outcome: MoveICUAdmission, Symptoms: []string{"breathlessness", "fatigue"}},
	{Age: 61, Rural: false, HeartRate: 122, SystolicBP: 92, SpO2: 90.0, Temperature: 38.2, RiskScore: 65, Outcome: MoveInTreatment, Symptoms: []string{"fever", "cough"}},
	{Age: 56, Rural: false, HeartRate: 119, SystolicBP: 94, SpO2: 91.0, Temperature: 39.1, RiskScore: 60, Outcome: MoveInTreatment, Symptoms: []string{"fever", "vomiting"}},
	{Age: 49, Rural: true, HeartRate: 116, SystolicBP: 96, SpO2: 92.0, Temperature: 38.4, RiskScore: 55, Outcome: MoveInTreatment, Symptoms: []string{"abdominal pain", "weakness"}},
	{Age: 64, Rural: true, HeartRate: 110, SystolicBP: 102, SpO2: 93.0, Temperature: 37.9, RiskScore: 42, Outcome: MoveReferred, Symptoms: []string{"dizziness", "chest discomfort"}},
	{Age: 58, Rural: true, HeartRate: 108, SystolicBP: 104, SpO2: 94.0, Temperature: 37.6, RiskScore: 38, Outcome: MoveReferred, Symptoms: []string{"headache", "blurred vision"}},
	{Age: 45, Rural: true, HeartRate: 102, SystolicBP: 106, SpO2: 95.0, Temperature: 37.4, RiskScore: 30, Outcome: MoveReferred, Symptoms: []string{"mild breathlessness"}},
	{Age: 42, Rural: false, HeartRate: 100, SystolicBP: 112, SpO2: 96.0, Temperature: 37.2, RiskScore: 25, Outcome: MoveObservation, Symptoms: []string{"cough"}},
	{Age: 37, Rural: false, HeartRate: 96, SystolicBP: 116, SpO2: 97.0, Temperature: 37.0, RiskScore: 20, Outcome: MoveObservation, Symptoms: []string{"body ache"}},
	{Age: 31, Rural: false, HeartRate: 92, SystolicBP: 120, SpO2: 98.0, Temperature: 36.9, RiskScore: 10, Outcome: MoveObservation, Symptoms: []string{"sore throat"}},
	{Age: 28, Rural: false, HeartRate: 84, SystolicBP: 124, SpO2: 99.0, Temperature: 36.8, RiskScore: 0, Outcome: MoveDischarged, Symptoms: []string{"mild cold"}},
	{Age: 34, Rural: false, HeartRate: 88, SystolicBP: 122, SpO2: 99.0, Temperature: 36.7, RiskScore: 0, Outcome: MoveDischarged, Symptoms: []string{"muscle pain"}},
	{Age: 40, Rural: false, HeartRate: 90, SystolicBP: 118, SpO2: 98.0, Temperature: 36.9, RiskScore: 0, Outcome: MoveDischarged, Symptoms: []string{"minor injury"}},
	{Age: 72, Rural: true, HeartRate: 127, SystolicBP: 86, SpO2: 88.0, Temperature: 39.0, RiskScore: 88, Outcome: MoveICUAdmission, Symptoms: []string{"fever", "delirium"}},
	{Age: 66, Rural: false, HeartRate: 124, SystolicBP: 90, SpO2: 89.0, Temperature: 38.6, RiskScore: 76, Outcome: MoveInTreatment, Symptoms: []string{"cough", "breathlessness"}},
	{Age: 59, Rural: true, HeartRate: 112, SystolicBP: 98, SpO2: 93.0, Temperature: 37.8, RiskScore: 45, Outcome: MoveReferred, Symptoms: []string{"chest pain"}},
	{Age: 53, Rural: false, HeartRate: 105, SystolicBP: 109, SpO2: 95.0, Temperature: 37.5, RiskScore: 30, Outcome: MoveObservation, Symptoms: []string{"headache"}},
	{Age: 26, Rural: false, HeartRate: 82, SystolicBP: 126, SpO2: 99.0, Temperature: 36.6, RiskScore: 0, Outcome: MoveDischarged, Symptoms: []string{"runny nose"}},
	{Age: 73, Rural: true, HeartRate: 132, SystolicBP: 82, SpO2: 85.0, Temperature: 39.3, RiskScore: 100, Outcome: MoveICUAdmission, Symptoms: []string{"shortness of breath", "blue lips"}},
	{Age: 62, Rural: true, HeartRate: 118, SystolicBP: 94, SpO2: 91.0, Temperature: 38.1, RiskScore: 58, Outcome: MoveInTreatment, Symptoms: []string{"vomiting", "dehydration"}},
	{Age: 48, Rural: true, HeartRate: 104, SystolicBP: 103, SpO2: 94.0, Temperature: 37.4, RiskScore: 35, Outcome: MoveReferred, Symptoms: []string{"dizziness", "nausea"}},
	{Age: 36, Rural: false, HeartRate: 95, SystolicBP: 117, SpO2: 97.0, Temperature: 37.1, RiskScore: 18, Outcome: MoveObservation, Symptoms: []string{"fever"}},
}

// SeedCorpus returns the full seed outcome set.
func SeedCorpus() []SeedOutcome {
	corpus := make([]SeedOutcome, 0, len(seedOutcomes)+len(seedOutcomesExpanded))
	corpus = append(corpus, seedOutcomes...)
	corpus = append(corpus, seedOutcomesExpanded...)
	return corpus
}
