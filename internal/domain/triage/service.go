package triage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// AIAdvisor produces free-text care recommendations for a prompt.
type AIAdvisor interface {
	Recommendations(ctx context.Context, prompt string) ([]string, error)
}

type Service struct {
	repo   Repository
	ai     AIAdvisor
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, ai AIAdvisor, logger zerolog.Logger) *Service {
	return &Service{repo: repo, ai: ai, logger: logger, now: time.Now}
}

// TriageResult is the response to a triage intake.
type TriageResult struct {
	Timestamp                string   `json:"timestamp"`
	RiskScore                int      `json:"risk_score"`
	DeteriorationProbability float64  `json:"deterioration_probability_60min"`
	TriageCategory           string   `json:"triage_category"`
	Action                   string   `json:"action"`
	Confidence               string   `json:"confidence"`
	PredictedNextMove        string   `json:"predicted_next_move"`
	Priority                 string   `json:"priority"`
	AnomalyScore             int      `json:"anomaly_score"`
	AnomalyLevel             string   `json:"anomaly_level"`
	Next24hTrajectory        string   `json:"next_24h_trajectory"`
	AIWatchouts              []string `json:"ai_watchouts"`
}

// Triage scores an intake, predicts the next disposition, persists the record
// with WAITING status, and returns the combined assessment.
func (s *Service) Triage(ctx context.Context, input *PatientInput) (*TriageResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	riskScore, probability := CalculateRisk(input.Vitals, input.Age)
	category := Category(riskScore)
	action := ActionFor(category)

	samples, err := s.trainingSamples(ctx)
	if err != nil {
		return nil, err
	}
	prediction := PredictNextMove(FeatureInput{
		Age:         input.Age,
		Rural:       input.Rural,
		HeartRate:   input.Vitals.HeartRate,
		SystolicBP:  input.Vitals.SystolicBP,
		SpO2:        input.Vitals.SpO2,
		Temperature: input.Vitals.Temperature,
		RiskScore:   riskScore,
		Triage:      category,
		Symptoms:    input.Symptoms,
	}, samples)

	record := &Record{
		PatientID:                input.PatientID,
		CreatedAt:                now,
		Age:                      input.Age,
		Gender:                   input.Gender,
		Rural:                    input.Rural,
		HeartRate:                input.Vitals.HeartRate,
		SystolicBP:               input.Vitals.SystolicBP,
		SpO2:                     input.Vitals.SpO2,
		Temperature:              input.Vitals.Temperature,
		Symptoms:                 input.Symptoms,
		RiskScore:                riskScore,
		DeteriorationProbability: probability,
		TriageCategory:           category,
		Action:                   action,
		Status:                   StatusWaiting,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("store triage record: %w", err)
	}

	s.logger.Info().
		Str("patient_id", input.PatientID).
		Int("risk_score", riskScore).
		Str("triage_category", category).
		Str("predicted_next_move", prediction.PredictedNextMove).
		Msg("triage recorded")

	return &TriageResult{
		Timestamp:                now.Format(time.RFC3339Nano),
		RiskScore:                riskScore,
		DeteriorationProbability: probability,
		TriageCategory:           category,
		Action:                   action,
		Confidence:               prediction.ConfidenceBand,
		PredictedNextMove:        prediction.PredictedNextMove,
		Priority:                 prediction.Priority,
		AnomalyScore:             prediction.AnomalyScore,
		AnomalyLevel:             prediction.AnomalyLevel,
		Next24hTrajectory:        prediction.Next24hTrajectory,
		AIWatchouts:              prediction.AIWatchouts,
	}, nil
}

// Explanation lists the top factors behind a patient's latest risk score.
type Explanation struct {
	TopRiskFactors     []RiskFactor `json:"top_risk_factors"`
	ExplainabilityNote string       `json:"explainability_note"`
}

// Explain returns the threshold breaches behind the latest record. A missing
// patient yields a placeholder explanation, not an error.
func (s *Service) Explain(ctx context.Context, patientID string) (*Explanation, error) {
	record, err := s.repo.LatestByPatient(ctx, patientID)
	if err == ErrNotFound {
		return &Explanation{
			TopRiskFactors:     []RiskFactor{{Factor: "No matching patient record", Impact: "LOW"}},
			ExplainabilityNote: "Submit triage data first to get patient-specific explainability.",
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return &Explanation{
		TopRiskFactors: ExtractRiskFactors(Vitals{
			HeartRate:   record.HeartRate,
			SystolicBP:  record.SystolicBP,
			SpO2:        record.SpO2,
			Temperature: record.Temperature,
		}, record.Age),
		ExplainabilityNote: "Risk derived from threshold-based analysis of the latest recorded vitals.",
	}, nil
}

// QueueEntry is one patient in the emergency queue.
type QueueEntry struct {
	PatientID         string   `json:"patient_id"`
	Triage            string   `json:"triage"`
	RiskScore         int      `json:"risk_score"`
	Status            string   `json:"status"`
	PredictedNextMove string   `json:"predicted_next_move"`
	Priority          string   `json:"priority"`
	Age               int      `json:"age"`
	Gender            string   `json:"gender"`
	Rural             bool     `json:"rural"`
	Vitals            Vitals   `json:"vitals"`
	Symptoms          []string `json:"symptoms"`
}

// QueueView is the emergency queue snapshot.
type QueueView struct {
	QueueLastUpdated string       `json:"queue_last_updated"`
	Patients         []QueueEntry `json:"patients"`
}

// Queue returns each patient's latest record ordered by risk, with a fresh
// disposition prediction per patient from a single retraining pass.
func (s *Service) Queue(ctx context.Context, limit int) (*QueueView, error) {
	samples, err := s.trainingSamples(ctx)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.LatestPerPatient(ctx, limit)
	if err != nil {
		return nil, err
	}

	patients := make([]QueueEntry, 0, len(records))
	for _, record := range records {
		prediction := PredictNextMove(record.FeatureInput(), samples)
		patients = append(patients, QueueEntry{
			PatientID:         record.PatientID,
			Triage:            record.TriageCategory,
			RiskScore:         record.RiskScore,
			Status:            record.Status,
			PredictedNextMove: prediction.PredictedNextMove,
			Priority:          prediction.Priority,
			Age:               record.Age,
			Gender:            record.Gender,
			Rural:             record.Rural,
			Vitals: Vitals{
				HeartRate:   record.HeartRate,
				SystolicBP:  record.SystolicBP,
				SpO2:        record.SpO2,
				Temperature: record.Temperature,
			},
			Symptoms: record.Symptoms,
		})
	}

	return &QueueView{
		QueueLastUpdated: s.now().UTC().Format(time.RFC3339Nano),
		Patients:         patients,
	}, nil
}

// UpdateStatus moves a patient's latest record to a new queue status. The
// lookup and write share a transaction so a record created between them
// cannot strand the update on a stale row.
func (s *Service) UpdateStatus(ctx context.Context, patientID, status string) error {
	if !ValidStatus(status) {
		return &ValidationError{Field: "status", Message: "status must be one of WAITING, IN_TREATMENT, REFERRED, DISCHARGED."}
	}
	return s.repo.InTx(ctx, func(ctx context.Context) error {
		record, err := s.repo.LatestByPatient(ctx, patientID)
		if err != nil {
			return err
		}
		return s.repo.UpdateStatus(ctx, record.ID, status)
	})
}

// HistoryEntry is one deduplicated snapshot in a patient's timeline.
type HistoryEntry struct {
	Timestamp                string   `json:"timestamp"`
	RiskScore                int      `json:"risk_score"`
	DeteriorationProbability float64  `json:"deterioration_probability_60min"`
	TriageCategory           string   `json:"triage_category"`
	Action                   string   `json:"action"`
	Status                   string   `json:"status"`
	Age                      int      `json:"age"`
	Gender                   string   `json:"gender"`
	Rural                    bool     `json:"rural"`
	PredictedNextMove        string   `json:"predicted_next_move"`
	Priority                 string   `json:"priority"`
	Vitals                   Vitals   `json:"vitals"`
	Symptoms                 []string `json:"symptoms"`
}

// HistoryView is a patient's recent triage timeline.
type HistoryView struct {
	PatientID             string         `json:"patient_id"`
	LatestStatus          string         `json:"latest_status"`
	LatestTriageCategory  string         `json:"latest_triage_category"`
	LatestPriority        string         `json:"latest_priority"`
	RawRecordsScanned     int            `json:"raw_records_scanned"`
	UniqueRecordsReturned int            `json:"unique_records_returned"`
	Records               []HistoryEntry `json:"records"`
}

// History returns up to limit unique snapshots for a patient, newest first.
// Consecutive identical submissions collapse into one entry.
func (s *Service) History(ctx context.Context, patientID string, limit int) (*HistoryView, error) {
	rawLimit := limit * 5
	if rawLimit < 50 {
		rawLimit = 50
	}
	records, err := s.repo.HistoryByPatient(ctx, patientID, rawLimit)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNotFound
	}

	samples, err := s.trainingSamples(ctx)
	if err != nil {
		return nil, err
	}

	history := make([]HistoryEntry, 0, limit)
	seen := make(map[string]bool)
	for _, record := range records {
		key := snapshotKey(record)
		if seen[key] {
			continue
		}
		seen[key] = true

		prediction := PredictNextMove(record.FeatureInput(), samples)
		history = append(history, HistoryEntry{
			Timestamp:                record.CreatedAt.UTC().Format(time.RFC3339Nano),
			RiskScore:                record.RiskScore,
			DeteriorationProbability: record.DeteriorationProbability,
			TriageCategory:           record.TriageCategory,
			Action:                   record.Action,
			Status:                   record.Status,
			Age:                      record.Age,
			Gender:                   record.Gender,
			Rural:                    record.Rural,
			PredictedNextMove:        prediction.PredictedNextMove,
			Priority:                 prediction.Priority,
			Vitals: Vitals{
				HeartRate:   record.HeartRate,
				SystolicBP:  record.SystolicBP,
				SpO2:        record.SpO2,
				Temperature: record.Temperature,
			},
			Symptoms: record.Symptoms,
		})
		if len(history) >= limit {
			break
		}
	}
	if len(history) == 0 {
		return nil, ErrNotFound
	}

	latest := history[0]
	return &HistoryView{
		PatientID:             patientID,
		LatestStatus:          latest.Status,
		LatestTriageCategory:  latest.TriageCategory,
		LatestPriority:        latest.Priority,
		RawRecordsScanned:     len(records),
		UniqueRecordsReturned: len(history),
		Records:               history,
	}, nil
}

// NextMoveView is the standalone disposition forecast for a patient.
type NextMoveView struct {
	PatientID string `json:"patient_id"`
	Prediction
	GeneratedAt string `json:"generated_at"`
}

// NextMovePrediction forecasts the next disposition from a patient's latest
// record.
func (s *Service) NextMovePrediction(ctx context.Context, patientID string) (*NextMoveView, error) {
	record, err := s.repo.LatestByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	samples, err := s.trainingSamples(ctx)
	if err != nil {
		return nil, err
	}
	prediction := PredictNextMove(record.FeatureInput(), samples)
	return &NextMoveView{
		PatientID:   patientID,
		Prediction:  prediction,
		GeneratedAt: s.now().UTC().Format(time.RFC3339Nano),
	}, nil
}

// RecommendationsView is the blended rule and AI advice for a patient.
type RecommendationsView struct {
	PatientID               string   `json:"patient_id"`
	PredictedNextMove       string   `json:"predicted_next_move"`
	Priority                string   `json:"priority"`
	Recommendations         []string `json:"recommendations"`
	FallbackRecommendations []string `json:"fallback_recommendations"`
	RecommendationSource    string   `json:"recommendation_source"`
	AIError                 *string  `json:"ai_error"`
	GeneratedAt             string   `json:"generated_at"`
}

// ClinicalRecommendations blends rule-based advice with AI-generated lines.
// AI failure degrades to rules alone and is reported, never fatal.
func (s *Service) ClinicalRecommendations(ctx context.Context, patientID string) (*RecommendationsView, error) {
	record, err := s.repo.LatestByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	samples, err := s.trainingSamples(ctx)
	if err != nil {
		return nil, err
	}
	prediction := PredictNextMove(record.FeatureInput(), samples)
	ruleRecs := BuildRuleRecommendations(record, prediction)

	var aiRecs []string
	var aiError *string
	if s.ai != nil {
		aiRecs, err = s.ai.Recommendations(ctx, buildAdvicePrompt(record, prediction))
		if err != nil {
			msg := err.Error()
			aiError = &msg
			s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("ai recommendations unavailable")
		}
	}

	source := "rule_engine"
	if len(aiRecs) > 0 {
		source = "pollinations_ai"
	}

	return &RecommendationsView{
		PatientID:               patientID,
		PredictedNextMove:       prediction.PredictedNextMove,
		Priority:                prediction.Priority,
		Recommendations:         MergeRecommendations(ruleRecs, aiRecs),
		FallbackRecommendations: ruleRecs,
		RecommendationSource:    source,
		AIError:                 aiError,
		GeneratedAt:             s.now().UTC().Format(time.RFC3339Nano),
	}, nil
}

func (s *Service) trainingSamples(ctx context.Context) ([]Sample, error) {
	records, err := s.repo.RecentForTraining(ctx, TrainingWindow)
	if err != nil {
		return nil, fmt.Errorf("load training records: %w", err)
	}
	return BuildTrainingSamples(records), nil
}

func buildAdvicePrompt(record *Record, prediction Prediction) string {
	symptomsText := "none reported"
	if len(record.Symptoms) > 0 {
		symptomsText = strings.Join(record.Symptoms, ", ")
	}
	return fmt.Sprintf(
		"Emergency triage support. Provide 4 short, actionable recommendations for immediate care planning. "+
			"Use imperative style. No disclaimers. No markdown. One recommendation per line. "+
			"Age=%d, HR=%d, SBP=%d, SpO2=%g, Temp=%g, Risk=%d, Triage=%s, Rural=%t, "+
			"Symptoms=%s, PredictedMove=%s, Priority=%s, Trajectory=%s, AIWatchouts=%s.",
		record.Age, record.HeartRate, record.SystolicBP, record.SpO2, record.Temperature,
		record.RiskScore, record.TriageCategory, record.Rural,
		symptomsText, prediction.PredictedNextMove, prediction.Priority,
		prediction.Next24hTrajectory, strings.Join(prediction.AIWatchouts, ", "))
}

func snapshotKey(r *Record) string {
	return fmt.Sprintf("%d|%s|%s|%s|%d|%d|%g|%g|%s",
		r.RiskScore, r.TriageCategory, r.Action, r.Status,
		r.HeartRate, r.SystolicBP, r.SpO2, r.Temperature,
		strings.Join(r.Symptoms, ","))
}
