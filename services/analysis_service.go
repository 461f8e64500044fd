package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kaushalkumar0001/StressLess/metrics"
	"github.com/kaushalkumar0001/StressLess/models"

	"golang.org/x/sync/singleflight"
)

// CategoryScoresInput carries subtotals as sent by clients; nil means the field was absent.
type CategoryScoresInput struct {
	Medical      *int `json:"medical"`
	Financial    *int `json:"financial"`
	Relationship *int `json:"relationship"`
}

// AnalysisRequest asks for the narrative of one scored assessment.
type AnalysisRequest struct {
	ResultID          string               `json:"resultId"`
	Score             *int                 `json:"score"`
	CategoricalScores *CategoryScoresInput `json:"categoricalScores"`
	Level             models.StressLevel   `json:"level"`
	ForceRegenerate   bool                 `json:"forceRegenerate"`
}

// AnalysisOutcome is the narrative plus whether it came from storage.
type AnalysisOutcome struct {
	Text   string `json:"analysis"`
	Cached bool   `json:"cached"`
}

// AnalysisStore is the part of result storage the analysis gate needs.
type AnalysisStore interface {
	GetResultByID(ctx context.Context, id string) (*models.TestResult, error)
	ReadAnalysis(ctx context.Context, resultID string) (*string, error)
	WriteAnalysis(ctx context.Context, resultID string, text string) error
}

// AnalysisService returns the cached narrative for a result or generates it.
type AnalysisService interface {
	GetOrCreateAnalysis(ctx context.Context, userID string, req AnalysisRequest) (*AnalysisOutcome, error)
}

type analysisService struct {
	store     AnalysisStore
	generator Generator
	fills     singleflight.Group
}

// NewAnalysisService creates a new instance of AnalysisService.
func NewAnalysisService(store AnalysisStore, generator Generator) AnalysisService {
	return &analysisService{store: store, generator: generator}
}

// validatedInput is an AnalysisRequest with every required field present.
type validatedInput struct {
	total  int
	scores models.CategoryScores
	level  models.StressLevel
}

func validateAnalysisRequest(req AnalysisRequest) (*validatedInput, error) {
	if req.Score == nil {
		return nil, fmt.Errorf("%w: missing required field score", ErrContractViolation)
	}
	if req.CategoricalScores == nil {
		return nil, fmt.Errorf("%w: missing required field categoricalScores", ErrContractViolation)
	}
	out := &validatedInput{total: *req.Score}
	in := req.CategoricalScores
	for _, f := range []struct {
		name string
		cat  models.Category
		v    *int
	}{
		{"medical", models.CategoryMedical, in.Medical},
		{"financial", models.CategoryFinancial, in.Financial},
		{"relationship", models.CategoryRelationship, in.Relationship},
	} {
		if f.v == nil {
			return nil, fmt.Errorf("%w: missing required field categoricalScores.%s", ErrContractViolation, f.name)
		}
		if *f.v < 0 || *f.v > CategoryMaxScore {
			return nil, fmt.Errorf("%w: categoricalScores.%s is %d, want 0..%d", ErrContractViolation, f.name, *f.v, CategoryMaxScore)
		}
		out.scores.Add(f.cat, *f.v)
	}
	if out.total < 0 || out.total > TotalMaxScore {
		return nil, fmt.Errorf("%w: score is %d, want 0..%d", ErrContractViolation, out.total, TotalMaxScore)
	}
	if sum := out.scores.Sum(); out.total != sum {
		return nil, fmt.Errorf("%w: score is %d but categoricalScores add up to %d", ErrContractViolation, out.total, sum)
	}

	switch req.Level {
	case "":
		out.level = OverallLevel(out.total)
	case models.LevelLow, models.LevelMild, models.LevelModerate, models.LevelHigh:
		out.level = req.Level
	default:
		return nil, fmt.Errorf("%w: unknown level %q", ErrContractViolation, req.Level)
	}
	return out, nil
}

// GetOrCreateAnalysis runs the cache gate for req on behalf of userID.
//
// Without ForceRegenerate a stored narrative is returned as is and the model is
// not called. Otherwise one generation attempt is made; a non-empty result is
// written back and returned even when the write fails. A failed attempt leaves
// whatever was stored before untouched. Concurrent non-forced fills of the same
// result share one generation call; forced regenerations are not serialized and
// the last write wins.
func (s *analysisService) GetOrCreateAnalysis(ctx context.Context, userID string, req AnalysisRequest) (*AnalysisOutcome, error) {
	input, err := validateAnalysisRequest(req)
	if err != nil {
		metrics.AnalysisRequests.WithLabelValues(metrics.OutcomeInvalid).Inc()
		log.Printf("WARN: [AnalysisService] Rejected analysis request for result '%s': %v", req.ResultID, err)
		return nil, err
	}

	if req.ResultID != "" && userID != "" {
		if err := s.checkOwnership(ctx, userID, req.ResultID); err != nil {
			return nil, err
		}
	}

	if req.ResultID == "" {
		log.Printf("INFO: [AnalysisService] No result ID given for user '%s'; generating without caching.", userID)
		text, err := s.generate(ctx, input)
		if err != nil {
			return nil, err
		}
		metrics.AnalysisRequests.WithLabelValues(metrics.OutcomeGenerated).Inc()
		return &AnalysisOutcome{Text: text}, nil
	}

	if req.ForceRegenerate {
		log.Printf("INFO: [AnalysisService] Forced regeneration requested for result %s.", req.ResultID)
		text, err := s.generate(ctx, input)
		if err != nil {
			return nil, err
		}
		s.persist(ctx, req.ResultID, text)
		metrics.AnalysisRequests.WithLabelValues(metrics.OutcomeRegenerated).Inc()
		return &AnalysisOutcome{Text: text}, nil
	}

	if cached := s.readCached(ctx, req.ResultID); cached != nil {
		metrics.AnalysisRequests.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		log.Printf("INFO: [AnalysisService] Returning cached analysis for result %s.", req.ResultID)
		return &AnalysisOutcome{Text: *cached, Cached: true}, nil
	}

	v, err, shared := s.fills.Do(req.ResultID, func() (interface{}, error) {
		// Another fill may have completed between the read above and here.
		if cached := s.readCached(ctx, req.ResultID); cached != nil {
			return &AnalysisOutcome{Text: *cached, Cached: true}, nil
		}
		text, err := s.generate(ctx, input)
		if err != nil {
			return nil, err
		}
		s.persist(ctx, req.ResultID, text)
		return &AnalysisOutcome{Text: text}, nil
	})
	if err != nil {
		return nil, err
	}
	outcome := *v.(*AnalysisOutcome)
	if shared {
		log.Printf("INFO: [AnalysisService] Analysis fill for result %s was shared with a concurrent request.", req.ResultID)
	}
	if outcome.Cached {
		metrics.AnalysisRequests.WithLabelValues(metrics.OutcomeCacheHit).Inc()
	} else {
		metrics.AnalysisRequests.WithLabelValues(metrics.OutcomeGenerated).Inc()
	}
	return &outcome, nil
}

func (s *analysisService) checkOwnership(ctx context.Context, userID, resultID string) error {
	result, err := s.store.GetResultByID(ctx, resultID)
	if err != nil {
		log.Printf("ERROR: [AnalysisService] Failed to load result %s for ownership check: %v", resultID, err)
		return fmt.Errorf("failed to load result %s: %w", resultID, err)
	}
	if result != nil && result.UserID != userID {
		log.Printf("WARN: [AnalysisService] User '%s' requested analysis for result %s owned by another user.", userID, resultID)
		return fmt.Errorf("result %s: %w", resultID, ErrForbidden)
	}
	return nil
}

// readCached treats a failed read as a miss.
func (s *analysisService) readCached(ctx context.Context, resultID string) *string {
	cached, err := s.store.ReadAnalysis(ctx, resultID)
	if err != nil {
		log.Printf("WARN: [AnalysisService] Could not read cached analysis for result %s, generating instead: %v", resultID, err)
		return nil
	}
	return cached
}

func (s *analysisService) generate(ctx context.Context, input *validatedInput) (string, error) {
	prompt := BuildAnalysisPrompt(input.total, input.scores, input.level)
	text, err := s.generator.Generate(ctx, AnalysisSystemPrompt, prompt)
	if err == nil && text == "" {
		err = fmt.Errorf("%w: model returned an empty response", ErrGenerationTransient)
	}
	if err != nil {
		switch {
		case errors.Is(err, ErrGenerationUnavailable):
			metrics.AnalysisRequests.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		default:
			metrics.AnalysisRequests.WithLabelValues(metrics.OutcomeTransient).Inc()
			if !errors.Is(err, ErrGenerationTransient) {
				err = fmt.Errorf("%w: %v", ErrGenerationTransient, err)
			}
		}
		log.Printf("ERROR: [AnalysisService] Analysis generation failed: %v", err)
		return "", err
	}
	return text, nil
}

// persist is best effort: the caller still gets the generated text.
func (s *analysisService) persist(ctx context.Context, resultID, text string) {
	if err := s.store.WriteAnalysis(ctx, resultID, text); err != nil {
		metrics.AnalysisPersistFailures.Inc()
		log.Printf("ERROR: [AnalysisService] Failed to save analysis for result %s; returning it uncached: %v", resultID, err)
	}
}
