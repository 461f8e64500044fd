package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/kaushalkumar0001/StressLess/metrics"
	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/repository"
)

// AssessmentService defines the interface for assessment-related operations.
type AssessmentService interface {
	StartAssessment(userID string) ([]models.Question, error)
	ResetQuestionHistory(userID string)
	SubmitAnswers(ctx context.Context, userID string, answers []int, questions []models.Question) (*SubmittedResult, error)
	GetResult(ctx context.Context, userID, resultID string) (*models.TestResult, error)
	GetHistory(ctx context.Context, userID string) ([]*models.TestResult, error)
}

// SubmittedResult is a freshly persisted result plus the per-category tiers.
type SubmittedResult struct {
	*models.TestResult
	CategoryLevels map[models.Category]models.StressLevel `json:"categoryLevels"`
}

// assessmentService implements the AssessmentService interface.
type assessmentService struct {
	sessions    repository.SessionHistoryRepository
	results     repository.ResultRepository
	pool        models.QuestionPool
	perCategory int

	// mu guards rng and makes read-select-save of a session's history atomic.
	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssessmentService creates a new instance of AssessmentService. A nil
// pool means the built-in question bank; a nil rng is seeded from the clock.
func NewAssessmentService(sessions repository.SessionHistoryRepository, results repository.ResultRepository, pool models.QuestionPool, perCategory int, rng *rand.Rand) AssessmentService {
	if pool == nil {
		pool = DefaultQuestionPool()
	}
	if perCategory <= 0 {
		perCategory = DefaultQuestionsPerCategory
	}
	if perCategory != DefaultQuestionsPerCategory {
		log.Printf("WARN: [AssessmentService] questions_per_category=%d is not supported; using %d.", perCategory, DefaultQuestionsPerCategory)
		perCategory = DefaultQuestionsPerCategory
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for _, cat := range models.Categories {
		if len(pool[cat]) < perCategory {
			log.Printf("WARN: [AssessmentService] Category '%s' has only %d questions; assessments will repeat or serve fewer than %d.", cat, len(pool[cat]), perCategory)
		}
	}
	return &assessmentService{
		sessions:    sessions,
		results:     results,
		pool:        pool,
		perCategory: perCategory,
		rng:         rng,
	}
}

// StartAssessment serves a fresh question set for the user's session and
// records the served questions in the session history.
func (s *assessmentService) StartAssessment(userID string) ([]models.Question, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	history, err := s.sessions.GetHistory(userID)
	if err != nil {
		log.Printf("ERROR: [AssessmentService] Failed to load question history for userID '%s': %v", userID, err)
		return nil, fmt.Errorf("failed to load question history for userID %s: %w", userID, err)
	}

	questions, updated := selectQuestions(s.pool, history, s.perCategory, s.rng, func(cat models.Category) {
		metrics.QuestionHistoryResets.WithLabelValues(string(cat)).Inc()
		log.Printf("INFO: [AssessmentService] Question pool for '%s' exhausted for userID '%s'; history reset.", cat, userID)
	})

	if err := s.sessions.SaveHistory(userID, updated); err != nil {
		log.Printf("ERROR: [AssessmentService] Failed to save question history for userID '%s': %v", userID, err)
		return nil, fmt.Errorf("failed to save question history for userID %s: %w", userID, err)
	}

	log.Printf("INFO: [AssessmentService] Served %d questions to userID '%s'.", len(questions), userID)
	return questions, nil
}

// ResetQuestionHistory makes the whole pool eligible again for the user.
func (s *assessmentService) ResetQuestionHistory(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions.ClearHistory(userID)
	log.Printf("INFO: [AssessmentService] Cleared question history for userID '%s'.", userID)
}

// SubmitAnswers scores a completed assessment and persists it.
func (s *assessmentService) SubmitAnswers(ctx context.Context, userID string, answers []int, questions []models.Question) (*SubmittedResult, error) {
	if err := ValidateAnswers(answers, questions); err != nil {
		log.Printf("WARN: [AssessmentService] Rejected submission from userID '%s': %v", userID, err)
		return nil, err
	}

	score := Score(answers, questions)
	result := models.NewTestResult(userID, score)
	if err := s.results.CreateResult(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to save result for userID %s: %w", userID, err)
	}
	metrics.AssessmentsScored.WithLabelValues(string(score.Level)).Inc()

	log.Printf("INFO: [AssessmentService] UserID '%s' scored %d (%s), result ID %s.", userID, score.Total, score.Level, result.ID)
	return &SubmittedResult{
		TestResult:     result,
		CategoryLevels: CategoryLevels(score.CategoricalScores),
	}, nil
}

// GetResult returns one of the user's results.
func (s *assessmentService) GetResult(ctx context.Context, userID, resultID string) (*models.TestResult, error) {
	result, err := s.results.GetResultByID(ctx, resultID)
	if err != nil {
		return nil, fmt.Errorf("failed to get result %s: %w", resultID, err)
	}
	if result == nil {
		return nil, fmt.Errorf("result %s: %w", resultID, ErrNotFound)
	}
	if result.UserID != userID {
		log.Printf("WARN: [AssessmentService] UserID '%s' attempted to read result %s of another user.", userID, resultID)
		return nil, fmt.Errorf("result %s: %w", resultID, ErrForbidden)
	}
	return result, nil
}

// GetHistory lists the user's results, newest first.
func (s *assessmentService) GetHistory(ctx context.Context, userID string) ([]*models.TestResult, error) {
	if userID == "" {
		log.Println("WARN: [AssessmentService] GetHistory called with empty userID.")
		return nil, errors.New("userID cannot be empty")
	}
	results, err := s.results.GetResultsByUserID(ctx, userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for userID %s: %w", userID, err)
	}
	return results, nil
}
