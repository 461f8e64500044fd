package services

import (
	"fmt"

	"github.com/kaushalkumar0001/StressLess/models"
)

const (
	// CategoryMaxScore is the top of a category subtotal: five questions at 4 points.
	CategoryMaxScore = DefaultQuestionsPerCategory * models.MaxAnswerValue

	// OverallLevelScale is the max passed to ClassifyLevel for the persisted
	// overall level. Its quarter points (30/60/90) are the overall bands the
	// product has always shown, so a total of 30 stays Low.
	OverallLevelScale = 120
)

// QuestionSetSize is the length of a complete assessment.
const QuestionSetSize = DefaultQuestionsPerCategory * 3

// ValidateAnswers checks the scoring precondition at the request boundary:
// a complete question set of DefaultQuestionsPerCategory distinct questions
// per category, and one in-range answer per question. Score itself panics
// only on a length mismatch.
func ValidateAnswers(answers []int, questions []models.Question) error {
	if len(questions) == 0 {
		return fmt.Errorf("%w: question set is empty", ErrContractViolation)
	}
	if len(questions) != QuestionSetSize {
		return fmt.Errorf("%w: got %d questions, want %d", ErrContractViolation, len(questions), QuestionSetSize)
	}
	if len(answers) != len(questions) {
		return fmt.Errorf("%w: got %d answers for %d questions", ErrContractViolation, len(answers), len(questions))
	}

	perCategory := make(map[models.Category]int, len(models.Categories))
	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if !q.Category.IsValid() {
			return fmt.Errorf("%w: question %d has unknown category %q", ErrContractViolation, i, q.Category)
		}
		if _, dup := seen[q.Text]; dup {
			return fmt.Errorf("%w: question %d repeats %q", ErrContractViolation, i, q.Text)
		}
		seen[q.Text] = struct{}{}
		perCategory[q.Category]++
	}
	for _, cat := range models.Categories {
		if perCategory[cat] != DefaultQuestionsPerCategory {
			return fmt.Errorf("%w: category '%s' has %d questions, want %d", ErrContractViolation, cat, perCategory[cat], DefaultQuestionsPerCategory)
		}
	}

	for i, a := range answers {
		if a < models.MinAnswerValue || a > models.MaxAnswerValue {
			return fmt.Errorf("%w: answer %d is %d, want %d..%d", ErrContractViolation, i, a, models.MinAnswerValue, models.MaxAnswerValue)
		}
	}
	return nil
}

// Score reduces answers to a total and per-category subtotals in a single
// pass. answers[i] belongs to questions[i]; a length mismatch is a caller bug
// and panics.
func Score(answers []int, questions []models.Question) models.ScoreResult {
	if len(answers) != len(questions) {
		panic(fmt.Sprintf("services.Score: %d answers for %d questions", len(answers), len(questions)))
	}

	var result models.ScoreResult
	for i, answer := range answers {
		result.Total += answer
		result.CategoricalScores.Add(questions[i].Category, answer)
	}
	result.Level = OverallLevel(result.Total)
	return result
}

// ClassifyLevel maps score onto four bands of max: up to 25% Low, up to 50%
// Mild, up to 75% Moderate, above that High. Upper bounds are inclusive.
func ClassifyLevel(score, max int) models.StressLevel {
	if max <= 0 {
		return models.LevelLow
	}
	// score/max <= k/4  <=>  4*score <= k*max, kept in integers.
	switch {
	case 4*score <= max:
		return models.LevelLow
	case 4*score <= 2*max:
		return models.LevelMild
	case 4*score <= 3*max:
		return models.LevelModerate
	default:
		return models.LevelHigh
	}
}

// OverallLevel is the persisted level for a total score. It classifies
// against OverallLevelScale, not TotalMaxScore, so a complete assessment
// (total 0..60) only ever lands in Low (0..30) or Mild (31..60). Moderate
// and High are reachable per category through CategoryLevel.
func OverallLevel(total int) models.StressLevel {
	return ClassifyLevel(total, OverallLevelScale)
}

// CategoryLevel is the tier of one category subtotal.
func CategoryLevel(subtotal int) models.StressLevel {
	return ClassifyLevel(subtotal, CategoryMaxScore)
}

// CategoryLevels returns the tier of every category subtotal.
func CategoryLevels(scores models.CategoryScores) map[models.Category]models.StressLevel {
	levels := make(map[models.Category]models.StressLevel, len(models.Categories))
	for _, cat := range models.Categories {
		levels[cat] = CategoryLevel(scores.Get(cat))
	}
	return levels
}
