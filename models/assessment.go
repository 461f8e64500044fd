package models

// Category is a stress domain attached to each question and subtotal.
type Category string

const (
	CategoryMedical      Category = "medical"
	CategoryFinancial    Category = "financial"
	CategoryRelationship Category = "relationship"
)

// Categories lists the categories in pool-declaration order. Selection,
// ranking tie-breaks and prompt layout all follow this order.
var Categories = []Category{CategoryMedical, CategoryFinancial, CategoryRelationship}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryMedical, CategoryFinancial, CategoryRelationship:
		return true
	}
	return false
}

// DisplayName is the label used in prompts and reports.
func (c Category) DisplayName() string {
	switch c {
	case CategoryMedical:
		return "Medical/Health"
	case CategoryFinancial:
		return "Financial"
	case CategoryRelationship:
		return "Relationship"
	}
	return string(c)
}

// Answer scale bounds. Every answer is an integer severity on a five-point
// scale from "Never" (0) to "Always" (4).
const (
	MinAnswerValue = 0
	MaxAnswerValue = 4
)

// Question is a single served question, tagged with its category.
type Question struct {
	Text     string   `json:"text" binding:"required"`
	Category Category `json:"category" binding:"required"`
}

// QuestionPool maps each category to its fixed, ordered list of question texts.
type QuestionPool map[Category][]string

// QuestionHistory maps each category to the question texts already served
// to one user session.
type QuestionHistory map[Category][]string

// Clone returns a deep copy so callers can hand out history without sharing slices.
func (h QuestionHistory) Clone() QuestionHistory {
	out := make(QuestionHistory, len(h))
	for cat, texts := range h {
		out[cat] = append([]string(nil), texts...)
	}
	return out
}

// StressLevel is the discrete severity tier derived from a score.
type StressLevel string

const (
	LevelLow      StressLevel = "Low"
	LevelMild     StressLevel = "Mild"
	LevelModerate StressLevel = "Moderate"
	LevelHigh     StressLevel = "High"
)

// CategoryScores holds the three per-category subtotals.
type CategoryScores struct {
	Medical      int `json:"medical"`
	Financial    int `json:"financial"`
	Relationship int `json:"relationship"`
}

// Get returns the subtotal for a category.
func (s CategoryScores) Get(c Category) int {
	switch c {
	case CategoryMedical:
		return s.Medical
	case CategoryFinancial:
		return s.Financial
	case CategoryRelationship:
		return s.Relationship
	}
	return 0
}

// Add adds v to the subtotal of category c.
func (s *CategoryScores) Add(c Category, v int) {
	switch c {
	case CategoryMedical:
		s.Medical += v
	case CategoryFinancial:
		s.Financial += v
	case CategoryRelationship:
		s.Relationship += v
	}
}

// Sum is the total across categories.
func (s CategoryScores) Sum() int {
	return s.Medical + s.Financial + s.Relationship
}

// ScoreResult is the outcome of scoring one completed assessment.
type ScoreResult struct {
	Total             int            `json:"score"`
	CategoricalScores CategoryScores `json:"categoricalScores"`
	Level             StressLevel    `json:"level"`
}
