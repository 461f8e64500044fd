package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TestResult is a persisted, scored assessment. AIAnalysis is nil until the
// wellness narrative for this result has been generated.
type TestResult struct {
	ID                string                             `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID            string                             `gorm:"index;not null" json:"userId"`
	Score             int                                `gorm:"not null" json:"score"`
	CategoricalScores datatypes.JSONType[CategoryScores] `json:"categoricalScores"`
	Level             StressLevel                        `gorm:"type:varchar(20);not null" json:"level"`
	AIAnalysis        *string                            `gorm:"type:text" json:"aiAnalysis"`
	Timestamp         time.Time                          `gorm:"index;autoCreateTime" json:"timestamp"`
}

// TableName specifies the table name for the TestResult model.
func (TestResult) TableName() string {
	return "test_results"
}

// BeforeCreate assigns a UUID when the caller did not set one.
func (r *TestResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// NewTestResult builds an unsaved record for a score.
func NewTestResult(userID string, score ScoreResult) *TestResult {
	return &TestResult{
		UserID:            userID,
		Score:             score.Total,
		CategoricalScores: datatypes.NewJSONType(score.CategoricalScores),
		Level:             score.Level,
	}
}

// ScoreResult projects the persisted record back onto the scoring type.
func (r *TestResult) ScoreResult() ScoreResult {
	return ScoreResult{
		Total:             r.Score,
		CategoricalScores: r.CategoricalScores.Data(),
		Level:             r.Level,
	}
}

// HasAnalysis reports whether a narrative is cached on this result.
func (r *TestResult) HasAnalysis() bool {
	return r.AIAnalysis != nil && *r.AIAnalysis != ""
}
