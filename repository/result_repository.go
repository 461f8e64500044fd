package repository

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kaushalkumar0001/StressLess/models"

	"gorm.io/gorm"
)

// ErrResultNotFound is returned by WriteAnalysis when no result has the given ID.
var ErrResultNotFound = errors.New("test result not found")

// ResultRepository persists scored assessments and their cached AI analysis.
type ResultRepository interface {
	CreateResult(ctx context.Context, result *models.TestResult) error
	GetResultByID(ctx context.Context, id string) (*models.TestResult, error)
	GetResultsByUserID(ctx context.Context, userID string, since *time.Time) ([]*models.TestResult, error)
	ReadAnalysis(ctx context.Context, resultID string) (*string, error)
	WriteAnalysis(ctx context.Context, resultID string, text string) error
}

type resultRepository struct {
	db *gorm.DB
}

// NewResultRepository creates a new instance of ResultRepository.
func NewResultRepository(db *gorm.DB) ResultRepository {
	return &resultRepository{db: db}
}

// CreateResult inserts a new result; the ID is assigned on insert.
func (r *resultRepository) CreateResult(ctx context.Context, result *models.TestResult) error {
	if result == nil {
		log.Printf("ERROR: [ResultRepository] CreateResult: result cannot be nil")
		return errors.New("result cannot be nil")
	}
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		log.Printf("ERROR: [ResultRepository] Failed to create result for userID %s: %v", result.UserID, err)
		return fmt.Errorf("failed to create result for userID %s: %w", result.UserID, err)
	}
	log.Printf("INFO: [ResultRepository] Created result ID %s for userID %s (score %d, level %s).", result.ID, result.UserID, result.Score, result.Level)
	return nil
}

// GetResultByID returns (nil, nil) when the result does not exist.
func (r *resultRepository) GetResultByID(ctx context.Context, id string) (*models.TestResult, error) {
	var result models.TestResult
	err := r.db.WithContext(ctx).First(&result, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("INFO: [ResultRepository] Result with ID %s not found.", id)
			return nil, nil
		}
		log.Printf("ERROR: [ResultRepository] Failed to retrieve result ID %s: %v", id, err)
		return nil, fmt.Errorf("failed to retrieve result ID %s: %w", id, err)
	}
	return &result, nil
}

// GetResultsByUserID lists a user's results newest first, optionally only those taken at or after since.
func (r *resultRepository) GetResultsByUserID(ctx context.Context, userID string, since *time.Time) ([]*models.TestResult, error) {
	var results []*models.TestResult
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if since != nil {
		query = query.Where("timestamp >= ?", *since)
	}
	if err := query.Order("timestamp desc").Find(&results).Error; err != nil {
		log.Printf("ERROR: [ResultRepository] Failed to retrieve results for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve results for userID %s: %w", userID, err)
	}
	log.Printf("INFO: [ResultRepository] Retrieved %d results for userID %s.", len(results), userID)
	return results, nil
}

// ReadAnalysis returns the cached narrative, or nil when none is stored or the result is unknown.
func (r *resultRepository) ReadAnalysis(ctx context.Context, resultID string) (*string, error) {
	var row struct {
		AIAnalysis *string
	}
	err := r.db.WithContext(ctx).Model(&models.TestResult{}).
		Select("ai_analysis").
		Where("id = ?", resultID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read analysis for result %s: %w", resultID, err)
	}
	if row.AIAnalysis != nil && *row.AIAnalysis == "" {
		return nil, nil
	}
	return row.AIAnalysis, nil
}

// WriteAnalysis stores text as the result's narrative, overwriting any previous one.
func (r *resultRepository) WriteAnalysis(ctx context.Context, resultID string, text string) error {
	tx := r.db.WithContext(ctx).Model(&models.TestResult{}).
		Where("id = ?", resultID).
		Update("ai_analysis", text)
	if tx.Error != nil {
		return fmt.Errorf("failed to write analysis for result %s: %w", resultID, tx.Error)
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("write analysis for result %s: %w", resultID, ErrResultNotFound)
	}
	log.Printf("INFO: [ResultRepository] Stored analysis for result ID %s (%d chars).", resultID, len(text))
	return nil
}
