package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kaushalkumar0001/StressLess/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func resultAt(ts time.Time, medical, financial, relationship int) *models.TestResult {
	scores := models.CategoryScores{Medical: medical, Financial: financial, Relationship: relationship}
	total := scores.Sum()
	return &models.TestResult{
		ID:                ts.Format(time.RFC3339),
		UserID:            "user-1",
		Score:             total,
		CategoricalScores: datatypes.NewJSONType(scores),
		Level:             OverallLevel(total),
		Timestamp:         ts,
	}
}

func fixedProgressService(repo *MockResultRepository, now time.Time) *progressService {
	return &progressService{results: repo, now: func() time.Time { return now }}
}

func TestProgressService_Last7Days(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := new(MockResultRepository)
	// Newest first, as the repository returns them.
	fetched := []*models.TestResult{
		resultAt(now.Add(-1*time.Hour), 4, 4, 4),
		resultAt(now.AddDate(0, 0, -3), 10, 6, 2),
		resultAt(now.AddDate(0, 0, -6), 16, 10, 4),
	}
	repo.On("GetResultsByUserID", mock.Anything, "user-1", mock.MatchedBy(func(since *time.Time) bool {
		return since != nil && since.Equal(time.Date(2024, 6, 9, 0, 0, 0, 0, time.UTC))
	})).Return(fetched, nil).Once()

	report, err := fixedProgressService(repo, now).GenerateProgressReport(context.Background(), "user-1", PeriodLast7Days, "")

	require.NoError(t, err)
	assert.Equal(t, "2024-06-09", report.ReportPeriod.StartDate)
	assert.Equal(t, "2024-06-15", report.ReportPeriod.EndDate)
	assert.Equal(t, 3, report.AssessmentsTaken)
	assert.InDelta(t, (12.0+18.0+30.0)/3, report.AverageScore, 0.001)
	require.NotNil(t, report.LatestScore)
	assert.Equal(t, 12, *report.LatestScore)
	assert.Equal(t, models.TrendImproving, report.Direction)

	require.Len(t, report.Categories, 3)
	medical := report.Categories[0]
	assert.Equal(t, models.CategoryMedical, medical.Category)
	assert.InDelta(t, 10.0, medical.AverageScore, 0.001)
	assert.Equal(t, 4, medical.LatestScore)
	assert.Equal(t, models.LevelLow, medical.LatestLevel)
	assert.Equal(t, models.CategoryMedical, report.HighestStressArea, "ties keep declaration order")
	repo.AssertExpectations(t)
}

func TestProgressService_ReferenceDateExcludesLaterResults(t *testing.T) {
	now := time.Date(2024, 6, 30, 12, 0, 0, 0, time.UTC)
	repo := new(MockResultRepository)
	fetched := []*models.TestResult{
		resultAt(time.Date(2024, 6, 20, 8, 0, 0, 0, time.UTC), 20, 20, 20),
		resultAt(time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC), 2, 15, 3),
		resultAt(time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC), 2, 5, 3),
	}
	repo.On("GetResultsByUserID", mock.Anything, "user-1", mock.MatchedBy(func(since *time.Time) bool {
		return since != nil && since.Equal(time.Date(2024, 5, 12, 0, 0, 0, 0, time.UTC))
	})).Return(fetched, nil).Once()

	report, err := fixedProgressService(repo, now).GenerateProgressReport(context.Background(), "user-1", PeriodLast30Days, "2024-06-10")

	require.NoError(t, err)
	assert.Equal(t, 2, report.AssessmentsTaken)
	assert.Equal(t, 20, *report.LatestScore)
	assert.Equal(t, models.TrendWorsening, report.Direction)
	assert.Equal(t, models.CategoryFinancial, report.HighestStressArea)
}

func TestProgressService_AllTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := new(MockResultRepository)
	repo.On("GetResultsByUserID", mock.Anything, "user-1", (*time.Time)(nil)).Return([]*models.TestResult{
		resultAt(now.AddDate(0, -2, 0), 5, 5, 5),
		resultAt(now.AddDate(-1, 0, 0), 5, 5, 5),
	}, nil).Once()

	report, err := fixedProgressService(repo, now).GenerateProgressReport(context.Background(), "user-1", PeriodAll, "")

	require.NoError(t, err)
	assert.Empty(t, report.ReportPeriod.StartDate)
	assert.Equal(t, models.TrendSteady, report.Direction)
}

func TestProgressService_NoResults(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	repo := new(MockResultRepository)
	repo.On("GetResultsByUserID", mock.Anything, "user-1", mock.Anything).Return([]*models.TestResult{}, nil).Once()

	report, err := fixedProgressService(repo, now).GenerateProgressReport(context.Background(), "user-1", "fortnight", "not-a-date")

	require.NoError(t, err)
	assert.Equal(t, PeriodLast7Days, report.ReportPeriod.PeriodType, "unknown periods fall back to a week")
	assert.Equal(t, 0, report.AssessmentsTaken)
	assert.Nil(t, report.LatestScore)
	assert.Equal(t, models.TrendInsufficient, report.Direction)
	assert.Empty(t, report.Categories)
}

func TestProgressService_Errors(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("GetResultsByUserID", mock.Anything, "user-1", mock.Anything).Return(nil, errors.New("db down")).Once()
	svc := NewProgressService(repo)

	_, err := svc.GenerateProgressReport(context.Background(), "user-1", PeriodAll, "")
	assert.Error(t, err)

	_, err = svc.GenerateProgressReport(context.Background(), "", PeriodAll, "")
	assert.Error(t, err)
}

func TestTrendDirection(t *testing.T) {
	assert.Equal(t, models.TrendInsufficient, trendDirection(10, 10, 1))
	assert.Equal(t, models.TrendImproving, trendDirection(40, 20, 2))
	assert.Equal(t, models.TrendWorsening, trendDirection(20, 40, 5))
	assert.Equal(t, models.TrendSteady, trendDirection(25, 25, 3))
}
