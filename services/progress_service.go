package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/kaushalkumar0001/StressLess/models"
	"github.com/kaushalkumar0001/StressLess/repository"
)

const (
	PeriodLast7Days  = "last_7_days"
	PeriodLast30Days = "last_30_days"
	PeriodAll        = "all"
	dateFormat       = "2006-01-02"
)

// ProgressService defines the interface for generating stress trend reports.
type ProgressService interface {
	GenerateProgressReport(ctx context.Context, userID string, periodType string, referenceDateStr string) (*models.StressTrendReport, error)
}

type progressService struct {
	results repository.ResultRepository
	now     func() time.Time
}

// NewProgressService creates a new instance of ProgressService.
func NewProgressService(results repository.ResultRepository) ProgressService {
	return &progressService{
		results: results,
		now:     time.Now,
	}
}

// GenerateProgressReport summarizes the user's results taken in the period
// ending on referenceDateStr (YYYY-MM-DD, default today).
func (s *progressService) GenerateProgressReport(ctx context.Context, userID string, periodType string, referenceDateStr string) (*models.StressTrendReport, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty")
	}
	if s.results == nil {
		log.Printf("ERROR: [ProgressService] ResultRepository is not initialized for userID: %s", userID)
		return nil, errors.New("internal server error: result repository not available")
	}

	// 1. Determine Date Range
	endDate := s.now()
	if referenceDateStr != "" {
		parsedDate, err := time.ParseInLocation(dateFormat, referenceDateStr, endDate.Location())
		if err != nil {
			log.Printf("WARN: [ProgressService] Invalid referenceDateStr '%s' for userID %s: %v. Defaulting to now.", referenceDateStr, userID, err)
		} else {
			endDate = parsedDate
		}
	}
	// End of day so results taken on the reference date are included.
	endDate = time.Date(endDate.Year(), endDate.Month(), endDate.Day(), 23, 59, 59, 0, endDate.Location())

	var since *time.Time
	switch periodType {
	case PeriodLast7Days:
		start := endDate.AddDate(0, 0, -6)
		since = &start
	case PeriodLast30Days:
		start := endDate.AddDate(0, 0, -29)
		since = &start
	case PeriodAll:
	default:
		log.Printf("WARN: [ProgressService] Unsupported periodType '%s' for userID %s. Defaulting to %s.", periodType, userID, PeriodLast7Days)
		periodType = PeriodLast7Days
		start := endDate.AddDate(0, 0, -6)
		since = &start
	}

	reportPeriod := models.ReportPeriod{
		EndDate:    endDate.Format(dateFormat),
		PeriodType: periodType,
	}
	if since != nil {
		start := time.Date(since.Year(), since.Month(), since.Day(), 0, 0, 0, 0, since.Location())
		since = &start
		reportPeriod.StartDate = start.Format(dateFormat)
	}
	log.Printf("INFO: [ProgressService] Generating report for userID %s, period: %s to %s (%s)", userID, reportPeriod.StartDate, reportPeriod.EndDate, periodType)

	// 2. Fetch Data (newest first)
	fetched, err := s.results.GetResultsByUserID(ctx, userID, since)
	if err != nil {
		log.Printf("ERROR: [ProgressService] Failed to get results for userID %s: %v", userID, err)
		return nil, fmt.Errorf("failed to retrieve results: %w", err)
	}
	var results []*models.TestResult
	for _, r := range fetched {
		if !r.Timestamp.After(endDate) {
			results = append(results, r)
		}
	}

	report := &models.StressTrendReport{
		UserID:           userID,
		ReportPeriod:     reportPeriod,
		AssessmentsTaken: len(results),
		Direction:        models.TrendInsufficient,
		Categories:       make([]models.CategoryTrend, 0, len(models.Categories)),
		GeneratedAt:      s.now().UTC(),
	}
	if len(results) == 0 {
		log.Printf("INFO: [ProgressService] No results for userID %s in period %s.", userID, periodType)
		return report, nil
	}

	// 3. Aggregate
	var totalSum int
	var categorySums models.CategoryScores
	for _, r := range results {
		totalSum += r.Score
		scores := r.CategoricalScores.Data()
		for _, cat := range models.Categories {
			categorySums.Add(cat, scores.Get(cat))
		}
	}
	n := float64(len(results))
	report.AverageScore = float64(totalSum) / n

	latest, earliest := results[0], results[len(results)-1]
	latestScore := latest.Score
	report.LatestScore = &latestScore
	report.LatestLevel = latest.Level

	latestCategories := latest.CategoricalScores.Data()
	for _, cat := range models.Categories {
		sub := latestCategories.Get(cat)
		report.Categories = append(report.Categories, models.CategoryTrend{
			Category:     cat,
			AverageScore: float64(categorySums.Get(cat)) / n,
			LatestScore:  sub,
			LatestLevel:  CategoryLevel(sub),
		})
	}
	report.HighestStressArea = RankCategories(latestCategories)[0].Category
	report.Direction = trendDirection(earliest.Score, latest.Score, len(results))

	log.Printf("INFO: [ProgressService] Successfully generated progress report for userID %s for period %s to %s (%d assessments, %s).", userID, reportPeriod.StartDate, reportPeriod.EndDate, len(results), report.Direction)
	return report, nil
}

// trendDirection compares the first and last total of the period. Lower stress is improvement.
func trendDirection(earliest, latest, count int) models.TrendDirection {
	switch {
	case count < 2:
		return models.TrendInsufficient
	case latest < earliest:
		return models.TrendImproving
	case latest > earliest:
		return models.TrendWorsening
	default:
		return models.TrendSteady
	}
}
