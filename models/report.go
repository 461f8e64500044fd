package models

import "time"

// ReportPeriod defines the time range for the trend report.
type ReportPeriod struct {
	StartDate  string `json:"start_date,omitempty"` // YYYY-MM-DD, empty for "all"
	EndDate    string `json:"end_date"`             // YYYY-MM-DD
	PeriodType string `json:"period_type"`          // "last_7_days", "last_30_days" or "all"
}

// TrendDirection compares the latest result in a period with the earliest one.
type TrendDirection string

const (
	TrendImproving    TrendDirection = "improving"
	TrendWorsening    TrendDirection = "worsening"
	TrendSteady       TrendDirection = "steady"
	TrendInsufficient TrendDirection = "insufficient_data"
)

// CategoryTrend summarizes one category across the period.
type CategoryTrend struct {
	Category     Category    `json:"category"`
	AverageScore float64     `json:"average_score"`
	LatestScore  int         `json:"latest_score"`
	LatestLevel  StressLevel `json:"latest_level"`
}

// StressTrendReport is the response of the progress endpoint.
type StressTrendReport struct {
	UserID            string          `json:"user_id"`
	ReportPeriod      ReportPeriod    `json:"report_period"`
	AssessmentsTaken  int             `json:"assessments_taken"`
	AverageScore      float64         `json:"average_score"`
	LatestScore       *int            `json:"latest_score,omitempty"`
	LatestLevel       StressLevel     `json:"latest_level,omitempty"`
	Direction         TrendDirection  `json:"direction"`
	Categories        []CategoryTrend `json:"categories"`
	HighestStressArea Category        `json:"highest_stress_area,omitempty"`
	GeneratedAt       time.Time       `json:"generated_at"`
}
