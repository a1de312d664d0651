package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// PredictionWindow is the trailing moving-average window, in days.
const PredictionWindow = 7

// InterruptedTask ranks one task by how often it was interrupted.
type InterruptedTask struct {
	TaskID        uuid.UUID `json:"task_id"`
	Title         string    `json:"title"`
	Interruptions int       `json:"interruptions"`
}

// AnalyticsSummary aggregates task outcomes over a date range. Rates and
// averages are 0, never NaN, when the range holds no matching tasks.
type AnalyticsSummary struct {
	TotalTasks         int               `json:"total_tasks"`
	CompletedTasks     int               `json:"completed_tasks"`
	CompletionRate     float64           `json:"completion_rate"`
	AverageDuration    float64           `json:"average_duration"`
	TotalInterruptions int               `json:"total_interruptions"`
	MostInterrupted    []InterruptedTask `json:"most_interrupted_tasks"`
}

// DailyCount is the number of tasks starting on one day.
type DailyCount struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Prediction is the naive forecast for one day.
type Prediction struct {
	Date      time.Time `json:"date"`
	Predicted float64   `json:"predicted"`
}

// PredictDailyLoad computes a trailing simple moving average over the
// date-ordered series. The window includes the current point, so the first
// prediction appears at index window-1; earlier points are omitted. No trend
// or seasonality correction is applied.
func PredictDailyLoad(series []DailyCount, window int) []Prediction {
	if window <= 0 || len(series) < window {
		return nil
	}

	predictions := make([]Prediction, 0, len(series)-window+1)
	sum := 0
	for i, point := range series {
		sum += point.Count
		if i < window-1 {
			continue
		}
		if i >= window {
			sum -= series[i-window].Count
		}
		predictions = append(predictions, Prediction{
			Date:      point.Date,
			Predicted: float64(sum) / float64(window),
		})
	}

	return predictions
}

// CompletionRate returns completed over total as a percentage. A zero total
// yields 0, never NaN.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

type AnalyticsRepository interface {
	// Summary aggregates over tasks whose StartDate falls in [start, end].
	Summary(ctx context.Context, start, end time.Time) (*AnalyticsSummary, error)
	// DailyCounts groups tasks starting in [start, end] by day, ordered by
	// date ascending.
	DailyCounts(ctx context.Context, start, end time.Time) ([]DailyCount, error)
}
