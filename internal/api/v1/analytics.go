package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/hanbit-dev/weekplan/internal/domain"
)

type GetAnalyticsInput struct {
	StartDate time.Time `query:"startDate" doc:"Range start (defaults to seven days before the range end)"`
	EndDate   time.Time `query:"endDate" doc:"Range end (defaults to now)"`
}

type GetAnalyticsOutput struct {
	Body struct {
		Analytics *domain.AnalyticsSummary `json:"analytics"`
		DateRange struct {
			StartDate time.Time `json:"start_date"`
			EndDate   time.Time `json:"end_date"`
		} `json:"date_range"`
		Predictions []domain.Prediction `json:"predictions"`
	}
}

func RegisterAnalyticsRoutes(api huma.API, reader AnalyticsReader) {
	huma.Register(api, huma.Operation{
		OperationID: "get-analytics",
		Method:      http.MethodGet,
		Path:        "/analytics",
		Summary:     "Aggregate task analytics and daily-load predictions over a date range",
		Tags:        []string{"Analytics"},
	}, func(ctx context.Context, input *GetAnalyticsInput) (*GetAnalyticsOutput, error) {
		end := input.EndDate
		if end.IsZero() {
			end = time.Now()
		}
		start := input.StartDate
		if start.IsZero() {
			start = end.AddDate(0, 0, -7)
		}
		if start.After(end) {
			return nil, huma.Error400BadRequest("startDate must not be after endDate")
		}

		summary, err := reader.Summary(ctx, start, end)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to aggregate analytics", err)
		}

		daily, err := reader.DailyCounts(ctx, start, end)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to load daily counts", err)
		}

		out := &GetAnalyticsOutput{}
		out.Body.Analytics = summary
		out.Body.DateRange.StartDate = start
		out.Body.DateRange.EndDate = end
		out.Body.Predictions = domain.PredictDailyLoad(daily, domain.PredictionWindow)
		return out, nil
	})
}
