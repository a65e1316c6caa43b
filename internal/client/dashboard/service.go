// Package dashboard fetches the data behind the dashboard views. It makes no
// navigation decisions: fetch errors are returned to the caller, and
// credential rejections are already handled by the transport.
package dashboard

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/creditmonitor/internal/client/client"
	"github.com/dmitrijs2005/creditmonitor/internal/client/models"
	"github.com/dmitrijs2005/creditmonitor/internal/logging"
)

// Fetcher is the part of the API client the dashboard needs.
type Fetcher interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

var _ Fetcher = (client.Client)(nil)

type Service struct {
	api    Fetcher
	logger logging.Logger
}

func NewService(api Fetcher, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{api: api, logger: logger.With("component", "dashboard")}
}

// Credits returns this year's credit counts as a full country by status
// matrix.
func (s *Service) Credits(ctx context.Context) (models.CreditMatrix, error) {
	var rows []models.CreditCount
	if err := s.api.GetJSON(ctx, "/credits", nil, &rows); err != nil {
		s.logger.Warn(ctx, "credits fetch failed", "error", err)
		return nil, fmt.Errorf("fetch credits: %w", err)
	}
	return models.NewCreditMatrix(rows), nil
}

// Chart fetches one contract chart. The query date is normalised to the
// start of its window; weekly charts get weekday category labels.
func (s *Service) Chart(ctx context.Context, kind models.ChartKind, q models.ChartQuery) (models.ChartData, error) {
	if _, err := models.ParseChartKind(string(kind)); err != nil {
		return models.ChartData{}, err
	}
	q, err := q.Validate()
	if err != nil {
		return models.ChartData{}, err
	}

	var data models.ChartData
	if err := s.api.GetJSON(ctx, "/contract/"+string(kind), ChartParams(q), &data); err != nil {
		s.logger.Warn(ctx, "chart fetch failed", "chart", kind, "error", err)
		return models.ChartData{}, fmt.Errorf("fetch %s chart: %w", kind, err)
	}

	if q.Unit == models.UnitWeek {
		data.WeekdayLabels()
	}
	return data, nil
}

// ChartParams encodes q as the query string of /api/contract/<kind>.
func ChartParams(q models.ChartQuery) url.Values {
	v := url.Values{}
	v.Set("unit", string(q.Unit))
	v.Set("date", q.PeriodStart().Format(models.DateLayout))
	if q.Country != "" {
		v.Set("country", string(q.Country))
	}
	if q.Integration != "" {
		v.Set("integration", q.Integration)
	}
	v.Set("client", string(q.Client))
	return v
}
