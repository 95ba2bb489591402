package engine

import (
	"rcm-planner/models"
	"time"

	"github.com/google/uuid"
)

// GenerateReport computes every period in order, 0 through the last
// onboarding month, under a fresh run envelope. Nothing is memoized; two
// reports from the same engine differ only in RunID and GeneratedAt.
func (e *Engine) GenerateReport() (*models.Report, error) {
	maxPeriod := e.params.MaxPeriod()
	e.log.Info().Int("periods", maxPeriod+1).Msg("generating report")

	months := make([]models.MonthMetrics, 0, maxPeriod+1)
	for period := 0; period <= maxPeriod; period++ {
		m, err := e.ComputeMonth(period)
		if err != nil {
			return nil, err
		}
		months = append(months, *m)
	}

	return &models.Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Months:      months,
	}, nil
}
