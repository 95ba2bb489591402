package metrics_test

import (
	"testing"

	"rcm-planner/config"
	"rcm-planner/engine"
	"rcm-planner/metrics"
	"rcm-planner/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetReportGauges(t *testing.T) {
	eng, err := engine.New(config.Default())
	assert.NoError(t, err)
	report, err := eng.GenerateReport()
	assert.NoError(t, err)

	metrics.SetReportGauges(report)

	// Last-month snapshot.
	assert.Equal(t, 100.0, testutil.ToFloat64(metrics.ActiveAccounts))
	assert.Equal(t, 281.0, testutil.ToFloat64(metrics.AnalystsTotal))
	assert.Equal(t, 24.0, testutil.ToFloat64(metrics.ManagersTotal))
	assert.Equal(t, 35.0, testutil.ToFloat64(metrics.ImplementationStaffTotal))
	assert.InDelta(t, 69.57, testutil.ToFloat64(metrics.GrossMarginPercent), 0.01)

	// Plan-wide aggregates: no breaches, peak is month 3's raw submission
	// utilization.
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.SLABreachesTotal))
	assert.InDelta(t, 82.47, testutil.ToFloat64(metrics.PeakRawUtilizationPercent), 0.01)
}

func TestSetReportGaugesCountsBreaches(t *testing.T) {
	report := &models.Report{
		Months: []models.MonthMetrics{
			{Period: 0, SubmissionSLAMet: true, DenialSLAMet: true},
			{Period: 1, SubmissionSLAMet: false, DenialSLAMet: false, RawSubmissionUtilization: 140},
			{Period: 2, SubmissionSLAMet: true, DenialSLAMet: false, RawDenialUtilization: 110},
		},
	}

	metrics.SetReportGauges(report)
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.SLABreachesTotal))
	assert.Equal(t, 140.0, testutil.ToFloat64(metrics.PeakRawUtilizationPercent))
}

func TestSetReportGaugesEmptyReport(t *testing.T) {
	metrics.SetReportGauges(&models.Report{Months: []models.MonthMetrics{
		{Period: 0, ActiveAccounts: 5},
	}})
	metrics.SetReportGauges(&models.Report{})

	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.ActiveAccounts))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.SLABreachesTotal))
}
