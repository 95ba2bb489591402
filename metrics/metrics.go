// Package metrics provides Prometheus observability metrics for the
// capacity planner. It includes Critical and Important metrics for business
// and operational visibility.
package metrics

import (
	"rcm-planner/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// CRITICAL METRICS - Business Impact Visibility
// =============================================================================

// ActiveAccounts tracks accounts live in the final plan month.
var ActiveAccounts = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "active_accounts",
	Help:      "Provider accounts live in the final month of the plan",
})

// AnalystsTotal tracks the analyst headcount in the final plan month.
var AnalystsTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "analysts_total",
	Help:      "Claims analysts required in the final month of the plan",
})

// ManagersTotal tracks the manager headcount in the final plan month.
var ManagersTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "managers_total",
	Help:      "Managers required in the final month of the plan",
})

// ImplementationStaffTotal tracks the implementation headcount in the final plan month.
var ImplementationStaffTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "implementation_staff_total",
	Help:      "Implementation staff (trainers, QA, onboarding) in the final month",
})

// MonthlyRevenueDollars tracks revenue in the final plan month.
var MonthlyRevenueDollars = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "monthly_revenue_dollars",
	Help:      "Revenue in the final month of the plan, in dollars",
})

// GrossMarginPercent tracks the margin in the final plan month.
var GrossMarginPercent = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "gross_margin_percent",
	Help:      "Gross margin percentage in the final month of the plan",
})

// SLABreachesTotal counts months whose streams miss their SLA.
// Non-zero values indicate the plan is understaffed somewhere.
var SLABreachesTotal = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "sla_breaches_total",
	Help:      "Stream-months across the plan that miss their SLA target",
})

// PeakRawUtilizationPercent tracks the hottest stream across the plan.
var PeakRawUtilizationPercent = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "planner",
	Name:      "peak_raw_utilization_percent",
	Help:      "Highest uncapped stream utilization across all plan months",
})

// =============================================================================
// IMPORTANT METRICS - Operational Health
// =============================================================================

// ReportDurationSeconds tracks time to generate a full report.
var ReportDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "engine",
	Name:      "report_duration_seconds",
	Help:      "Time taken to compute the full monthly report",
	Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
})

// OptimizerDurationSeconds tracks time per staffing search.
var OptimizerDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "optimizer",
	Name:      "search_duration_seconds",
	Help:      "Time taken by a staffing mix search",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
})

// OptimizerIterations tracks engine evaluations per staffing search.
var OptimizerIterations = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "optimizer",
	Name:      "search_iterations",
	Help:      "Engine evaluations performed per staffing mix search",
	Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
})

// =============================================================================
// Helper Functions
// =============================================================================

// SetReportGauges publishes the final month of a report plus plan-wide
// aggregates. Call this after GenerateReport.
func SetReportGauges(report *models.Report) {
	ResetPlanGauges()
	if len(report.Months) == 0 {
		return
	}

	last := report.Months[len(report.Months)-1]
	ActiveAccounts.Set(float64(last.ActiveAccounts))
	AnalystsTotal.Set(float64(last.Staffing.Analysts))
	ManagersTotal.Set(float64(last.Staffing.Managers))
	ImplementationStaffTotal.Set(float64(last.Staffing.Implementation.Total))
	MonthlyRevenueDollars.Set(last.Revenue.InexactFloat64())
	GrossMarginPercent.Set(last.GrossMarginPct)

	breaches := 0
	peak := 0.0
	for _, m := range report.Months {
		if !m.SubmissionSLAMet {
			breaches++
		}
		if !m.DenialSLAMet {
			breaches++
		}
		if m.RawSubmissionUtilization > peak {
			peak = m.RawSubmissionUtilization
		}
		if m.RawDenialUtilization > peak {
			peak = m.RawDenialUtilization
		}
	}
	SLABreachesTotal.Set(float64(breaches))
	PeakRawUtilizationPercent.Set(peak)
}

// ResetPlanGauges resets all plan gauges before a new run.
func ResetPlanGauges() {
	ActiveAccounts.Set(0)
	AnalystsTotal.Set(0)
	ManagersTotal.Set(0)
	ImplementationStaffTotal.Set(0)
	MonthlyRevenueDollars.Set(0)
	GrossMarginPercent.Set(0)
	SLABreachesTotal.Set(0)
	PeakRawUtilizationPercent.Set(0)
}
