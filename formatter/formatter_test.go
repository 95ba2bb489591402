package formatter_test

import (
	"strings"
	"testing"

	"rcm-planner/config"
	"rcm-planner/engine"
	"rcm-planner/formatter"
	"rcm-planner/models"
	"rcm-planner/optimizer"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func defaultReport(t *testing.T) *models.Report {
	t.Helper()
	eng, err := engine.New(config.Default())
	if err != nil {
		t.Fatalf("engine.New() unexpected error = %v", err)
	}
	report, err := eng.GenerateReport()
	if err != nil {
		t.Fatalf("GenerateReport() unexpected error = %v", err)
	}
	return report
}

func TestFormatText(t *testing.T) {
	report := defaultReport(t)
	output := formatter.FormatText(report)

	contains := []string{
		"Capacity plan " + report.RunID,
		"Generated ",
		"Month 0 : pre-launch ; hiring team=$12800.00 ; overhead=$9500.00 (incl. office setup)",
		"Month 1 : accounts=10",
		"Month 3 : accounts=100 ; claims=83333.3 ; analysts=281 (sub=197/den=85) ; managers=24 ; impl=35",
		"labor=$168802.50 ; overhead=$59400.00 ; revenue=$750000.00",
		"util[sub=82.5% den=28.7%] ; sla[sub=OK den=OK]",
		"At full rollout : accounts=100 ; staff=340 ; revenue=$750000.00/month ; margin=69.6%",
	}
	for _, want := range contains {
		assert.Contains(t, output, want)
	}

	// The staffed plan clears both SLAs, so no warnings surface.
	assert.NotContains(t, output, "SLA WARNING")
}

func TestFormatTextSLAWarnings(t *testing.T) {
	report := &models.Report{
		RunID: "test-run",
		Months: []models.MonthMetrics{
			{
				Period:                   1,
				SubmissionSLAMet:         false,
				DenialSLAMet:             true,
				RawSubmissionUtilization: 123.4,
			},
			{
				Period:               1,
				SubmissionSLAMet:     true,
				DenialSLAMet:         false,
				RawDenialUtilization: 150.0,
			},
		},
	}

	output := formatter.FormatText(report)
	assert.Contains(t, output, "SLA WARNING: submission stream misses its target (raw util=123.4%)")
	assert.Contains(t, output, "SLA WARNING: denial stream misses its target (raw util=150.0%)")
}

func TestFormatMonthText(t *testing.T) {
	report := defaultReport(t)
	output := formatter.FormatMonthText(&report.Months[3])

	contains := []string{
		"Month 3\n",
		"  Accounts       : 100 active (60 new)",
		"  Claims         : 83333.3/month (75000.0 approved, 8333.3 denied)",
		"  Daily volume   : 3787.9 submission, 378.8 denial (17.5 min/claim)",
		"  Throughput     : 23.3 claims per analyst-day",
		"  Staffing       : 281 analysts (197 submission / 85 denial), 24 managers",
		"  Implementation : 19 trainers, 15 QA, 1 onboarding (35 total)",
		"  Labor          : $168802.50 (core $168802.50, hiring team $0.00)",
		"  Overhead       : $59400.00",
		"  Revenue        : $750000.00",
		"  Gross margin   : 69.6%",
		"  SLA            : submission OK, denial OK",
		"  Quality        : efficiency=0.85 ; error rate=0.30 ; error cost=$218750.00 ; bonus=$0.00",
		"  Denial ramp:",
		"    week  1 : ramp=0.00 ; claims=0.0 ; util=0.0% ; sub_util=63.4%",
		"    week 12 : ramp=1.00",
	}
	for _, want := range contains {
		assert.Contains(t, output, want)
	}
}

func TestFormatJSON(t *testing.T) {
	report := defaultReport(t)
	output := formatter.FormatJSON(report)

	contains := []string{
		`"run_id"`,
		`"generated_at"`,
		`"months"`,
		`"analysts": 281`,
		`"total": "168802.5"`,
		`"submission_sla_met": true`,
	}
	for _, want := range contains {
		assert.Contains(t, output, want)
	}
}

func TestFormatMonthJSON(t *testing.T) {
	report := defaultReport(t)
	output := formatter.FormatMonthJSON(&report.Months[2])

	assert.Contains(t, output, `"period": 2`)
	assert.Contains(t, output, `"denial_ramp"`)
}

func TestFormatCSV(t *testing.T) {
	report := defaultReport(t)
	output := formatter.FormatCSV(report)
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")

	// Header plus one row per month.
	assert.Len(t, lines, 5)
	assert.Equal(t,
		"Month,Active Accounts,Monthly Claims,Approved Claims,Denied Claims,"+
			"Analysts,Submission Analysts,Denial Analysts,Managers,Implementation Staff,"+
			"Labor Cost,Overhead Cost,Revenue,Gross Margin %,"+
			"Submission Utilization %,Denial Utilization %,Submission SLA,Denial SLA",
		lines[0])
	assert.Equal(t, "0,0,0.0,0.0,0.0,0,0,0,0,0,12800.00,9500.00,0.00,0.0,0.0,0.0,Yes,Yes", lines[1])
	assert.Equal(t, "3,100,83333.3,75000.0,8333.3,281,197,85,24,35,168802.50,59400.00,750000.00,69.6,82.5,28.7,Yes,Yes", lines[4])
}

func TestFormatSolutionText(t *testing.T) {
	sol := &optimizer.Solution{
		Period:                3,
		SubmissionAnalysts:    204,
		DenialAnalysts:        77,
		Managers:              24,
		ImplementationStaff:   35,
		TotalStaff:            340,
		TotalCost:             decimal.NewFromFloat(228202.5),
		GrossMarginPct:        69.57,
		SubmissionUtilization: 79.6,
		DenialUtilization:     31.7,
		Feasible:              true,
		Iterations:            289,
		Strategy:              "grid",
	}

	output := formatter.FormatSolutionText(sol)
	contains := []string{
		"Optimized staffing for month 3 (grid search)",
		"  Submission analysts : 204",
		"  Denial analysts     : 77",
		"  Total staff         : 340",
		"  Monthly cost        : $228202.50",
		"  Utilization         : submission 79.6%, denial 31.7%",
		"  Feasible            : yes (289 iterations)",
	}
	for _, want := range contains {
		assert.Contains(t, output, want)
	}

	sol.Feasible = false
	output = formatter.FormatSolutionText(sol)
	assert.Contains(t, output, "No mix satisfied every constraint after 289 iterations; closest shown.")
	assert.NotContains(t, output, "Feasible            : yes")
}

func TestFormatSolutionJSON(t *testing.T) {
	sol := &optimizer.Solution{Feasible: true, Strategy: "grid", TotalStaff: 340}
	output := formatter.FormatSolutionJSON(sol)

	assert.Contains(t, output, `"feasible": true`)
	assert.Contains(t, output, `"strategy": "grid"`)
	assert.Contains(t, output, `"total_staff": 340`)
}

func TestFormatSensitivityText(t *testing.T) {
	table := &optimizer.SensitivityTable{
		Parameter: "revenue_percentage",
		Period:    3,
		Rows: []optimizer.SensitivityRow{
			{Value: 0.04, TotalStaff: 340, NetMargin: decimal.NewFromFloat(153047.5), GrossMarginPct: 61.97},
			{Value: 0.05, TotalStaff: 340, NetMargin: decimal.NewFromFloat(303047.5), GrossMarginPct: 69.57},
		},
	}

	output := formatter.FormatSensitivityText(table)
	contains := []string{
		"Sensitivity of month 3 to revenue_percentage",
		"  revenue_percentage=0.04 : staff=340 ; net_margin=$153047.50 ; gross_margin=62.0%",
		"  revenue_percentage=0.05 : staff=340 ; net_margin=$303047.50 ; gross_margin=69.6%",
	}
	for _, want := range contains {
		assert.Contains(t, output, want)
	}
}

func TestFormatSensitivityJSON(t *testing.T) {
	table := &optimizer.SensitivityTable{Parameter: "capacity_buffer", Period: 3}
	output := formatter.FormatSensitivityJSON(table)

	assert.Contains(t, output, `"parameter": "capacity_buffer"`)
	assert.Contains(t, output, `"rows"`)
}
