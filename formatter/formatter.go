package formatter

import (
	"encoding/csv"
	"fmt"
	"rcm-planner/models"
	"rcm-planner/optimizer"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// FormatText returns the text representation of a full planning report:
// one line per month with SLA warnings underneath, closed by a summary of
// the final month.
func FormatText(report *models.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Capacity plan %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Generated %s\n\n", report.GeneratedAt.Format(time.RFC3339)))

	for i := range report.Months {
		m := &report.Months[i]
		sb.WriteString(formatMonthLine(m))
		sb.WriteString("\n")

		if !m.SubmissionSLAMet {
			sb.WriteString(fmt.Sprintf("  ⚠️  SLA WARNING: submission stream misses its target (raw util=%.1f%%)\n",
				m.RawSubmissionUtilization))
		}
		if !m.DenialSLAMet {
			sb.WriteString(fmt.Sprintf("  ⚠️  SLA WARNING: denial stream misses its target (raw util=%.1f%%)\n",
				m.RawDenialUtilization))
		}
	}

	if n := len(report.Months); n > 0 {
		last := &report.Months[n-1]
		staff := last.Staffing.Analysts + last.Staffing.Managers + last.Staffing.Implementation.Total
		sb.WriteString(fmt.Sprintf("\nAt full rollout : accounts=%d ; staff=%d ; revenue=$%s/month ; margin=%.1f%%\n",
			last.ActiveAccounts, staff, last.Revenue.StringFixed(2), last.GrossMarginPct))
	}

	return sb.String()
}

// formatMonthLine formats a single month line for text output
func formatMonthLine(m *models.MonthMetrics) string {
	if m.Period == 0 {
		return fmt.Sprintf("Month 0 : pre-launch ; hiring team=$%s ; overhead=$%s (incl. office setup)",
			m.Labor.HiringTeam.StringFixed(2), m.Overhead.Total.StringFixed(2))
	}
	return fmt.Sprintf(
		"Month %d : accounts=%d ; claims=%.1f ; analysts=%d (sub=%d/den=%d) ; managers=%d ; impl=%d ; labor=$%s ; overhead=$%s ; revenue=$%s ; margin=%.1f%% ; util[sub=%.1f%% den=%.1f%%] ; sla[sub=%s den=%s]",
		m.Period, m.ActiveAccounts, m.MonthlyClaims,
		m.Staffing.Analysts, m.Staffing.SubmissionAnalysts, m.Staffing.DenialAnalysts,
		m.Staffing.Managers, m.Staffing.Implementation.Total,
		m.Labor.Total.StringFixed(2), m.Overhead.Total.StringFixed(2),
		m.Revenue.StringFixed(2), m.GrossMarginPct,
		m.SubmissionUtilization, m.DenialUtilization,
		okOrMiss(m.SubmissionSLAMet), okOrMiss(m.DenialSLAMet))
}

// FormatMonthText returns the detailed text representation of one month,
// including the weekly denial ramp.
func FormatMonthText(m *models.MonthMetrics) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Month %d\n", m.Period))
	sb.WriteString(fmt.Sprintf("  Accounts       : %d active (%d new)\n", m.ActiveAccounts, m.NewAccounts))
	sb.WriteString(fmt.Sprintf("  Claims         : %.1f/month (%.1f approved, %.1f denied)\n",
		m.MonthlyClaims, m.ApprovedClaims, m.DeniedClaims))
	sb.WriteString(fmt.Sprintf("  Daily volume   : %.1f submission, %.1f denial (%.1f min/claim)\n",
		m.DailySubmissionClaims, m.DailyDenialClaims, m.PerClaimMinutes))
	sb.WriteString(fmt.Sprintf("  Throughput     : %.1f claims per analyst-day\n", m.ClaimsPerAnalystPerDay))
	sb.WriteString(fmt.Sprintf("  Staffing       : %d analysts (%d submission / %d denial), %d managers\n",
		m.Staffing.Analysts, m.Staffing.SubmissionAnalysts, m.Staffing.DenialAnalysts, m.Staffing.Managers))
	sb.WriteString(fmt.Sprintf("  Implementation : %d trainers, %d QA, %d onboarding (%d total)\n",
		m.Staffing.Implementation.Trainers, m.Staffing.Implementation.QAStaff,
		m.Staffing.Implementation.OnboardingStaff, m.Staffing.Implementation.Total))
	sb.WriteString(fmt.Sprintf("  Labor          : $%s (core $%s, hiring team $%s)\n",
		m.Labor.Total.StringFixed(2), m.Labor.Core.StringFixed(2), m.Labor.HiringTeam.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("  Overhead       : $%s\n", m.Overhead.Total.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("  Revenue        : $%s\n", m.Revenue.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("  Gross margin   : %.1f%%\n", m.GrossMarginPct))
	sb.WriteString(fmt.Sprintf("  Utilization    : submission %.1f%% (raw %.1f%%), denial %.1f%% (raw %.1f%%)\n",
		m.SubmissionUtilization, m.RawSubmissionUtilization,
		m.DenialUtilization, m.RawDenialUtilization))
	sb.WriteString(fmt.Sprintf("  SLA            : submission %s, denial %s\n",
		okOrMiss(m.SubmissionSLAMet), okOrMiss(m.DenialSLAMet)))
	sb.WriteString(fmt.Sprintf("  Quality        : efficiency=%.2f ; error rate=%.2f ; error cost=$%s ; bonus=$%s\n",
		m.Quality.Efficiency, m.Quality.ErrorRate,
		m.Quality.ErrorCost.StringFixed(2), m.Quality.BonusCost.StringFixed(2)))

	sb.WriteString("  Denial ramp:\n")
	for _, w := range m.DenialRamp {
		sb.WriteString(fmt.Sprintf("    week %2d : ramp=%.2f ; claims=%.1f ; util=%.1f%% ; sub_util=%.1f%%\n",
			w.Week, w.RampFactor, w.DenialClaims, w.Utilization, w.SubmissionUtilization))
	}

	return sb.String()
}

// FormatJSON returns the JSON representation of a full planning report
func FormatJSON(report *models.Report) string {
	return toJSON(report)
}

// FormatMonthJSON returns the JSON representation of a single month
func FormatMonthJSON(m *models.MonthMetrics) string {
	return toJSON(m)
}

// FormatSolutionJSON returns the JSON representation of a staffing solution
func FormatSolutionJSON(s *optimizer.Solution) string {
	return toJSON(s)
}

// FormatSensitivityJSON returns the JSON representation of a sweep table
func FormatSensitivityJSON(t *optimizer.SensitivityTable) string {
	return toJSON(t)
}

func toJSON(v any) string {
	jsonBytes, _ := json.MarshalIndent(v, "", "  ")
	return string(jsonBytes)
}

// FormatCSV returns the CSV representation of a full planning report, one
// row per month.
func FormatCSV(report *models.Report) string {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	writer.Write([]string{
		"Month", "Active Accounts", "Monthly Claims", "Approved Claims", "Denied Claims",
		"Analysts", "Submission Analysts", "Denial Analysts", "Managers", "Implementation Staff",
		"Labor Cost", "Overhead Cost", "Revenue", "Gross Margin %",
		"Submission Utilization %", "Denial Utilization %", "Submission SLA", "Denial SLA",
	})

	for i := range report.Months {
		m := &report.Months[i]
		writer.Write([]string{
			strconv.Itoa(m.Period),
			strconv.Itoa(m.ActiveAccounts),
			fmt.Sprintf("%.1f", m.MonthlyClaims),
			fmt.Sprintf("%.1f", m.ApprovedClaims),
			fmt.Sprintf("%.1f", m.DeniedClaims),
			strconv.Itoa(m.Staffing.Analysts),
			strconv.Itoa(m.Staffing.SubmissionAnalysts),
			strconv.Itoa(m.Staffing.DenialAnalysts),
			strconv.Itoa(m.Staffing.Managers),
			strconv.Itoa(m.Staffing.Implementation.Total),
			m.Labor.Total.StringFixed(2),
			m.Overhead.Total.StringFixed(2),
			m.Revenue.StringFixed(2),
			fmt.Sprintf("%.1f", m.GrossMarginPct),
			fmt.Sprintf("%.1f", m.SubmissionUtilization),
			fmt.Sprintf("%.1f", m.DenialUtilization),
			yesOrNo(m.SubmissionSLAMet),
			yesOrNo(m.DenialSLAMet),
		})
	}

	writer.Flush()
	return sb.String()
}

// FormatSolutionText returns the text representation of a staffing solution
func FormatSolutionText(s *optimizer.Solution) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Optimized staffing for month %d (%s search)\n", s.Period, s.Strategy))
	sb.WriteString(fmt.Sprintf("  Submission analysts : %d\n", s.SubmissionAnalysts))
	sb.WriteString(fmt.Sprintf("  Denial analysts     : %d\n", s.DenialAnalysts))
	sb.WriteString(fmt.Sprintf("  Managers            : %d\n", s.Managers))
	sb.WriteString(fmt.Sprintf("  Implementation      : %d\n", s.ImplementationStaff))
	sb.WriteString(fmt.Sprintf("  Total staff         : %d\n", s.TotalStaff))
	sb.WriteString(fmt.Sprintf("  Monthly cost        : $%s\n", s.TotalCost.StringFixed(2)))
	sb.WriteString(fmt.Sprintf("  Gross margin        : %.1f%%\n", s.GrossMarginPct))
	sb.WriteString(fmt.Sprintf("  Utilization         : submission %.1f%%, denial %.1f%%\n",
		s.SubmissionUtilization, s.DenialUtilization))
	if s.Feasible {
		sb.WriteString(fmt.Sprintf("  Feasible            : yes (%d iterations)\n", s.Iterations))
	} else {
		sb.WriteString(fmt.Sprintf("  ⚠️  No mix satisfied every constraint after %d iterations; closest shown.\n", s.Iterations))
	}

	return sb.String()
}

// FormatSensitivityText returns the text representation of a sweep table
func FormatSensitivityText(t *optimizer.SensitivityTable) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Sensitivity of month %d to %s\n", t.Period, t.Parameter))
	for _, row := range t.Rows {
		sb.WriteString(fmt.Sprintf("  %s=%v : staff=%d ; net_margin=$%s ; gross_margin=%.1f%%\n",
			t.Parameter, row.Value, row.TotalStaff,
			row.NetMargin.StringFixed(2), row.GrossMarginPct))
	}

	return sb.String()
}

func okOrMiss(met bool) string {
	if met {
		return "OK"
	}
	return "MISS"
}

func yesOrNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
