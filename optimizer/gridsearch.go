package optimizer

import (
	"rcm-planner/engine"
	"rcm-planner/models"
)

// GridSearch scans the staffing neighborhood around the volume-derived
// baseline: every (submission, denial) pool combination within Window of
// the canonical split, cheapest feasible mix wins. Ties go to the smaller
// team.
type GridSearch struct {
	// Window bounds the scan to baseline±Window per pool. Zero means
	// DefaultWindow.
	Window int
}

// DefaultWindow covers enough of the neighborhood to shed the capacity
// buffer's headroom on one side and absorb an SLA miss on the other.
const DefaultWindow = 8

// Name implements Strategy.
func (g *GridSearch) Name() string {
	return "grid"
}

// Search implements Strategy. The iteration budget counts engine
// evaluations; when it runs out mid-scan the best mix seen so far is
// returned, flagged infeasible if nothing satisfied the constraints.
func (g *GridSearch) Search(eng *engine.Engine, in Input) (*Solution, error) {
	baseline, err := eng.ComputeMonth(in.Period)
	if err != nil {
		return nil, err
	}

	window := g.Window
	if window <= 0 {
		window = DefaultWindow
	}
	subLo, subHi := bounds(baseline.Staffing.SubmissionAnalysts, window)
	denLo, denHi := bounds(baseline.Staffing.DenialAnalysts, window)

	var (
		best         *models.MonthMetrics
		bestFeasible bool
		bestScore    float64
		iterations   int
	)

	for sub := subLo; sub <= subHi; sub++ {
		for den := denLo; den <= denHi; den++ {
			if iterations >= in.MaxIterations {
				return g.solution(best, bestFeasible, iterations), nil
			}
			m, err := eng.ComputeMonthStaffed(in.Period, models.StaffingOverride{
				SubmissionAnalysts: sub,
				DenialAnalysts:     den,
			})
			if err != nil {
				return nil, err
			}
			iterations++

			feasible := satisfies(m, in)
			score := violation(m, in)
			switch {
			case best == nil, feasible && !bestFeasible:
				best, bestFeasible, bestScore = m, feasible, score
			case feasible && bestFeasible:
				if cheaper(m, best) {
					best = m
				}
			case !feasible && !bestFeasible:
				if score < bestScore {
					best, bestScore = m, score
				}
			}
		}
	}
	return g.solution(best, bestFeasible, iterations), nil
}

func bounds(base, window int) (int, int) {
	lo := base - window
	if lo < 1 {
		lo = 1
	}
	return lo, base + window
}

// satisfies checks the full constraint set against a candidate record.
// Raw utilization is used so saturation cannot mask an overload.
func satisfies(m *models.MonthMetrics, in Input) bool {
	if m.RawSubmissionUtilization > in.MaxUtilization || m.RawDenialUtilization > in.MaxUtilization {
		return false
	}
	if m.GrossMarginPct < in.MinMarginPct {
		return false
	}
	if in.RequireSLA && !(m.SubmissionSLAMet && m.DenialSLAMet) {
		return false
	}
	return true
}

// cheaper orders two feasible candidates: lower monthly cost wins, then the
// smaller team.
func cheaper(candidate, incumbent *models.MonthMetrics) bool {
	cc := candidate.Labor.Total.Add(candidate.Overhead.Total)
	ic := incumbent.Labor.Total.Add(incumbent.Overhead.Total)
	if !cc.Equal(ic) {
		return cc.LessThan(ic)
	}
	return candidate.Staffing.Analysts < incumbent.Staffing.Analysts
}

// violation scores how far a candidate misses the constraints; an SLA miss
// dominates any utilization or margin shortfall.
func violation(m *models.MonthMetrics, in Input) float64 {
	score := 0.0
	if over := m.RawSubmissionUtilization - in.MaxUtilization; over > 0 {
		score += over
	}
	if over := m.RawDenialUtilization - in.MaxUtilization; over > 0 {
		score += over
	}
	if short := in.MinMarginPct - m.GrossMarginPct; short > 0 {
		score += short
	}
	if in.RequireSLA {
		if !m.SubmissionSLAMet {
			score += 1000
		}
		if !m.DenialSLAMet {
			score += 1000
		}
	}
	return score
}

func (g *GridSearch) solution(m *models.MonthMetrics, feasible bool, iterations int) *Solution {
	if m == nil {
		return &Solution{Strategy: g.Name(), Iterations: iterations}
	}
	return &Solution{
		Period:                m.Period,
		SubmissionAnalysts:    m.Staffing.SubmissionAnalysts,
		DenialAnalysts:        m.Staffing.DenialAnalysts,
		Managers:              m.Staffing.Managers,
		ImplementationStaff:   m.Staffing.Implementation.Total,
		TotalStaff:            m.Staffing.Analysts + m.Staffing.Managers + m.Staffing.Implementation.Total,
		TotalCost:             m.Labor.Total.Add(m.Overhead.Total),
		GrossMarginPct:        m.GrossMarginPct,
		SubmissionUtilization: m.RawSubmissionUtilization,
		DenialUtilization:     m.RawDenialUtilization,
		Feasible:              feasible,
		Iterations:            iterations,
		Strategy:              g.Name(),
	}
}
