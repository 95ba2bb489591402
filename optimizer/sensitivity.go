package optimizer

import (
	"fmt"
	"rcm-planner/config"
	"rcm-planner/engine"
	"rcm-planner/errors"

	"github.com/shopspring/decimal"
)

// SensitivityRow is the outcome for one swept parameter value, evaluated at
// the last onboarding month. NetMargin subtracts labor, overhead, error
// cost, and bonus cost from revenue.
type SensitivityRow struct {
	Value          float64         `json:"value"`
	TotalStaff     int             `json:"total_staff"`
	NetMargin      decimal.Decimal `json:"net_margin"`
	GrossMarginPct float64         `json:"gross_margin_pct"`
}

// SensitivityTable is an ordered sweep of one parameter.
type SensitivityTable struct {
	Parameter string           `json:"parameter"`
	Period    int              `json:"period"`
	Rows      []SensitivityRow `json:"rows"`
}

// SensitivityAnalysis recomputes the last onboarding month once per swept
// value, on a cloned parameter set each time. Rows keep the order of
// values. Unknown parameter names return ErrUnknownParameter; a swept value
// that fails parameter validation surfaces that validation error.
func (o *Optimizer) SensitivityAnalysis(param string, values []float64) (*SensitivityTable, error) {
	base := o.eng.Params()
	period := base.MaxPeriod()
	table := &SensitivityTable{
		Parameter: param,
		Period:    period,
		Rows:      make([]SensitivityRow, 0, len(values)),
	}

	for _, v := range values {
		params := base.Clone()
		if err := applySweep(params, param, v); err != nil {
			return nil, err
		}
		eng, err := engine.New(params)
		if err != nil {
			return nil, fmt.Errorf("sweep %s=%v: %w", param, v, err)
		}
		m, err := eng.ComputeMonth(period)
		if err != nil {
			return nil, err
		}

		net := m.Revenue.Sub(m.Labor.Total).Sub(m.Overhead.Total).
			Sub(m.Quality.ErrorCost).Sub(m.Quality.BonusCost)
		table.Rows = append(table.Rows, SensitivityRow{
			Value:          v,
			TotalStaff:     m.Staffing.Analysts + m.Staffing.Managers + m.Staffing.Implementation.Total,
			NetMargin:      net,
			GrossMarginPct: m.GrossMarginPct,
		})

		o.log.Debug().
			Str("parameter", param).
			Float64("value", v).
			Str("net_margin", net.StringFixed(2)).
			Msg("sensitivity step")
	}
	return table, nil
}

// applySweep writes a swept value into a cloned parameter set. Only the
// parameters that meaningfully move staffing or margin are sweepable.
func applySweep(p *config.Params, param string, v float64) error {
	switch param {
	case "total_accounts":
		p.TotalAccounts = int(v)
	case "avg_claim_value":
		p.AvgClaimValue = decimal.NewFromFloat(v)
	case "revenue_percentage":
		p.RevenuePercentage = v
	case "collection_rate":
		p.CollectionRate = v
	case "target_approval_rate":
		p.TargetApprovalRate = v
	case "target_utilization":
		p.TargetUtilization = v
	case "available_time_factor":
		p.AvailableTimeFactor = v
	case "capacity_buffer":
		p.CapacityBuffer = v
	case "analyst_base_salary":
		p.AnalystBaseSalary = decimal.NewFromFloat(v)
	case "fully_loaded_multiplier":
		p.FullyLoadedMultiplier = v
	case "analysts_per_manager":
		p.AnalystsPerManager = int(v)
	case "working_days_per_month":
		p.WorkingDaysPerMonth = int(v)
	case "error_cost_multiplier":
		p.ErrorCostMultiplier = decimal.NewFromFloat(v)
	default:
		return fmt.Errorf("%w: %q", errors.ErrUnknownParameter, param)
	}
	return nil
}
