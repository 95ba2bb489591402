package config

import (
	"fmt"
	"io"
	"rcm-planner/errors"
	"sort"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML parameter file from the reader and returns the resulting
// parameter set layered over Default. Scalar fields override individually;
// the onboarding schedule and the ramp curves replace their defaults
// wholesale when present (yaml merges into existing maps, which would splice
// a partial curve into the default one).
func Load(r io.Reader) (*Params, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	params := Default()
	if err := yaml.Unmarshal(raw, params); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	// Detect which curves the document actually set. A pointer field stays
	// nil when the key is absent, so a second decode distinguishes "absent"
	// from "present and merged above".
	var curves struct {
		DenialRampUp     *map[int]float64 `yaml:"denial_ramp_up"`
		RampUpEfficiency *map[int]float64 `yaml:"ramp_up_efficiency"`
		RevenueRampUp    *map[int]float64 `yaml:"revenue_ramp_up"`
	}
	if err := yaml.Unmarshal(raw, &curves); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if curves.DenialRampUp != nil {
		params.DenialRampUp = *curves.DenialRampUp
	}
	if curves.RampUpEfficiency != nil {
		params.RampUpEfficiency = *curves.RampUpEfficiency
	}
	if curves.RevenueRampUp != nil {
		params.RevenueRampUp = *curves.RevenueRampUp
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks every constraint on the parameter set and returns a
// ValidationError naming the first offending field.
func (p *Params) Validate() error {
	for _, c := range []struct {
		field string
		ok    bool
		why   string
		err   error
	}{
		{"total_accounts", p.TotalAccounts > 0, "must be positive", errors.ErrNotPositive},
		{"total_claims_value", !p.TotalClaimsValue.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"avg_claim_value", p.AvgClaimValue.IsPositive(), "must be positive", errors.ErrNotPositive},
		{"revenue_percentage", isFraction(p.RevenuePercentage), "must be between 0 and 1", errors.ErrNotFraction},
		{"target_margin", isFraction(p.TargetMargin), "must be between 0 and 1", errors.ErrNotFraction},
		{"collection_rate", isFraction(p.CollectionRate), "must be between 0 and 1", errors.ErrNotFraction},
		{"target_approval_rate", isFraction(p.TargetApprovalRate), "must be between 0 and 1", errors.ErrNotFraction},

		{"min_step_minutes", p.MinStepMinutes >= 0, "must not be negative", errors.ErrNegativeValue},
		{"max_step_minutes", p.MaxStepMinutes >= p.MinStepMinutes, "must not be below min_step_minutes", errors.ErrNegativeValue},
		{"process_steps", p.ProcessSteps > 0, "must be positive", errors.ErrNotPositive},

		{"submission_sla_days", p.SubmissionSLADays > 0, "must be positive", errors.ErrNotPositive},
		{"denial_sla_days", p.DenialSLADays > 0, "must be positive", errors.ErrNotPositive},
		{"working_days_per_month", p.WorkingDaysPerMonth > 0, "must be positive", errors.ErrNotPositive},
		{"hours_per_day", p.HoursPerDay > 0, "must be positive", errors.ErrNotPositive},

		{"analyst_base_salary", !p.AnalystBaseSalary.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"fully_loaded_multiplier", p.FullyLoadedMultiplier > 0, "must be positive", errors.ErrNotPositive},
		{"manager_salary_multiplier", p.ManagerSalaryMultiplier > 0, "must be positive", errors.ErrNotPositive},
		{"analysts_per_manager", p.AnalystsPerManager > 0, "must be positive", errors.ErrNotPositive},

		{"submission_allocation", p.SubmissionAllocation > 0 && p.SubmissionAllocation <= 1, "must be in (0, 1]", errors.ErrNotFraction},
		{"denial_allocation", p.DenialAllocation > 0 && p.DenialAllocation <= 1, "must be in (0, 1]", errors.ErrNotFraction},
		{"available_time_factor", p.AvailableTimeFactor > 0 && p.AvailableTimeFactor <= 1, "must be in (0, 1]", errors.ErrNotFraction},
		{"target_utilization", p.TargetUtilization > 0 && p.TargetUtilization <= 1, "must be in (0, 1]", errors.ErrNotFraction},
		{"capacity_buffer", p.CapacityBuffer > 0, "must be positive", errors.ErrNotPositive},

		{"trainer_ratio", p.TrainerRatio > 0, "must be positive", errors.ErrNotPositive},
		{"qa_ratio", p.QARatio > 0, "must be positive", errors.ErrNotPositive},
		{"onboarding_days_per_account", p.OnboardingDaysPerAccount >= 0, "must not be negative", errors.ErrNegativeValue},

		{"error_cost_multiplier", !p.ErrorCostMultiplier.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"quality_bonus_threshold", isFraction(p.QualityBonusThreshold), "must be between 0 and 1", errors.ErrNotFraction},
		{"quality_bonus_amount", !p.QualityBonusAmount.IsNegative(), "must not be negative", errors.ErrNegativeValue},

		{"software_per_head", !p.SoftwarePerHead.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"office_per_head", !p.OfficePerHead.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"training_per_head", !p.TrainingPerHead.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"infrastructure_flat", !p.InfrastructureFlat.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"compliance_flat", !p.ComplianceFlat.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"qa_flat", !p.QAFlat.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"office_setup_one_time", !p.OfficeSetupOneTime.IsNegative(), "must not be negative", errors.ErrNegativeValue},

		{"us_lead_salary", !p.USLeadSalary.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"country_manager_salary", !p.CountryManagerSalary.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"recruiter_salary", !p.RecruiterSalary.IsNegative(), "must not be negative", errors.ErrNegativeValue},
		{"recruiter_count", p.RecruiterCount >= 0, "must not be negative", errors.ErrNegativeValue},
	} {
		if !c.ok {
			return &errors.ValidationError{Field: c.field, Reason: c.why, Err: c.err}
		}
	}

	if len(p.OnboardingSchedule) == 0 {
		return &errors.ValidationError{Field: "onboarding_schedule", Reason: "needs at least one month", Err: errors.ErrEmptySchedule}
	}
	for i, n := range p.OnboardingSchedule {
		if n < 0 {
			return &errors.ValidationError{
				Field:  fmt.Sprintf("onboarding_schedule[%d]", i),
				Reason: "must not be negative",
				Err:    errors.ErrNegativeValue,
			}
		}
	}

	if len(p.DenialRampUp) == 0 {
		return &errors.ValidationError{Field: "denial_ramp_up", Reason: "needs at least one week", Err: errors.ErrEmptySchedule}
	}
	if err := validateCurve("denial_ramp_up", p.DenialRampUp, true); err != nil {
		return err
	}
	if len(p.RampUpEfficiency) == 0 {
		return &errors.ValidationError{Field: "ramp_up_efficiency", Reason: "needs at least one month", Err: errors.ErrEmptySchedule}
	}
	if err := validateCurve("ramp_up_efficiency", p.RampUpEfficiency, false); err != nil {
		return err
	}
	if p.RevenueRampUp != nil {
		for k, v := range p.RevenueRampUp {
			if k < 1 {
				return &errors.ValidationError{
					Field:  fmt.Sprintf("revenue_ramp_up[%d]", k),
					Reason: "period keys start at 1",
					Err:    errors.ErrNotPositive,
				}
			}
			if v < 0 {
				return &errors.ValidationError{
					Field:  fmt.Sprintf("revenue_ramp_up[%d]", k),
					Reason: "must not be negative",
					Err:    errors.ErrNegativeValue,
				}
			}
		}
	}

	return nil
}

// validateCurve checks ramp-curve keys and values; monotone additionally
// requires the values to be non-decreasing by key.
func validateCurve(field string, curve map[int]float64, monotone bool) error {
	keys := make([]int, 0, len(curve))
	for k := range curve {
		if k < 1 {
			return &errors.ValidationError{
				Field:  fmt.Sprintf("%s[%d]", field, k),
				Reason: "keys start at 1",
				Err:    errors.ErrNotPositive,
			}
		}
		if !isFraction(curve[k]) {
			return &errors.ValidationError{
				Field:  fmt.Sprintf("%s[%d]", field, k),
				Reason: "must be between 0 and 1",
				Err:    errors.ErrNotFraction,
			}
		}
		keys = append(keys, k)
	}
	if !monotone {
		return nil
	}
	sort.Ints(keys)
	for i := 1; i < len(keys); i++ {
		if curve[keys[i]] < curve[keys[i-1]] {
			return &errors.ValidationError{
				Field:  fmt.Sprintf("%s[%d]", field, keys[i]),
				Reason: fmt.Sprintf("fraction drops below week %d", keys[i-1]),
				Err:    errors.ErrRampNotMonotonic,
			}
		}
	}
	return nil
}

func isFraction(v float64) bool {
	return v >= 0 && v <= 1
}
