// Package config defines the planner's parameter set: every business
// constant the calculation engine consumes, loadable from a YAML file over
// built-in case-study defaults. A Params value is treated as read-only once
// it has passed Validate; downstream packages share it by pointer.
package config

import (
	"github.com/shopspring/decimal"
)

// Params is the complete parameter set for a planning run.
type Params struct {
	// Financial model.
	TotalAccounts      int             `yaml:"total_accounts"`
	TotalClaimsValue   decimal.Decimal `yaml:"total_claims_value"`
	AvgClaimValue      decimal.Decimal `yaml:"avg_claim_value"`
	RevenuePercentage  float64         `yaml:"revenue_percentage"`
	TargetMargin       float64         `yaml:"target_margin"`
	CollectionRate     float64         `yaml:"collection_rate"`
	TargetApprovalRate float64         `yaml:"target_approval_rate"`

	// Per-claim processing effort.
	MinStepMinutes float64 `yaml:"min_step_minutes"`
	MaxStepMinutes float64 `yaml:"max_step_minutes"`
	ProcessSteps   int     `yaml:"process_steps"`

	// Calendar and service levels.
	SubmissionSLADays   int `yaml:"submission_sla_days"`
	DenialSLADays       int `yaml:"denial_sla_days"`
	WorkingDaysPerMonth int `yaml:"working_days_per_month"`
	HoursPerDay         int `yaml:"hours_per_day"`

	// Salaries and team shape.
	AnalystBaseSalary       decimal.Decimal `yaml:"analyst_base_salary"`
	FullyLoadedMultiplier   float64         `yaml:"fully_loaded_multiplier"`
	ManagerSalaryMultiplier float64         `yaml:"manager_salary_multiplier"`
	AnalystsPerManager      int             `yaml:"analysts_per_manager"`

	// Capacity model.
	SubmissionAllocation float64 `yaml:"submission_allocation"`
	DenialAllocation     float64 `yaml:"denial_allocation"`
	AvailableTimeFactor  float64 `yaml:"available_time_factor"`
	TargetUtilization    float64 `yaml:"target_utilization"`
	CapacityBuffer       float64 `yaml:"capacity_buffer"`

	// OnboardingSchedule lists new accounts per onboarding month; index 0 is
	// month 1. Period 0 is always the pre-launch hiring month.
	OnboardingSchedule []int `yaml:"onboarding_schedule"`

	// Ramp curves. Lookup is stepwise: an exact key wins, otherwise the value
	// of the largest smaller key applies, so queries past the last key resolve
	// to the terminal value.
	DenialRampUp     map[int]float64 `yaml:"denial_ramp_up"`
	RampUpEfficiency map[int]float64 `yaml:"ramp_up_efficiency"`
	RevenueRampUp    map[int]float64 `yaml:"revenue_ramp_up"`

	// Implementation team ratios.
	TrainerRatio             int     `yaml:"trainer_ratio"`
	QARatio                  int     `yaml:"qa_ratio"`
	OnboardingDaysPerAccount float64 `yaml:"onboarding_days_per_account"`

	// Quality overlay.
	ErrorCostMultiplier   decimal.Decimal `yaml:"error_cost_multiplier"`
	QualityBonusThreshold float64         `yaml:"quality_bonus_threshold"`
	QualityBonusAmount    decimal.Decimal `yaml:"quality_bonus_amount"`

	// Monthly overhead.
	SoftwarePerHead    decimal.Decimal `yaml:"software_per_head"`
	OfficePerHead      decimal.Decimal `yaml:"office_per_head"`
	TrainingPerHead    decimal.Decimal `yaml:"training_per_head"`
	InfrastructureFlat decimal.Decimal `yaml:"infrastructure_flat"`
	ComplianceFlat     decimal.Decimal `yaml:"compliance_flat"`
	QAFlat             decimal.Decimal `yaml:"qa_flat"`
	OfficeSetupOneTime decimal.Decimal `yaml:"office_setup_one_time"`

	// Period-0 hiring team.
	USLeadSalary         decimal.Decimal `yaml:"us_lead_salary"`
	CountryManagerSalary decimal.Decimal `yaml:"country_manager_salary"`
	RecruiterSalary      decimal.Decimal `yaml:"recruiter_salary"`
	RecruiterCount       int             `yaml:"recruiter_count"`
}

// Default returns the parameter set for the reference case study: 100
// provider accounts worth $200M in annual claims, onboarded 10/30/60 over
// three months.
func Default() *Params {
	return &Params{
		TotalAccounts:      100,
		TotalClaimsValue:   decimal.NewFromInt(200_000_000),
		AvgClaimValue:      decimal.NewFromInt(200),
		RevenuePercentage:  0.05,
		TargetMargin:       0.60,
		CollectionRate:     1.0,
		TargetApprovalRate: 0.90,

		MinStepMinutes: 2,
		MaxStepMinutes: 5,
		ProcessSteps:   5,

		SubmissionSLADays:   5,
		DenialSLADays:       3,
		WorkingDaysPerMonth: 22,
		HoursPerDay:         8,

		AnalystBaseSalary:       decimal.NewFromInt(355),
		FullyLoadedMultiplier:   1.5,
		ManagerSalaryMultiplier: 1.5,
		AnalystsPerManager:      12,

		SubmissionAllocation: 0.70,
		DenialAllocation:     0.30,
		AvailableTimeFactor:  0.85,
		TargetUtilization:    0.80,
		CapacityBuffer:       1.2,

		OnboardingSchedule: []int{10, 30, 60},

		DenialRampUp: map[int]float64{
			1: 0.0,
			2: 0.0,
			3: 0.25,
			4: 0.50,
			5: 0.75,
			6: 1.0,
		},
		RampUpEfficiency: map[int]float64{
			1: 0.60,
			2: 0.75,
			3: 0.85,
			4: 0.92,
			5: 0.97,
			6: 1.0,
		},

		TrainerRatio:             15,
		QARatio:                  20,
		OnboardingDaysPerAccount: 2,

		ErrorCostMultiplier:   decimal.NewFromFloat(0.5),
		QualityBonusThreshold: 0.95,
		QualityBonusAmount:    decimal.NewFromInt(50),

		SoftwarePerHead:    decimal.NewFromInt(50),
		OfficePerHead:      decimal.NewFromInt(100),
		TrainingPerHead:    decimal.NewFromInt(30),
		InfrastructureFlat: decimal.NewFromInt(2000),
		ComplianceFlat:     decimal.NewFromInt(1500),
		QAFlat:             decimal.NewFromInt(1000),
		OfficeSetupOneTime: decimal.NewFromInt(5000),

		USLeadSalary:         decimal.NewFromInt(8000),
		CountryManagerSalary: decimal.NewFromInt(2400),
		RecruiterSalary:      decimal.NewFromInt(1200),
		RecruiterCount:       2,
	}
}

// MaxPeriod returns the last onboarding month. Valid periods run from 0
// (the hiring month) through MaxPeriod inclusive.
func (p *Params) MaxPeriod() int {
	return len(p.OnboardingSchedule)
}

// ActiveAccounts returns the number of accounts live by the given period:
// the cumulative schedule through that month.
func (p *Params) ActiveAccounts(period int) int {
	total := 0
	for i := 0; i < period && i < len(p.OnboardingSchedule); i++ {
		total += p.OnboardingSchedule[i]
	}
	return total
}

// NewAccounts returns the accounts onboarded during the given period.
func (p *Params) NewAccounts(period int) int {
	if period < 1 || period > len(p.OnboardingSchedule) {
		return 0
	}
	return p.OnboardingSchedule[period-1]
}

// DenialRampFactor returns the denial-capacity fraction for a ramp week.
func (p *Params) DenialRampFactor(week int) float64 {
	return stepValue(p.DenialRampUp, week, 0)
}

// EfficiencyFactor returns the team efficiency for an onboarding month.
func (p *Params) EfficiencyFactor(period int) float64 {
	return stepValue(p.RampUpEfficiency, period, 0)
}

// RevenueRampFactor returns the revenue multiplier for a period. Periods the
// curve does not cover, or an absent curve, multiply by 1.
func (p *Params) RevenueRampFactor(period int) float64 {
	return stepValue(p.RevenueRampUp, period, 1)
}

// stepValue resolves a curve stepwise: exact key, else the value of the
// largest key below k, else fallback.
func stepValue(curve map[int]float64, k int, fallback float64) float64 {
	found := false
	bestKey := 0
	for key := range curve {
		if key <= k && (!found || key > bestKey) {
			found = true
			bestKey = key
		}
	}
	if !found {
		return fallback
	}
	return curve[bestKey]
}

// Clone returns a deep copy sharing no mutable state with the receiver.
// Decimal values are immutable and copied as-is.
func (p *Params) Clone() *Params {
	c := *p
	c.OnboardingSchedule = append([]int(nil), p.OnboardingSchedule...)
	c.DenialRampUp = cloneCurve(p.DenialRampUp)
	c.RampUpEfficiency = cloneCurve(p.RampUpEfficiency)
	c.RevenueRampUp = cloneCurve(p.RevenueRampUp)
	return &c
}

func cloneCurve(curve map[int]float64) map[int]float64 {
	if curve == nil {
		return nil
	}
	c := make(map[int]float64, len(curve))
	for k, v := range curve {
		c[k] = v
	}
	return c
}

// Derived holds the secondary constants computed once from a validated
// parameter set.
type Derived struct {
	// ClaimsPerAccount is the annual claim count per provider account.
	ClaimsPerAccount float64
	// MinutesPerMonth and MinutesPerDay are per analyst, before the
	// available-time factor.
	MinutesPerMonth float64
	MinutesPerDay   float64
	// PerClaimMinutes is the average processing effort for one claim across
	// all process steps.
	PerClaimMinutes float64
	AnalystSalary   decimal.Decimal
	ManagerSalary   decimal.Decimal
}

// Derive computes the derived constants. The receiver must have passed
// Validate.
func (p *Params) Derive() Derived {
	claimsPerAccount := p.TotalClaimsValue.
		Div(p.AvgClaimValue).
		Div(decimal.NewFromInt(int64(p.TotalAccounts))).
		InexactFloat64()

	analyst := p.AnalystBaseSalary.Mul(decimal.NewFromFloat(p.FullyLoadedMultiplier))
	manager := analyst.Mul(decimal.NewFromFloat(p.ManagerSalaryMultiplier))

	return Derived{
		ClaimsPerAccount: claimsPerAccount,
		MinutesPerMonth:  float64(p.WorkingDaysPerMonth * p.HoursPerDay * 60),
		MinutesPerDay:    float64(p.HoursPerDay * 60),
		PerClaimMinutes:  (p.MinStepMinutes + p.MaxStepMinutes) / 2 * float64(p.ProcessSteps),
		AnalystSalary:    analyst,
		ManagerSalary:    manager,
	}
}
