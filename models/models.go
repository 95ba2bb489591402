package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthMetrics represents the complete metrics record for one elapsed month
// of the onboarding ramp. It is shared across packages to report and
// optimize the plan. Records are computed fresh on every call and never
// mutated afterwards.
type MonthMetrics struct {
	Period          int     `json:"period"`
	ActiveAccounts  int     `json:"active_accounts"`
	NewAccounts     int     `json:"new_accounts"`
	MonthlyClaims   float64 `json:"monthly_claims"`
	ApprovedClaims  float64 `json:"approved_claims"`
	DeniedClaims    float64 `json:"denied_claims"`
	PerClaimMinutes float64 `json:"per_claim_minutes"`

	// DailySubmissionClaims and DailyDenialClaims spread the monthly volume
	// over the working days of the month. ClaimsPerAnalystPerDay is the
	// throughput of one analyst at the available-time factor.
	DailySubmissionClaims  float64 `json:"daily_submission_claims"`
	DailyDenialClaims      float64 `json:"daily_denial_claims"`
	ClaimsPerAnalystPerDay float64 `json:"claims_per_analyst_per_day"`

	Staffing Staffing     `json:"staffing"`
	Labor    LaborCost    `json:"labor"`
	Overhead OverheadCost `json:"overhead"`

	Revenue        decimal.Decimal `json:"revenue"`
	GrossMarginPct float64         `json:"gross_margin_pct"`

	// Utilization percentages come in two flavours: the raw ratio, which can
	// exceed 100 when a stream is understaffed, and the capped value for
	// display.
	SubmissionUtilization    float64 `json:"submission_utilization"`
	DenialUtilization        float64 `json:"denial_utilization"`
	RawSubmissionUtilization float64 `json:"raw_submission_utilization"`
	RawDenialUtilization     float64 `json:"raw_denial_utilization"`

	SubmissionSLAMet bool `json:"submission_sla_met"`
	DenialSLAMet     bool `json:"denial_sla_met"`

	Quality    QualityOverlay      `json:"quality"`
	DenialRamp []WeekDenialMetrics `json:"denial_ramp"`
}

// Staffing holds the integer headcounts derived for one period.
type Staffing struct {
	// Analysts is the sized pool before the submission/denial split.
	// SubmissionAnalysts and DenialAnalysts are rounded up independently,
	// so their sum may exceed Analysts by one.
	Analysts           int                 `json:"analysts"`
	SubmissionAnalysts int                 `json:"submission_analysts"`
	DenialAnalysts     int                 `json:"denial_analysts"`
	Managers           int                 `json:"managers"`
	Implementation     ImplementationStaff `json:"implementation"`
}

// ImplementationStaff breaks down the client-facing implementation team
// that runs alongside the claims analysts.
type ImplementationStaff struct {
	Trainers        int `json:"trainers"`
	QAStaff         int `json:"qa_staff"`
	OnboardingStaff int `json:"onboarding_staff"`
	Total           int `json:"total"`
}

// LaborCost splits the monthly labor spend between the operational core and
// the period-0 hiring team.
type LaborCost struct {
	Core       decimal.Decimal `json:"core"`
	HiringTeam decimal.Decimal `json:"hiring_team"`
	Total      decimal.Decimal `json:"total"`
}

// OverheadCost itemizes the monthly overhead. OfficeSetup is non-zero only
// in period 0.
type OverheadCost struct {
	Software       decimal.Decimal `json:"software"`
	Office         decimal.Decimal `json:"office"`
	Training       decimal.Decimal `json:"training"`
	Infrastructure decimal.Decimal `json:"infrastructure"`
	Compliance     decimal.Decimal `json:"compliance"`
	QA             decimal.Decimal `json:"qa"`
	OfficeSetup    decimal.Decimal `json:"office_setup"`
	Total          decimal.Decimal `json:"total"`
}

// QualityOverlay carries the ramp-up quality model for one period: how
// efficient the team is, the error rate that implies, and what the errors
// and quality bonuses cost.
type QualityOverlay struct {
	Efficiency float64         `json:"efficiency"`
	ErrorRate  float64         `json:"error_rate"`
	ErrorCost  decimal.Decimal `json:"error_cost"`
	BonusCost  decimal.Decimal `json:"bonus_cost"`
}

// WeekDenialMetrics is one row of the 12-week denial ramp-up projection
// nested in a monthly record.
type WeekDenialMetrics struct {
	Week            int     `json:"week"`
	RampFactor      float64 `json:"ramp_factor"`
	DenialClaims    float64 `json:"denial_claims"`
	MinutesRequired float64 `json:"minutes_required"`
	CapacityMinutes float64 `json:"capacity_minutes"`
	Utilization     float64 `json:"utilization"`

	// EffectiveSubmissionCapacity is the daily submission capacity plus the
	// denial capacity not yet consumed by the ramp.
	EffectiveSubmissionCapacity float64 `json:"effective_submission_capacity"`
	SubmissionUtilization       float64 `json:"submission_utilization"`
}

// Report is the ordered sequence of monthly records plus run metadata.
// Only the envelope varies between runs; the records themselves are
// identical for identical parameters.
type Report struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Months      []MonthMetrics `json:"months"`
}

// StaffingOverride supplies externally chosen analyst pools, bypassing the
// volume-derived staffing. The staffing floor and the allocation split do
// not apply to overridden pools. A nil ImplementationStaff keeps the
// ratio-derived implementation team.
type StaffingOverride struct {
	SubmissionAnalysts  int
	DenialAnalysts      int
	ImplementationStaff *int
}
