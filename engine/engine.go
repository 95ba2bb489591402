// Package engine derives the monthly capacity plan for a phased claims
// processing rollout: claim volumes, analyst staffing, labor and overhead
// cost, revenue and margin, utilization, and SLA compliance per month, plus
// a weekly denial ramp-up projection nested in every record.
package engine

import (
	"math"
	"rcm-planner/config"
	"rcm-planner/errors"
	"rcm-planner/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// DenialReworkMultiplier is the extra effort a denied claim costs on top
	// of first-pass processing: denial analysis plus resubmission.
	DenialReworkMultiplier = 1.5

	// MinAnalysts is the staffing floor for operational periods.
	MinAnalysts = 2
)

// Engine computes monthly metrics from an immutable parameter set. All
// state is read-only after New, so an Engine is safe for concurrent use.
type Engine struct {
	params  *config.Params
	derived config.Derived
	log     zerolog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger attaches a logger for per-period computation events. The
// default engine is silent.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// New validates the parameter set and builds an engine around it. The
// parameter set must not be mutated afterwards.
func New(params *config.Params, opts ...Option) (*Engine, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{
		params:  params,
		derived: params.Derive(),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params returns the parameter set the engine was built around.
func (e *Engine) Params() *config.Params {
	return e.params
}

// ComputeMonth produces the metrics record for one period. Period 0 is the
// pre-launch hiring month; periods 1..N cover the onboarding schedule. The
// same period always yields an identical record.
func (e *Engine) ComputeMonth(period int) (*models.MonthMetrics, error) {
	return e.compute(period, nil)
}

// ComputeMonthStaffed recomputes a period with externally chosen analyst
// pools instead of the volume-derived staffing. Cost, utilization, SLA, the
// quality overlay, and the weekly ramp all reflect the supplied pools; the
// staffing floor and the allocation split do not apply.
func (e *Engine) ComputeMonthStaffed(period int, staff models.StaffingOverride) (*models.MonthMetrics, error) {
	return e.compute(period, &staff)
}

func (e *Engine) compute(period int, override *models.StaffingOverride) (*models.MonthMetrics, error) {
	p := e.params
	if period < 0 || period > p.MaxPeriod() {
		return nil, &errors.PeriodError{
			Period: period,
			Min:    0,
			Max:    p.MaxPeriod(),
			Err:    errors.ErrPeriodOutOfRange,
		}
	}
	d := e.derived

	m := &models.MonthMetrics{
		Period:          period,
		ActiveAccounts:  p.ActiveAccounts(period),
		NewAccounts:     p.NewAccounts(period),
		PerClaimMinutes: d.PerClaimMinutes,
	}

	// Volumes: annual claims per account spread evenly across the year.
	m.MonthlyClaims = float64(m.ActiveAccounts) * d.ClaimsPerAccount / 12
	m.ApprovedClaims = m.MonthlyClaims * p.TargetApprovalRate
	m.DeniedClaims = m.MonthlyClaims - m.ApprovedClaims

	// Workload in minutes: every claim is processed once; denied claims are
	// reworked on top at the denial multiplier.
	required := m.MonthlyClaims*d.PerClaimMinutes + m.DeniedClaims*d.PerClaimMinutes*DenialReworkMultiplier

	m.Staffing = e.deriveStaffing(period, required, override)
	m.Staffing.Implementation = e.implementationStaff(period, m.Staffing.Analysts, override)
	m.Labor = e.laborCost(period, m.Staffing)
	m.Overhead = e.overheadCost(period, m.Staffing)

	m.Revenue = e.revenue(period, m.ApprovedClaims)
	m.GrossMarginPct = grossMarginPct(m.Revenue, m.Labor.Total, m.Overhead.Total)

	// Daily volumes and per-stream capacity.
	days := float64(p.WorkingDaysPerMonth)
	m.DailySubmissionClaims = m.MonthlyClaims / days
	m.DailyDenialClaims = m.DeniedClaims / days
	if d.PerClaimMinutes > 0 {
		m.ClaimsPerAnalystPerDay = d.MinutesPerDay * p.AvailableTimeFactor / d.PerClaimMinutes
	}

	subCapacity := float64(m.Staffing.SubmissionAnalysts) * d.MinutesPerDay * p.AvailableTimeFactor
	denCapacity := float64(m.Staffing.DenialAnalysts) * d.MinutesPerDay * p.AvailableTimeFactor
	subNeeded := m.DailySubmissionClaims * d.PerClaimMinutes
	denNeeded := m.DailyDenialClaims * d.PerClaimMinutes * DenialReworkMultiplier

	m.RawSubmissionUtilization = utilizationPct(subNeeded, subCapacity)
	m.RawDenialUtilization = utilizationPct(denNeeded, denCapacity)
	m.SubmissionUtilization = capPct(m.RawSubmissionUtilization)
	m.DenialUtilization = capPct(m.RawDenialUtilization)

	// SLA: a day's intake must clear within the allowed number of days of
	// stream capacity.
	m.SubmissionSLAMet = subNeeded <= subCapacity*float64(p.SubmissionSLADays)
	m.DenialSLAMet = denNeeded <= denCapacity*float64(p.DenialSLADays)

	m.Quality = e.qualityOverlay(period, m.Staffing.Analysts, m.MonthlyClaims)
	m.DenialRamp = e.denialRamp(m.MonthlyClaims, m.DeniedClaims, subCapacity, denCapacity)

	e.log.Debug().
		Int("period", period).
		Int("active_accounts", m.ActiveAccounts).
		Float64("monthly_claims", m.MonthlyClaims).
		Int("analysts", m.Staffing.Analysts).
		Int("managers", m.Staffing.Managers).
		Str("revenue", m.Revenue.StringFixed(2)).
		Float64("gross_margin_pct", m.GrossMarginPct).
		Bool("submission_sla_met", m.SubmissionSLAMet).
		Bool("denial_sla_met", m.DenialSLAMet).
		Msg("computed month")

	return m, nil
}

// deriveStaffing sizes the analyst pool for a period. Period 0 has no
// operational analysts; overridden pools are taken as given.
func (e *Engine) deriveStaffing(period int, requiredMinutes float64, override *models.StaffingOverride) models.Staffing {
	p := e.params
	d := e.derived

	var s models.Staffing
	switch {
	case override != nil:
		s.SubmissionAnalysts = override.SubmissionAnalysts
		s.DenialAnalysts = override.DenialAnalysts
		s.Analysts = s.SubmissionAnalysts + s.DenialAnalysts
	case period == 0:
		// Hiring month: only the stand-up team is on board.
	default:
		// Analysts = ceil(required * buffer / target_utilization / effective
		// minutes per analyst-month), with a floor of two.
		capacity := d.MinutesPerMonth * p.AvailableTimeFactor
		analysts := int(math.Ceil(requiredMinutes * p.CapacityBuffer / p.TargetUtilization / capacity))
		if analysts < MinAnalysts {
			analysts = MinAnalysts
		}
		s.Analysts = analysts

		// The split rounds each pool up independently, so the pools can sum
		// to one more than the total. The slack is reported as-is.
		s.SubmissionAnalysts = int(math.Ceil(float64(analysts) * p.SubmissionAllocation))
		s.DenialAnalysts = int(math.Ceil(float64(analysts) * p.DenialAllocation))
	}

	if s.Analysts > 0 {
		s.Managers = int(math.Ceil(float64(s.Analysts) / float64(p.AnalystsPerManager)))
	}
	return s
}

// implementationStaff sizes the client-facing implementation team. Ratios
// apply to the analyst pool; onboarding staff follows the accounts added
// this period.
func (e *Engine) implementationStaff(period, analysts int, override *models.StaffingOverride) models.ImplementationStaff {
	if period == 0 {
		return models.ImplementationStaff{}
	}
	if override != nil && override.ImplementationStaff != nil {
		return models.ImplementationStaff{Total: *override.ImplementationStaff}
	}

	p := e.params
	trainers := int(math.Ceil(float64(analysts) / float64(p.TrainerRatio)))
	qa := int(math.Ceil(float64(analysts) / float64(p.QARatio)))
	onboardDays := float64(p.NewAccounts(period)) * p.OnboardingDaysPerAccount
	onboarding := int(math.Ceil(onboardDays / float64(p.WorkingDaysPerMonth*p.HoursPerDay)))

	return models.ImplementationStaff{
		Trainers:        trainers,
		QAStaff:         qa,
		OnboardingStaff: onboarding,
		Total:           trainers + qa + onboarding,
	}
}

// laborCost prices the month's staff. Period 0 carries the hiring team
// instead of the operational core.
func (e *Engine) laborCost(period int, s models.Staffing) models.LaborCost {
	p := e.params
	d := e.derived

	var lc models.LaborCost
	if period == 0 {
		recruiters := p.RecruiterSalary.Mul(decimal.NewFromInt(int64(p.RecruiterCount)))
		lc.HiringTeam = p.USLeadSalary.Add(p.CountryManagerSalary).Add(recruiters)
		lc.Total = lc.HiringTeam
		return lc
	}

	lc.Core = d.AnalystSalary.Mul(decimal.NewFromInt(int64(s.Analysts))).
		Add(d.ManagerSalary.Mul(decimal.NewFromInt(int64(s.Managers))))
	lc.Total = lc.Core
	return lc
}

// overheadCost itemizes the month's overhead: per-head rates over analysts
// plus managers, flat monthly charges, and the one-time office setup in
// period 0.
func (e *Engine) overheadCost(period int, s models.Staffing) models.OverheadCost {
	p := e.params
	heads := decimal.NewFromInt(int64(s.Analysts + s.Managers))

	oc := models.OverheadCost{
		Software:       p.SoftwarePerHead.Mul(heads),
		Office:         p.OfficePerHead.Mul(heads),
		Training:       p.TrainingPerHead.Mul(heads),
		Infrastructure: p.InfrastructureFlat,
		Compliance:     p.ComplianceFlat,
		QA:             p.QAFlat,
	}
	if period == 0 {
		oc.OfficeSetup = p.OfficeSetupOneTime
	}
	oc.Total = oc.Software.Add(oc.Office).Add(oc.Training).
		Add(oc.Infrastructure).Add(oc.Compliance).Add(oc.QA).Add(oc.OfficeSetup)
	return oc
}

// revenue prices the approved claims: collections times the service fee,
// scaled by the optional revenue ramp.
func (e *Engine) revenue(period int, approvedClaims float64) decimal.Decimal {
	p := e.params
	return decimal.NewFromFloat(approvedClaims).
		Mul(p.AvgClaimValue).
		Mul(decimal.NewFromFloat(p.RevenuePercentage)).
		Mul(decimal.NewFromFloat(p.CollectionRate)).
		Mul(decimal.NewFromFloat(p.RevenueRampFactor(period)))
}

// qualityOverlay models the cost of the team still learning: efficiency
// from the ramp curve, the error rate it implies, rework cost, and the
// quality bonus once errors are low enough.
func (e *Engine) qualityOverlay(period, analysts int, monthlyClaims float64) models.QualityOverlay {
	if period == 0 {
		return models.QualityOverlay{}
	}
	p := e.params

	q := models.QualityOverlay{Efficiency: p.EfficiencyFactor(period)}
	q.ErrorRate = (1 - q.Efficiency) * 2
	q.ErrorCost = decimal.NewFromFloat(monthlyClaims * q.ErrorRate * e.derived.PerClaimMinutes).
		Mul(p.ErrorCostMultiplier)
	if q.ErrorRate <= 1-p.QualityBonusThreshold {
		q.BonusCost = p.QualityBonusAmount.Mul(decimal.NewFromInt(int64(analysts)))
	}
	return q
}

// grossMarginPct is (revenue - labor - overhead) / revenue as a percentage,
// 0 when there is no revenue.
func grossMarginPct(revenue, labor, overhead decimal.Decimal) float64 {
	if revenue.IsZero() {
		return 0
	}
	return revenue.Sub(labor).Sub(overhead).Div(revenue).InexactFloat64() * 100
}

// utilizationPct is needed over available as a percentage, 0 when there is
// no capacity.
func utilizationPct(needed, available float64) float64 {
	if available <= 0 {
		return 0
	}
	return needed / available * 100
}

// capPct clamps a percentage to [0, 100] for display.
func capPct(v float64) float64 {
	return math.Min(math.Max(v, 0), 100)
}
