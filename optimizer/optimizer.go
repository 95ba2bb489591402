// Package optimizer searches staffing mixes against the calculation engine
// and sweeps parameters for sensitivity analysis. The search is bounded by
// an explicit iteration budget and reports the best mix found so far when
// the budget runs out, rather than failing.
package optimizer

import (
	"rcm-planner/config"
	"rcm-planner/engine"
	"rcm-planner/errors"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultMaxIterations bounds a search when the caller does not.
const DefaultMaxIterations = 2000

// Input is the constraint set for one optimization run.
type Input struct {
	// Period is the onboarding month to optimize, 1..N.
	Period int
	// MaxUtilization caps the raw per-stream utilization, in percent.
	MaxUtilization float64
	// MinMarginPct is the gross margin floor, in percent.
	MinMarginPct float64
	// RequireSLA demands both streams meet their SLA.
	RequireSLA bool
	// MaxIterations is the evaluation budget for the search.
	MaxIterations int
}

// DefaultInput derives the constraint set from the parameter set: the last
// onboarding month, the target utilization and margin, SLAs required.
func DefaultInput(params *config.Params) Input {
	return Input{
		Period:         params.MaxPeriod(),
		MaxUtilization: params.TargetUtilization * 100,
		MinMarginPct:   params.TargetMargin * 100,
		RequireSLA:     true,
		MaxIterations:  DefaultMaxIterations,
	}
}

// Solution is the staffing mix a search settled on. Feasible reports
// whether every constraint holds; an exhausted or over-constrained search
// still returns its best candidate with Feasible false.
type Solution struct {
	Period                int             `json:"period"`
	SubmissionAnalysts    int             `json:"submission_analysts"`
	DenialAnalysts        int             `json:"denial_analysts"`
	Managers              int             `json:"managers"`
	ImplementationStaff   int             `json:"implementation_staff"`
	TotalStaff            int             `json:"total_staff"`
	TotalCost             decimal.Decimal `json:"total_cost"`
	GrossMarginPct        float64         `json:"gross_margin_pct"`
	SubmissionUtilization float64         `json:"submission_utilization"`
	DenialUtilization     float64         `json:"denial_utilization"`
	Feasible              bool            `json:"feasible"`
	Iterations            int             `json:"iterations"`
	Strategy              string          `json:"strategy"`
}

// Strategy is a pluggable search over staffing mixes.
type Strategy interface {
	Name() string
	Search(eng *engine.Engine, in Input) (*Solution, error)
}

// Optimizer runs a strategy against an engine built from its own view of
// the parameter set.
type Optimizer struct {
	eng      *engine.Engine
	strategy Strategy
	log      zerolog.Logger
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithStrategy replaces the default grid search.
func WithStrategy(s Strategy) Option {
	return func(o *Optimizer) {
		o.strategy = s
	}
}

// WithLogger attaches a logger for search events.
func WithLogger(log zerolog.Logger) Option {
	return func(o *Optimizer) {
		o.log = log
	}
}

// New validates the parameter set and builds an optimizer with the default
// grid search strategy.
func New(params *config.Params, opts ...Option) (*Optimizer, error) {
	eng, err := engine.New(params)
	if err != nil {
		return nil, err
	}
	o := &Optimizer{
		eng:      eng,
		strategy: &GridSearch{},
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Optimize runs the configured strategy. Zero-valued Period, MaxUtilization,
// MinMarginPct, and MaxIterations fall back to DefaultInput; RequireSLA is
// taken as given.
func (o *Optimizer) Optimize(in Input) (*Solution, error) {
	params := o.eng.Params()
	def := DefaultInput(params)
	if in.Period == 0 {
		in.Period = def.Period
	}
	if in.MaxUtilization == 0 {
		in.MaxUtilization = def.MaxUtilization
	}
	if in.MinMarginPct == 0 {
		in.MinMarginPct = def.MinMarginPct
	}
	if in.MaxIterations == 0 {
		in.MaxIterations = def.MaxIterations
	}
	if in.Period < 1 || in.Period > params.MaxPeriod() {
		return nil, &errors.PeriodError{
			Period: in.Period,
			Min:    1,
			Max:    params.MaxPeriod(),
			Err:    errors.ErrPeriodOutOfRange,
		}
	}

	o.log.Debug().
		Int("period", in.Period).
		Float64("max_utilization", in.MaxUtilization).
		Float64("min_margin_pct", in.MinMarginPct).
		Bool("require_sla", in.RequireSLA).
		Str("strategy", o.strategy.Name()).
		Msg("optimizing staffing mix")

	sol, err := o.strategy.Search(o.eng, in)
	if err != nil {
		return nil, err
	}

	o.log.Info().
		Bool("feasible", sol.Feasible).
		Int("iterations", sol.Iterations).
		Int("total_staff", sol.TotalStaff).
		Str("total_cost", sol.TotalCost.StringFixed(2)).
		Msg("search finished")
	return sol, nil
}
