package optimizer_test

import (
	"errors"
	"testing"

	"rcm-planner/config"
	"rcm-planner/engine"
	customerrors "rcm-planner/errors"
	"rcm-planner/optimizer"

	"github.com/stretchr/testify/assert"
)

func mustOptimizer(t *testing.T, params *config.Params, opts ...optimizer.Option) *optimizer.Optimizer {
	t.Helper()
	opt, err := optimizer.New(params, opts...)
	if err != nil {
		t.Fatalf("optimizer.New() unexpected error = %v", err)
	}
	return opt
}

func TestOptimizeDefaults(t *testing.T) {
	params := config.Default()
	opt := mustOptimizer(t, params)

	sol, err := opt.Optimize(optimizer.Input{})
	assert.NoError(t, err)

	// The canonical month-3 split (197/85) runs its submission pool at
	// 82.5% raw, over the 80% target. Growing the pool to 204 brings it to
	// 79.6%; every denial pool in the window already clears. Cheapest
	// clearing mix is (204, 77).
	assert.True(t, sol.Feasible)
	assert.Equal(t, 3, sol.Period)
	assert.Equal(t, 204, sol.SubmissionAnalysts)
	assert.Equal(t, 77, sol.DenialAnalysts)
	assert.Equal(t, 24, sol.Managers)
	assert.Equal(t, 35, sol.ImplementationStaff)
	assert.Equal(t, 340, sol.TotalStaff)
	assert.Equal(t, "228202.50", sol.TotalCost.StringFixed(2))
	assert.InDelta(t, 69.57, sol.GrossMarginPct, 0.01)
	assert.InDelta(t, 79.65, sol.SubmissionUtilization, 0.01)
	assert.InDelta(t, 31.65, sol.DenialUtilization, 0.01)
	assert.LessOrEqual(t, sol.SubmissionUtilization, params.TargetUtilization*100)
	assert.LessOrEqual(t, sol.DenialUtilization, params.TargetUtilization*100)

	// 17x17 neighborhood, fully scanned.
	assert.Equal(t, 289, sol.Iterations)
	assert.Equal(t, "grid", sol.Strategy)
}

func TestOptimizeRespectsIterationBudget(t *testing.T) {
	opt := mustOptimizer(t, config.Default())

	sol, err := opt.Optimize(optimizer.Input{MaxIterations: 5})
	assert.NoError(t, err)
	assert.NotNil(t, sol)

	// Five evaluations only reach the low edge of the grid, where the
	// submission pool is overloaded.
	assert.Equal(t, 5, sol.Iterations)
	assert.False(t, sol.Feasible)
	assert.Equal(t, 189, sol.SubmissionAnalysts)
	assert.Equal(t, 77, sol.DenialAnalysts)
}

func TestOptimizeOverConstrained(t *testing.T) {
	opt := mustOptimizer(t, config.Default())

	// A 1% utilization cap is unreachable at any pool size in the window:
	// the search exhausts the grid and hands back its least-bad mix.
	sol, err := opt.Optimize(optimizer.Input{MaxUtilization: 1})
	assert.NoError(t, err)
	assert.NotNil(t, sol)
	assert.False(t, sol.Feasible)
	assert.Equal(t, 289, sol.Iterations)
	assert.Greater(t, sol.SubmissionUtilization, 1.0)
	assert.Greater(t, sol.TotalStaff, 0)
}

func TestOptimizePeriodValidation(t *testing.T) {
	opt := mustOptimizer(t, config.Default())

	tests := map[string]struct {
		period int
	}{
		"NegativePeriod": {period: -1},
		"BeyondSchedule": {period: 99},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sol, err := opt.Optimize(optimizer.Input{Period: tt.period})
			assert.Nil(t, sol)
			assert.True(t, errors.Is(err, customerrors.ErrPeriodOutOfRange))

			var perr *customerrors.PeriodError
			assert.True(t, errors.As(err, &perr))
			assert.Equal(t, 1, perr.Min)
			assert.Equal(t, 3, perr.Max)
		})
	}
}

func TestOptimizeZeroPeriodDefaultsToLastMonth(t *testing.T) {
	opt := mustOptimizer(t, config.Default())

	sol, err := opt.Optimize(optimizer.Input{MaxIterations: 1})
	assert.NoError(t, err)
	assert.Equal(t, 3, sol.Period)
}

func TestDefaultInput(t *testing.T) {
	in := optimizer.DefaultInput(config.Default())

	assert.Equal(t, 3, in.Period)
	assert.InDelta(t, 80.0, in.MaxUtilization, 0.0001)
	assert.InDelta(t, 60.0, in.MinMarginPct, 0.0001)
	assert.True(t, in.RequireSLA)
	assert.Equal(t, optimizer.DefaultMaxIterations, in.MaxIterations)
}

func TestGridSearchWindow(t *testing.T) {
	opt := mustOptimizer(t, config.Default(),
		optimizer.WithStrategy(&optimizer.GridSearch{Window: 2}))

	// A +-2 window around (197, 85) never reaches the 204 submission
	// analysts the utilization cap needs; the closest mix is reported.
	sol, err := opt.Optimize(optimizer.Input{})
	assert.NoError(t, err)
	assert.False(t, sol.Feasible)
	assert.Equal(t, 25, sol.Iterations)
	assert.Equal(t, 199, sol.SubmissionAnalysts)
}

type fixedStrategy struct {
	sol *optimizer.Solution
}

func (s *fixedStrategy) Name() string {
	return "fixed"
}

func (s *fixedStrategy) Search(_ *engine.Engine, in optimizer.Input) (*optimizer.Solution, error) {
	s.sol.Period = in.Period
	return s.sol, nil
}

func TestCustomStrategy(t *testing.T) {
	fixed := &fixedStrategy{sol: &optimizer.Solution{Strategy: "fixed", Feasible: true}}
	opt := mustOptimizer(t, config.Default(), optimizer.WithStrategy(fixed))

	sol, err := opt.Optimize(optimizer.Input{Period: 2})
	assert.NoError(t, err)
	assert.Equal(t, "fixed", sol.Strategy)
	assert.Equal(t, 2, sol.Period)
}

func TestSensitivityRevenueSweep(t *testing.T) {
	opt := mustOptimizer(t, config.Default())

	values := []float64{0.04, 0.05, 0.06}
	table, err := opt.SensitivityAnalysis("revenue_percentage", values)
	assert.NoError(t, err)

	assert.Equal(t, "revenue_percentage", table.Parameter)
	assert.Equal(t, 3, table.Period)
	assert.Len(t, table.Rows, 3)

	// Revenue share moves margin but never staffing.
	expectedNet := []string{"153047.50", "303047.50", "453047.50"}
	for i, row := range table.Rows {
		assert.Equal(t, values[i], row.Value)
		assert.Equal(t, 340, row.TotalStaff)
		assert.Equal(t, expectedNet[i], row.NetMargin.StringFixed(2))
	}
	assert.InDelta(t, 61.97, table.Rows[0].GrossMarginPct, 0.01)
	assert.InDelta(t, 69.57, table.Rows[1].GrossMarginPct, 0.01)
	assert.InDelta(t, 74.64, table.Rows[2].GrossMarginPct, 0.01)
}

func TestSensitivitySalarySweep(t *testing.T) {
	opt := mustOptimizer(t, config.Default())

	table, err := opt.SensitivityAnalysis("analyst_base_salary", []float64{300, 355, 400})
	assert.NoError(t, err)
	assert.Len(t, table.Rows, 3)

	// Payroll eats margin monotonically while the headcount stands still.
	for i := 1; i < len(table.Rows); i++ {
		assert.True(t, table.Rows[i].NetMargin.LessThan(table.Rows[i-1].NetMargin))
		assert.Equal(t, table.Rows[0].TotalStaff, table.Rows[i].TotalStaff)
	}
	assert.Equal(t, "329200.00", table.Rows[0].NetMargin.StringFixed(2))
}

func TestSensitivityUnknownParameter(t *testing.T) {
	opt := mustOptimizer(t, config.Default())

	table, err := opt.SensitivityAnalysis("coffee_budget", []float64{1, 2})
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, customerrors.ErrUnknownParameter))
	assert.Contains(t, err.Error(), `"coffee_budget"`)
}

func TestSensitivityInvalidSweepValue(t *testing.T) {
	opt := mustOptimizer(t, config.Default())

	// 1.5 is not a valid approval fraction; the sweep surfaces the
	// parameter validation error with sweep context.
	table, err := opt.SensitivityAnalysis("target_approval_rate", []float64{1.5})
	assert.Nil(t, table)
	assert.True(t, errors.Is(err, customerrors.ErrNotFraction))
	assert.Contains(t, err.Error(), "sweep target_approval_rate=1.5")
}

func TestOptimizerRejectsInvalidParams(t *testing.T) {
	params := config.Default()
	params.TotalAccounts = 0

	opt, err := optimizer.New(params)
	assert.Nil(t, opt)
	assert.True(t, errors.Is(err, customerrors.ErrNotPositive))
}
