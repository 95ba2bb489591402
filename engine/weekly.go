package engine

import "rcm-planner/models"

const (
	// RampWeeks is the length of the weekly denial ramp-up projection.
	RampWeeks = 12

	// WeeksPerMonth converts monthly claim volumes to weekly ones.
	WeeksPerMonth = 4

	// WorkingDaysPerWeek converts daily capacity to weekly capacity.
	WorkingDaysPerWeek = 5
)

// denialRamp projects the first 12 weeks of denial work for a period.
// Denial volume only exists after claims have been submitted and denied, so
// denial analysts come online gradually along the ramp curve; until then
// their spare minutes back up the submission stream. Weeks past the curve's
// last key run at its terminal fraction.
func (e *Engine) denialRamp(monthlyClaims, deniedClaims, subCapacity, denCapacity float64) []models.WeekDenialMetrics {
	perClaim := e.derived.PerClaimMinutes
	weeklySubmissionMinutes := monthlyClaims / WeeksPerMonth * perClaim

	weeks := make([]models.WeekDenialMetrics, 0, RampWeeks)
	for week := 1; week <= RampWeeks; week++ {
		ramp := e.params.DenialRampFactor(week)

		claims := deniedClaims / WeeksPerMonth * ramp
		required := claims * perClaim * DenialReworkMultiplier
		capacity := denCapacity * WorkingDaysPerWeek * ramp

		// Denial analysts not yet redirected to denial work lend their
		// remaining capacity to submissions.
		effective := subCapacity + denCapacity*(1-ramp)

		weeks = append(weeks, models.WeekDenialMetrics{
			Week:                        week,
			RampFactor:                  ramp,
			DenialClaims:                claims,
			MinutesRequired:             required,
			CapacityMinutes:             capacity,
			Utilization:                 capPct(utilizationPct(required, capacity)),
			EffectiveSubmissionCapacity: effective,
			SubmissionUtilization:       capPct(utilizationPct(weeklySubmissionMinutes, effective*WorkingDaysPerWeek)),
		})
	}
	return weeks
}
