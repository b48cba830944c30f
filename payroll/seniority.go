package payroll

import (
	"time"

	"github.com/warp/shift-payroll/generic"
)

const daysPerYear = 365.25

// seniorityStep is the lower bound (years) of a step and the percent it pays.
type seniorityStep struct {
	years   float64
	percent int
}

// Steps are checked from the longest tenure down.
var senioritySteps = []seniorityStep{
	{20, 30},
	{15, 25},
	{10, 20},
	{5, 15},
	{3, 10},
	{0, 5},
}

// SeniorityPercent returns the tenure bonus percent at now. An unknown or
// future start date yields 0.
func SeniorityPercent(start *generic.TimePoint, now time.Time) int {
	if start == nil || start.IsZero() || start.Time.After(now) {
		return 0
	}
	years := float64(generic.DaysBetween(*start, generic.FromTime(now))) / daysPerYear
	for _, step := range senioritySteps {
		if years >= step.years {
			return step.percent
		}
	}
	return 0
}
