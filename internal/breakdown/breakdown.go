// Package breakdown turns a life expectancy, current age and daily worry
// hours into the derived time-remaining figures shown on the results page.
package breakdown

import (
	"precioustime/internal/models"
)

const (
	// DaysPerYear averages out leap years
	DaysPerYear = 365.25
	// SleepHoursPerDay is only used to estimate remaining waking time; it is
	// not subtracted from the total hours figure.
	SleepHoursPerDay = 8.0
)

// Compute derives a TimeBreakdown from its three inputs. If the current age
// has reached the life expectancy, YearsRemaining is 0 and no worry or
// effective figures are produced.
//
// EffectiveHours may go negative when the daily worry hours exceed what the
// remaining days can hold; that is reported as-is, not clamped.
func Compute(lifeExpectancyYears float64, currentAge int, dailyWorryHours float64) models.TimeBreakdown {
	b := models.TimeBreakdown{
		LifeExpectancy:  lifeExpectancyYears,
		CurrentAge:      currentAge,
		DailyWorryHours: dailyWorryHours,
	}

	yearsRemaining := lifeExpectancyYears - float64(currentAge)
	if yearsRemaining <= 0 {
		return b
	}

	b.YearsRemaining = yearsRemaining
	b.TotalDays = yearsRemaining * DaysPerYear
	b.TotalHours = b.TotalDays * 24

	b.TotalWorryHours = dailyWorryHours * b.TotalDays
	b.TotalWorryDays = b.TotalWorryHours / 24
	b.TotalWorryYears = b.TotalWorryDays / DaysPerYear

	b.EffectiveHours = b.TotalHours - b.TotalWorryHours
	b.EffectiveDays = b.EffectiveHours / 24
	b.EffectiveYears = b.EffectiveDays / DaysPerYear

	wakingHoursRemaining := yearsRemaining * DaysPerYear * (24 - SleepHoursPerDay)
	if wakingHoursRemaining > 0 {
		b.WorryPercentage = (b.TotalWorryHours / wakingHoursRemaining) * 100
	}

	return b
}
