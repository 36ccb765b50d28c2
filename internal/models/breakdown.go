package models

// TimeBreakdown is the derived time-remaining arithmetic for one submission.
// Created once per calculation and never mutated.
type TimeBreakdown struct {
	LifeExpectancy  float64
	CurrentAge      int
	DailyWorryHours float64

	YearsRemaining float64
	TotalDays      float64
	TotalHours     float64

	TotalWorryHours float64
	TotalWorryDays  float64
	TotalWorryYears float64

	EffectiveHours float64
	EffectiveDays  float64
	EffectiveYears float64

	WorryPercentage float64 // share of remaining waking hours spent worrying
}

// Surpassed reports whether the visitor has already reached the average
// life expectancy, in which case no worry figures exist.
func (b TimeBreakdown) Surpassed() bool {
	return b.YearsRemaining <= 0
}
