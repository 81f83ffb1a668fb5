package news

import "math"

// Weight returns the digestion factor in [0,1] for a news item on a given day.
//
// Permanent items ramp linearly from 0 to 1 over the first duration days and
// hold at 1 forever. Temporary items ramp up the same way, then decay linearly
// back to 0 over the next duration days, so their total lifetime is 2*duration.
// The weight never jumps except at day boundaries.
func Weight(day, triggerDay, duration int, permanent bool) float64 {
	if day < triggerDay {
		return 0
	}
	if permanent {
		if duration <= 0 {
			return 1
		}
		return math.Min(1, float64(day-triggerDay+1)/float64(duration))
	}
	if duration <= 0 {
		return 0
	}
	age := day - triggerDay
	if age >= 2*duration {
		return 0
	}
	if age < duration {
		return math.Min(1, float64(age+1)/float64(duration))
	}
	return 1 - float64(age-duration)/float64(duration)
}
