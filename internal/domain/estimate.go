package domain

import (
	"fmt"
	"math"

	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

const minutesPerDay = 24 * 60

// Estimate длительность и стоимость занятия
type Estimate struct {
	Minutes int
	Hours   float64
	Cost    float64
}

// EstimateCost считает длительность и стоимость слота
// end < start означает переход через полночь. Совпадающие start и end дают ErrZeroDuration
func EstimateCost(start, end types.TimeString, hourlyRate float64) (Estimate, error) {
	startMinutes, err := start.Minutes()
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: start: %v", ErrInvalidTime, err)
	}
	endMinutes, err := end.Minutes()
	if err != nil {
		return Estimate{}, fmt.Errorf("%w: end: %v", ErrInvalidTime, err)
	}

	if math.IsNaN(hourlyRate) || math.IsInf(hourlyRate, 0) || hourlyRate < 0 {
		return Estimate{}, fmt.Errorf("%w: %v", ErrInvalidRate, hourlyRate)
	}

	if startMinutes == endMinutes {
		return Estimate{}, ErrZeroDuration
	}

	minutes := endMinutes - startMinutes
	if minutes < 0 {
		minutes += minutesPerDay
	}

	hours := float64(minutes) / 60
	cost := math.Round(hours*hourlyRate*100) / 100

	return Estimate{Minutes: minutes, Hours: hours, Cost: cost}, nil
}
