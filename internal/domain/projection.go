package domain

import "time"

// MonthBounds возвращает первый и последний день месяца, содержащего date
func MonthBounds(date time.Time) (time.Time, time.Time) {
	first := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}

// ProjectMonth строит сетку статусов на каждый день месяца, содержащего monthStart
// Чистая функция: одинаковые входные данные дают одинаковый результат
func ProjectMonth(template *AvailabilityTemplate, bookings []*Booking, monthStart, today time.Time) []DayStatus {
	first, last := MonthBounds(monthStart)

	byDate := make(map[string][]*Booking)
	for _, b := range bookings {
		if b == nil {
			continue
		}
		key := b.Date.Format(DateFormat)
		byDate[key] = append(byDate[key], b)
	}

	days := make([]DayStatus, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, DayStatus{
			Date:   d,
			Status: ResolveSlotStatus(template, byDate[d.Format(DateFormat)], d, today),
		})
	}

	return days
}
