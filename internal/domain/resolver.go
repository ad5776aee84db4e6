package domain

import "time"

// ResolveSlotStatus вычисляет статус календарного дня репетитора
//
// Приоритет (первое совпадение):
//  1. день недели отсутствует в шаблоне или выключен -> disabled
//  2. confirmed -> booked, затем pending, on_hold, reschedule_requested
//  3. живых бронирований нет и дата раньше today -> expired
//  4. иначе available
//
// Учитываются только бронирования с той же датой. Время суток при сравнении
// с today игнорируется. Прошедший день с бронированием сохраняет статус бронирования
func ResolveSlotStatus(template *AvailabilityTemplate, bookings []*Booking, date, today time.Time) SlotStatus {
	day, ok := template.DayFor(date)
	if !ok || !day.Enabled {
		return SlotDisabled
	}

	var confirmed, pending, onHold, rescheduleRequested bool
	for _, b := range bookings {
		if b == nil || !SameDate(b.Date, date) {
			continue
		}
		switch b.Status {
		case StatusConfirmed:
			confirmed = true
		case StatusPending:
			pending = true
		case StatusOnHold:
			onHold = true
		case StatusRescheduleRequested:
			rescheduleRequested = true
		}
	}

	switch {
	case confirmed:
		return SlotBooked
	case pending:
		return SlotPending
	case onHold:
		return SlotOnHold
	case rescheduleRequested:
		return SlotRescheduleRequested
	}

	if DateOnly(date).Before(DateOnly(today)) {
		return SlotExpired
	}

	return SlotAvailable
}
