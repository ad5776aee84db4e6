package domain

import "fmt"

// allowedTransitions допустимые переходы статусов бронирования
var allowedTransitions = map[BookingStatus][]BookingStatus{
	StatusPending:             {StatusConfirmed, StatusCancelled},
	StatusConfirmed:           {StatusCancelled, StatusRescheduleRequested},
	StatusOnHold:              {StatusConfirmed, StatusCancelled},
	StatusRescheduleRequested: {StatusConfirmed, StatusCancelled},
}

// CanTransition проверяет, разрешён ли переход from -> to
func CanTransition(from, to BookingStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Accept pending -> confirmed
func (b *Booking) Accept() error {
	if err := b.require(StatusPending); err != nil {
		return err
	}
	return b.moveTo(StatusConfirmed)
}

// Cancel pending|confirmed -> cancelled
func (b *Booking) Cancel() error {
	if err := b.require(StatusPending, StatusConfirmed); err != nil {
		return err
	}
	return b.moveTo(StatusCancelled)
}

// FreezeForReschedule confirmed -> reschedule_requested
func (b *Booking) FreezeForReschedule() error {
	if err := b.require(StatusConfirmed); err != nil {
		return err
	}
	return b.moveTo(StatusRescheduleRequested)
}

// ApproveReschedule подтверждает перенос: on_hold -> confirmed, исходное -> cancelled
// Проверки выполняются до изменения, при ошибке обе записи остаются без изменений
func (b *Booking) ApproveReschedule(original *Booking) error {
	if err := b.checkReschedulePair(original); err != nil {
		return err
	}
	b.Status = StatusConfirmed
	original.Status = StatusCancelled
	return nil
}

// RejectReschedule отклоняет перенос: on_hold -> cancelled, исходное -> confirmed
func (b *Booking) RejectReschedule(original *Booking) error {
	if err := b.checkReschedulePair(original); err != nil {
		return err
	}
	b.Status = StatusCancelled
	original.Status = StatusConfirmed
	return nil
}

func (b *Booking) checkReschedulePair(original *Booking) error {
	if err := b.require(StatusOnHold); err != nil {
		return err
	}
	if b.RelatedBookingID == nil || original == nil || original.ID != *b.RelatedBookingID {
		return fmt.Errorf("%w: booking id=%d has no matching original booking", ErrInvalidTransition, b.ID)
	}
	if err := original.require(StatusRescheduleRequested); err != nil {
		return err
	}
	return nil
}

func (b *Booking) require(statuses ...BookingStatus) error {
	for _, s := range statuses {
		if b.Status == s {
			return nil
		}
	}
	return fmt.Errorf("%w: booking id=%d is %s, expected one of %v", ErrInvalidTransition, b.ID, b.Status, statuses)
}

func (b *Booking) moveTo(to BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, to)
	}
	b.Status = to
	return nil
}
