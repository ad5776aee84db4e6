package domain

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending             BookingStatus = "pending"
	StatusConfirmed           BookingStatus = "confirmed"
	StatusCancelled           BookingStatus = "cancelled"
	StatusOnHold              BookingStatus = "on_hold"
	StatusRescheduleRequested BookingStatus = "reschedule_requested"
)

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Booking represents a tutoring session booking
type Booking struct {
	ID          int64
	TutorID     int64
	StudentID   int64
	TutorName   string
	StudentName string
	Date        time.Time // календарная дата без времени и часового пояса
	Start       types.TimeString
	End         types.TimeString
	LessonType  string
	Status      BookingStatus

	// RelatedBookingID для on_hold бронирования указывает на исходное (reschedule_requested)
	RelatedBookingID *int64

	Amount float64 // стоимость на момент бронирования

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLive returns true if the booking has not been cancelled
func (b *Booking) IsLive() bool {
	return b.Status != StatusCancelled
}

// HoldsSlot returns true if the booking occupies its tutor's day
func (b *Booking) HoldsSlot() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed || b.Status == StatusOnHold
}

// IsParticipant returns true if the user is the tutor or the student of the booking
func (b *Booking) IsParticipant(userID int64) bool {
	return b.TutorID == userID || b.StudentID == userID
}

// CounterpartyOf returns the other participant of the booking
func (b *Booking) CounterpartyOf(userID int64) int64 {
	if userID == b.TutorID {
		return b.StudentID
	}
	return b.TutorID
}

// Clone returns a deep copy
func (b *Booking) Clone() *Booking {
	if b == nil {
		return nil
	}
	c := *b
	if b.RelatedBookingID != nil {
		id := *b.RelatedBookingID
		c.RelatedBookingID = &id
	}
	return &c
}

// TutorBookingsFilter фильтр для получения бронирований репетитора
type TutorBookingsFilter struct {
	TutorID         int64           // Обязательный параметр
	StartDate       *time.Time      // Начало периода включительно (опционально)
	EndDate         *time.Time      // Конец периода включительно (опционально)
	Statuses        []BookingStatus // Фильтр по статусам (опционально)
	IncludeInactive bool            // Включать ли отменённые, если Statuses не задан
	SortAscending   bool            // По умолчанию сначала новые
	Limit           int             // 0 = без ограничения
}

// IsSingleDate returns true if the filter targets exactly one calendar date
func (f TutorBookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && SameDate(*f.StartDate, *f.EndDate)
}

// Matches проверяет бронирование на соответствие фильтру (используется in-memory хранилищем)
func (f TutorBookingsFilter) Matches(b *Booking) bool {
	if b.TutorID != f.TutorID {
		return false
	}
	return matchesPeriod(b, f.StartDate, f.EndDate, f.Statuses, f.IncludeInactive)
}

// StudentBookingsFilter фильтр для получения бронирований студента у всех репетиторов
type StudentBookingsFilter struct {
	StudentID       int64
	StartDate       *time.Time
	EndDate         *time.Time
	Statuses        []BookingStatus
	IncludeInactive bool
	SortAscending   bool
	Limit           int
}

// IsSingleDate returns true if the filter targets exactly one calendar date
func (f StudentBookingsFilter) IsSingleDate() bool {
	return f.StartDate != nil && f.EndDate != nil && SameDate(*f.StartDate, *f.EndDate)
}

// Matches проверяет бронирование на соответствие фильтру
func (f StudentBookingsFilter) Matches(b *Booking) bool {
	if b.StudentID != f.StudentID {
		return false
	}
	return matchesPeriod(b, f.StartDate, f.EndDate, f.Statuses, f.IncludeInactive)
}

func matchesPeriod(b *Booking, start, end *time.Time, statuses []BookingStatus, includeInactive bool) bool {
	if start != nil && DateOnly(b.Date).Before(DateOnly(*start)) {
		return false
	}
	if end != nil && DateOnly(b.Date).After(DateOnly(*end)) {
		return false
	}
	if len(statuses) > 0 {
		for _, s := range statuses {
			if b.Status == s {
				return true
			}
		}
		return false
	}
	return includeInactive || b.IsLive()
}

// SessionsSummary сводка занятий: ближайшие и недавно прошедшие
type SessionsSummary struct {
	Upcoming      []*Booking
	UpcomingTotal int
	Past          []*Booking
	PastTotal     int
}

// DateOnly обнуляет время, оставляя календарную дату (UTC как наивная дата)
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SameDate проверяет, что две даты относятся к одному календарному дню
func SameDate(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
