package domain

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// Business validation constants
const (
	MaxLessonTypeLength = 64
	MaxNameLength       = 255

	// DefaultSessionsLimit размер списков ближайших и прошедших занятий
	DefaultSessionsLimit = 5
)

// SlotHoldingStatuses статусы, которые занимают день репетитора
// В любой момент на пару (tutor, date) допускается не более одного такого бронирования
var SlotHoldingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusOnHold,
}

// LiveStatuses статусы живых бронирований (все, кроме cancelled)
// Любое из них делает день недоступным для нового бронирования
var LiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusOnHold,
	StatusRescheduleRequested,
}

// UpcomingStatuses статусы, которые показываются в списке ближайших занятий
var UpcomingStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusOnHold,
}

// AllStatuses все допустимые статусы бронирования
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCancelled,
	StatusOnHold,
	StatusRescheduleRequested,
}
