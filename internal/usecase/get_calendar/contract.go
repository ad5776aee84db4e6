package get_calendar

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/infra/cache/calendar"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
}

// AvailabilityRepository интерфейс репозитория шаблонов доступности
type AvailabilityRepository interface {
	GetByTutorID(ctx context.Context, tutorID int64) (*domain.AvailabilityTemplate, error)
}

// CalendarCache кэш проекций календаря
type CalendarCache interface {
	Get(ctx context.Context, tutorID int64, month, today time.Time) (calendar.Lookup, error)
	Set(ctx context.Context, tutorID, version int64, month, today time.Time, days []domain.DayStatus) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
