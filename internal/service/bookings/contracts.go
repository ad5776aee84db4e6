package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
	CountByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) (int, error)
	GetByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) ([]*domain.Booking, error)
	CountByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) (int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// LifecycleEngine выполняет команду под блокировкой репетитора в транзакции
type LifecycleEngine interface {
	Run(ctx context.Context, tutorID int64, transition string, fn lifecycle.TransitionFunc) (uuid.UUID, error)
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
