package request_reschedule

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByTutorWithFilter(ctx context.Context, filter domain.TutorBookingsFilter) ([]*domain.Booking, error)
	CountByStudentWithFilter(ctx context.Context, filter domain.StudentBookingsFilter) (int, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
}

// AvailabilityRepository интерфейс репозитория шаблонов доступности
type AvailabilityRepository interface {
	GetByTutorID(ctx context.Context, tutorID int64) (*domain.AvailabilityTemplate, error)
}

// ProfileServiceClient интерфейс клиента для ProfileService
type ProfileServiceClient interface {
	GetTutor(ctx context.Context, tutorID int64) (*profileservice.Tutor, error)
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
