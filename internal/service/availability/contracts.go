package availability

import (
	"context"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
)

// AvailabilityRepository интерфейс репозитория шаблонов доступности
type AvailabilityRepository interface {
	GetByTutorID(ctx context.Context, tutorID int64) (*domain.AvailabilityTemplate, error)
	Upsert(ctx context.Context, template *domain.AvailabilityTemplate) (*domain.AvailabilityTemplate, error)
}

// LifecycleEngine выполняет команду под блокировкой репетитора в транзакции
type LifecycleEngine interface {
	Run(ctx context.Context, tutorID int64, transition string, fn lifecycle.TransitionFunc) (uuid.UUID, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
