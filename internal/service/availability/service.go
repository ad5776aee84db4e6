package availability

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/service/availability/models"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
)

// TransitionUpdate имя команды обновления шаблона в метриках движка
const TransitionUpdate = "update_availability"

// Service сервис для работы с шаблонами доступности репетиторов
type Service struct {
	availabilityRepo AvailabilityRepository
	engine           LifecycleEngine
	logger           Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(
	availabilityRepo AvailabilityRepository,
	engine LifecycleEngine,
	logger Logger,
) *Service {
	return &Service{
		availabilityRepo: availabilityRepo,
		engine:           engine,
		logger:           logger,
	}
}

// Get возвращает шаблон репетитора (публичный)
// Репетитор без сохранённого шаблона получает все дни выключенными
func (s *Service) Get(ctx context.Context, tutorID int64) (*models.AvailabilityResponse, error) {
	template, err := s.availabilityRepo.GetByTutorID(ctx, tutorID)
	if err != nil {
		s.logger.Error("Get: repository error for tutor=%d: %v", tutorID, err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainTemplate(template), nil
}

// Update заменяет шаблон целиком
// Изменение проходит через движок: под блокировкой репетитора, с инвалидацией кэша календаря.
// Существующие бронирования не затрагиваются
func (s *Service) Update(ctx context.Context, req *models.UpdateAvailabilityRequest) (*models.AvailabilityResponse, error) {
	s.logger.Info("Update: updating availability for tutor=%d by user=%d", req.TutorID, req.ActorID)

	// 1. Только сам репетитор
	if req.ActorID != req.TutorID {
		s.logger.Warn("Update: user=%d is not tutor=%d", req.ActorID, req.TutorID)
		return nil, ErrAccessDenied
	}

	// 2. Собираем и проверяем шаблон
	template, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Update: invalid days for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := template.Validate(); err != nil {
		s.logger.Warn("Update: invalid template for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	// 3. Сохраняем. Событие не публикуется: статусы бронирований не меняются
	var saved *domain.AvailabilityTemplate
	commandID, err := s.engine.Run(ctx, req.TutorID, TransitionUpdate, func(txCtx context.Context, _ lifecycle.Command) (*domain.BookingEvent, error) {
		stored, upsertErr := s.availabilityRepo.Upsert(txCtx, template)
		if upsertErr != nil {
			return nil, upsertErr
		}
		saved = stored
		return nil, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, lifecycle.ErrLockTimeout),
			errors.Is(err, lifecycle.ErrConcurrentUpdate),
			errors.Is(err, context.Canceled),
			errors.Is(err, context.DeadlineExceeded):
			return nil, err
		}
		s.logger.Error("Update: failed to save availability for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: Update - %v", ErrInternal, err)
	}

	s.logger.Info("Update: availability for tutor=%d saved, command=%s", req.TutorID, commandID)

	resp := models.FromDomainTemplate(saved)
	resp.CommandID = commandID.String()
	return resp, nil
}
