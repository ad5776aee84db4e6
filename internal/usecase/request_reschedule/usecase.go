package request_reschedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	profileClient "github.com/m04kA/SMC-TutoringService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
	"github.com/m04kA/SMC-TutoringService/pkg/ptr"
)

// TransitionName имя перехода в метриках и логах движка
const TransitionName = "request_reschedule"

// UseCase use case для запроса переноса занятия
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	profileClient    ProfileServiceClient
	engine           LifecycleEngine
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	profileClient ProfileServiceClient,
	engine LifecycleEngine,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		profileClient:    profileClient,
		engine:           engine,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute замораживает подтверждённое занятие и создаёт on_hold бронирование на новый день
// Исходное бронирование освобождает свой день до решения репетитора
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestReschedule: actor=%d, booking=%d, new date=%s",
		req.ActorID, req.BookingID, req.NewDate.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestReschedule: validation failed: %v", err)
		return nil, err
	}

	newDate := domain.DateOnly(req.NewDate)
	today := domain.DateOnly(uc.timeProvider.Now())

	// 2. Исходное бронирование (вне блокировки, чтобы узнать репетитора)
	original, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			uc.logger.Warn("RequestReschedule: booking id=%d not found", req.BookingID)
			return nil, ErrBookingNotFound
		}
		uc.logger.Error("RequestReschedule: failed to get booking id=%d: %v", req.BookingID, err)
		return nil, fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
	}

	// 3. Перенос запрашивает только студент
	if original.StudentID != req.ActorID {
		uc.logger.Warn("RequestReschedule: user=%d is not the student of booking id=%d", req.ActorID, req.BookingID)
		return nil, ErrAccessDenied
	}

	// 4. Ставка и типы занятий репетитора
	tutor, err := uc.profileClient.GetTutor(ctx, original.TutorID)
	if err != nil {
		if errors.Is(err, profileClient.ErrTutorNotFound) {
			return nil, ErrTutorNotFound
		}
		uc.logger.Error("RequestReschedule: failed to get tutor id=%d: %v", original.TutorID, err)
		return nil, fmt.Errorf("%w: failed to get tutor: %v", ErrInternal, err)
	}

	lessonType, err := resolveLessonType(req.LessonType, original.LessonType, tutor.LessonTypes)
	if err != nil {
		return nil, err
	}

	var result Response

	// 5. Перенос под блокировкой репетитора
	commandID, err := uc.engine.Run(ctx, original.TutorID, TransitionName, func(txCtx context.Context, cmd lifecycle.Command) (*domain.BookingEvent, error) {
		// 5.1. Перечитываем исходное бронирование (FOR UPDATE)
		current, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return nil, ErrBookingNotFound
			}
			return nil, fmt.Errorf("%w: failed to reload booking: %w", ErrInternal, err)
		}

		// 5.2. Переход проверяем до любых изменений
		if err := current.FreezeForReschedule(); err != nil {
			uc.logger.Warn("RequestReschedule: %v", err)
			return nil, fmt.Errorf("%w: %w", ErrInvalidTransition, err)
		}

		// 5.3. Новый день должен быть свободен
		template, err := uc.availabilityRepo.GetByTutorID(txCtx, current.TutorID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
		}

		bookings, err := uc.bookingRepo.GetByTutorWithFilter(txCtx, domain.TutorBookingsFilter{
			TutorID:   current.TutorID,
			StartDate: &newDate,
			EndDate:   &newDate,
			Statuses:  domain.LiveStatuses,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		status := domain.ResolveSlotStatus(template, bookings, newDate, today)
		if err := domain.CheckDayBookable(status); err != nil {
			uc.logger.Warn("RequestReschedule: tutor=%d date=%s is %s", current.TutorID, newDate.Format(domain.DateFormat), status)
			return nil, slotError(err)
		}

		// 5.4. В новый день у студента не должно быть занятий с другими репетиторами
		busy, err := uc.bookingRepo.CountByStudentWithFilter(txCtx, domain.StudentBookingsFilter{
			StudentID: current.StudentID,
			StartDate: &newDate,
			EndDate:   &newDate,
			Statuses:  domain.LiveStatuses,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get student bookings: %w", ErrInternal, err)
		}
		if busy > 0 {
			uc.logger.Warn("RequestReschedule: student=%d already has a booking on %s", current.StudentID, newDate.Format(domain.DateFormat))
			return nil, ErrStudentBusy
		}

		// 5.5. Время и стоимость нового занятия
		day, _ := template.DayFor(newDate)
		start, end, err := domain.SlotWindow(day, req.NewStart, req.NewEnd)
		if err != nil {
			return nil, slotError(err)
		}

		estimate, err := domain.EstimateCost(start, end, tutor.HourlyRate)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidRate) {
				return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrInvalidTimeSlot, err)
		}
		if estimate.Cost <= 0 {
			return nil, fmt.Errorf("%w: lesson amount must be positive", ErrInvalidInput)
		}

		// 5.6. Создаём предложенное бронирование и замораживаем исходное
		proposed, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			TutorID:          current.TutorID,
			StudentID:        current.StudentID,
			TutorName:        current.TutorName,
			StudentName:      current.StudentName,
			Date:             newDate,
			Start:            start,
			End:              end,
			LessonType:       lessonType,
			Status:           domain.StatusOnHold,
			RelatedBookingID: ptr.Ptr(current.ID),
			Amount:           estimate.Cost,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create proposed booking: %w", ErrInternal, err)
		}

		if err := uc.bookingRepo.UpdateStatus(txCtx, current.ID, current.Status); err != nil {
			return nil, fmt.Errorf("%w: failed to freeze booking: %w", ErrInternal, err)
		}

		result.Original = current
		result.Proposed = proposed
		return domain.NewRescheduleRequestedEvent(current, proposed, req.ActorID, cmd.At), nil
	})

	if err != nil {
		if errors.Is(err, lifecycle.ErrConcurrentUpdate) {
			uc.logger.Warn("RequestReschedule: tutor=%d date=%s taken concurrently", original.TutorID, newDate.Format(domain.DateFormat))
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("RequestReschedule: %v", err)
		}
		return nil, err
	}

	result.CommandID = commandID
	uc.logger.Info("RequestReschedule: booking id=%d frozen, proposed booking id=%d", result.Original.ID, result.Proposed.ID)

	return &result, nil
}
