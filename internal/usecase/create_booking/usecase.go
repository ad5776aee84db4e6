package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	profileClient "github.com/m04kA/SMC-TutoringService/internal/integrations/profileservice"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
)

// TransitionName имя перехода в метриках и логах движка
const TransitionName = "create"

// UseCase use case для создания бронирования
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

// Execute выполняет use case создания бронирования
// Проверка дня и вставка выполняются под блокировкой репетитора, поэтому
// из конкурирующих запросов на один день успешен ровно один
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: student=%d, tutor=%d, date=%s, window=%s-%s",
		req.StudentID, req.TutorID, req.Date.Format(domain.DateFormat), req.Start, req.End)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateOnly(req.Date)
	today := domain.DateOnly(uc.timeProvider.Now())

	// 2. Получаем профиль репетитора
	tutor, err := uc.profileClient.GetTutor(ctx, req.TutorID)
	if err != nil {
		if errors.Is(err, profileClient.ErrTutorNotFound) {
			uc.logger.Warn("CreateBooking: tutor id=%d not found", req.TutorID)
			return nil, ErrTutorNotFound
		}
		uc.logger.Error("CreateBooking: failed to get tutor id=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: failed to get tutor: %v", ErrInternal, err)
	}

	// 3. Получаем профиль студента
	student, err := uc.profileClient.GetStudent(ctx, req.StudentID)
	if err != nil {
		if errors.Is(err, profileClient.ErrStudentNotFound) {
			uc.logger.Warn("CreateBooking: student id=%d not found", req.StudentID)
			return nil, ErrStudentNotFound
		}
		uc.logger.Error("CreateBooking: failed to get student id=%d: %v", req.StudentID, err)
		return nil, fmt.Errorf("%w: failed to get student: %v", ErrInternal, err)
	}

	// 4. Тип занятия
	lessonType, err := resolveLessonType(req.LessonType, tutor.LessonTypes)
	if err != nil {
		uc.logger.Warn("CreateBooking: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 5. Проверка дня и создание бронирования под блокировкой репетитора
	commandID, err := uc.engine.Run(ctx, req.TutorID, TransitionName, func(txCtx context.Context, cmd lifecycle.Command) (*domain.BookingEvent, error) {
		// 5.1. Шаблон доступности
		template, err := uc.availabilityRepo.GetByTutorID(txCtx, req.TutorID)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get availability: %w", ErrInternal, err)
		}

		// 5.2. Живые бронирования на эту дату (FOR UPDATE)
		bookings, err := uc.bookingRepo.GetByTutorWithFilter(txCtx, domain.TutorBookingsFilter{
			TutorID:   req.TutorID,
			StartDate: &date,
			EndDate:   &date,
			Statuses:  domain.LiveStatuses,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get bookings: %w", ErrInternal, err)
		}

		// 5.3. День должен быть свободен
		status := domain.ResolveSlotStatus(template, bookings, date, today)
		if err := domain.CheckDayBookable(status); err != nil {
			uc.logger.Warn("CreateBooking: tutor=%d date=%s is %s", req.TutorID, date.Format(domain.DateFormat), status)
			return nil, slotError(err)
		}

		// 5.4. Студент не может занять этот день у другого репетитора
		if err := uc.checkStudentDay(txCtx, req.StudentID, date); err != nil {
			return nil, err
		}

		// 5.5. Время занятия и стоимость
		day, _ := template.DayFor(date)
		start, end, err := domain.SlotWindow(day, req.Start, req.End)
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

		// 5.6. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			TutorID:     req.TutorID,
			StudentID:   req.StudentID,
			TutorName:   tutor.Name,
			StudentName: student.Name,
			Date:        date,
			Start:       start,
			End:         end,
			LessonType:  lessonType,
			Status:      domain.StatusPending,
			Amount:      estimate.Cost,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: failed to create booking: %w", ErrInternal, err)
		}

		result = created
		return domain.NewBookingCreatedEvent(created, req.StudentID, cmd.At), nil
	})

	if err != nil {
		// Проиграли гонку за день
		if errors.Is(err, lifecycle.ErrConcurrentUpdate) {
			uc.logger.Warn("CreateBooking: tutor=%d date=%s taken concurrently", req.TutorID, date.Format(domain.DateFormat))
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		if errors.Is(err, ErrInternal) {
			uc.logger.Error("CreateBooking: %v", err)
		}
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, amount=%.2f", result.ID, result.Amount)

	return &Response{CommandID: commandID, Booking: result}, nil
}

// checkStudentDay проверяет, что у студента нет живых бронирований на дату
// Замороженное переносом занятие тоже занимает день: при отказе репетитора оно вернётся в confirmed
func (uc *UseCase) checkStudentDay(ctx context.Context, studentID int64, date time.Time) error {
	count, err := uc.bookingRepo.CountByStudentWithFilter(ctx, domain.StudentBookingsFilter{
		StudentID: studentID,
		StartDate: &date,
		EndDate:   &date,
		Statuses:  domain.LiveStatuses,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to get student bookings: %w", ErrInternal, err)
	}

	if count > 0 {
		uc.logger.Warn("CreateBooking: student=%d already has a booking on %s", studentID, date.Format(domain.DateFormat))
		return ErrStudentBusy
	}

	return nil
}
