package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TutoringService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
)

// Имена переходов в метриках и логах движка
const (
	TransitionAccept            = "accept"
	TransitionCancel            = "cancel"
	TransitionApproveReschedule = "approve_reschedule"
	TransitionRejectReschedule  = "reject_reschedule"
)

// actorRule кто из участников может выполнить переход
type actorRule int

const (
	tutorOnly actorRule = iota
	anyParticipant
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	engine       LifecycleEngine
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	engine LifecycleEngine,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		engine:       engine,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Видеть бронирование могут только его участники
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.getBooking(ctx, "GetByID", id)
	if err != nil {
		return nil, err
	}

	if !booking.IsParticipant(userID) {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает бронирования пользователя (как студента и как репетитора)
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	if req.ActorID != req.UserID {
		s.logger.Warn("GetUserBookings: user=%d requested bookings of user=%d", req.ActorID, req.UserID)
		return nil, ErrAccessDenied
	}

	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetTutorBookings получает бронирования репетитора с фильтрацией по периоду и статусу
// Доступно только самому репетитору
//
// Примеры использования:
// - Живые бронирования: GetTutorBookings(ctx, &GetTutorBookingsRequest{TutorID: 7, ActorID: 7})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetTutorBookings(ctx context.Context, req *models.GetTutorBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetTutorBookings: fetching bookings for tutor=%d, user=%d", req.TutorID, req.ActorID)

	if req.ActorID != req.TutorID {
		s.logger.Warn("GetTutorBookings: user=%d is not tutor=%d", req.ActorID, req.TutorID)
		return nil, ErrAccessDenied
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetTutorBookings: invalid filter for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.GetByTutorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetTutorBookings: repository error for tutor=%d: %v", req.TutorID, err)
		return nil, fmt.Errorf("%w: GetTutorBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetTutorBookings: successfully fetched %d bookings for tutor=%d", len(bookings), req.TutorID)
	return models.FromDomainBookingList(bookings), nil
}

// GetTutorSessions возвращает ближайшие занятия (с сегодняшнего дня) и недавно прошедшие подтверждённые
// Каждый список ограничен DefaultSessionsLimit, общее количество считается отдельно
func (s *Service) GetTutorSessions(ctx context.Context, tutorID, actorID int64) (*models.SessionsResponse, error) {
	s.logger.Info("GetTutorSessions: tutor=%d, user=%d", tutorID, actorID)

	if actorID != tutorID {
		s.logger.Warn("GetTutorSessions: user=%d is not tutor=%d", actorID, tutorID)
		return nil, ErrAccessDenied
	}

	today := domain.DateOnly(s.timeProvider.Now())
	yesterday := today.AddDate(0, 0, -1)

	upcomingFilter := domain.TutorBookingsFilter{
		TutorID:       tutorID,
		StartDate:     &today,
		Statuses:      domain.UpcomingStatuses,
		SortAscending: true,
		Limit:         domain.DefaultSessionsLimit,
	}
	pastFilter := domain.TutorBookingsFilter{
		TutorID:  tutorID,
		EndDate:  &yesterday,
		Statuses: []domain.BookingStatus{domain.StatusConfirmed},
		Limit:    domain.DefaultSessionsLimit,
	}

	var summary domain.SessionsSummary
	var err error

	if summary.Upcoming, err = s.bookingRepo.GetByTutorWithFilter(ctx, upcomingFilter); err != nil {
		return nil, s.sessionsError("GetTutorSessions", tutorID, "upcoming", err)
	}
	if summary.UpcomingTotal, err = s.bookingRepo.CountByTutorWithFilter(ctx, upcomingFilter); err != nil {
		return nil, s.sessionsError("GetTutorSessions", tutorID, "upcoming count", err)
	}
	if summary.Past, err = s.bookingRepo.GetByTutorWithFilter(ctx, pastFilter); err != nil {
		return nil, s.sessionsError("GetTutorSessions", tutorID, "past", err)
	}
	if summary.PastTotal, err = s.bookingRepo.CountByTutorWithFilter(ctx, pastFilter); err != nil {
		return nil, s.sessionsError("GetTutorSessions", tutorID, "past count", err)
	}

	return models.FromDomainSessions(&summary), nil
}

// GetStudentSessions возвращает прошедшие подтверждённые занятия студента у всех репетиторов
// Сначала самые недавние, не больше DefaultSessionsLimit. TotalCount считает все такие занятия
func (s *Service) GetStudentSessions(ctx context.Context, studentID, actorID int64) (*models.RecentSessionsResponse, error) {
	s.logger.Info("GetStudentSessions: student=%d, user=%d", studentID, actorID)

	if actorID != studentID {
		s.logger.Warn("GetStudentSessions: user=%d is not student=%d", actorID, studentID)
		return nil, ErrAccessDenied
	}

	yesterday := domain.DateOnly(s.timeProvider.Now()).AddDate(0, 0, -1)
	filter := domain.StudentBookingsFilter{
		StudentID: studentID,
		EndDate:   &yesterday,
		Statuses:  []domain.BookingStatus{domain.StatusConfirmed},
		Limit:     domain.DefaultSessionsLimit,
	}

	past, err := s.bookingRepo.GetByStudentWithFilter(ctx, filter)
	if err != nil {
		return nil, s.sessionsError("GetStudentSessions", studentID, "past", err)
	}

	total, err := s.bookingRepo.CountByStudentWithFilter(ctx, filter)
	if err != nil {
		return nil, s.sessionsError("GetStudentSessions", studentID, "past count", err)
	}

	return models.FromDomainRecentSessions(past, total), nil
}

// Accept репетитор подтверждает заявку: pending -> confirmed
func (s *Service) Accept(ctx context.Context, bookingID, actorID int64) (*models.TransitionResponse, error) {
	return s.transition(ctx, "Accept", TransitionAccept, bookingID, actorID, tutorOnly,
		func(txCtx context.Context, cmd lifecycle.Command, b *domain.Booking) (*domain.BookingEvent, *domain.Booking, error) {
			if err := b.Accept(); err != nil {
				return nil, nil, err
			}
			if err := s.bookingRepo.UpdateStatus(txCtx, b.ID, b.Status); err != nil {
				return nil, nil, err
			}
			return domain.NewBookingAcceptedEvent(b, actorID, cmd.At), nil, nil
		})
}

// Cancel отменяет бронирование: pending|confirmed -> cancelled
// Отменить может любой участник, уведомление получает вторая сторона
func (s *Service) Cancel(ctx context.Context, bookingID, actorID int64) (*models.TransitionResponse, error) {
	return s.transition(ctx, "Cancel", TransitionCancel, bookingID, actorID, anyParticipant,
		func(txCtx context.Context, cmd lifecycle.Command, b *domain.Booking) (*domain.BookingEvent, *domain.Booking, error) {
			from := b.Status
			if err := b.Cancel(); err != nil {
				return nil, nil, err
			}
			if err := s.bookingRepo.UpdateStatus(txCtx, b.ID, b.Status); err != nil {
				return nil, nil, err
			}
			return domain.NewBookingCancelledEvent(b, from, actorID, cmd.At), nil, nil
		})
}

// ApproveReschedule репетитор подтверждает перенос: on_hold -> confirmed, исходное -> cancelled
func (s *Service) ApproveReschedule(ctx context.Context, bookingID, actorID int64) (*models.TransitionResponse, error) {
	return s.transition(ctx, "ApproveReschedule", TransitionApproveReschedule, bookingID, actorID, tutorOnly,
		func(txCtx context.Context, cmd lifecycle.Command, proposed *domain.Booking) (*domain.BookingEvent, *domain.Booking, error) {
			original, err := s.loadOriginal(txCtx, proposed)
			if err != nil {
				return nil, nil, err
			}
			if err := proposed.ApproveReschedule(original); err != nil {
				return nil, nil, err
			}
			if err := s.savePair(txCtx, proposed, original); err != nil {
				return nil, nil, err
			}
			return domain.NewRescheduleApprovedEvent(proposed, original, actorID, cmd.At), original, nil
		})
}

// RejectReschedule репетитор отклоняет перенос: on_hold -> cancelled, исходное -> confirmed
func (s *Service) RejectReschedule(ctx context.Context, bookingID, actorID int64) (*models.TransitionResponse, error) {
	return s.transition(ctx, "RejectReschedule", TransitionRejectReschedule, bookingID, actorID, tutorOnly,
		func(txCtx context.Context, cmd lifecycle.Command, proposed *domain.Booking) (*domain.BookingEvent, *domain.Booking, error) {
			original, err := s.loadOriginal(txCtx, proposed)
			if err != nil {
				return nil, nil, err
			}
			if err := proposed.RejectReschedule(original); err != nil {
				return nil, nil, err
			}
			if err := s.savePair(txCtx, proposed, original); err != nil {
				return nil, nil, err
			}
			return domain.NewRescheduleRejectedEvent(proposed, original, actorID, cmd.At), original, nil
		})
}

// Вспомогательные методы

// applyFunc применяет переход к перечитанному внутри транзакции бронированию
// Возвращает событие и вторую запись пары (для переноса)
type applyFunc func(txCtx context.Context, cmd lifecycle.Command, b *domain.Booking) (*domain.BookingEvent, *domain.Booking, error)

// transition общий сценарий команды над существующим бронированием:
// чтение вне блокировки, проверка прав, перечитывание и переход под блокировкой репетитора
func (s *Service) transition(
	ctx context.Context,
	op string,
	name string,
	bookingID int64,
	actorID int64,
	rule actorRule,
	apply applyFunc,
) (*models.TransitionResponse, error) {
	s.logger.Info("%s: booking id=%d by user=%d", op, bookingID, actorID)

	// 1. Узнаём репетитора (он у бронирования не меняется)
	booking, err := s.getBooking(ctx, op, bookingID)
	if err != nil {
		return nil, err
	}

	// 2. Проверяем права
	if err := checkActor(booking, actorID, rule); err != nil {
		s.logger.Warn("%s: access denied for user=%d to booking id=%d", op, actorID, bookingID)
		return nil, err
	}

	var result, related *domain.Booking

	// 3. Переход под блокировкой репетитора
	commandID, err := s.engine.Run(ctx, booking.TutorID, name, func(txCtx context.Context, cmd lifecycle.Command) (*domain.BookingEvent, error) {
		current, err := s.bookingRepo.GetByID(txCtx, bookingID)
		if err != nil {
			return nil, err
		}

		event, pair, err := apply(txCtx, cmd, current)
		if err != nil {
			return nil, err
		}

		result, related = current, pair
		return event, nil
	})

	if err != nil {
		return nil, s.mapTransitionError(op, bookingID, err)
	}

	s.logger.Info("%s: booking id=%d is now %s", op, result.ID, result.Status)
	return models.NewTransitionResponse(commandID, result, related), nil
}

func (s *Service) getBooking(ctx context.Context, op string, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("%s: booking id=%d not found", op, id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("%s: repository error for booking id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return booking, nil
}

// loadOriginal перечитывает исходное бронирование пары переноса
// Отсутствие связи не ошибка чтения: пара проверяется доменным переходом
func (s *Service) loadOriginal(ctx context.Context, proposed *domain.Booking) (*domain.Booking, error) {
	if proposed.RelatedBookingID == nil {
		return nil, nil
	}

	original, err := s.bookingRepo.GetByID(ctx, *proposed.RelatedBookingID)
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, nil
	}
	return original, err
}

// savePair сохраняет пару переноса. Предложенное бронирование обновляется первым:
// при отклонении оно освобождает новый день до того, как исходное вернётся в confirmed
func (s *Service) savePair(ctx context.Context, proposed, original *domain.Booking) error {
	if err := s.bookingRepo.UpdateStatus(ctx, proposed.ID, proposed.Status); err != nil {
		return err
	}
	return s.bookingRepo.UpdateStatus(ctx, original.ID, original.Status)
}

func (s *Service) mapTransitionError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidTransition):
		s.logger.Warn("%s: booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %w", ErrInvalidTransition, err)
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return ErrBookingNotFound
	case errors.Is(err, lifecycle.ErrLockTimeout),
		errors.Is(err, lifecycle.ErrConcurrentUpdate),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		s.logger.Error("%s: booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
	}
}

func (s *Service) sessionsError(op string, userID int64, part string, err error) error {
	s.logger.Error("%s: repository error for user=%d (%s): %v", op, userID, part, err)
	return fmt.Errorf("%w: %s - %s: %v", ErrInternal, op, part, err)
}

func checkActor(b *domain.Booking, actorID int64, rule actorRule) error {
	switch rule {
	case tutorOnly:
		if b.TutorID == actorID {
			return nil
		}
	case anyParticipant:
		if b.IsParticipant(actorID) {
			return nil
		}
	}
	return ErrAccessDenied
}
