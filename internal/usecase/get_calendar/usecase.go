package get_calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/metrics"
)

// UseCase use case для получения календаря репетитора
type UseCase struct {
	bookingRepo      BookingRepository
	availabilityRepo AvailabilityRepository
	cache            CalendarCache
	metrics          *metrics.Metrics
	timeProvider     TimeProvider
	logger           Logger
}

// NewUseCase создает новый экземпляр use case. metrics может быть nil
func NewUseCase(
	bookingRepo BookingRepository,
	availabilityRepo AvailabilityRepository,
	cache CalendarCache,
	m *metrics.Metrics,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:      bookingRepo,
		availabilityRepo: availabilityRepo,
		cache:            cache,
		metrics:          m,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
	}
}

// Execute строит сетку месяца
// Чтение без блокировок: допустим снимок, который устареет после следующей команды
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCalendar: validation failed: %v", err)
		return nil, err
	}

	role, _ := domain.ParseViewerRole(string(req.Role))
	monthStart, monthEnd := domain.MonthBounds(req.Month)
	today := domain.DateOnly(uc.timeProvider.Now())

	// 2. Пробуем кэш (статусы зависят от today, поэтому он входит в ключ)
	lookup, err := uc.cache.Get(ctx, req.TutorID, monthStart, today)
	if err != nil {
		uc.logger.Warn("GetCalendar: cache lookup failed for tutor=%d: %v", req.TutorID, err)
	}
	uc.metrics.RecordCacheLookup(lookup.Hit)

	days := lookup.Days
	if !lookup.Hit {
		// 3. Пересчитываем проекцию
		days, err = uc.project(ctx, req.TutorID, monthStart, monthEnd, today)
		if err != nil {
			return nil, err
		}

		if err := uc.cache.Set(ctx, req.TutorID, lookup.Version, monthStart, today, days); err != nil {
			uc.logger.Warn("GetCalendar: failed to cache tutor=%d month=%s: %v",
				req.TutorID, monthStart.Format(domain.MonthFormat), err)
		}
	}

	// 4. Кликабельность зависит от роли, статус - нет
	resp := &Response{
		TutorID: req.TutorID,
		Month:   monthStart,
		Days:    make([]Day, len(days)),
	}
	for i, d := range days {
		resp.Days[i] = Day{
			Date:       d.Date,
			Status:     d.Status,
			Actionable: domain.IsActionable(d.Status, role, d.Date, today),
		}
	}

	return resp, nil
}

func (uc *UseCase) project(ctx context.Context, tutorID int64, monthStart, monthEnd, today time.Time) ([]domain.DayStatus, error) {
	template, err := uc.availabilityRepo.GetByTutorID(ctx, tutorID)
	if err != nil {
		uc.logger.Error("GetCalendar: failed to get availability for tutor=%d: %v", tutorID, err)
		return nil, fmt.Errorf("%w: failed to get availability: %v", ErrInternal, err)
	}

	bookings, err := uc.bookingRepo.GetByTutorWithFilter(ctx, domain.TutorBookingsFilter{
		TutorID:   tutorID,
		StartDate: &monthStart,
		EndDate:   &monthEnd,
		Statuses:  domain.LiveStatuses,
	})
	if err != nil {
		uc.logger.Error("GetCalendar: failed to get bookings for tutor=%d: %v", tutorID, err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	return domain.ProjectMonth(template, bookings, monthStart, today), nil
}
