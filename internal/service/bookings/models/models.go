package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPeriod возвращается, когда конец периода раньше начала
	ErrInvalidPeriod = errors.New("invalid period")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	ActorID int64   `json:"-"`
	UserID  int64   `json:"userId"`
	Status  *string `json:"status,omitempty"`
}

// GetTutorBookingsRequest запрос на получение бронирований репетитора
type GetTutorBookingsRequest struct {
	ActorID         int64      `json:"-"`
	TutorID         int64      `json:"tutorId"`
	StartDate       *time.Time `json:"startDate,omitempty"`       // Начало периода (опционально)
	EndDate         *time.Time `json:"endDate,omitempty"`         // Конец периода (опционально)
	Status          *string    `json:"status,omitempty"`          // Фильтр по статусу (опционально)
	IncludeInactive bool       `json:"includeInactive,omitempty"` // Включить отменённые бронирования
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetTutorBookingsRequest) ToDomainFilter() (domain.TutorBookingsFilter, error) {
	filter := domain.TutorBookingsFilter{
		TutorID:         r.TutorID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
		SortAscending:   true,
	}

	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return filter, fmt.Errorf("%w: endDate is before startDate", ErrInvalidPeriod)
	}

	// Конвертируем статус если указан
	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Statuses = []domain.BookingStatus{status}
	}

	return filter, nil
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID               int64   `json:"id"`
	TutorID          int64   `json:"tutorId"`
	StudentID        int64   `json:"studentId"`
	TutorName        string  `json:"tutorName"`
	StudentName      string  `json:"studentName"`
	Date             string  `json:"date"`  // "2026-10-26"
	Start            string  `json:"start"` // "10:00"
	End              string  `json:"end"`
	LessonType       string  `json:"lessonType"`
	Status           string  `json:"status"`
	RelatedBookingID *int64  `json:"relatedBookingId,omitempty"`
	Amount           float64 `json:"amount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// TransitionResponse результат команды жизненного цикла
// Related заполняется для переноса (вторая запись пары)
type TransitionResponse struct {
	CommandID string           `json:"commandId"`
	Booking   *BookingResponse `json:"booking"`
	Related   *BookingResponse `json:"relatedBooking,omitempty"`
}

// SessionsResponse ближайшие и прошедшие занятия репетитора
type SessionsResponse struct {
	Upcoming      []BookingResponse `json:"upcoming"`
	UpcomingTotal int               `json:"upcomingTotal"`
	Past          []BookingResponse `json:"past"`
	PastTotal     int               `json:"pastTotal"`
}

// RecentSessionsResponse недавно прошедшие занятия студента у всех репетиторов
type RecentSessionsResponse struct {
	Sessions   []BookingResponse `json:"sessions"`
	TotalCount int               `json:"totalCount"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:               b.ID,
		TutorID:          b.TutorID,
		StudentID:        b.StudentID,
		TutorName:        b.TutorName,
		StudentName:      b.StudentName,
		Date:             b.Date.Format(domain.DateFormat),
		Start:            b.Start.String(),
		End:              b.End.String(),
		LessonType:       b.LessonType,
		Status:           string(b.Status),
		RelatedBookingID: b.RelatedBookingID,
		Amount:           b.Amount,
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	return &BookingListResponse{Bookings: toBookingResponses(bookings)}
}

// NewTransitionResponse собирает ответ команды
func NewTransitionResponse(commandID uuid.UUID, booking, related *domain.Booking) *TransitionResponse {
	return &TransitionResponse{
		CommandID: commandID.String(),
		Booking:   FromDomainBooking(booking),
		Related:   FromDomainBooking(related),
	}
}

// FromDomainSessions конвертирует сводку занятий
func FromDomainSessions(s *domain.SessionsSummary) *SessionsResponse {
	return &SessionsResponse{
		Upcoming:      toBookingResponses(s.Upcoming),
		UpcomingTotal: s.UpcomingTotal,
		Past:          toBookingResponses(s.Past),
		PastTotal:     s.PastTotal,
	}
}

// FromDomainRecentSessions конвертирует прошедшие занятия и их общее количество
func FromDomainRecentSessions(sessions []*domain.Booking, total int) *RecentSessionsResponse {
	return &RecentSessionsResponse{
		Sessions:   toBookingResponses(sessions),
		TotalCount: total,
	}
}

func toBookingResponses(bookings []*domain.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		if resp := FromDomainBooking(b); resp != nil {
			out = append(out, *resp)
		}
	}
	return out
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s, nil
}
