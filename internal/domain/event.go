package domain

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// EventType тип события жизненного цикла бронирования
type EventType string

const (
	EventBookingCreated      EventType = "booking_created"
	EventBookingAccepted     EventType = "booking_accepted"
	EventBookingCancelled    EventType = "booking_cancelled"
	EventRescheduleRequested EventType = "reschedule_requested"
	EventRescheduleApproved  EventType = "reschedule_approved"
	EventRescheduleRejected  EventType = "reschedule_rejected"
)

// WalletOpKind инструкция для кошелька
type WalletOpKind string

const (
	WalletHold    WalletOpKind = "hold"    // заморозить средства студента
	WalletCapture WalletOpKind = "capture" // перевести замороженные средства репетитору
	WalletRefund  WalletOpKind = "refund"  // вернуть средства студенту
)

// StatusChange изменение статуса одного бронирования
type StatusChange struct {
	BookingID int64
	From      BookingStatus // пусто для нового бронирования
	To        BookingStatus
}

// Notification адресат уведомления о новом статусе
type Notification struct {
	BookingID   int64
	Status      BookingStatus
	RecipientID int64
}

// WalletOp денежная операция, которую должен выполнить кошелёк
type WalletOp struct {
	Kind      WalletOpKind
	BookingID int64
	StudentID int64
	TutorID   int64
	Amount    float64
}

// BookingEvent результат успешной команды жизненного цикла
// CommandID назначается сервером и служит ключом идемпотентности для потребителей
type BookingEvent struct {
	CommandID     uuid.UUID
	Type          EventType
	TutorID       int64
	ActorID       int64
	OccurredAt    time.Time
	Changes       []StatusChange
	Notifications []Notification
	WalletOps     []WalletOp
}

// AggregateID идентификатор агрегата для партиционирования (репетитор)
func (e *BookingEvent) AggregateID() string {
	return strconv.FormatInt(e.TutorID, 10)
}

func newEvent(eventType EventType, tutorID, actorID int64, at time.Time) *BookingEvent {
	return &BookingEvent{
		Type:       eventType,
		TutorID:    tutorID,
		ActorID:    actorID,
		OccurredAt: at,
	}
}

func (e *BookingEvent) change(b *Booking, from BookingStatus, recipients ...int64) {
	e.Changes = append(e.Changes, StatusChange{BookingID: b.ID, From: from, To: b.Status})
	for _, r := range recipients {
		e.Notifications = append(e.Notifications, Notification{BookingID: b.ID, Status: b.Status, RecipientID: r})
	}
}

func (e *BookingEvent) wallet(kind WalletOpKind, b *Booking) {
	e.WalletOps = append(e.WalletOps, WalletOp{
		Kind:      kind,
		BookingID: b.ID,
		StudentID: b.StudentID,
		TutorID:   b.TutorID,
		Amount:    b.Amount,
	})
}

// NewBookingCreatedEvent новое pending бронирование: уведомляются обе стороны, средства замораживаются
func NewBookingCreatedEvent(b *Booking, actorID int64, at time.Time) *BookingEvent {
	e := newEvent(EventBookingCreated, b.TutorID, actorID, at)
	e.change(b, "", b.TutorID, b.StudentID)
	e.wallet(WalletHold, b)
	return e
}

// NewBookingAcceptedEvent репетитор принял заявку: уведомляется студент, средства переводятся репетитору
func NewBookingAcceptedEvent(b *Booking, actorID int64, at time.Time) *BookingEvent {
	e := newEvent(EventBookingAccepted, b.TutorID, actorID, at)
	e.change(b, StatusPending, b.StudentID)
	e.wallet(WalletCapture, b)
	return e
}

// NewBookingCancelledEvent отмена: уведомляется вторая сторона, средства возвращаются студенту
func NewBookingCancelledEvent(b *Booking, from BookingStatus, actorID int64, at time.Time) *BookingEvent {
	e := newEvent(EventBookingCancelled, b.TutorID, actorID, at)
	e.change(b, from, b.CounterpartyOf(actorID))
	e.wallet(WalletRefund, b)
	return e
}

// NewRescheduleRequestedEvent студент запросил перенос: уведомляется репетитор
func NewRescheduleRequestedEvent(original, proposed *Booking, actorID int64, at time.Time) *BookingEvent {
	e := newEvent(EventRescheduleRequested, original.TutorID, actorID, at)
	e.change(original, StatusConfirmed, original.TutorID)
	e.change(proposed, "", proposed.TutorID)
	e.wallet(WalletHold, proposed)
	return e
}

// NewRescheduleApprovedEvent перенос подтверждён: уведомляется студент
func NewRescheduleApprovedEvent(proposed, original *Booking, actorID int64, at time.Time) *BookingEvent {
	e := newEvent(EventRescheduleApproved, proposed.TutorID, actorID, at)
	e.change(proposed, StatusOnHold, proposed.StudentID)
	e.change(original, StatusRescheduleRequested, original.StudentID)
	e.wallet(WalletCapture, proposed)
	e.wallet(WalletRefund, original)
	return e
}

// NewRescheduleRejectedEvent перенос отклонён: уведомляются обе стороны
func NewRescheduleRejectedEvent(proposed, original *Booking, actorID int64, at time.Time) *BookingEvent {
	e := newEvent(EventRescheduleRejected, proposed.TutorID, actorID, at)
	e.change(proposed, StatusOnHold, proposed.TutorID, proposed.StudentID)
	e.change(original, StatusRescheduleRequested, original.TutorID, original.StudentID)
	e.wallet(WalletRefund, proposed)
	return e
}
