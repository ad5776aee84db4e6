package lifecycle

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/infra/storage/outbox"
)

// AggregateType тип агрегата в outbox. Ключ партиционирования - ID репетитора
const AggregateType = "tutor_schedule"

// EventPayload JSON события, который получают кошелёк и сервис уведомлений
// eventId совпадает с заголовком event_id и служит ключом идемпотентности
type EventPayload struct {
	EventID       string                `json:"eventId"`
	Type          string                `json:"type"`
	TutorID       int64                 `json:"tutorId"`
	ActorID       int64                 `json:"actorId"`
	OccurredAt    time.Time             `json:"occurredAt"`
	Changes       []StatusChangePayload `json:"changes"`
	Notifications []NotificationPayload `json:"notifications"`
	WalletOps     []WalletOpPayload     `json:"walletOps"`
}

type StatusChangePayload struct {
	BookingID int64  `json:"bookingId"`
	From      string `json:"from,omitempty"`
	To        string `json:"to"`
}

type NotificationPayload struct {
	BookingID   int64  `json:"bookingId"`
	Status      string `json:"status"`
	RecipientID int64  `json:"recipientId"`
}

type WalletOpPayload struct {
	Kind      string  `json:"kind"`
	BookingID int64   `json:"bookingId"`
	StudentID int64   `json:"studentId"`
	TutorID   int64   `json:"tutorId"`
	Amount    float64 `json:"amount"`
}

// NewEventPayload конвертирует доменное событие в DTO
func NewEventPayload(e *domain.BookingEvent) EventPayload {
	p := EventPayload{
		EventID:       e.CommandID.String(),
		Type:          string(e.Type),
		TutorID:       e.TutorID,
		ActorID:       e.ActorID,
		OccurredAt:    e.OccurredAt.UTC(),
		Changes:       make([]StatusChangePayload, len(e.Changes)),
		Notifications: make([]NotificationPayload, len(e.Notifications)),
		WalletOps:     make([]WalletOpPayload, len(e.WalletOps)),
	}

	for i, c := range e.Changes {
		p.Changes[i] = StatusChangePayload{BookingID: c.BookingID, From: string(c.From), To: string(c.To)}
	}
	for i, n := range e.Notifications {
		p.Notifications[i] = NotificationPayload{BookingID: n.BookingID, Status: string(n.Status), RecipientID: n.RecipientID}
	}
	for i, w := range e.WalletOps {
		p.WalletOps[i] = WalletOpPayload{
			Kind:      string(w.Kind),
			BookingID: w.BookingID,
			StudentID: w.StudentID,
			TutorID:   w.TutorID,
			Amount:    w.Amount,
		}
	}

	return p
}

func toOutboxEvent(e *domain.BookingEvent) (outbox.Event, error) {
	payload, err := json.Marshal(NewEventPayload(e))
	if err != nil {
		return outbox.Event{}, fmt.Errorf("%w: marshal event %s: %v", ErrInternal, e.Type, err)
	}

	return outbox.Event{
		EventID:       e.CommandID,
		AggregateType: AggregateType,
		AggregateID:   e.AggregateID(),
		EventType:     string(e.Type),
		Payload:       payload,
	}, nil
}
