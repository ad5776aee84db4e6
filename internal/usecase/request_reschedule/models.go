package request_reschedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// Request модель запроса на перенос подтверждённого занятия
type Request struct {
	ActorID    int64            // ID студента (из X-User-ID)
	BookingID  int64            // ID исходного бронирования
	NewDate    time.Time        // Новая дата
	NewStart   types.TimeString // Опционально, по умолчанию окно репетитора
	NewEnd     types.TimeString // Опционально
	LessonType string           // Опционально, по умолчанию тип исходного занятия
}

// Response модель ответа с парой бронирований
type Response struct {
	CommandID uuid.UUID
	Original  *domain.Booking // reschedule_requested
	Proposed  *domain.Booking // on_hold, RelatedBookingID = Original.ID
}
