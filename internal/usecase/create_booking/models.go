package create_booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	StudentID  int64            // ID студента (из X-User-ID)
	TutorID    int64            // ID репетитора
	Date       time.Time        // Дата занятия (без времени)
	Start      types.TimeString // Время начала (опционально, по умолчанию окно репетитора)
	End        types.TimeString // Время окончания (опционально)
	LessonType string           // Тип занятия (опционально, по умолчанию первый из профиля)
}

// Response модель ответа с созданным бронированием
type Response struct {
	CommandID uuid.UUID       // ID команды (ключ идемпотентности события)
	Booking   *domain.Booking // Созданное бронирование в статусе pending
}
