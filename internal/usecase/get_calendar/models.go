package get_calendar

import (
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
)

// Request модель запроса календаря репетитора на месяц
type Request struct {
	TutorID int64             // ID репетитора
	Month   time.Time         // Любая дата внутри месяца
	Role    domain.ViewerRole // Кто смотрит календарь
}

// Response модель ответа: статус каждого дня месяца
type Response struct {
	TutorID int64
	Month   time.Time // Первый день месяца
	Days    []Day
}

// Day статус одного дня и возможность действия для роли
type Day struct {
	Date       time.Time
	Status     domain.SlotStatus
	Actionable bool
}
