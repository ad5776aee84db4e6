package update_availability

import (
	"github.com/m04kA/SMC-TutoringService/internal/service/availability/models"
)

// UpdateAvailabilityRequest HTTP request model
// Шаблон заменяется целиком, не переданные дни выключаются
type UpdateAvailabilityRequest struct {
	Days []models.DayRequest `json:"days"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateAvailabilityRequest) ToServiceRequest(tutorID, actorID int64) *models.UpdateAvailabilityRequest {
	return &models.UpdateAvailabilityRequest{
		ActorID: actorID,
		TutorID: tutorID,
		Days:    r.Days,
	}
}
