package decide_reschedule

import (
	"context"

	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
)

type BookingService interface {
	ApproveReschedule(ctx context.Context, bookingID, actorID int64) (*models.TransitionResponse, error)
	RejectReschedule(ctx context.Context, bookingID, actorID int64) (*models.TransitionResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
