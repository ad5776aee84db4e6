package get_booking

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
	"github.com/m04kA/SMC-TutoringService/pkg/logger"
)

type stubService func(ctx context.Context, id, userID int64) (*models.BookingResponse, error)

func (s stubService) GetByID(ctx context.Context, id, userID int64) (*models.BookingResponse, error) {
	return s(ctx, id, userID)
}

func serve(svc BookingService, bookingID string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/"+bookingID, nil)
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle(t *testing.T) {
	found := stubService(func(_ context.Context, id, userID int64) (*models.BookingResponse, error) {
		return &models.BookingResponse{ID: id, StudentID: userID, Status: "pending"}, nil
	})
	failing := func(err error) stubService {
		return func(context.Context, int64, int64) (*models.BookingResponse, error) { return nil, err }
	}

	tests := []struct {
		name      string
		svc       BookingService
		bookingID string
		userID    int64
		wantCode  int
	}{
		{name: "participant", svc: found, bookingID: "12", userID: 100, wantCode: http.StatusOK},
		{name: "bad id", svc: found, bookingID: "x", userID: 100, wantCode: http.StatusBadRequest},
		{name: "zero id", svc: found, bookingID: "0", userID: 100, wantCode: http.StatusBadRequest},
		{name: "no user", svc: found, bookingID: "12", wantCode: http.StatusUnauthorized},
		{name: "not found", svc: failing(bookings.ErrBookingNotFound), bookingID: "12", userID: 100, wantCode: http.StatusNotFound},
		{name: "stranger", svc: failing(bookings.ErrAccessDenied), bookingID: "12", userID: 555, wantCode: http.StatusForbidden},
		{name: "storage down", svc: failing(errors.New("boom")), bookingID: "12", userID: 100, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.svc, tt.bookingID, tt.userID)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHandle_Body(t *testing.T) {
	svc := stubService(func(_ context.Context, id, userID int64) (*models.BookingResponse, error) {
		return &models.BookingResponse{ID: id, StudentID: userID, TutorID: 7, Status: "pending"}, nil
	})

	rec := serve(svc, "12", 100)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":12`)
	assert.Contains(t, rec.Body.String(), `"tutorId":7`)
}
