package get_tutor_sessions

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

type fakeService struct {
	resp *models.SessionsResponse
	err  error

	gotTutor, gotActor int64
}

func (f *fakeService) GetTutorSessions(_ context.Context, tutorID, actorID int64) (*models.SessionsResponse, error) {
	f.gotTutor, f.gotActor = tutorID, actorID
	return f.resp, f.err
}

func serve(svc BookingService, tutorID string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tutors/"+tutorID+"/sessions", nil)
	req = mux.SetURLVars(req, map[string]string{"tutorId": tutorID})
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}

	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_OK(t *testing.T) {
	svc := &fakeService{resp: &models.SessionsResponse{
		Upcoming:      []models.BookingResponse{{ID: 1, Status: "confirmed"}},
		UpcomingTotal: 6,
		Past:          []models.BookingResponse{},
	}}

	rec := serve(svc, "7", 7)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), svc.gotTutor)
	assert.Equal(t, int64(7), svc.gotActor)
	assert.Contains(t, rec.Body.String(), `"upcomingTotal":6`)
	assert.Contains(t, rec.Body.String(), `"past":[]`)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name    string
		svc     *fakeService
		tutorID string
		userID  int64
		want    int
	}{
		{name: "bad tutor id", svc: &fakeService{}, tutorID: "abc", userID: 7, want: http.StatusBadRequest},
		{name: "no user", svc: &fakeService{}, tutorID: "7", want: http.StatusUnauthorized},
		{name: "other user", svc: &fakeService{err: bookings.ErrAccessDenied}, tutorID: "7", userID: 8, want: http.StatusForbidden},
		{name: "storage", svc: &fakeService{err: errors.New("boom")}, tutorID: "7", userID: 7, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serve(tt.svc, tt.tutorID, tt.userID).Code)
		})
	}
}
