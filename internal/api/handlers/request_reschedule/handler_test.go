package request_reschedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
	requestReschedule "github.com/m04kA/SMC-TutoringService/internal/usecase/request_reschedule"
	"github.com/m04kA/SMC-TutoringService/pkg/logger"
	"github.com/m04kA/SMC-TutoringService/pkg/ptr"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *requestReschedule.Request) (*requestReschedule.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*requestReschedule.Response), args.Error(1)
}

func newRequest(bookingID, body string, userID int64) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/"+bookingID+"/reschedule", strings.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"bookingId": bookingID})
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestHandle_Created(t *testing.T) {
	cmd := uuid.New()
	original := &domain.Booking{ID: 3, TutorID: 7, StudentID: 100, Status: domain.StatusRescheduleRequested,
		Date: time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC)}
	proposed := &domain.Booking{ID: 9, TutorID: 7, StudentID: 100, Status: domain.StatusOnHold,
		Date: time.Date(2026, 11, 2, 0, 0, 0, 0, time.UTC), RelatedBookingID: ptr.Ptr(int64(3))}

	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *requestReschedule.Request) bool {
		return req.BookingID == 3 && req.ActorID == 100 && req.NewDate.Equal(proposed.Date) && req.NewStart.IsZero()
	})).Return(&requestReschedule.Response{CommandID: cmd, Original: original, Proposed: proposed}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, newRequest("3", `{"date":"2026-11-02"}`, 100))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, cmd.String(), rec.Header().Get(handlers.HeaderCommandID))
	assert.Contains(t, rec.Body.String(), `"status":"on_hold"`)
	assert.Contains(t, rec.Body.String(), `"relatedBooking":{"id":3`)
	uc.AssertExpectations(t)
}

func TestHandle_BadInput(t *testing.T) {
	tests := []struct {
		name      string
		bookingID string
		body      string
	}{
		{name: "booking id", bookingID: "x", body: `{"date":"2026-11-02"}`},
		{name: "empty body", bookingID: "3", body: ``},
		{name: "unknown field", bookingID: "3", body: `{"date":"2026-11-02","room":1}`},
		{name: "date", bookingID: "3", body: `{"date":"02.11.2026"}`},
		{name: "time", bookingID: "3", body: `{"date":"2026-11-02","start":"25:00"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := httptest.NewRecorder()

			NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(tt.bookingID, tt.body, 100))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{err: requestReschedule.ErrBookingNotFound, want: http.StatusNotFound},
		{err: requestReschedule.ErrAccessDenied, want: http.StatusForbidden},
		{err: requestReschedule.ErrInvalidTransition, want: http.StatusConflict},
		{err: requestReschedule.ErrSlotNotAvailable, want: http.StatusConflict},
		{err: requestReschedule.ErrStudentBusy, want: http.StatusConflict},
		{err: requestReschedule.ErrTutorNotFound, want: http.StatusNotFound},
		{err: requestReschedule.ErrTutorUnavailable, want: http.StatusBadRequest},
		{err: requestReschedule.ErrInvalidDate, want: http.StatusBadRequest},
		{err: requestReschedule.ErrInvalidTimeSlot, want: http.StatusBadRequest},
		{err: lifecycle.ErrLockTimeout, want: http.StatusServiceUnavailable},
		{err: requestReschedule.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			rec := httptest.NewRecorder()

			NewHandler(uc, logger.NewNop()).Handle(rec, newRequest("3", `{"date":"2026-11-02"}`, 100))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
