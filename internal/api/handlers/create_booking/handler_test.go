package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/api/handlers"
	"github.com/m04kA/SMC-TutoringService/internal/api/middleware"
	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/service/lifecycle"
	createBooking "github.com/m04kA/SMC-TutoringService/internal/usecase/create_booking"
	"github.com/m04kA/SMC-TutoringService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*createBooking.Response), args.Error(1)
}

func newRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	return req.WithContext(middleware.WithUserID(req.Context(), 100))
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	commandID := uuid.New()
	booking := &domain.Booking{
		ID: 1, TutorID: 7, StudentID: 100, Date: time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC),
		Start: "10:00", End: "12:00", LessonType: "math", Status: domain.StatusPending, Amount: 100,
	}

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.StudentID == 100 && req.TutorID == 7 && req.Start == "10:00" && req.End == "" &&
			req.Date.Equal(time.Date(2026, 10, 26, 0, 0, 0, 0, time.UTC))
	})).Return(&createBooking.Response{CommandID: commandID, Booking: booking}, nil).Once()

	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(`{"tutorId":7,"date":"2026-10-26","start":"10:00"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, commandID.String(), rec.Header().Get(handlers.HeaderCommandID))

	var body struct {
		CommandID string `json:"commandId"`
		Booking   struct {
			ID     int64   `json:"id"`
			Status string  `json:"status"`
			Amount float64 `json:"amount"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, commandID.String(), body.CommandID)
	assert.Equal(t, int64(1), body.Booking.ID)
	assert.Equal(t, "pending", body.Booking.Status)
	assert.Equal(t, 100.0, body.Booking.Amount)
	uc.AssertExpectations(t)
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "broken json", body: `{"tutorId":`},
		{name: "unknown field", body: `{"tutorId":7,"date":"2026-10-26","carId":1}`},
		{name: "bad date", body: `{"tutorId":7,"date":"26.10.2026"}`},
		{name: "bad time", body: `{"tutorId":7,"date":"2026-10-26","start":"25:61"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			rec := httptest.NewRecorder()

			NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(tt.body))

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
		{err: fmt.Errorf("%w: taken", createBooking.ErrSlotNotAvailable), want: http.StatusConflict},
		{err: createBooking.ErrStudentBusy, want: http.StatusConflict},
		{err: createBooking.ErrTutorNotFound, want: http.StatusNotFound},
		{err: createBooking.ErrStudentNotFound, want: http.StatusNotFound},
		{err: createBooking.ErrTutorUnavailable, want: http.StatusBadRequest},
		{err: createBooking.ErrInvalidDate, want: http.StatusBadRequest},
		{err: createBooking.ErrInvalidTimeSlot, want: http.StatusBadRequest},
		{err: createBooking.ErrInvalidInput, want: http.StatusBadRequest},
		{err: lifecycle.ErrLockTimeout, want: http.StatusServiceUnavailable},
		{err: createBooking.ErrInternal, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)
			rec := httptest.NewRecorder()

			NewHandler(uc, logger.NewNop()).Handle(rec, newRequest(`{"tutorId":7,"date":"2026-10-26"}`))

			assert.Equal(t, tt.want, rec.Code)
			assert.Empty(t, rec.Header().Get(handlers.HeaderCommandID))
		})
	}
}

func TestHandle_MissingUser(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(`{}`))

	NewHandler(&mockUseCase{}, logger.NewNop()).Handle(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
