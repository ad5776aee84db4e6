package get_calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	getCalendar "github.com/m04kA/SMC-TutoringService/internal/usecase/get_calendar"
	"github.com/m04kA/SMC-TutoringService/pkg/logger"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *getCalendar.Request) (*getCalendar.Response, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*getCalendar.Response), args.Error(1)
}

func serve(uc GetCalendarUseCase, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/tutors/{tutorId}/calendar", NewHandler(uc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandle_ReturnsMonth(t *testing.T) {
	uc := &mockUseCase{}
	october := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, &getCalendar.Request{TutorID: 7, Month: october, Role: domain.RoleTutor}).
		Return(&getCalendar.Response{
			TutorID: 7,
			Month:   october,
			Days: []getCalendar.Day{
				{Date: october, Status: domain.SlotExpired},
				{Date: october.AddDate(0, 0, 25), Status: domain.SlotPending, Actionable: true},
			},
		}, nil)

	rec := serve(uc, "/tutors/7/calendar?month=2026-10&role=tutor")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"tutorId": 7,
		"month": "2026-10",
		"days": [
			{"date": "2026-10-01", "status": "expired", "actionable": false},
			{"date": "2026-10-26", "status": "pending", "actionable": true}
		]
	}`, rec.Body.String())
}

func TestHandle_DefaultsToStudent(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getCalendar.Request) bool {
		return req.Role == domain.RoleStudent
	})).Return(&getCalendar.Response{TutorID: 7, Month: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)}, nil)

	assert.Equal(t, http.StatusOK, serve(uc, "/tutors/7/calendar?month=2026-10").Code)
	uc.AssertExpectations(t)
}

func TestHandle_BadParams(t *testing.T) {
	for _, target := range []string{
		"/tutors/x/calendar?month=2026-10",
		"/tutors/7/calendar",
		"/tutors/7/calendar?month=10-2026",
		"/tutors/7/calendar?month=2026-10&role=admin",
	} {
		uc := &mockUseCase{}
		assert.Equal(t, http.StatusBadRequest, serve(uc, target).Code, target)
		uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	}
}

func TestHandle_UseCaseErrors(t *testing.T) {
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, mock.Anything).Return(nil, getCalendar.ErrInternal)

	assert.Equal(t, http.StatusInternalServerError, serve(uc, "/tutors/7/calendar?month=2026-10").Code)
}
