package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mondayOnlyTemplate() *AvailabilityTemplate {
	tpl := NewAvailabilityTemplate(1)
	tpl.Days[Monday] = DayAvailability{Enabled: true, Start: "10:00", End: "12:00"}
	return tpl
}

func bookingOn(d time.Time, status BookingStatus) *Booking {
	return &Booking{TutorID: 1, StudentID: 2, Date: d, Start: "10:00", End: "12:00", Status: status}
}

func TestResolveSlotStatus_Priority(t *testing.T) {
	tpl := mondayOnlyTemplate()
	monday := date(2026, 10, 19)
	today := date(2026, 10, 13)

	tests := []struct {
		name     string
		bookings []*Booking
		want     SlotStatus
	}{
		{name: "no bookings", want: SlotAvailable},
		{name: "cancelled only", bookings: []*Booking{bookingOn(monday, StatusCancelled)}, want: SlotAvailable},
		{name: "pending", bookings: []*Booking{bookingOn(monday, StatusPending)}, want: SlotPending},
		{name: "on hold", bookings: []*Booking{bookingOn(monday, StatusOnHold)}, want: SlotOnHold},
		{name: "reschedule requested", bookings: []*Booking{bookingOn(monday, StatusRescheduleRequested)}, want: SlotRescheduleRequested},
		{
			name:     "confirmed beats pending",
			bookings: []*Booking{bookingOn(monday, StatusPending), bookingOn(monday, StatusConfirmed)},
			want:     SlotBooked,
		},
		{
			name:     "pending beats on hold",
			bookings: []*Booking{bookingOn(monday, StatusOnHold), bookingOn(monday, StatusPending)},
			want:     SlotPending,
		},
		{
			name:     "on hold beats reschedule requested",
			bookings: []*Booking{bookingOn(monday, StatusRescheduleRequested), bookingOn(monday, StatusOnHold)},
			want:     SlotOnHold,
		},
		{
			name:     "bookings on other dates are ignored",
			bookings: []*Booking{bookingOn(date(2026, 10, 26), StatusConfirmed)},
			want:     SlotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveSlotStatus(tpl, tt.bookings, monday, today))
		})
	}
}

func TestResolveSlotStatus_DisabledWinsOverBookings(t *testing.T) {
	tpl := mondayOnlyTemplate()
	tuesday := date(2026, 10, 20)
	today := date(2026, 10, 1)

	for _, status := range AllStatuses {
		got := ResolveSlotStatus(tpl, []*Booking{bookingOn(tuesday, status)}, tuesday, today)
		assert.Equal(t, SlotDisabled, got, "status %s", status)
	}
}

func TestResolveSlotStatus_MissingWeekdayIsDisabled(t *testing.T) {
	tpl := &AvailabilityTemplate{TutorID: 1, Days: map[Weekday]DayAvailability{}}

	assert.Equal(t, SlotDisabled, ResolveSlotStatus(tpl, nil, date(2026, 10, 19), date(2026, 10, 1)))
	assert.Equal(t, SlotDisabled, ResolveSlotStatus(nil, nil, date(2026, 10, 19), date(2026, 10, 1)))
}

func TestResolveSlotStatus_Expired(t *testing.T) {
	tpl := mondayOnlyTemplate()
	pastMonday := date(2026, 10, 12)
	today := time.Date(2026, 10, 13, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, SlotExpired, ResolveSlotStatus(tpl, nil, pastMonday, today))

	// прошедший день с бронированием сохраняет статус бронирования
	assert.Equal(t, SlotBooked, ResolveSlotStatus(tpl, []*Booking{bookingOn(pastMonday, StatusConfirmed)}, pastMonday, today))

	// сегодняшний день не считается прошедшим, время суток игнорируется
	todayMonday := date(2026, 10, 19)
	lateEvening := time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, SlotAvailable, ResolveSlotStatus(tpl, nil, todayMonday, lateEvening))
}

func TestIsActionable(t *testing.T) {
	today := date(2026, 10, 19)
	upcoming := date(2026, 10, 26)

	tests := []struct {
		status  SlotStatus
		student bool
		tutor   bool
	}{
		{SlotAvailable, true, true},
		{SlotPending, false, true},
		{SlotBooked, false, true},
		{SlotOnHold, false, true},
		{SlotRescheduleRequested, false, false},
		{SlotDisabled, false, false},
		{SlotExpired, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.student, IsActionable(tt.status, RoleStudent, upcoming, today))
			assert.Equal(t, tt.tutor, IsActionable(tt.status, RoleTutor, upcoming, today))
		})
	}
}

func TestIsActionable_PastDays(t *testing.T) {
	today := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		status SlotStatus
		date   time.Time
		role   ViewerRole
		want   bool
	}{
		{name: "past booked day for tutor", status: SlotBooked, date: date(2026, 10, 12), role: RoleTutor, want: false},
		{name: "past pending day for tutor", status: SlotPending, date: date(2026, 10, 12), role: RoleTutor, want: false},
		{name: "past on_hold day for tutor", status: SlotOnHold, date: date(2026, 10, 18), role: RoleTutor, want: false},
		{name: "past available day for student", status: SlotAvailable, date: date(2026, 10, 18), role: RoleStudent, want: false},
		{name: "today booked for tutor", status: SlotBooked, date: date(2026, 10, 19), role: RoleTutor, want: true},
		{name: "today available for student", status: SlotAvailable, date: date(2026, 10, 19), role: RoleStudent, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActionable(tt.status, tt.role, tt.date, today))
		})
	}
}
