package domain

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectMonth_MondayOnlyNoBookings(t *testing.T) {
	tpl := mondayOnlyTemplate()
	today := date(2026, 10, 13)

	got := ProjectMonth(tpl, nil, date(2026, 10, 17), today)

	require.Len(t, got, 31)
	for _, day := range got {
		want := SlotDisabled
		if day.Date.Weekday() == time.Monday {
			want = SlotAvailable
			if day.Date.Before(today) {
				want = SlotExpired
			}
		}
		assert.Equal(t, want, day.Status, day.Date.Format(DateFormat))
	}

	mondays := map[int]SlotStatus{}
	for _, day := range got {
		if day.Status != SlotDisabled {
			mondays[day.Date.Day()] = day.Status
		}
	}
	want := map[int]SlotStatus{5: SlotExpired, 12: SlotExpired, 19: SlotAvailable, 26: SlotAvailable}
	if diff := cmp.Diff(want, mondays); diff != "" {
		t.Errorf("mondays mismatch (-want +got):\n%s", diff)
	}
}

func TestProjectMonth_WithBookings(t *testing.T) {
	tpl := mondayOnlyTemplate()
	today := date(2026, 10, 1)
	bookings := []*Booking{
		bookingOn(date(2026, 10, 19), StatusPending),
		bookingOn(date(2026, 10, 26), StatusCancelled),
		bookingOn(date(2026, 10, 26), StatusConfirmed),
		bookingOn(date(2026, 11, 2), StatusConfirmed),
	}

	got := ProjectMonth(tpl, bookings, date(2026, 10, 1), today)

	statuses := map[int]SlotStatus{}
	for _, day := range got {
		statuses[day.Date.Day()] = day.Status
	}
	assert.Equal(t, SlotAvailable, statuses[5])
	assert.Equal(t, SlotPending, statuses[19])
	assert.Equal(t, SlotBooked, statuses[26])
}

func TestProjectMonth_IsDeterministic(t *testing.T) {
	tpl := mondayOnlyTemplate()
	bookings := []*Booking{bookingOn(date(2026, 2, 2), StatusOnHold)}

	first := ProjectMonth(tpl, bookings, date(2026, 2, 14), date(2026, 1, 1))
	second := ProjectMonth(tpl, bookings, date(2026, 2, 14), date(2026, 1, 1))

	require.Len(t, first, 28)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("projection is not deterministic:\n%s", diff)
	}
	assert.Equal(t, date(2026, 2, 1), first[0].Date)
	assert.Equal(t, date(2026, 2, 28), first[27].Date)
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(time.Date(2024, 2, 10, 15, 0, 0, 0, time.UTC))

	assert.Equal(t, date(2024, 2, 1), first)
	assert.Equal(t, date(2024, 2, 29), last)
}
