package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

func TestSlotWindow(t *testing.T) {
	workday := DayAvailability{Enabled: true, Start: "10:00", End: "12:00"}

	tests := []struct {
		name      string
		day       DayAvailability
		start     types.TimeString
		end       types.TimeString
		wantStart types.TimeString
		wantEnd   types.TimeString
		wantErr   error
	}{
		{name: "whole window", day: workday, wantStart: "10:00", wantEnd: "12:00"},
		{name: "exact window", day: workday, start: "10:00", end: "12:00", wantStart: "10:00", wantEnd: "12:00"},
		{name: "shorter slot", day: workday, start: "10:00", end: "11:00", wantErr: ErrWindowMismatch},
		{name: "shifted slot", day: workday, start: "11:00", end: "13:00", wantErr: ErrWindowMismatch},
		{name: "disabled day", day: DayAvailability{Start: "10:00", End: "12:00"}, wantErr: ErrDayDisabled},
		{name: "zero window", day: DayAvailability{Enabled: true, Start: "10:00", End: "10:00"}, wantErr: ErrZeroDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := SlotWindow(tt.day, tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, start)
			assert.Equal(t, tt.wantEnd, end)
		})
	}
}

func TestCheckDayBookable(t *testing.T) {
	tests := []struct {
		status  SlotStatus
		wantErr error
	}{
		{SlotAvailable, nil},
		{SlotDisabled, ErrDayDisabled},
		{SlotExpired, ErrDayPassed},
		{SlotBooked, ErrDayTaken},
		{SlotPending, ErrDayTaken},
		{SlotOnHold, ErrDayTaken},
		{SlotRescheduleRequested, ErrDayTaken},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			err := CheckDayBookable(tt.status)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAvailabilityTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		day     DayAvailability
		wantErr bool
	}{
		{name: "enabled day", day: DayAvailability{Enabled: true, Start: "10:00", End: "12:00"}},
		{name: "disabled empty day", day: DayAvailability{}},
		{name: "disabled day keeps window", day: DayAvailability{Start: "09:00", End: "18:00"}},
		{name: "enabled without time", day: DayAvailability{Enabled: true}, wantErr: true},
		{name: "enabled bad start", day: DayAvailability{Enabled: true, Start: "25:00", End: "12:00"}, wantErr: true},
		{name: "disabled bad start", day: DayAvailability{Start: "abc"}, wantErr: true},
		{name: "disabled bad end", day: DayAvailability{Start: "10:00", End: "9:7"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := NewAvailabilityTemplate(1)
			tpl.Days[Tuesday] = tt.day

			err := tpl.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTemplate)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAvailabilityTemplate_ValidateTutorID(t *testing.T) {
	assert.ErrorIs(t, NewAvailabilityTemplate(0).Validate(), ErrInvalidTemplate)
}
