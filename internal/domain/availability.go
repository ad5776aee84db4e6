package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-TutoringService/pkg/types"
)

// Weekday сокращённое название дня недели (Mon..Sun)
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// Weekdays дни недели в порядке отображения
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday валидирует сокращённое название дня
func ParseWeekday(s string) (Weekday, error) {
	for _, w := range Weekdays {
		if string(w) == s {
			return w, nil
		}
	}
	return "", fmt.Errorf("%w: unknown weekday %q", ErrInvalidTemplate, s)
}

// WeekdayOf возвращает день недели календарной даты
func WeekdayOf(date time.Time) Weekday {
	switch date.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// DayAvailability окно доступности репетитора в конкретный день недели
type DayAvailability struct {
	Enabled bool
	Start   types.TimeString
	End     types.TimeString
}

// IsBookable returns true if the day is enabled and has a non-zero window
func (d DayAvailability) IsBookable() bool {
	return d.Enabled && d.Start != d.End
}

// SlotWindow возвращает время занятия в этот день
// Пустой start означает всё окно репетитора, иначе пара start-end должна совпасть с окном
func SlotWindow(day DayAvailability, start, end types.TimeString) (types.TimeString, types.TimeString, error) {
	if !day.Enabled {
		return "", "", ErrDayDisabled
	}
	if !day.IsBookable() {
		return "", "", fmt.Errorf("%w: tutor window %s-%s", ErrZeroDuration, day.Start, day.End)
	}

	if start.IsZero() {
		return day.Start, day.End, nil
	}

	if start != day.Start || end != day.End {
		return "", "", fmt.Errorf("%w: %s-%s vs %s-%s", ErrWindowMismatch, start, end, day.Start, day.End)
	}

	return start, end, nil
}

// AvailabilityTemplate еженедельный шаблон доступности репетитора
type AvailabilityTemplate struct {
	TutorID   int64
	Days      map[Weekday]DayAvailability
	UpdatedAt time.Time
}

// NewAvailabilityTemplate создает шаблон, в котором все дни выключены
func NewAvailabilityTemplate(tutorID int64) *AvailabilityTemplate {
	days := make(map[Weekday]DayAvailability, len(Weekdays))
	for _, w := range Weekdays {
		days[w] = DayAvailability{}
	}
	return &AvailabilityTemplate{TutorID: tutorID, Days: days}
}

// DayFor возвращает окно доступности на дату. ok=false, если день отсутствует в шаблоне
func (t *AvailabilityTemplate) DayFor(date time.Time) (DayAvailability, bool) {
	if t == nil {
		return DayAvailability{}, false
	}
	day, ok := t.Days[WeekdayOf(date)]
	return day, ok
}

// Validate проверяет время в шаблоне
// У включённого дня start и end обязательны. У выключенного они могут быть пустыми,
// но заданное время всё равно должно быть в формате HH:MM
func (t *AvailabilityTemplate) Validate() error {
	if t.TutorID <= 0 {
		return fmt.Errorf("%w: tutorID must be positive", ErrInvalidTemplate)
	}

	for weekday, day := range t.Days {
		if _, err := ParseWeekday(string(weekday)); err != nil {
			return err
		}
		if day.Enabled || !day.Start.IsZero() {
			if err := day.Start.Validate(); err != nil {
				return fmt.Errorf("%w: %s start: %v", ErrInvalidTemplate, weekday, err)
			}
		}
		if day.Enabled || !day.End.IsZero() {
			if err := day.End.Validate(); err != nil {
				return fmt.Errorf("%w: %s end: %v", ErrInvalidTemplate, weekday, err)
			}
		}
	}

	return nil
}
