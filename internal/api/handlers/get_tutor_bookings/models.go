package get_tutor_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-TutoringService/internal/domain"
	"github.com/m04kA/SMC-TutoringService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// date задаёт один день и взаимоисключающий с from/to
func ToServiceRequest(tutorID, actorID int64, query url.Values) (*models.GetTutorBookingsRequest, error) {
	req := &models.GetTutorBookingsRequest{
		ActorID: actorID,
		TutorID: tutorID,
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	dateStr, fromStr, toStr := query.Get("date"), query.Get("from"), query.Get("to")
	if dateStr != "" && (fromStr != "" || toStr != "") {
		return nil, fmt.Errorf("date cannot be combined with from/to")
	}

	if dateStr != "" {
		date, err := parseDate("date", dateStr)
		if err != nil {
			return nil, err
		}
		req.StartDate, req.EndDate = date, date
	}
	if fromStr != "" {
		from, err := parseDate("from", fromStr)
		if err != nil {
			return nil, err
		}
		req.StartDate = from
	}
	if toStr != "" {
		to, err := parseDate("to", toStr)
		if err != nil {
			return nil, err
		}
		req.EndDate = to
	}

	if includeInactiveStr := query.Get("includeInactive"); includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}

func parseDate(name, value string) (*time.Time, error) {
	date, err := time.Parse(domain.DateFormat, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value: %w", name, err)
	}
	return &date, nil
}
