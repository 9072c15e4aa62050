package get_calendar_bookings

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров:
// from, to (RFC3339 или YYYY-MM-DD), status (через запятую), ownerId
func ToServiceRequest(calendarID int64, r *http.Request) (*models.ListCalendarBookingsRequest, error) {
	req := &models.ListCalendarBookingsRequest{CalendarID: calendarID}

	from, err := handlers.QueryTime(r, "from")
	if err != nil {
		return nil, err
	}
	req.From = from

	to, err := handlers.QueryTime(r, "to")
	if err != nil {
		return nil, err
	}
	req.To = to

	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		for _, s := range strings.Split(statusStr, ",") {
			if s = strings.TrimSpace(s); s != "" {
				req.Statuses = append(req.Statuses, s)
			}
		}
	}

	if ownerStr := r.URL.Query().Get("ownerId"); ownerStr != "" {
		ownerID, err := strconv.ParseInt(ownerStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.OwnerID = &ownerID
	}

	return req, nil
}
