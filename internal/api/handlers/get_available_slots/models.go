package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель слота. Время в RFC3339 со смещением таймзоны календаря.
type SlotResponse struct {
	Start          string `json:"start"`
	End            string `json:"end"`
	OwnerID        *int64 `json:"ownerId,omitempty"`
	OwnerName      string `json:"ownerName"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date          string         `json:"date"`
	Timezone      string         `json:"timezone"`
	CalendarID    int64          `json:"calendarId"`
	ServiceTypeID int64          `json:"serviceTypeId"`
	Slots         []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	result := &SlotsResponse{
		Date:          resp.Date,
		Timezone:      resp.Timezone,
		CalendarID:    resp.CalendarID,
		ServiceTypeID: resp.ServiceTypeID,
		Slots:         make([]SlotResponse, 0, len(resp.Slots)),
	}

	for _, s := range resp.Slots {
		result.Slots = append(result.Slots, SlotResponse{
			Start:          s.Start.Format(time.RFC3339),
			End:            s.End.Format(time.RFC3339),
			OwnerID:        s.OwnerID,
			OwnerName:      s.OwnerName,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		})
	}

	return result
}
