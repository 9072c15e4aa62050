package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модели

// CreateCalendarRequest запрос на создание календаря
type CreateCalendarRequest struct {
	Name                           string  `json:"name"`
	Timezone                       string  `json:"timezone"`
	PublicBooking                  bool    `json:"publicBooking"`
	Slug                           *string `json:"slug,omitempty"` // Пусто = сгенерировать из name
	MinAdvanceHours                int     `json:"minAdvanceHours"`
	MaxAdvanceDays                 int     `json:"maxAdvanceDays"`
	MaxSimultaneousBookingsPerSlot int     `json:"maxSimultaneousBookingsPerSlot"`
	OwnerDisplayName               string  `json:"ownerDisplayName"`
}

// AddOwnerRequest запрос на добавление владельца
type AddOwnerRequest struct {
	UserID             int64  `json:"userId"`
	DisplayName        string `json:"displayName"`
	Role               string `json:"role"`
	CanReceiveBookings bool   `json:"canReceiveBookings"`
	Weight             int    `json:"weight"`
}

// AvailabilityWindow окно доступности в запросе и ответе
type AvailabilityWindow struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = воскресенье
	StartTime string `json:"startTime"` // "09:00"
	EndTime   string `json:"endTime"`   // "18:00"
	IsActive  bool   `json:"isActive"`
}

// ServiceTypeRequest запрос на создание или изменение типа услуги
type ServiceTypeRequest struct {
	Name                string `json:"name"`
	DurationMinutes     int    `json:"durationMinutes"`
	BufferBeforeMinutes int    `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int    `json:"bufferAfterMinutes"`
	MinAdvanceHours     int    `json:"minAdvanceHours"`
	MaxPerDay           int    `json:"maxPerDay"`
	IsActive            bool   `json:"isActive"`
	Position            int    `json:"position"`
}

// CreateBlockRequest запрос на создание блокировки
type CreateBlockRequest struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Reason *string   `json:"reason,omitempty"`
}

// Response модели

// OwnerResponse владелец календаря
type OwnerResponse struct {
	ID                 int64  `json:"id"`
	UserID             int64  `json:"userId"`
	DisplayName        string `json:"displayName"`
	Role               string `json:"role"`
	CanReceiveBookings bool   `json:"canReceiveBookings"`
	Weight             int    `json:"weight"`
}

// ServiceTypeResponse тип услуги
type ServiceTypeResponse struct {
	ID                  int64  `json:"id"`
	CalendarID          int64  `json:"calendarId"`
	Name                string `json:"name"`
	DurationMinutes     int    `json:"durationMinutes"`
	BufferBeforeMinutes int    `json:"bufferBeforeMinutes"`
	BufferAfterMinutes  int    `json:"bufferAfterMinutes"`
	MinAdvanceHours     int    `json:"minAdvanceHours"`
	MaxPerDay           int    `json:"maxPerDay"`
	IsActive            bool   `json:"isActive"`
	Position            int    `json:"position"`
}

// BlockResponse блокировка
type BlockResponse struct {
	ID         int64     `json:"id"`
	CalendarID int64     `json:"calendarId"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Reason     *string   `json:"reason,omitempty"`
	CreatedBy  int64     `json:"createdBy"`
}

// CalendarResponse календарь с владельцами, расписанием и типами услуг
type CalendarResponse struct {
	ID                             int64                 `json:"id"`
	Name                           string                `json:"name"`
	Timezone                       string                `json:"timezone"`
	IsActive                       bool                  `json:"isActive"`
	PublicBooking                  bool                  `json:"publicBooking"`
	Slug                           string                `json:"slug"`
	MinAdvanceHours                int                   `json:"minAdvanceHours"`
	MaxAdvanceDays                 int                   `json:"maxAdvanceDays"`
	MaxSimultaneousBookingsPerSlot int                   `json:"maxSimultaneousBookingsPerSlot"`
	Owners                         []OwnerResponse       `json:"owners"`
	Availability                   []AvailabilityWindow  `json:"availability"`
	ServiceTypes                   []ServiceTypeResponse `json:"serviceTypes"`
	CreatedAt                      time.Time             `json:"createdAt"`
}

// FromDomainCalendar конвертирует календарь
func FromDomainCalendar(c *domain.Calendar) *CalendarResponse {
	return &CalendarResponse{
		ID:                             c.ID,
		Name:                           c.Name,
		Timezone:                       c.Timezone,
		IsActive:                       c.IsActive,
		PublicBooking:                  c.PublicBooking,
		Slug:                           c.Slug,
		MinAdvanceHours:                c.MinAdvanceHours,
		MaxAdvanceDays:                 c.MaxAdvanceDays,
		MaxSimultaneousBookingsPerSlot: c.Capacity(),
		Owners:                         []OwnerResponse{},
		Availability:                   []AvailabilityWindow{},
		ServiceTypes:                   []ServiceTypeResponse{},
		CreatedAt:                      c.CreatedAt,
	}
}

// FromDomainOwner конвертирует владельца
func FromDomainOwner(o *domain.Owner) OwnerResponse {
	return OwnerResponse{
		ID:                 o.ID,
		UserID:             o.UserID,
		DisplayName:        o.DisplayName,
		Role:               string(o.Role),
		CanReceiveBookings: o.CanReceiveBookings,
		Weight:             o.EffectiveWeight(),
	}
}

// FromDomainWindow конвертирует окно доступности
func FromDomainWindow(w *domain.AvailabilityWindow) AvailabilityWindow {
	return AvailabilityWindow{
		DayOfWeek: int(w.DayOfWeek),
		StartTime: w.StartTime.String(),
		EndTime:   w.EndTime.String(),
		IsActive:  w.IsActive,
	}
}

// FromDomainServiceType конвертирует тип услуги
func FromDomainServiceType(st *domain.ServiceType) ServiceTypeResponse {
	return ServiceTypeResponse{
		ID:                  st.ID,
		CalendarID:          st.CalendarID,
		Name:                st.Name,
		DurationMinutes:     st.DurationMinutes,
		BufferBeforeMinutes: st.BufferBeforeMinutes,
		BufferAfterMinutes:  st.BufferAfterMinutes,
		MinAdvanceHours:     st.MinAdvanceHours,
		MaxPerDay:           st.MaxPerDay,
		IsActive:            st.IsActive,
		Position:            st.Position,
	}
}

// FromDomainBlock конвертирует блокировку
func FromDomainBlock(b *domain.Block) *BlockResponse {
	return &BlockResponse{
		ID:         b.ID,
		CalendarID: b.CalendarID,
		Start:      b.Start,
		End:        b.End,
		Reason:     b.Reason,
		CreatedBy:  b.CreatedBy,
	}
}
