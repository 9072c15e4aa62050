package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	Tenant        domain.TenantContext
	CalendarID    int64  // Для сотрудников
	Slug          string // Для публичных запросов
	ServiceTypeID int64
	Date          string // Локальная дата календаря, YYYY-MM-DD
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date          string
	Timezone      string
	CalendarID    int64
	ServiceTypeID int64
	Slots         []Slot
}

// Slot модель временного слота
type Slot struct {
	Start          time.Time
	End            time.Time
	OwnerID        *int64 // Подсказка для отображения, не резервирование
	OwnerName      string
	AvailableSpots int
	TotalSpots     int
}

func fromDomainSlots(slots []domain.AvailableSlot) []Slot {
	result := make([]Slot, len(slots))
	for i, s := range slots {
		result[i] = Slot{
			Start:          s.Start,
			End:            s.End,
			OwnerID:        s.OwnerID,
			OwnerName:      s.OwnerName,
			AvailableSpots: s.AvailableSpots,
			TotalSpots:     s.TotalSpots,
		}
	}
	return result
}
