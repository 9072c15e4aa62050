package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/conflict"
	"github.com/m04kA/SMC-SchedulingService/pkg/interval"
)

// ownerHint подпись владельца для слотов
type ownerHint struct {
	id   *int64
	name string
}

// firstEligibleOwner первый владелец, принимающий бронирования; без таких подпись-заглушка
func firstEligibleOwner(owners []domain.Owner) ownerHint {
	eligible := domain.EligibleOwners(owners)
	if len(eligible) == 0 {
		return ownerHint{name: domain.DefaultOwnerPlaceholder}
	}
	id := eligible[0].ID
	return ownerHint{id: &id, name: eligible[0].DisplayName}
}

// generateCandidates строит слоты локального дня dayStart по окнам доступности.
// Буферы участвуют только в проверке, помещается ли слот в окно; шаг курсора равен длительности услуги.
// Фильтр по minStart сюда не входит: результат зависит только от сохраненного состояния.
func generateCandidates(
	dayStart time.Time,
	windows []domain.AvailabilityWindow,
	st *domain.ServiceType,
	occ conflict.Occupancy,
	owner ownerHint,
) ([]domain.AvailableSlot, error) {
	result := make([]domain.AvailableSlot, 0)

	duration := st.Duration()
	fit := st.FitDuration()
	if duration <= 0 {
		return result, nil
	}

	y, m, d := dayStart.Date()
	loc := dayStart.Location()
	var lastEnd time.Time

	for _, w := range windows {
		windowStart, err := w.StartTime.On(y, m, d, loc)
		if err != nil {
			return nil, err
		}
		windowEnd, err := w.EndTime.On(y, m, d, loc)
		if err != nil {
			return nil, err
		}

		for cursor := windowStart; !cursor.Add(fit).After(windowEnd); cursor = cursor.Add(duration) {
			candidate := interval.FromDuration(cursor, duration)
			// Пересекающиеся окна не должны давать пересекающиеся слоты
			if candidate.Start.Before(lastEnd) {
				continue
			}

			spots := occ.SpotsLeft(candidate)
			if spots == 0 {
				continue
			}

			result = append(result, domain.AvailableSlot{
				Start:          candidate.Start,
				End:            candidate.End,
				OwnerID:        owner.id,
				OwnerName:      owner.name,
				AvailableSpots: spots,
				TotalSpots:     occ.Capacity,
			})
			lastEnd = candidate.End
		}
	}

	return result, nil
}

// filterFromMinStart оставляет слоты, начинающиеся не раньше minStart
func filterFromMinStart(slots []domain.AvailableSlot, minStart time.Time) []domain.AvailableSlot {
	result := make([]domain.AvailableSlot, 0, len(slots))
	for _, s := range slots {
		if !s.Start.Before(minStart) {
			result = append(result, s)
		}
	}
	return result
}

// nextDay полночь следующего локального дня
func nextDay(dayStart time.Time) time.Time {
	y, m, d := dayStart.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, dayStart.Location())
}
