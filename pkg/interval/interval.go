// Package interval содержит чистые функции для работы с полуоткрытыми интервалами времени [start, end).
package interval

import "time"

// Interval полуоткрытый интервал времени [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

// New создает интервал
func New(start, end time.Time) Interval {
	return Interval{Start: start, End: end}
}

// FromDuration создает интервал [start, start+d)
func FromDuration(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps проверяет пересечение двух полуоткрытых интервалов: aStart < bEnd && aEnd > bStart.
// Интервалы нулевой (или отрицательной) длины не пересекаются ни с чем.
// Смежные интервалы (aEnd == bStart) не пересекаются.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	if !aStart.Before(aEnd) || !bStart.Before(bEnd) {
		return false
	}
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// IsEmpty возвращает true для интервала нулевой или отрицательной длины
func (i Interval) IsEmpty() bool {
	return !i.Start.Before(i.End)
}

// Duration длительность интервала
func (i Interval) Duration() time.Duration {
	if i.IsEmpty() {
		return 0
	}
	return i.End.Sub(i.Start)
}

// Overlaps проверяет пересечение с другим интервалом
func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// Contains проверяет, что other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	if i.IsEmpty() || other.IsEmpty() {
		return false
	}
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}

// CountOverlapping считает интервалы из set, пересекающиеся с i
func (i Interval) CountOverlapping(set []Interval) int {
	count := 0
	for _, other := range set {
		if i.Overlaps(other) {
			count++
		}
	}
	return count
}

// AnyOverlaps возвращает true, если хотя бы один интервал из set пересекается с i
func (i Interval) AnyOverlaps(set []Interval) bool {
	for _, other := range set {
		if i.Overlaps(other) {
			return true
		}
	}
	return false
}

// Minutes переводит количество минут в time.Duration
func Minutes(n int) time.Duration {
	return time.Duration(n) * time.Minute
}

// Hours переводит количество часов в time.Duration
func Hours(n int) time.Duration {
	return time.Duration(n) * time.Hour
}
