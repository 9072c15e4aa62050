package create_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrCalendarNotFound возвращается, когда календарь не найден или закрыт для публичной записи
	ErrCalendarNotFound = fmt.Errorf("create_booking: calendar %w", domain.ErrNotFound)

	// ErrServiceTypeNotFound возвращается, когда тип услуги не найден в календаре или неактивен
	ErrServiceTypeNotFound = fmt.Errorf("create_booking: service type %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда календарь принадлежит другому тенанту
	ErrAccessDenied = fmt.Errorf("create_booking: access denied: %w", domain.ErrForbidden)

	// ErrCalendarInactive возвращается при записи в выключенный календарь
	ErrCalendarInactive = fmt.Errorf("create_booking: calendar is inactive: %w", domain.ErrValidation)

	// ErrTooEarly возвращается, когда начало раньше минимального времени записи
	ErrTooEarly = fmt.Errorf("create_booking: start is earlier than the minimum advance time: %w", domain.ErrValidation)

	// ErrDateOutOfRange возвращается, когда дата дальше окна публичной записи
	ErrDateOutOfRange = fmt.Errorf("create_booking: date is outside the booking window: %w", domain.ErrValidation)

	// ErrOutsideAvailability возвращается, когда публичное бронирование не помещается в окно доступности
	ErrOutsideAvailability = fmt.Errorf("create_booking: interval is outside calendar availability: %w", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда интервал уже занят. Клиенту нужно запросить слоты заново.
	ErrSlotNotAvailable = fmt.Errorf("create_booking: %w", domain.ErrConflict)

	// ErrDailyLimitReached возвращается, когда исчерпан max_per_day типа услуги
	ErrDailyLimitReached = fmt.Errorf("create_booking: daily limit of the service type reached: %w", domain.ErrConflict)

	// ErrNoEligibleOwner возвращается, когда в календаре некому назначить бронирование
	ErrNoEligibleOwner = fmt.Errorf("create_booking: %w", domain.ErrNoEligibleOwner)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("create_booking: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
