package update_booking

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("update_booking: booking %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда бронирование принадлежит другому тенанту
	ErrAccessDenied = fmt.Errorf("update_booking: access denied: %w", domain.ErrForbidden)

	// ErrCannotUpdate возвращается для завершенных, отмененных и неявок
	ErrCannotUpdate = fmt.Errorf("update_booking: booking is closed: %w", domain.ErrInvalidTransition)

	// ErrTooEarly возвращается, когда новое начало раньше минимального времени записи
	ErrTooEarly = fmt.Errorf("update_booking: start is earlier than the minimum advance time: %w", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда новый интервал занят
	ErrSlotNotAvailable = fmt.Errorf("update_booking: %w", domain.ErrConflict)

	// ErrDailyLimitReached возвращается, когда на новый день исчерпан max_per_day
	ErrDailyLimitReached = fmt.Errorf("update_booking: daily limit of the service type reached: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("update_booking: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("update_booking: internal error")
)
