package bookings

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = fmt.Errorf("bookings: booking %w", domain.ErrNotFound)

	// ErrCalendarNotFound возвращается, когда календарь не найден
	ErrCalendarNotFound = fmt.Errorf("bookings: calendar %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда запись принадлежит другому тенанту
	ErrAccessDenied = fmt.Errorf("bookings: access denied: %w", domain.ErrForbidden)

	// ErrCannotCancel бронирование не активно или уже закончилось
	ErrCannotCancel = fmt.Errorf("bookings: booking cannot be cancelled: %w", domain.ErrInvalidTransition)

	// ErrCannotComplete бронирование не подтверждено или еще не закончилось
	ErrCannotComplete = fmt.Errorf("bookings: booking cannot be completed: %w", domain.ErrInvalidTransition)

	// ErrCannotMarkNoShow бронирование не подтверждено или еще не закончилось
	ErrCannotMarkNoShow = fmt.Errorf("bookings: booking cannot be marked as no-show: %w", domain.ErrInvalidTransition)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("bookings: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
