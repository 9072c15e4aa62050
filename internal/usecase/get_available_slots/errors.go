package get_available_slots

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrCalendarNotFound возвращается, когда календарь не найден или закрыт для публичной записи
	ErrCalendarNotFound = fmt.Errorf("get_available_slots: calendar %w", domain.ErrNotFound)

	// ErrServiceTypeNotFound возвращается, когда тип услуги не найден или неактивен
	ErrServiceTypeNotFound = fmt.Errorf("get_available_slots: service type %w", domain.ErrNotFound)

	// ErrCalendarInactive возвращается, когда календарь выключен
	ErrCalendarInactive = fmt.Errorf("get_available_slots: calendar is inactive: %w", domain.ErrValidation)

	// ErrAccessDenied возвращается, когда календарь принадлежит другому тенанту
	ErrAccessDenied = fmt.Errorf("get_available_slots: access denied: %w", domain.ErrForbidden)

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = fmt.Errorf("get_available_slots: invalid date: %w", domain.ErrValidation)

	// ErrDateOutOfRange возвращается, когда дата вне окна публичной записи
	ErrDateOutOfRange = fmt.Errorf("get_available_slots: date is outside the booking window: %w", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("get_available_slots: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
