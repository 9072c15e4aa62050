package calendars

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrCalendarNotFound возвращается, когда календарь не найден
	ErrCalendarNotFound = fmt.Errorf("calendars: calendar %w", domain.ErrNotFound)

	// ErrServiceTypeNotFound возвращается, когда тип услуги не найден
	ErrServiceTypeNotFound = fmt.Errorf("calendars: service type %w", domain.ErrNotFound)

	// ErrBlockNotFound возвращается, когда блокировка не найдена
	ErrBlockNotFound = fmt.Errorf("calendars: block %w", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь не администратор календаря
	ErrAccessDenied = fmt.Errorf("calendars: access denied: %w", domain.ErrForbidden)

	// ErrOwnerAlreadyExists пользователь уже состоит в календаре
	ErrOwnerAlreadyExists = fmt.Errorf("calendars: owner already exists: %w", domain.ErrConflict)

	// ErrSlugUnavailable не удалось подобрать свободный slug
	ErrSlugUnavailable = fmt.Errorf("calendars: slug is not available: %w", domain.ErrConflict)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("calendars: invalid input data: %w", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("calendars: internal error")
)
