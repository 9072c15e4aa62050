package allocator

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

var (
	// ErrNoEligibleOwner в календаре нет владельцев, принимающих бронирования
	ErrNoEligibleOwner = fmt.Errorf("allocator: %w", domain.ErrNoEligibleOwner)

	// ErrInternal возвращается при ошибках чтения хранилища
	ErrInternal = errors.New("allocator: internal error")
)
