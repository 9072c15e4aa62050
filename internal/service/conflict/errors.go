package conflict

import "errors"

var (
	// ErrInternal возвращается при ошибках чтения хранилища
	ErrInternal = errors.New("conflict: internal error")
)
