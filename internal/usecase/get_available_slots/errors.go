package get_available_slots

import "errors"

var (
	// ErrServiceNotFound возвращается, когда тип услуги не известен каталогу
	ErrServiceNotFound = errors.New("get_available_slots: service type not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_available_slots: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
