package pricing

import "errors"

var (
	// ErrServiceNotFound возвращается, когда тип услуги не известен каталогу
	ErrServiceNotFound = errors.New("pricing client: service type not found")

	// ErrInvalidQuote возвращается, когда сервис вернул некорректную стоимость
	ErrInvalidQuote = errors.New("pricing client: invalid quote")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("pricing client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("pricing client: invalid response")
)
