package create_reservation

import "errors"

var (
	// ErrServiceNotFound возвращается, когда тип услуги не известен каталогу
	ErrServiceNotFound = errors.New("create_reservation: service type not found")

	// ErrInvalidDate возвращается при некорректной дате бронирования
	ErrInvalidDate = errors.New("create_reservation: invalid reservation date")

	// ErrInvalidTimeSlot возвращается, когда время начала не попадает в сетку
	// слотов или услуга не успевает завершиться до закрытия
	ErrInvalidTimeSlot = errors.New("create_reservation: invalid time slot")

	// ErrSlotTaken возвращается, когда слот уже занят — как при проверке до
	// записи, так и при нарушении уникального индекса в момент записи
	ErrSlotTaken = errors.New("create_reservation: slot already booked")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_reservation: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_reservation: internal error")
)
