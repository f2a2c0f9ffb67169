package domain

// Default booking parameters, used when the config file leaves them unset
const (
	DefaultOpenTime           = "08:00"
	DefaultCloseTime          = "18:00"
	DefaultSlotGranularityMin = 30
	DefaultReferencePrefix    = "SHN"
)

// Business validation constants
const (
	MinSlotGranularityMinutes = 5
	MaxSlotGranularityMinutes = 240
	MaxNotesLength            = 500
	MaxCancellationReasonLen  = 500
	MaxExtras                 = 10
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses список статусов, при которых бронирование занимает слот.
// Используется репозиторием для фильтрации и частичным уникальным индексом в БД.
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
}
