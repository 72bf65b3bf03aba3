package domain

// Validation limits
const (
	MinGuestCount       = 1
	MaxGuestCount       = 20
	MaxStayNights       = 90
	MaxGuestNameLength  = 200
	MaxGuestEmailLength = 254
)

// DefaultSlotCount количество строк календаря по умолчанию
const DefaultSlotCount = 5
