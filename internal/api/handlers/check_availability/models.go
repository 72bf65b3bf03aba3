package check_availability

import (
	checkAvailability "github.com/m04kA/SMC-HotelBookingService/internal/usecase/check_availability"
)

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	RoomTypeID int64  `json:"roomTypeId"`
	CheckIn    string `json:"checkIn"`
	CheckOut   string `json:"checkOut"`
	Nights     int    `json:"nights"`
	UnitCount  int    `json:"unitCount"`
	Available  int    `json:"available"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response.
// Отрицательный остаток наружу не отдаётся.
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		RoomTypeID: resp.RoomTypeID,
		CheckIn:    resp.CheckIn.String(),
		CheckOut:   resp.CheckOut.String(),
		Nights:     resp.CheckIn.DaysUntil(resp.CheckOut),
		UnitCount:  resp.UnitCount,
		Available:  resp.Available,
	}
}
