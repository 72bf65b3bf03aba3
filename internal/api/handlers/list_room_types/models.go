package list_room_types

import "github.com/m04kA/SMC-HotelBookingService/internal/domain"

// RoomTypeResponse HTTP response model
type RoomTypeResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"` // за ночь
	Capacity  int     `json:"capacity"`
	UnitCount int     `json:"unitCount"`
}

// FromDomainRoomTypes конвертирует каталог в HTTP response
func FromDomainRoomTypes(roomTypes []*domain.RoomType) []RoomTypeResponse {
	resp := make([]RoomTypeResponse, 0, len(roomTypes))
	for _, rt := range roomTypes {
		resp = append(resp, RoomTypeResponse{
			ID:        rt.ID,
			Name:      rt.Name,
			Price:     rt.Price,
			Capacity:  rt.Capacity,
			UnitCount: rt.UnitCount,
		})
	}
	return resp
}
