package get_slot_assignments

import (
	getSlotAssignments "github.com/m04kA/SMC-HotelBookingService/internal/usecase/get_slot_assignments"
)

// SlotBookingResponse бронирование в строке календаря
type SlotBookingResponse struct {
	BookingID int64  `json:"bookingId"`
	CheckIn   string `json:"checkIn"`
	CheckOut  string `json:"checkOut"`
	Status    string `json:"status"`
	Collision bool   `json:"collision,omitempty"`
}

// SlotRowResponse строка календаря
type SlotRowResponse struct {
	Slot     int                   `json:"slot"`
	Bookings []SlotBookingResponse `json:"bookings"`
}

// SlotAssignmentsResponse HTTP response model
type SlotAssignmentsResponse struct {
	RoomTypeID   int64             `json:"roomTypeId"`
	RoomTypeName string            `json:"roomTypeName"`
	UnitCount    int               `json:"unitCount"`
	From         string            `json:"from"`
	To           string            `json:"to"`
	SlotCount    int               `json:"slotCount"`
	Rows         []SlotRowResponse `json:"rows"`
	Collisions   []int64           `json:"collisions"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getSlotAssignments.Response) *SlotAssignmentsResponse {
	rows := make([]SlotRowResponse, 0, len(resp.Rows))
	for _, row := range resp.Rows {
		bookings := make([]SlotBookingResponse, 0, len(row.Bookings))
		for _, entry := range row.Bookings {
			bookings = append(bookings, SlotBookingResponse{
				BookingID: entry.BookingID,
				CheckIn:   entry.CheckIn.String(),
				CheckOut:  entry.CheckOut.String(),
				Status:    string(entry.Status),
				Collision: entry.Collision,
			})
		}
		rows = append(rows, SlotRowResponse{Slot: row.Slot, Bookings: bookings})
	}

	collisions := resp.Collisions
	if collisions == nil {
		collisions = []int64{}
	}

	return &SlotAssignmentsResponse{
		RoomTypeID:   resp.RoomTypeID,
		RoomTypeName: resp.RoomTypeName,
		UnitCount:    resp.UnitCount,
		From:         resp.From.String(),
		To:           resp.To.String(),
		SlotCount:    resp.SlotCount,
		Rows:         rows,
		Collisions:   collisions,
	}
}
