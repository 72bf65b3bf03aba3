package check_availability

import "github.com/m04kA/SMC-HotelBookingService/pkg/types"

// Request модель запроса доступности типа номера на период
type Request struct {
	RoomTypeID int64
	CheckIn    types.Date
	CheckOut   types.Date // не включается
}

// Response модель ответа с количеством свободных номеров
type Response struct {
	RoomTypeID   int64
	CheckIn      types.Date
	CheckOut     types.Date
	UnitCount    int // всего номеров этого типа
	Occupied     int // активных бронирований в периоде
	RawAvailable int // может быть отрицательным при овербукинге
	Available    int // не меньше 0
}
