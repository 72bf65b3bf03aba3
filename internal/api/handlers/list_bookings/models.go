package list_bookings

import (
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-HotelBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

// ToServiceRequest формирует запрос к сервису из query параметров.
// date=YYYY-MM-DD - сокращение для ночи этой даты (from=date, to=date+1).
func ToServiceRequest(query url.Values) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{}

	// Парсим roomTypeId если указан
	if s := query.Get("roomTypeId"); s != "" {
		roomTypeID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		req.RoomTypeID = &roomTypeID
	}

	// Парсим userId если указан
	if s := query.Get("userId"); s != "" {
		userID, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, err
		}
		req.UserID = &userID
	}

	// Парсим status если указан
	if s := query.Get("status"); s != "" {
		req.Status = &s
	}

	// Парсим date если указана
	if s := query.Get("date"); s != "" {
		date, err := types.ParseDate(s)
		if err != nil {
			return nil, err
		}
		next := date.AddDays(1)
		req.From = &date
		req.To = &next
		return req, nil
	}

	// Парсим from и to если указаны
	if s := query.Get("from"); s != "" {
		from, err := types.ParseDate(s)
		if err != nil {
			return nil, err
		}
		req.From = &from
	}
	if s := query.Get("to"); s != "" {
		to, err := types.ParseDate(s)
		if err != nil {
			return nil, err
		}
		req.To = &to
	}

	return req, nil
}
