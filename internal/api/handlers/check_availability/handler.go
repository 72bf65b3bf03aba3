package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/handlers"
	checkAvailability "github.com/m04kA/SMC-HotelBookingService/internal/usecase/check_availability"
	"github.com/m04kA/SMC-HotelBookingService/pkg/types"
)

const (
	msgInvalidRoomTypeID = "некорректный ID типа номера"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange      = "дата выезда должна быть позже даты заезда"
	msgInvalidInput      = "некорректные параметры запроса"
	msgRoomTypeNotFound  = "тип номера не найден"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/room-types/{roomTypeId}/availability?checkIn=YYYY-MM-DD&checkOut=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	roomTypeID, err := handlers.PathInt64(r, "roomTypeId")
	if err != nil {
		h.logger.Warn("GET /room-types/{id}/availability - Invalid room type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRoomTypeID)
		return
	}

	// Парсим даты из query параметров
	query := r.URL.Query()
	checkIn, err := types.ParseDate(query.Get("checkIn"))
	if err != nil {
		h.logger.Warn("GET /room-types/{id}/availability - Invalid checkIn: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	checkOut, err := types.ParseDate(query.Get("checkOut"))
	if err != nil {
		h.logger.Warn("GET /room-types/{id}/availability - Invalid checkOut: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &checkAvailability.Request{
		RoomTypeID: roomTypeID,
		CheckIn:    checkIn,
		CheckOut:   checkOut,
	})
	if err != nil {
		switch {
		case errors.Is(err, checkAvailability.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, checkAvailability.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, checkAvailability.ErrRoomTypeNotFound):
			h.logger.Warn("GET /room-types/{id}/availability - Room type not found: room_type_id=%d", roomTypeID)
			handlers.RespondNotFound(w, msgRoomTypeNotFound)

		default:
			h.logger.Error("GET /room-types/{id}/availability - Failed to count availability: room_type_id=%d, error=%v",
				roomTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
