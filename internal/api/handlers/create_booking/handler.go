package create_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HotelBookingService/internal/api/middleware"
	createBooking "github.com/m04kA/SMC-HotelBookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidInput       = "некорректные данные бронирования"
	msgInvalidRange       = "дата выезда должна быть позже даты заезда"
	msgCheckInInPast      = "дата заезда уже прошла"
	msgRoomTypeNotFound   = "тип номера не найден"
	msgCapacityExceeded   = "количество гостей превышает вместимость номера"
	msgNoInventory        = "на выбранные даты нет свободных номеров"
	msgOrderIDConflict    = "order id уже используется другим бронированием"
	msgGatewayUnavailable = "платёжный шлюз недоступен, бронирование ожидает оплаты, повторите запрос с тем же orderId"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	// Получаем userID из контекста (через middleware Auth)
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом дат)
	useCaseReq, err := req.ToUseCaseRequest(userID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrNoInventory):
			h.logger.Warn("POST /bookings - No inventory: user_id=%d, room_type_id=%d", userID, req.RoomTypeID)
			handlers.RespondConflict(w, msgNoInventory)

		case errors.Is(err, createBooking.ErrOrderIDConflict):
			h.logger.Warn("POST /bookings - Order id conflict: user_id=%d", userID)
			handlers.RespondConflict(w, msgOrderIDConflict)

		case errors.Is(err, createBooking.ErrRoomTypeNotFound):
			h.logger.Warn("POST /bookings - Room type not found: room_type_id=%d", req.RoomTypeID)
			handlers.RespondNotFound(w, msgRoomTypeNotFound)

		case errors.Is(err, createBooking.ErrInvalidRange):
			handlers.RespondBadRequest(w, msgInvalidRange)

		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgCheckInInPast)

		case errors.Is(err, createBooking.ErrCapacityExceeded):
			handlers.RespondBadRequest(w, msgCapacityExceeded)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createBooking.ErrGatewayUnavailable):
			h.logger.Error("POST /bookings - Gateway unavailable: user_id=%d, error=%v", userID, err)
			handlers.RespondJSON(w, http.StatusBadGateway, FromGatewayError(err, msgGatewayUnavailable))

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, room_type_id=%d, error=%v",
				userID, req.RoomTypeID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	// Формируем HTTP ответ
	response := FromUseCaseResponse(result)

	if result.Existing {
		h.logger.Info("POST /bookings - Returning existing booking: booking_id=%d, user_id=%d", result.Booking.ID, userID)
		handlers.RespondJSON(w, http.StatusOK, response)
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d, room_type_id=%d",
		result.Booking.ID, userID, req.RoomTypeID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
