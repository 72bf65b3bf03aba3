package get_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HotelBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	"github.com/m04kA/SMC-HotelBookingService/internal/service/bookings"
	"github.com/m04kA/SMC-HotelBookingService/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgMissingIdentity  = "не передан ID гостя"
	msgNotOwner         = "бронирование оформлено на другого гостя"
)

// Способ доступа к бронированию, пишется в лог
const (
	accessOwner = "owner"
	accessAdmin = "admin"
)

// Handler отдаёт бронирование его владельцу или администратору.
// Администратор видит любые бронирования, каждый такой просмотр чужого бронирования логируется.
type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - request without guest identity")
		handlers.RespondUnauthorized(w, msgMissingIdentity)
		return
	}

	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - user_id=%d sent bad booking id: %v", actor.UserID, err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID, actor)
	switch {
	case err == nil:
	case errors.Is(err, bookings.ErrBookingNotFound):
		h.logger.Warn("GET /bookings/{id} - booking_id=%d not found (user_id=%d)", bookingID, actor.UserID)
		handlers.RespondNotFound(w, msgNotFound)
		return
	case errors.Is(err, bookings.ErrForbidden):
		h.logger.Warn("GET /bookings/{id} - guest user_id=%d is not the owner of booking_id=%d", actor.UserID, bookingID)
		handlers.RespondForbidden(w, msgNotOwner)
		return
	default:
		h.logger.Error("GET /bookings/{id} - booking_id=%d: %v", bookingID, err)
		handlers.RespondInternalError(w)
		return
	}

	if accessKind(actor, booking) == accessAdmin {
		h.logger.Info("GET /bookings/{id} - admin user_id=%d viewed booking_id=%d of guest user_id=%d",
			actor.UserID, bookingID, booking.UserID)
	} else {
		h.logger.Info("GET /bookings/{id} - owner user_id=%d viewed booking_id=%d", actor.UserID, bookingID)
	}
	handlers.RespondJSON(w, http.StatusOK, booking)
}

// accessKind администратор, открывший своё же бронирование, считается владельцем
func accessKind(actor domain.Actor, booking *models.BookingResponse) string {
	if actor.IsAdmin() && booking.UserID != actor.UserID {
		return accessAdmin
	}
	return accessOwner
}
