package payment_success

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-HotelBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-HotelBookingService/internal/domain"
	reconcilePayment "github.com/m04kA/SMC-HotelBookingService/internal/usecase/reconcile_payment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные данные оплаты"
	msgNotFound           = "бронирование не найдено"
	msgForbidden          = "доступ запрещен"
	msgConflict           = "оплата не может быть применена к бронированию"
	msgRetry              = "не удалось обработать оплату, повторите запрос"
	msgConfirmed          = "бронирование подтверждено"
	msgAlreadyConfirmed   = "бронирование уже подтверждено"
	msgRecorded           = "статус оплаты сохранён"
)

type Handler struct {
	useCase ReconcileUseCase
	logger  Logger
}

func NewHandler(useCase ReconcileUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/payments/success
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req PaymentSuccessRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /payments/success - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.HandleClientCallback(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, reconcilePayment.ErrInvalidInput):
			handlers.RespondJSON(w, http.StatusBadRequest, PaymentResponse{Message: msgInvalidInput})

		case errors.Is(err, reconcilePayment.ErrBookingNotFound):
			h.logger.Warn("POST /payments/success - Booking not found: booking_id=%d", req.BookingID)
			handlers.RespondJSON(w, http.StatusNotFound, PaymentResponse{Message: msgNotFound})

		case errors.Is(err, reconcilePayment.ErrForbidden):
			h.logger.Warn("POST /payments/success - Access denied: booking_id=%d, user_id=%d", req.BookingID, userID)
			handlers.RespondJSON(w, http.StatusForbidden, PaymentResponse{Message: msgForbidden})

		case errors.Is(err, reconcilePayment.ErrConflict):
			h.logger.Warn("POST /payments/success - Conflict: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondJSON(w, http.StatusConflict, PaymentResponse{Message: msgConflict, BookingID: req.BookingID})

		default:
			h.logger.Error("POST /payments/success - Failed to reconcile: booking_id=%d, error=%v", req.BookingID, err)
			handlers.RespondJSON(w, http.StatusInternalServerError, PaymentResponse{Message: msgRetry})
		}
		return
	}

	h.logger.Info("POST /payments/success - Reconciled: booking_id=%d, status=%s, already_confirmed=%t",
		result.BookingID, result.Status, result.AlreadyConfirmed)
	handlers.RespondJSON(w, http.StatusOK, FromResult(result))
}

// FromResult формирует ответ по результату сверки
func FromResult(result *reconcilePayment.Result) PaymentResponse {
	message := msgRecorded
	switch {
	case result.AlreadyConfirmed:
		message = msgAlreadyConfirmed
	case result.Changed && result.Status == domain.StatusConfirmed:
		message = msgConfirmed
	}

	return PaymentResponse{
		Success:   true,
		Message:   message,
		BookingID: result.BookingID,
		Status:    string(result.Status),
	}
}
