package payment_notification

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-HotelBookingService/internal/api/handlers"
	reconcilePayment "github.com/m04kA/SMC-HotelBookingService/internal/usecase/reconcile_payment"
)

const (
	msgInvalidRequestBody = "invalid notification body"
	msgVerificationFailed = "notification verification failed"
	msgNotFound           = "booking not found"
	msgRetry              = "temporary failure, retry later"
	msgIgnored            = "notification acknowledged, booking state unchanged"
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

// Handle POST /api/v1/payments/notification
// Публичный endpoint для шлюза. 200 означает "больше не присылать", 5xx - повторить доставку.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req NotificationRequest
	// Шлюз может добавлять новые поля, поэтому неизвестные поля не запрещаем
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("POST /payments/notification - Invalid request body: %v", err)
		handlers.RespondJSON(w, http.StatusBadRequest, NotificationResponse{Message: msgInvalidRequestBody})
		return
	}

	result, err := h.useCase.HandleNotification(r.Context(), req.ToUseCaseRequest())
	if err != nil {
		switch {
		case errors.Is(err, reconcilePayment.ErrInvalidInput):
			handlers.RespondJSON(w, http.StatusBadRequest, NotificationResponse{Message: msgInvalidRequestBody})

		case errors.Is(err, reconcilePayment.ErrVerificationFailed):
			h.logger.Warn("POST /payments/notification - Verification failed: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondJSON(w, http.StatusForbidden, NotificationResponse{Message: msgVerificationFailed})

		case errors.Is(err, reconcilePayment.ErrBookingNotFound):
			h.logger.Warn("POST /payments/notification - Booking not found: order_id=%s", req.OrderID)
			handlers.RespondJSON(w, http.StatusNotFound, NotificationResponse{Message: msgNotFound})

		case errors.Is(err, reconcilePayment.ErrConflict):
			h.logger.Warn("POST /payments/notification - Conflict: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondJSON(w, http.StatusOK, NotificationResponse{Message: msgIgnored})

		default:
			h.logger.Error("POST /payments/notification - Failed to reconcile: order_id=%s, error=%v", req.OrderID, err)
			handlers.RespondJSON(w, http.StatusInternalServerError, NotificationResponse{Message: msgRetry})
		}
		return
	}

	h.logger.Info("POST /payments/notification - Reconciled: order_id=%s, booking_id=%d, status=%s",
		req.OrderID, result.BookingID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, NotificationResponse{
		Success: true,
		Message: fmt.Sprintf("booking %d is %s", result.BookingID, result.Status),
	})
}
