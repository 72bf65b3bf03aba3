package payment_success

import (
	"context"

	reconcilePayment "github.com/m04kA/SMC-HotelBookingService/internal/usecase/reconcile_payment"
)

type ReconcileUseCase interface {
	HandleClientCallback(ctx context.Context, cb *reconcilePayment.ClientCallback) (*reconcilePayment.Result, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
