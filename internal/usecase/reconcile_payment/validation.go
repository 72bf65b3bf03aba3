package reconcile_payment

import (
	"fmt"
	"strings"
)

// validateCallback валидирует сообщение клиента
func validateCallback(cb *ClientCallback) error {
	if cb.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if cb.GrossAmount < 0 {
		return fmt.Errorf("%w: grossAmount must not be negative", ErrInvalidInput)
	}
	return nil
}

// validateNotification валидирует уведомление шлюза
func validateNotification(n *Notification) error {
	if strings.TrimSpace(n.OrderID) == "" {
		return fmt.Errorf("%w: order_id is required", ErrInvalidInput)
	}
	if n.SignatureKey == "" {
		return fmt.Errorf("%w: signature_key is required", ErrVerificationFailed)
	}
	return nil
}
