package paymentgateway

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента (запрос не удалось собрать или отправить)
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе шлюза
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")

	// ErrUnauthorized возвращается, когда шлюз отклонил server key
	ErrUnauthorized = errors.New("paymentgateway client: unauthorized")

	// ErrTransactionNotFound возвращается, когда шлюз не знает order id
	ErrTransactionNotFound = errors.New("paymentgateway client: transaction not found")
)
