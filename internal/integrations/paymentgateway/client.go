package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client клиент платежного шлюза (Snap API для создания транзакций, Core API для статуса)
type Client struct {
	snapURL    string
	apiURL     string
	serverKey  string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного шлюза
func NewClient(snapURL, apiURL, serverKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		snapURL:   strings.TrimRight(snapURL, "/"),
		apiURL:    strings.TrimRight(apiURL, "/"),
		serverKey: serverKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CreateTransaction создает платежную транзакцию и возвращает токен и ссылку на оплату.
// Повторный вызов с тем же order id шлюз отклоняет, поэтому order id генерируется до вызова.
func (c *Client) CreateTransaction(ctx context.Context, in CreateTransactionRequest) (*Transaction, error) {
	amount := int64(math.Round(in.GrossAmount))

	body := snapRequest{
		TransactionDetails: transactionDetails{
			OrderID:     in.OrderID,
			GrossAmount: amount,
		},
	}
	if in.Customer != (Customer{}) {
		body.CustomerDetails = &customerDetails{
			FirstName: in.Customer.Name,
			Email:     in.Customer.Email,
			Phone:     in.Customer.Phone,
		}
	}
	if in.ItemName != "" {
		body.ItemDetails = []itemDetails{{ID: in.OrderID, Price: amount, Quantity: 1, Name: in.ItemName}}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.snapURL+"/snap/v1/transactions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	c.log.Info("Creating gateway transaction order_id=%s amount=%d", in.OrderID, amount)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, c.unexpectedStatus(resp)
	}

	var tx Transaction
	if err := json.NewDecoder(resp.Body).Decode(&tx); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if tx.Token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrInvalidResponse)
	}

	return &tx, nil
}

// GetStatus запрашивает у шлюза актуальный статус транзакции по order id
func (c *Client) GetStatus(ctx context.Context, orderID string) (*TransactionStatus, error) {
	endpoint := fmt.Sprintf("%s/v2/%s/status", c.apiURL, url.PathEscape(orderID))

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrTransactionNotFound
	default:
		return nil, c.unexpectedStatus(resp)
	}

	var status TransactionStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	// Шлюз может ответить HTTP 200 с кодом ошибки в теле
	switch status.StatusCode {
	case "404":
		return nil, ErrTransactionNotFound
	case "401":
		return nil, ErrUnauthorized
	}

	if status.OrderID != "" && status.OrderID != orderID {
		return nil, fmt.Errorf("%w: order id mismatch: requested %s, got %s", ErrInvalidResponse, orderID, status.OrderID)
	}

	return &status, nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.serverKey, "")

	return req, nil
}

func (c *Client) unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var gwErr ErrorResponse
	if err := json.Unmarshal(body, &gwErr); err == nil && len(gwErr.ErrorMessages) > 0 {
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, strings.Join(gwErr.ErrorMessages, "; "))
	}

	return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
}
