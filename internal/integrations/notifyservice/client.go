package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с NotifyService.
// Все уведомления best-effort: вызывающая сторона логирует ошибку
// и не откатывает бизнес-операцию.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// NotifyBookingCreated отправляет уведомление о созданном бронировании
func (c *Client) NotifyBookingCreated(ctx context.Context, event BookingCreatedEvent) error {
	return c.postJSON(ctx, c.baseURL+"/internal/notifications/booking-created", event)
}

// NotifyWaitlistSlotAvailable уведомляет участника листа ожидания об освободившемся слоте
func (c *Client) NotifyWaitlistSlotAvailable(ctx context.Context, event SlotAvailableEvent) error {
	return c.postJSON(ctx, c.baseURL+"/internal/notifications/slot-available", event)
}

// NotifyBookingReminder отправляет напоминание о предстоящем бронировании
func (c *Client) NotifyBookingReminder(ctx context.Context, event BookingReminderEvent) error {
	return c.postJSON(ctx, c.baseURL+"/internal/notifications/booking-reminder", event)
}

// postJSON выполняет POST запрос с JSON телом
func (c *Client) postJSON(ctx context.Context, url string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}
