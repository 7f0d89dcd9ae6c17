package externalcalendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const dateFormat = "2006-01-02"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент сервиса синхронизации внешнего календаря
// Сервис отдает занятые интервалы владельца, OAuth и двусторонняя синхронизация живут на его стороне
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FetchBusy получает занятые интервалы владельца в диапазоне дат (включительно)
func (c *Client) FetchBusy(ctx context.Context, ownerID int64, from, to time.Time) ([]BusyInterval, error) {
	query := url.Values{}
	query.Set("from", from.Format(dateFormat))
	query.Set("to", to.Format(dateFormat))
	endpoint := fmt.Sprintf("%s/internal/owners/%d/busy?%s", c.baseURL, ownerID, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrCalendarNotConnected
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payload BusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Fetched %d busy intervals for owner_id=%d (%s..%s)",
		len(payload.Intervals), ownerID, from.Format(dateFormat), to.Format(dateFormat))

	return payload.Intervals, nil
}
