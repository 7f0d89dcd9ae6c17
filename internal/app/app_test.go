package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/internal/config"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
)

const ownerHeader = "1"

func newTestApp(t *testing.T) http.Handler {
	t.Helper()

	cfg := config.Default()
	cfg.Database.Driver = config.DriverMemory
	cfg.Metrics.Enabled = false
	cfg.RateLimit.Enabled = false

	a, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	return a.Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, owner string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if owner != "" {
		req.Header.Set("X-Owner-ID", owner)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

type slotsBody struct {
	Slots []struct {
		StartTime string `json:"startTime"`
	} `json:"slots"`
}

func slotStarts(t *testing.T, h http.Handler, path string) []string {
	t.Helper()
	rec := do(t, h, http.MethodGet, path, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body slotsBody
	decode(t, rec, &body)
	starts := make([]string, 0, len(body.Slots))
	for _, s := range body.Slots {
		starts = append(starts, s.StartTime)
	}
	return starts
}

func TestApp_PublicBookingFlow(t *testing.T) {
	h := newTestApp(t)

	// Неделя вперед, чтобы не зависеть от текущего времени
	day := time.Now().UTC().AddDate(0, 0, 7)
	date := day.Format(domain.DateFormat)

	// 1. Тип сессии
	rec := do(t, h, http.MethodPost, "/api/v1/booking/session-types", map[string]interface{}{
		"key":             "portrait",
		"name":            "Портрет",
		"durationMinutes": 60,
		"locationType":    "studio",
	}, ownerHeader)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var st struct {
		ID int64 `json:"id"`
	}
	decode(t, rec, &st)
	require.NotZero(t, st.ID)

	// 2. Расписание на нужный день недели 09:00-12:00
	rec = do(t, h, http.MethodPut, "/api/v1/booking/availability/patterns", map[string]interface{}{
		"patterns": []map[string]interface{}{
			{"weekday": int(day.Weekday()), "startTime": "09:00", "endTime": "12:00"},
		},
	}, ownerHeader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	slotsPath := fmt.Sprintf("/api/v1/public/1/available-slots?date=%s&sessionTypeId=%d", date, st.ID)
	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotStarts(t, h, slotsPath))

	// 3. Публичная запись
	bookingBody := map[string]interface{}{
		"sessionTypeId": st.ID,
		"bookingDate":   date,
		"startTime":     "10:00",
		"contact":       map[string]string{"name": "Анна", "email": "anna@example.com"},
		"internalNotes": "не должно сохраниться",
	}
	rec = do(t, h, http.MethodPost, "/api/v1/public/1/bookings", bookingBody, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var booking struct {
		ID            int64   `json:"id"`
		UUID          string  `json:"uuid"`
		Status        string  `json:"status"`
		Source        string  `json:"source"`
		InternalNotes *string `json:"internalNotes"`
	}
	decode(t, rec, &booking)
	assert.Equal(t, "pending", booking.Status)
	assert.Equal(t, "public_link", booking.Source)
	assert.Nil(t, booking.InternalNotes)

	assert.Equal(t, []string{"09:00", "11:00"}, slotStarts(t, h, slotsPath))

	// 4. Повтор на то же время: 409 с причиной и подсказками
	rec = do(t, h, http.MethodPost, "/api/v1/public/1/bookings", bookingBody, "")
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	var conflict struct {
		Conflicts []struct {
			Type string `json:"type"`
		} `json:"conflicts"`
		Suggestions []struct {
			StartTime string `json:"startTime"`
		} `json:"suggestions"`
	}
	decode(t, rec, &conflict)
	require.NotEmpty(t, conflict.Conflicts)
	assert.Equal(t, "time_overlap", conflict.Conflicts[0].Type)
	assert.NotEmpty(t, conflict.Suggestions)

	// 5. Ссылка клиента и iCalendar
	rec = do(t, h, http.MethodGet, "/api/v1/public/bookings/"+booking.UUID, nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/v1/public/bookings/"+booking.UUID+"/ics", nil, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/calendar")
	assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")

	// 6. Отмена владельцем освобождает слот
	rec = do(t, h, http.MethodPost, fmt.Sprintf("/api/v1/booking/bookings/%d/cancel", booking.ID), nil, ownerHeader)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	assert.Equal(t, []string{"09:00", "10:00", "11:00"}, slotStarts(t, h, slotsPath))

	// Повторная отмена недопустима
	rec = do(t, h, http.MethodPost, fmt.Sprintf("/api/v1/booking/bookings/%d/cancel", booking.ID), nil, ownerHeader)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestApp_ProtectedRoutesRequireOwner(t *testing.T) {
	h := newTestApp(t)

	rec := do(t, h, http.MethodGet, "/api/v1/booking/bookings", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/v1/booking/bookings", nil, ownerHeader)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApp_Health(t *testing.T) {
	h := newTestApp(t)

	rec := do(t, h, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestApp_ForeignOwnerCannotSeeBooking(t *testing.T) {
	h := newTestApp(t)

	rec := do(t, h, http.MethodGet, "/api/v1/booking/bookings/999", nil, ownerHeader)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
