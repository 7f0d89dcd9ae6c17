package externalcalendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-StudioBooking/pkg/logger"
)

func TestFetchBusy_DecodesIntervals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/owners/7/busy", r.URL.Path)
		assert.Equal(t, "2025-10-01", r.URL.Query().Get("from"))
		assert.Equal(t, "2025-10-31", r.URL.Query().Get("to"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"intervals":[{"date":"2025-10-14","start_time":"10:00","end_time":"11:30","title":"Dentist"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", time.Second, logger.NewNop())
	busy, err := client.FetchBusy(context.Background(), 7,
		time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	require.Len(t, busy, 1)
	assert.Equal(t, "2025-10-14", busy[0].Date)
	assert.Equal(t, "10:00", busy[0].StartTime)
	assert.Equal(t, "11:30", busy[0].EndTime)
	require.NotNil(t, busy[0].Title)
	assert.Equal(t, "Dentist", *busy[0].Title)
}

func TestFetchBusy_StatusMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "not connected", status: http.StatusNotFound, wantErr: ErrCalendarNotConnected},
		{name: "server error", status: http.StatusBadGateway, body: "upstream", wantErr: ErrInvalidResponse},
		{name: "broken json", status: http.StatusOK, body: "{", wantErr: ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, logger.NewNop())
			_, err := client.FetchBusy(context.Background(), 1, time.Now(), time.Now())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetchBusy_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, 100*time.Millisecond, logger.NewNop())
	_, err := client.FetchBusy(context.Background(), 1, time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrUnavailable)
}
