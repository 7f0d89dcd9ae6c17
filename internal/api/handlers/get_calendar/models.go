package get_calendar

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/api/handlers"
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	bookingsModels "github.com/m04kA/SMC-StudioBooking/internal/service/bookings/models"
	getCalendar "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_calendar"
)

// CalendarResponse HTTP response model
type CalendarResponse struct {
	View           string                  `json:"view"`
	StartDate      string                  `json:"startDate"`
	EndDate        string                  `json:"endDate"`
	Bookings       []CalendarBooking       `json:"bookings"`
	DailyStats     []DayStatResponse       `json:"dailyStats"`
	BlockedDates   []BlockedDateResponse   `json:"blockedDates"`
	ExternalEvents []ExternalEventResponse `json:"externalEvents"`
	Grid           []GridDayResponse       `json:"grid,omitempty"`
}

// OffsetResponse положение внутри дня в минутах от полуночи
type OffsetResponse struct {
	StartMinute     int `json:"startMinute"`
	DurationMinutes int `json:"durationMinutes"`
}

type CalendarBooking struct {
	bookingsModels.BookingResponse
	Offset *OffsetResponse `json:"offset,omitempty"`
}

type DayStatResponse struct {
	Date       string  `json:"date"`
	Blocked    bool    `json:"blocked"`
	Count      int     `json:"count"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
}

type BlockedDateResponse struct {
	ID        int64   `json:"id"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Reason    *string `json:"reason,omitempty"`
	Source    string  `json:"source"`
}

type ExternalEventResponse struct {
	Date      string          `json:"date"`
	StartTime string          `json:"startTime"`
	EndTime   string          `json:"endTime"`
	Title     *string         `json:"title,omitempty"`
	Offset    *OffsetResponse `json:"offset,omitempty"`
}

type GridDayResponse struct {
	Date         string `json:"date"`
	InMonth      bool   `json:"inMonth"`
	IsToday      bool   `json:"isToday"`
	BookingCount int    `json:"bookingCount"`
}

// ToUseCaseRequest формирует запрос use case из query параметров
// Query params: start (required), end, view (daily|weekly|monthly, по умолчанию weekly),
// sessionTypeId, capacityFloor
func ToUseCaseRequest(ownerID int64, r *http.Request, loc *time.Location) (*getCalendar.Request, error) {
	query := r.URL.Query()

	start, err := handlers.QueryDate(r, "start", loc)
	if err != nil {
		return nil, err
	}
	if start == nil {
		return nil, fmt.Errorf("start is required")
	}

	end, err := handlers.QueryDate(r, "end", loc)
	if err != nil {
		return nil, err
	}

	view := domain.ViewWeekly
	if raw := query.Get("view"); raw != "" {
		view = domain.CalendarViewKind(raw)
	}

	sessionTypeID, err := handlers.QueryInt64(r, "sessionTypeId")
	if err != nil {
		return nil, err
	}

	req := &getCalendar.Request{
		OwnerID:       ownerID,
		View:          view,
		StartDate:     *start,
		EndDate:       end,
		SessionTypeID: sessionTypeID,
	}

	if raw := query.Get("capacityFloor"); raw != "" {
		floor, err := strconv.Atoi(raw)
		if err != nil || floor < 0 {
			return nil, fmt.Errorf("invalid capacityFloor %q", raw)
		}
		req.CapacityFloor = floor
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getCalendar.Response) *CalendarResponse {
	out := &CalendarResponse{
		View:           string(resp.View),
		StartDate:      resp.StartDate.Format(domain.DateFormat),
		EndDate:        resp.EndDate.Format(domain.DateFormat),
		Bookings:       make([]CalendarBooking, 0, len(resp.Bookings)),
		DailyStats:     make([]DayStatResponse, 0, len(resp.DailyStats)),
		BlockedDates:   make([]BlockedDateResponse, 0, len(resp.BlockedDates)),
		ExternalEvents: make([]ExternalEventResponse, 0, len(resp.ExternalEvents)),
	}

	for _, e := range resp.Bookings {
		out.Bookings = append(out.Bookings, CalendarBooking{
			BookingResponse: *bookingsModels.FromDomainBooking(e.Booking),
			Offset:          fromOffset(e.Offset),
		})
	}
	for _, s := range resp.DailyStats {
		out.DailyStats = append(out.DailyStats, DayStatResponse{
			Date:       s.Date.Format(domain.DateFormat),
			Blocked:    s.Blocked,
			Count:      s.Count,
			Max:        s.Max,
			Percentage: s.Percentage,
		})
	}
	for _, b := range resp.BlockedDates {
		out.BlockedDates = append(out.BlockedDates, BlockedDateResponse{
			ID:        b.ID,
			StartDate: b.StartDate.Format(domain.DateFormat),
			EndDate:   b.EndDate.Format(domain.DateFormat),
			Reason:    b.Reason,
			Source:    string(b.Source),
		})
	}
	for _, e := range resp.ExternalEvents {
		out.ExternalEvents = append(out.ExternalEvents, ExternalEventResponse{
			Date:      e.Interval.Date.Format(domain.DateFormat),
			StartTime: e.Interval.StartTime.String(),
			EndTime:   e.Interval.EndTime.String(),
			Title:     e.Interval.Title,
			Offset:    fromOffset(e.Offset),
		})
	}
	for _, g := range resp.Grid {
		out.Grid = append(out.Grid, GridDayResponse{
			Date:         g.Date.Format(domain.DateFormat),
			InMonth:      g.InMonth,
			IsToday:      g.IsToday,
			BookingCount: g.BookingCount,
		})
	}

	return out
}

func fromOffset(o *domain.TimeOffset) *OffsetResponse {
	if o == nil {
		return nil
	}
	return &OffsetResponse{StartMinute: o.StartMinute, DurationMinutes: o.Duration()}
}
