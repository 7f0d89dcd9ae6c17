package get_stats

import (
	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	getStats "github.com/m04kA/SMC-StudioBooking/internal/usecase/get_stats"
)

// StatsResponse HTTP response model
type StatsResponse struct {
	StartDate      string             `json:"startDate"`
	EndDate        string             `json:"endDate"`
	Totals         TotalsResponse     `json:"totals"`
	Capacity       CapacityResponse   `json:"capacity"`
	NoShowRate     float64            `json:"noShowRate"`
	CancelRate     float64            `json:"cancelRate"`
	CompletionRate float64            `json:"completionRate"`
	BusiestDay     *DayCountResponse  `json:"busiestDay,omitempty"`
	BySessionType  []SessionTypeCount `json:"bySessionType"`
	DailyBreakdown []DayCountResponse `json:"dailyBreakdown"`
}

type TotalsResponse struct {
	Bookings      int `json:"bookings"`
	Pending       int `json:"pending"`
	Confirmed     int `json:"confirmed"`
	Completed     int `json:"completed"`
	Canceled      int `json:"canceled"`
	NoShow        int `json:"noShow"`
	StudentsTotal int `json:"studentsTotal"`
}

type CapacityResponse struct {
	TotalSlots int     `json:"totalSlots"`
	UsedSlots  int     `json:"usedSlots"`
	Percentage float64 `json:"percentage"`
}

type SessionTypeCount struct {
	ID    int64  `json:"id"`
	Key   string `json:"key"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type DayCountResponse struct {
	Date       string  `json:"date"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getStats.Response) *StatsResponse {
	out := &StatsResponse{
		StartDate: resp.StartDate.Format(domain.DateFormat),
		EndDate:   resp.EndDate.Format(domain.DateFormat),
		Totals: TotalsResponse{
			Bookings:      resp.Totals.Bookings,
			Pending:       resp.Totals.Pending,
			Confirmed:     resp.Totals.Confirmed,
			Completed:     resp.Totals.Completed,
			Canceled:      resp.Totals.Canceled,
			NoShow:        resp.Totals.NoShow,
			StudentsTotal: resp.Totals.StudentsTotal,
		},
		Capacity: CapacityResponse{
			TotalSlots: resp.Capacity.TotalSlots,
			UsedSlots:  resp.Capacity.UsedSlots,
			Percentage: resp.Capacity.Percentage,
		},
		NoShowRate:     resp.Rates.NoShowRate,
		CancelRate:     resp.Rates.CancelRate,
		CompletionRate: resp.Rates.CompletionRate,
		BySessionType:  make([]SessionTypeCount, 0, len(resp.BySessionType)),
		DailyBreakdown: make([]DayCountResponse, 0, len(resp.DailyBreakdown)),
	}

	if resp.BusiestDay != nil {
		busiest := fromDayCount(*resp.BusiestDay)
		out.BusiestDay = &busiest
	}
	for _, st := range resp.BySessionType {
		out.BySessionType = append(out.BySessionType, SessionTypeCount{
			ID:    st.ID,
			Key:   st.Key,
			Name:  st.Name,
			Count: st.Count,
		})
	}
	for _, d := range resp.DailyBreakdown {
		out.DailyBreakdown = append(out.DailyBreakdown, fromDayCount(d))
	}

	return out
}

func fromDayCount(d getStats.DayCount) DayCountResponse {
	return DayCountResponse{
		Date:       d.Date.Format(domain.DateFormat),
		Count:      d.Count,
		Percentage: d.Percentage,
	}
}
