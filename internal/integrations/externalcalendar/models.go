package externalcalendar

// BusyInterval занятый интервал внешнего календаря
type BusyInterval struct {
	Date      string  `json:"date"`       // YYYY-MM-DD
	StartTime string  `json:"start_time"` // HH:MM
	EndTime   string  `json:"end_time"`   // HH:MM
	Title     *string `json:"title,omitempty"`
}

// BusyResponse ответ сервиса синхронизации
type BusyResponse struct {
	Intervals []BusyInterval `json:"intervals"`
}
