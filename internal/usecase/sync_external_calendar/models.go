package sync_external_calendar

import "time"

// Request модель запроса синхронизации
// Пустой диапазон означает rangeDays дней начиная с сегодняшнего
type Request struct {
	OwnerID int64
	From    time.Time
	To      time.Time
}

// Response итог синхронизации
type Response struct {
	From    time.Time
	To      time.Time
	Synced  int // Сохранено интервалов
	Skipped int // Отброшено некорректных или вне диапазона
}
