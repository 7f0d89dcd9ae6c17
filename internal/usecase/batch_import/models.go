package batch_import

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

// RowStatus результат проверки строки
type RowStatus string

const (
	RowValid   RowStatus = "valid"
	RowWarning RowStatus = "warning" // Можно импортировать, но стоит проверить
	RowError   RowStatus = "error"
)

// Row строка импорта в исходном виде
type Row struct {
	Date         string // YYYY-MM-DD
	StartTime    string // HH:MM
	ContactName  string
	ContactEmail string
	ContactPhone *string
	SchoolName   *string
	ClassName    *string
	StudentCount *int
	Location     *string
	Notes        *string
}

// ParseRequest модель запроса на проверку пакета
type ParseRequest struct {
	OwnerID       int64
	SessionTypeID int64
	Rows          []Row
}

// RowResult результат проверки одной строки
type RowResult struct {
	Index     int // Номер строки с нуля
	Status    RowStatus
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString
	Errors    []string
	Warnings  []string
	Conflicts []domain.Conflict
	// Ближайший свободный слот той же даты с учетом уже принятых строк
	Suggestion *domain.Slot
}

// ParseResponse результаты по всем строкам в исходном порядке
type ParseResponse struct {
	Results []RowResult
	Valid   int
	Warning int
	Error   int
}

// ExecuteRow строка, подтвержденная пользователем после проверки
type ExecuteRow struct {
	Row
	Accepted           bool   // false: строка пропускается и не учитывается
	UseSuggestion      bool   // Бронировать предложенный слот вместо исходного времени
	SuggestedStartTime string // HH:MM из RowResult.Suggestion
}

// ExecuteRequest модель запроса на импорт
type ExecuteRequest struct {
	OwnerID       int64
	SessionTypeID int64
	Rows          []ExecuteRow
}

// ExecuteResult результат импорта одной строки
type ExecuteResult struct {
	Index   int
	Booking *domain.Booking
	Error   string
}

// ExecuteResponse итог импорта: успешные строки не откатываются при ошибках последующих
type ExecuteResponse struct {
	Created int
	Failed  int
	Results []ExecuteResult
}

// Стадии и результаты для метрик
const (
	stageParse   = "parse"
	stageExecute = "execute"
	resultOK     = "created"
	resultFailed = "failed"
)
