package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	OwnerID       int64     // ID владельца студии
	SessionTypeID int64     // ID типа сессии
	Date          time.Time // Дата в часовом поясе студии (без времени)
	PublicOnly    bool      // Запрос со страницы публичной записи
}

// Response модель ответа со списком доступных слотов
type Response struct {
	Date        time.Time
	SessionType *domain.SessionType
	Slots       []domain.Slot
}
