package availability

import "errors"

var (
	// ErrSettingsNotFound владелец еще не сохранял настройки
	ErrSettingsNotFound = errors.New("availability.repository: settings not found")

	// ErrOverrideNotFound override не найден
	ErrOverrideNotFound = errors.New("availability.repository: override not found")

	// ErrBlockedDateNotFound блокировка не найдена
	ErrBlockedDateNotFound = errors.New("availability.repository: blocked date not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
