package externalcalendar

import "errors"

var (
	// ErrCalendarNotConnected у владельца нет подключенного календаря
	ErrCalendarNotConnected = errors.New("externalcalendar client: calendar not connected")

	// ErrUnavailable сервис синхронизации недоступен
	ErrUnavailable = errors.New("externalcalendar client: service unavailable")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("externalcalendar client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("externalcalendar client: invalid response")
)
