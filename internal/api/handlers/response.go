package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-StudioBooking/internal/domain"
	"github.com/m04kA/SMC-StudioBooking/pkg/validation"
)

const (
	msgInternalError = "внутренняя ошибка сервера"
	msgConflict      = "выбранное время недоступно"
	msgInvalidState  = "операция недоступна в текущем статусе бронирования"
)

var validate = validation.Instance()

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

// ConflictResponse тело ответа 409 с причинами и ближайшими свободными слотами
type ConflictResponse struct {
	Error       string           `json:"error"`
	Date        string           `json:"date"`
	Conflicts   []ConflictDetail `json:"conflicts"`
	Suggestions []SlotResponse   `json:"suggestions"`
}

// ConflictDetail одна причина конфликта
type ConflictDetail struct {
	Type          string  `json:"type"`
	BookingID     *int64  `json:"bookingId,omitempty"`
	BookingNumber *string `json:"bookingNumber,omitempty"`
	StartTime     string  `json:"startTime,omitempty"`
	EndTime       string  `json:"endTime,omitempty"`
	Message       string  `json:"message"`
}

// SlotResponse свободный слот
type SlotResponse struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// PolicyResponse тело ответа 422
type PolicyResponse struct {
	Error string `json:"error"`
	Rule  string `json:"rule"`
}

// DecodeJSON декодирует тело запроса и проверяет validate-теги
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return Validate(v)
}

// Validate проверяет структуру по validate-тегам
func Validate(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			// не структура, проверять нечего
			return nil
		}
		return err
	}
	return nil
}

func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// RespondConflict 409 с конфликтами и подсказками
func RespondConflict(w http.ResponseWriter, conflictErr *domain.ConflictError) {
	resp := ConflictResponse{
		Error:       msgConflict,
		Date:        conflictErr.Date.Format(domain.DateFormat),
		Conflicts:   make([]ConflictDetail, 0, len(conflictErr.Conflicts)),
		Suggestions: FromDomainSlots(conflictErr.Suggestions),
	}
	for _, c := range conflictErr.Conflicts {
		resp.Conflicts = append(resp.Conflicts, ConflictDetail{
			Type:          string(c.Kind),
			BookingID:     c.BookingID,
			BookingNumber: c.BookingNumber,
			StartTime:     c.StartTime.String(),
			EndTime:       c.EndTime.String(),
			Message:       c.Message,
		})
	}
	RespondJSON(w, http.StatusConflict, resp)
}

// RespondDomainError отвечает по таксономии доменных ошибок
// Возвращает false для внутренних ошибок, чтобы вызывающий залогировал их как Error
func RespondDomainError(w http.ResponseWriter, err error, notFoundMessage string) bool {
	var conflictErr *domain.ConflictError
	var policyErr *domain.PolicyError

	switch {
	case errors.As(err, &conflictErr):
		RespondConflict(w, conflictErr)
	case errors.As(err, &policyErr):
		RespondJSON(w, http.StatusUnprocessableEntity, PolicyResponse{Error: policyErr.Message, Rule: string(policyErr.Rule)})
	case errors.Is(err, domain.ErrConflict):
		RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		RespondError(w, http.StatusConflict, msgInvalidState)
	case errors.Is(err, domain.ErrValidation):
		RespondBadRequest(w, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		RespondNotFound(w, notFoundMessage)
	default:
		RespondInternalError(w)
		return false
	}
	return true
}

// FromDomainSlots слоты в ответ, nil превращается в пустой список
func FromDomainSlots(slots []domain.Slot) []SlotResponse {
	resp := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		resp = append(resp, SlotResponse{
			Date:      s.Date.Format(domain.DateFormat),
			StartTime: s.StartTime.String(),
			EndTime:   s.EndTime.String(),
		})
	}
	return resp
}
