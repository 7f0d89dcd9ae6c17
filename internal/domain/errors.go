package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-StudioBooking/pkg/types"
)

var (
	// ErrValidation некорректные входные данные, хранилище не затронуто
	ErrValidation = errors.New("validation error")

	// ErrConflict слот уже занят или недоступен на момент фиксации
	ErrConflict = errors.New("conflict")

	// ErrPolicyViolation нарушено правило бронирования (окно уведомления, горизонт, дневной лимит)
	ErrPolicyViolation = errors.New("policy violation")

	// ErrNotFound сущность не найдена
	ErrNotFound = errors.New("not found")

	// ErrInvalidState операция недопустима в текущем статусе бронирования
	ErrInvalidState = errors.New("invalid state")
)

// ConflictKind вид конфликта
type ConflictKind string

const (
	ConflictTimeOverlap         ConflictKind = "time_overlap"
	ConflictBufferOverlap       ConflictKind = "buffer_overlap"
	ConflictBlockedDate         ConflictKind = "blocked_date"
	ConflictExternalEvent       ConflictKind = "external_event"
	ConflictOutsideAvailability ConflictKind = "outside_availability"
	ConflictConcurrentUpdate    ConflictKind = "concurrent_update"
)

// Conflict конкретная причина, по которой интервал занят
type Conflict struct {
	Kind          ConflictKind
	BookingID     *int64
	BookingNumber *string
	StartTime     types.TimeString
	EndTime       types.TimeString
	Message       string
}

// ConflictError запрошенный интервал пересекается с занятым временем
// Suggestions ближайшие свободные слоты на ту же дату
type ConflictError struct {
	Date        time.Time
	Conflicts   []Conflict
	Suggestions []Slot
}

func (e *ConflictError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, string(c.Kind))
	}
	return fmt.Sprintf("%s: %s on %s", ErrConflict, strings.Join(parts, ", "), e.Date.Format(DateFormat))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// PolicyRule нарушенное правило
type PolicyRule string

const (
	RuleMinNotice  PolicyRule = "min_notice"
	RuleMaxAdvance PolicyRule = "max_advance"
	RuleDailyLimit PolicyRule = "daily_limit"
	RulePastDate   PolicyRule = "past_date"
)

// PolicyError запрос нарушает правила бронирования, нужна другая дата
type PolicyError struct {
	Rule    PolicyRule
	Message string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrPolicyViolation, e.Rule, e.Message)
}

func (e *PolicyError) Unwrap() error {
	return ErrPolicyViolation
}

// NewPolicyError создает ошибку нарушения правила
func NewPolicyError(rule PolicyRule, format string, v ...interface{}) *PolicyError {
	return &PolicyError{Rule: rule, Message: fmt.Sprintf(format, v...)}
}
