package validation

import (
	"github.com/go-playground/validator/v10"
)

// validate общий экземпляр: кэширует разобранные теги, безопасен для конкурентного использования
var validate = validator.New()

// Instance общий валидатор для HTTP моделей и use case слоя
func Instance() *validator.Validate {
	return validate
}

// Email проверяет адрес тем же правилом, что и тег validate:"email" в HTTP моделях
// Адрес с отображаемым именем ("Jane <jane@example.com>") не принимается
func Email(s string) error {
	return validate.Var(s, "required,email")
}
