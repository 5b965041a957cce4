package domain

import (
	"errors"
	"fmt"
)

// Два вида ошибок, которые ядро отдаёт наружу. Всё остальное считается
// внутренней ошибкой хранилища.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
)

// NotFoundf оборачивает ErrNotFound с описанием отсутствующей сущности
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// Validationf оборачивает ErrValidation с описанием нарушенного правила
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsNotFound и IsValidation удобны для слоя транспорта
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }
