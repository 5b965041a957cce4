package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/GoArmGo/Filmorate/internal/domain"
)

// CinemaBirthday самая ранняя допустимая дата релиза
var CinemaBirthday = domain.NewDate(1895, time.December, 28)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator возвращает валидатор с зарегистрированными правилами Filmorate
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		mustRegister(v, "nowhitespace", func(fl validator.FieldLevel) bool {
			return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
		})
		mustRegister(v, "releasedate", func(fl validator.FieldLevel) bool {
			d, err := domain.ParseDate(fl.Field().String())
			return err == nil && !d.Before(CinemaBirthday.Time)
		})
		mustRegister(v, "notfuture", func(fl validator.FieldLevel) bool {
			d, err := domain.ParseDate(fl.Field().String())
			if err != nil {
				return false
			}
			now := time.Now().UTC()
			return !d.After(domain.NewDate(now.Year(), now.Month(), now.Day()).Time)
		})
		validate = v
	})
	return validate
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

var fieldMessages = map[string]string{
	"required":     "%s is required",
	"notblank":     "%s must not be blank",
	"nowhitespace": "%s must not contain whitespace",
	"email":        "%s must be a valid email address",
	"datetime":     "%s must be a date in 2006-01-02 format",
	"releasedate":  "%s must not be earlier than 1895-12-28",
	"notfuture":    "%s must not be in the future",
}

var fieldMessagesWithParam = map[string]string{
	"max": "%s must be at most %s characters",
	"gt":  "%s must be greater than %s",
}

// validateStruct проверяет структуру запроса. Возвращает ошибку
// errBadRequest с описанием первого нарушенного правила.
func validateStruct(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return badRequestf("%v", err)
	}

	fe := fieldErrs[0]
	if tmpl, ok := fieldMessages[fe.Tag()]; ok {
		return badRequestf(tmpl, fe.Field())
	}
	if tmpl, ok := fieldMessagesWithParam[fe.Tag()]; ok {
		return badRequestf(tmpl, fe.Field(), fe.Param())
	}
	return badRequestf("%s failed on %s", fe.Field(), fe.Tag())
}
