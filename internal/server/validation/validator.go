// Package validation проверяет поля пользователя до обращения к хранилищу.
//
// Правила описываются тегами validate на структурах, а результат
// возвращается списком человекочитаемых сообщений.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator оборачивает validator.Validate с зарегистрированным правилом notblank.
type Validator struct {
	v *validator.Validate
}

// New создаёт Validator.
//
// Сообщения используют имя поля из json-тега, чтобы клиент видел
// те же имена, что отправлял.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &Validator{v: v}
}

// Struct валидирует структуру и возвращает все нарушения.
// nil означает, что нарушений нет.
func (val *Validator) Struct(obj any) []string {
	err := val.v.Struct(obj)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, message(fe))
	}
	return messages
}

// Email проверяет синтаксис email.
func (val *Validator) Email(email string) bool {
	return val.v.Var(email, "required,email") == nil
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s should not be blank", fe.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email", fe.Field())
	case "max":
		return fmt.Sprintf("%s is too long (max %s)", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
