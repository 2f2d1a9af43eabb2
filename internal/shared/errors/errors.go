// Package errors содержит общие доменные ошибки приложения
// и типизированные обёртки над ними.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Входные данные невалидны (неправильный формат id и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Не передано одно из обязательных полей (name/email/password)
	ErrMissingField = errors.New("missing required fields")
	// Не переданы email или пароль при аутентификации
	ErrMissingCredentials = errors.New("missing credentials")
	// В запросе на обновление нет ни одного известного поля
	ErrNoFieldsProvided = errors.New("no fields provided")
	// В поиске не передан ни id, ни name, ни email
	ErrNoKeyProvided = errors.New("no search key provided")
	// Поля не прошли валидацию
	ErrValidationFailed = errors.New("validation failed")
	// Неверные учётные данные
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Ошибка записи в хранилище
	ErrPersistence = errors.New("persistence failure")
	// Ошибка чтения из хранилища
	ErrLookup = errors.New("lookup failure")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Ресурс уже существует (email уже занят)
	ErrAlreadyExists = errors.New("email already in use")
	// Ресурс не найден
	ErrNotFound = errors.New("user not found")
)

// ValidationError несёт все сообщения валидации сразу.
//
// errors.Is(err, ErrValidationFailed) == true для любого *ValidationError.
type ValidationError struct {
	Messages []string
}

// NewValidationError создаёт ошибку валидации из списка сообщений.
func NewValidationError(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	if len(e.Messages) == 0 {
		return ErrValidationFailed.Error()
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// NotFoundError уточняет, по какому ключу пользователь не найден.
type NotFoundError struct {
	Key   string // id|name|email
	Value string
}

func (e *NotFoundError) Error() string {
	if e.Key == "id" {
		return fmt.Sprintf("no user found with id %s", e.Value)
	}
	return fmt.Sprintf("no user found with %s %q", e.Key, e.Value)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
