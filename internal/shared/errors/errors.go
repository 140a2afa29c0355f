// Package errors содержит общие доменные ошибки приложения
// и утилиты для error wrapping.
//
// Эти ошибки используются в service и repository слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован
	ErrUnauthorized = errors.New("unauthorized")
	// Ресурс уже существует (например email уже занят)
	ErrAlreadyExists = errors.New("already exists")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
	// Метод не поддерживается ресурсом
	ErrMethodNotAllowed = errors.New("method not allowed")
	// ожидаемая ошибка
	ErrExpectedError = errors.New("expected error")
)

// Коды ошибок валидации отдельных полей.
const (
	CodeRequired      = "required"
	CodeInvalidFormat = "invalid_format"
	CodeTooShort      = "too_short"
	CodeTooLong       = "too_long"
	CodeAlreadyExists = "already_exists"
)

// ValidationError описывает ошибки валидации по полям запроса.
//
// Fields: имя поля -> код ошибки (CodeRequired, CodeTooShort и т.д.).
// errors.Is(err, ErrInvalidInput) для ValidationError всегда true,
// поэтому api слой может не различать её и обычный ErrInvalidInput.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError создаёт ошибку с одним невалидным полем.
func NewValidationError(field, code string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: code}}
}

// Add добавляет ошибку поля. Первая ошибка поля не перезаписывается.
func (e *ValidationError) Add(field, code string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = code
	}
}

// Empty сообщает, что ошибок не накоплено.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrInvalidInput.Error() + " (" + strings.Join(parts, ", ") + ")"
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
