package errors

import (
	stderrors "errors"
	"fmt"
)

type AppError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Err     error                  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по коду, чтобы errors.Is работал для обёрнутых копий sentinel-ошибок
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap возвращает копию ошибки с причиной; sentinel не мутируется
func (e *AppError) Wrap(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Err:     err,
	}
}

// WithDetails возвращает копию ошибки с деталями
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Err:     e.Err,
	}
}

// Is - обертка над стандартным errors.Is, чтобы не импортировать оба пакета
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As - обертка над стандартным errors.As
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
