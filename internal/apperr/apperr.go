// Package apperr содержит коды ошибок, общие для всех конвейеров.
package apperr

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeParse           Code = "PARSE_ERROR"
	CodeMissingColumn   Code = "MISSING_COLUMN"
	CodeMissingFile     Code = "MISSING_FILE"
	CodeColumnCollision Code = "COLUMN_COLLISION"
	CodeConfig          Code = "CONFIG_ERROR"
	CodeCanceled        Code = "CANCELED"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// Эталонные значения для errors.Is: сравнение идёт только по коду.
var (
	ErrParse           = &Error{Code: CodeParse, Message: "ошибка разбора значения"}
	ErrMissingColumn   = &Error{Code: CodeMissingColumn, Message: "колонка не найдена"}
	ErrMissingFile     = &Error{Code: CodeMissingFile, Message: "файл или лист не найден"}
	ErrColumnCollision = &Error{Code: CodeColumnCollision, Message: "совпадение имён колонок"}
	ErrConfig          = &Error{Code: CodeConfig, Message: "ошибка конфигурации"}
	ErrCanceled        = &Error{Code: CodeCanceled, Message: "прогон прерван"}
)

type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap добавляет контекст, сохраняя код исходной ошибки.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: CodeOf(err), Message: message, Cause: err}
}

func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// CodeOf возвращает код первой *Error в цепочке или CodeInternal.
func CodeOf(err error) Code {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
