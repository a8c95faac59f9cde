// Package apperr 定义业务错误分类及其到 HTTP 状态码的映射
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindExternal
)

var kindStatus = map[Kind]int{
	KindInternal:     http.StatusInternalServerError,
	KindValidation:   http.StatusUnprocessableEntity,
	KindUnauthorized: http.StatusUnauthorized,
	KindForbidden:    http.StatusForbidden,
	KindNotFound:     http.StatusNotFound,
	KindConflict:     http.StatusBadRequest,
	KindExternal:     http.StatusBadRequest,
}

// Error 带类别的业务错误，Message 可直接返回给客户端
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Validation(msg string) *Error   { return newError(KindValidation, msg) }
func Unauthorized(msg string) *Error { return newError(KindUnauthorized, msg) }
func Forbidden(msg string) *Error    { return newError(KindForbidden, msg) }
func NotFound(msg string) *Error     { return newError(KindNotFound, msg) }
func Conflict(msg string) *Error     { return newError(KindConflict, msg) }

// External 外部服务（如微信接口）调用失败
func External(msg string, err error) *Error {
	return &Error{Kind: KindExternal, Message: msg, Err: err}
}

// Internal 包装意外错误，Message 为对外展示的兜底文案
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf 返回错误类别，非 *Error 一律视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Status 错误对应的 HTTP 状态码
func Status(err error) int {
	return kindStatus[KindOf(err)]
}

// Message 对外展示的错误信息
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
