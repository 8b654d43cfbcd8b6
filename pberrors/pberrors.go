package pberrors

import (
	"fmt"

	"github.com/kataras/iris"
)

// IException provides interface for
//   - user facing error message with status code
//   - raw error for tracking them
type IException interface {
	ExceptionBody() map[string]interface{}
	ExceptionStatusCode() int
	ExceptionCode() int
	RawException() error
}

type Error struct {
	IException
	Code       int
	Message    string
	StatusCode int
	RawError   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%v (Code = %v)", e.Message, e.Code)
}

func (e *Error) ExceptionBody() map[string]interface{} {
	return map[string]interface{}{"code": e.Code, "message": e.Message}
}

func (e *Error) ExceptionStatusCode() int {
	return e.StatusCode
}

func (e *Error) ExceptionCode() int {
	return e.Code
}

func (e *Error) RawException() error {
	return e.RawError
}

// WithMsg modify user visible message
func (e Error) WithMsg(msg string) *Error {
	e.Message = msg
	return &e
}

// WithError returns raw error struct which is not exposed to user.
// It is used for internal error tracking.
func (e Error) WithError(err error) *Error {
	e.RawError = err
	return &e
}

func New(code int, message string, statusCode int) *Error {
	return &Error{Code: code, Message: message, StatusCode: statusCode}
}

func NewInternalServerError(code int, message string) *Error {
	return New(code, message, iris.StatusInternalServerError)
}

func NewUnprocessableEntity(code int, message string) *Error {
	return New(code, message, iris.StatusUnprocessableEntity)
}

func NewNotFound(code int, message string) *Error {
	return New(code, message, iris.StatusNotFound)
}

func NewConflict(code int, message string) *Error {
	return New(code, message, iris.StatusConflict)
}

func NewUnauthorized(code int, message string) *Error {
	return New(code, message, iris.StatusUnauthorized)
}

func NewBadRequest(code int, message string) *Error {
	return New(code, message, iris.StatusBadRequest)
}

func NewForbidden(code int, message string) *Error {
	return New(code, message, iris.StatusForbidden)
}

func NewServiceUnavailable(code int, message string) *Error {
	return New(code, message, iris.StatusServiceUnavailable)
}

func Format(err error) string {
	if pberr, ok := err.(IException); ok && pberr.RawException() != nil {
		return fmt.Sprintf("%v : %v", err.Error(), pberr.RawException().Error())
	}
	return err.Error()
}

// Is reports whether err carries the same error code as target.
// WithMsg and WithError return copies, so errors are matched by code
// rather than by pointer.
func Is(err error, target *Error) bool {
	if err == nil || target == nil {
		return false
	}
	pberr, ok := err.(IException)
	return ok && pberr.ExceptionCode() == target.Code
}

// code convention is http_status_code:custom_code where custom code starts from 10000
var (
	// 400
	RequestBodyLoadFailure = NewBadRequest(40010000, "request body format is invalid")

	// 401
	Unauthorized = NewUnauthorized(40110000, "request is unauthorized")
	AuthFailure  = NewUnauthorized(40110001, "invalid username or password")

	// 403
	Forbidden = NewForbidden(40310000, "request is forbidden")

	// 404
	NotFound      = NewNotFound(40410000, "resource not found")
	UnknownTicker = NewNotFound(40410001, "no such ticker")

	// 409
	DuplicateKey = NewConflict(40910000, "resource already exists")

	// 422
	InvalidRequestParam = NewUnprocessableEntity(42210000, "request parameters are invalid")
	InvalidVolume       = NewUnprocessableEntity(42210001, "volume must be greater than zero")
	InsufficientFunds   = NewUnprocessableEntity(42210002, "insufficient funds for this trade")
	InsufficientShares  = NewUnprocessableEntity(42210003, "insufficient shares for this trade")

	// 500
	InternalServerError = NewInternalServerError(50010000, "internal server error occurred")

	// 503
	PriceUnavailable = NewServiceUnavailable(50310000, "price source is unavailable")
)
