package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// AppError carries the HTTP status a handler should respond with.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

var (
	ErrInvalidRequest     = NewAppError(http.StatusBadRequest, "Invalid request parameters")
	ErrUnauthorized       = NewAppError(http.StatusUnauthorized, "Unauthorized access")
	ErrForbidden          = NewAppError(http.StatusForbidden, "Access denied")
	ErrNotFound           = NewAppError(http.StatusNotFound, "Resource not found")
	ErrConflict           = NewAppError(http.StatusConflict, "Resource already exists")
	ErrInternalServer     = NewAppError(http.StatusInternalServerError, "Internal server error")
	ErrRateLimit          = NewAppError(http.StatusTooManyRequests, "Rate limit exceeded")
	ErrJudgeUnavailable   = NewAppError(http.StatusBadGateway, "Code execution failed, please try again")
	ErrServiceUnavailable = NewAppError(http.StatusServiceUnavailable, "Service temporarily unavailable")
)

func BadRequest(msg string) *AppError {
	return NewAppError(http.StatusBadRequest, msg)
}

func NotFound(msg string) *AppError {
	return NewAppError(http.StatusNotFound, msg)
}

func Unauthorized(msg string) *AppError {
	return NewAppError(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) *AppError {
	return NewAppError(http.StatusForbidden, msg)
}

func Conflict(msg string) *AppError {
	return NewAppError(http.StatusConflict, msg)
}

func Internal(msg string) *AppError {
	return NewAppError(http.StatusInternalServerError, msg)
}

// postgres unique_violation
const pgUniqueViolation = "23505"

// FromDB converts storage errors into AppErrors. A missing row becomes 404
// and a unique constraint violation 409; anything else is a 500.
func FromDB(err error, what string) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(what + " not found")
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return Conflict(what + " already exists")
	}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return Conflict(what + " already exists")
	}
	return ErrInternalServer
}

// StatusOf returns the HTTP status for err, defaulting to 500.
func StatusOf(err error) int {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}
