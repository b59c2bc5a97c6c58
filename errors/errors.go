// Package errors defines the application error taxonomy surfaced by the
// service layer. Every error carries an HTTP status and a stable machine
// code; handlers map them to responses without inspecting messages.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Machine-readable error codes.
const (
	CodeBadRequest        = "BAD_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeDatabase          = "DATABASE_ERROR"
	CodeInternal          = "INTERNAL_SERVER_ERROR"
)

// Error is the single error variant used across services.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`

	// Stock details, set only for INSUFFICIENT_STOCK.
	Requested int `json:"requested,omitempty"`
	Available int `json:"available,omitempty"`

	Err error `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: CodeBadRequest, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Status: http.StatusConflict, Code: CodeConflict, Message: message}
}

// InsufficientStock reports a stock check failure naming the product and the
// requested vs available quantities.
func InsufficientStock(productName string, requested, available int) *Error {
	return &Error{
		Status:    http.StatusBadRequest,
		Code:      CodeInsufficientStock,
		Message:   fmt.Sprintf("Not enough stock for product %s. Available: %d, Requested: %d", productName, available, requested),
		Requested: requested,
		Available: available,
	}
}

// Database wraps an unexpected store failure. The cause is preserved for
// logging but never serialized to clients.
func Database(message string, err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeDatabase, Message: message, Err: err}
}

func Internal(err error) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: CodeInternal, Message: "Internal server error", Err: err}
}

// IsDomain reports whether err is a domain error that should surface to the
// caller as-is (as opposed to being wrapped as a database failure).
func IsDomain(err error) bool {
	var appErr *Error
	if !errors.As(err, &appErr) {
		return false
	}
	switch appErr.Code {
	case CodeBadRequest, CodeUnauthorized, CodeNotFound, CodeConflict, CodeInsufficientStock:
		return true
	}
	return false
}

// From converts any error into an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

type response struct {
	Success bool   `json:"success"`
	Error   *Error `json:"error"`
}

// Respond writes err as a JSON error response and aborts the request.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.String("code", appErr.Code),
			zap.String("path", c.FullPath()),
			zap.Error(appErr.Err),
		)
	}
	c.AbortWithStatusJSON(appErr.Status, response{Success: false, Error: appErr})
}
