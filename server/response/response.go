package response

import (
	"net/http"

	"filebin/server/logger"

	"github.com/labstack/echo/v4"
)

// ErrorCode represents application error codes
type ErrorCode string

const (
	// General errors
	ErrCodeBadRequest          ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthorized        ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden           ErrorCode = "FORBIDDEN"
	ErrCodeNotFound            ErrorCode = "NOT_FOUND"
	ErrCodeConflict            ErrorCode = "CONFLICT"
	ErrCodeTooManyRequests     ErrorCode = "TOO_MANY_REQUESTS"
	ErrCodeInternalServerError ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrCodeValidationFailed    ErrorCode = "VALIDATION_FAILED"

	// File errors
	ErrCodeFileNotFound     ErrorCode = "FILE_NOT_FOUND"
	ErrCodeFileTooLarge     ErrorCode = "FILE_TOO_LARGE"
	ErrCodeFileUploadFailed ErrorCode = "FILE_UPLOAD_FAILED"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// ErrorBody contains error details
type ErrorBody struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse represents a standardized success response
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Total   *int        `json:"total,omitempty"`
	Cached  bool        `json:"cached,omitempty"`
}

// Meta carries list metadata for SuccessWithMeta
type Meta struct {
	Total  int
	Cached bool
}

// --- Error Response Helpers ---

func errorJSON(c echo.Context, status int, code ErrorCode, message string, details interface{}) error {
	return c.JSON(status, ErrorResponse{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// BadRequest returns a 400 Bad Request error response
func BadRequest(c echo.Context, code ErrorCode, message string, details ...interface{}) error {
	logger.Warnf("[%s] Bad Request: %s", code, message)
	return errorJSON(c, http.StatusBadRequest, code, message, getDetails(details))
}

// Unauthorized returns a 401 Unauthorized error response
func Unauthorized(c echo.Context, code ErrorCode, message string, details ...interface{}) error {
	logger.Warnf("[%s] Unauthorized: %s", code, message)
	return errorJSON(c, http.StatusUnauthorized, code, message, getDetails(details))
}

// Forbidden returns a 403 Forbidden error response
func Forbidden(c echo.Context, code ErrorCode, message string, details ...interface{}) error {
	logger.Warnf("[%s] Forbidden: %s", code, message)
	return errorJSON(c, http.StatusForbidden, code, message, getDetails(details))
}

// NotFound returns a 404 Not Found error response
func NotFound(c echo.Context, code ErrorCode, message string, details ...interface{}) error {
	logger.Warnf("[%s] Not Found: %s", code, message)
	return errorJSON(c, http.StatusNotFound, code, message, getDetails(details))
}

// Conflict returns a 409 Conflict error response
func Conflict(c echo.Context, code ErrorCode, message string, details ...interface{}) error {
	logger.Warnf("[%s] Conflict: %s", code, message)
	return errorJSON(c, http.StatusConflict, code, message, getDetails(details))
}

// TooManyRequests returns a 429 Too Many Requests error response
func TooManyRequests(c echo.Context, message string, retryAfterSeconds float64) error {
	logger.Warnf("[%s] Too Many Requests: %s", ErrCodeTooManyRequests, message)
	return errorJSON(c, http.StatusTooManyRequests, ErrCodeTooManyRequests, message, echo.Map{
		"retry_after": retryAfterSeconds,
	})
}

// InternalServerError returns a 500 Internal Server Error response
func InternalServerError(c echo.Context, code ErrorCode, message string, err error) error {
	if err != nil {
		logger.ErrorErr(err, message)
	} else {
		logger.Errorf("[%s] Internal Server Error: %s", code, message)
	}
	return errorJSON(c, http.StatusInternalServerError, code, message, nil)
}

// ValidationError returns a 400 Bad Request with validation details
func ValidationError(c echo.Context, message string, details interface{}) error {
	logger.Warnf("[VALIDATION] %s", message)
	return errorJSON(c, http.StatusBadRequest, ErrCodeValidationFailed, message, details)
}

// --- Success Response Helpers ---

// Success returns a 200 OK success response with data
func Success(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMeta returns a 200 OK success response with list metadata
func SuccessWithMeta(c echo.Context, data interface{}, meta *Meta) error {
	resp := SuccessResponse{
		Success: true,
		Data:    data,
	}
	if meta != nil {
		resp.Total = &meta.Total
		resp.Cached = meta.Cached
	}
	return c.JSON(http.StatusOK, resp)
}

// Created returns a 201 Created success response
func Created(c echo.Context, message string, data interface{}) error {
	return c.JSON(http.StatusCreated, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// NoContent returns a 204 No Content response
func NoContent(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}

// --- Helper Functions ---

func getDetails(details []interface{}) interface{} {
	if len(details) > 0 {
		return details[0]
	}
	return nil
}
