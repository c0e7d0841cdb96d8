// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode представляет код ошибки
type ErrorCode string

const (
	// Общие ошибки
	ErrorCodeInternal   ErrorCode = "INTERNAL_ERROR"
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	ErrorCodeNotFound   ErrorCode = "NOT_FOUND"
	ErrorCodeCanceled   ErrorCode = "CANCELED"
	ErrorCodeRateLimit  ErrorCode = "RATE_LIMIT"

	// Ошибки загрузки данных сенсоров
	ErrorCodeRecordParseFailed ErrorCode = "RECORD_PARSE_FAILED"
	ErrorCodeDatasetLoadFailed ErrorCode = "DATASET_LOAD_FAILED"

	// Ошибки запросов к адаптеру
	ErrorCodeInvalidTimeRange      ErrorCode = "INVALID_TIME_RANGE"
	ErrorCodeInvalidPagination     ErrorCode = "INVALID_PAGINATION"
	ErrorCodeAdapterNotFound       ErrorCode = "ADAPTER_NOT_FOUND"
	ErrorCodeCapabilityUnsupported ErrorCode = "CAPABILITY_UNSUPPORTED"
)

// DashError представляет ошибку honeydash
type DashError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Internal   error                  `json:"-"`
	StatusCode int                    `json:"status_code"`
}

// Error возвращает строковое представление ошибки // v1.0
func (e *DashError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap возвращает внутреннюю ошибку // v1.0
func (e *DashError) Unwrap() error {
	return e.Internal
}

// New создает новую ошибку // v1.0
func New(code ErrorCode, message string) *DashError {
	return &DashError{
		Code:       code,
		Message:    message,
		Details:    make(map[string]interface{}),
		StatusCode: getStatusCode(code),
	}
}

// Wrap оборачивает существующую ошибку // v1.0
func Wrap(err error, code ErrorCode, message string) *DashError {
	return &DashError{
		Code:       code,
		Message:    message,
		Internal:   err,
		Details:    make(map[string]interface{}),
		StatusCode: getStatusCode(code),
	}
}

// AddDetail добавляет деталь к ошибке // v1.0
func (e *DashError) AddDetail(key string, value interface{}) *DashError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode проверяет, является ли ошибка (или одна из обернутых) ошибкой с данным кодом // v1.0
func IsErrorCode(err error, code ErrorCode) bool {
	var dashErr *DashError
	if errors.As(err, &dashErr) {
		return dashErr.Code == code
	}
	return false
}

// GetErrorCode возвращает код ошибки // v1.0
func GetErrorCode(err error) ErrorCode {
	var dashErr *DashError
	if errors.As(err, &dashErr) {
		return dashErr.Code
	}
	return ErrorCodeInternal
}

// StatusCode возвращает HTTP статус для произвольной ошибки // v1.0
func StatusCode(err error) int {
	var dashErr *DashError
	if errors.As(err, &dashErr) {
		return dashErr.StatusCode
	}
	return 500
}

// getStatusCode возвращает HTTP статус код для кода ошибки // v1.0
func getStatusCode(code ErrorCode) int {
	switch code {
	case ErrorCodeValidation, ErrorCodeInvalidTimeRange, ErrorCodeInvalidPagination:
		return 400
	case ErrorCodeNotFound, ErrorCodeAdapterNotFound:
		return 404
	case ErrorCodeCanceled:
		return 499
	case ErrorCodeCapabilityUnsupported:
		return 501
	case ErrorCodeRateLimit:
		return 429
	default:
		return 500
	}
}

// ValidationError создает ошибку валидации // v1.0
func ValidationError(field, message string) *DashError {
	return New(ErrorCodeValidation, fmt.Sprintf("validation failed for field '%s': %s", field, message))
}

// NotFoundError создает ошибку "не найдено" // v1.0
func NotFoundError(resource, id string) *DashError {
	return New(ErrorCodeNotFound, fmt.Sprintf("%s with id '%s' not found", resource, id))
}

// RateLimitError создает ошибку превышения лимита // v1.0
func RateLimitError(limit, window string) *DashError {
	return New(ErrorCodeRateLimit, fmt.Sprintf("rate limit exceeded: %s per %s", limit, window))
}

// Canceled оборачивает ошибку отмененного контекста // v1.0
func Canceled(err error) *DashError {
	return Wrap(err, ErrorCodeCanceled, "request canceled")
}

// AggregateErrors объединяет несколько ошибок в одну // v1.0
func AggregateErrors(errs []error) *DashError {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		var dashErr *DashError
		if errors.As(errs[0], &dashErr) {
			return dashErr
		}
		return Wrap(errs[0], ErrorCodeInternal, "aggregated error")
	}

	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		messages = append(messages, err.Error())
	}

	return New(ErrorCodeInternal, fmt.Sprintf("multiple errors occurred: %s", strings.Join(messages, "; ")))
}

// Is обертка над errors.Is для пакетов, импортирующих этот пакет под именем errors // v1.0
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As обертка над errors.As // v1.0
func As(err error, target any) bool {
	return errors.As(err, target)
}
