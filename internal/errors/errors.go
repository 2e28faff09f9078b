// Package errors provides unified error handling across format-weaver.
//
// All failures that cross a package boundary are represented as
// *AppError values carrying a standardized code, a category and a
// severity, so every surface (CLI, export adapters, storage) reports
// them consistently. Engine-level operations (token edits, rendering)
// are designed to degrade rather than fail and return errors only for
// caller mistakes the user can correct.
package errors

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidName   ErrorCode = "INVALID_NAME"
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"

	// Import errors
	ErrCodeMappingIncomplete ErrorCode = "MAPPING_INCOMPLETE"
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"

	// Resource errors
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodePlanLimit     ErrorCode = "PLAN_LIMIT"

	// Storage errors
	ErrCodeStorageFailure ErrorCode = "STORAGE_FAILURE"
	ErrCodeFileNotFound   ErrorCode = "FILE_NOT_FOUND"

	// Service errors
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityInfo     ErrorSeverity = "info"
	SeverityWarning  ErrorSeverity = "warning"
	SeverityError    ErrorSeverity = "error"
	SeverityCritical ErrorSeverity = "critical"
)

// ErrorCategory represents the category of an error
type ErrorCategory string

const (
	CategoryValidation ErrorCategory = "validation"
	CategoryImport     ErrorCategory = "import"
	CategoryService    ErrorCategory = "service"
	CategoryStorage    ErrorCategory = "storage"
	CategorySystem     ErrorCategory = "system"
)

// AppError represents a standardized application error
type AppError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Severity  ErrorSeverity          `json:"severity"`
	Category  ErrorCategory          `json:"category"`
	Cause     error                  `json:"-"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message string) *AppError {
	category, severity := categorizeError(code)
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  severity,
		Category:  category,
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with application error context
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := NewAppError(code, message)
	appErr.Cause = err
	return appErr
}

// categorizeError determines the category and severity based on error code
func categorizeError(code ErrorCode) (ErrorCategory, ErrorSeverity) {
	switch code {
	case ErrCodeValidation, ErrCodeInvalidName, ErrCodeDuplicateName, ErrCodeInvalidInput:
		return CategoryValidation, SeverityWarning
	case ErrCodeMappingIncomplete, ErrCodeParseError:
		return CategoryImport, SeverityWarning
	case ErrCodeNotFound:
		return CategoryService, SeverityInfo
	case ErrCodeAlreadyExists, ErrCodePlanLimit:
		return CategoryService, SeverityWarning
	case ErrCodeStorageFailure:
		return CategoryStorage, SeverityError
	case ErrCodeFileNotFound:
		return CategoryStorage, SeverityInfo
	case ErrCodeInternalError:
		return CategoryService, SeverityCritical
	default:
		return CategorySystem, SeverityError
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError extracts an AppError from an error, or converts it to one
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, ErrCodeInternalError, "Internal error occurred")
}

// HasCode reports whether err is an AppError with the given code
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}

// Common error constructors for frequently used errors

func ValidationError(message string) *AppError {
	return NewAppError(ErrCodeValidation, message)
}

func InvalidNameError(name, reason string) *AppError {
	return NewAppError(ErrCodeInvalidName, fmt.Sprintf("invalid variable name %q: %s", name, reason)).
		WithContext("name", name)
}

func DuplicateNameError(name string) *AppError {
	return NewAppError(ErrCodeDuplicateName, fmt.Sprintf("variable name %q is already in use", name)).
		WithContext("name", name)
}

func NotFoundError(resource string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func AlreadyExistsError(resource string) *AppError {
	return NewAppError(ErrCodeAlreadyExists, fmt.Sprintf("%s already exists", resource))
}

func PlanLimitError(resource string) *AppError {
	return NewAppError(ErrCodePlanLimit, fmt.Sprintf("plan limit reached for %s", resource)).
		WithContext("resource", resource)
}

func InternalError(message string) *AppError {
	return NewAppError(ErrCodeInternalError, message)
}

func StorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStorageFailure, fmt.Sprintf("storage operation failed: %s", operation))
}

func ParseError(err error) *AppError {
	return Wrap(err, ErrCodeParseError, "failed to parse CSV input")
}

// MappingIncompleteError reports a CSV commit attempted while one or
// more variables have no column mapped. The missing names are carried
// in sorted order both in the message and in the error context.
func MappingIncompleteError(missing []string) *AppError {
	names := append([]string(nil), missing...)
	sort.Strings(names)
	return NewAppError(ErrCodeMappingIncomplete,
		fmt.Sprintf("unmapped variables: %s", strings.Join(names, ", "))).
		WithContext("missing", names)
}

// MissingVariables returns the unmapped variable names carried by a
// MAPPING_INCOMPLETE error, or nil for any other error.
func MissingVariables(err error) []string {
	appErr, ok := err.(*AppError)
	if !ok || appErr.Code != ErrCodeMappingIncomplete {
		return nil
	}
	names, _ := appErr.Context["missing"].([]string)
	return names
}
