package errors

import "fmt"

// ErrorCode identifies an application error category.
type ErrorCode string

const (
	// Ambient codes
	ErrInvalidInput               ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData         ErrorCode = "INVALID_REQUEST_DATA"
	ErrUnauthorized               ErrorCode = "UNAUTHORIZED"
	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrForbidden                  ErrorCode = "FORBIDDEN"
	ErrNotFound                   ErrorCode = "NOT_FOUND"
	ErrAlreadyExists              ErrorCode = "ALREADY_EXISTS"
	ErrInternalServer             ErrorCode = "INTERNAL_SERVER"

	// Scheduling engine codes
	ErrInvalidEventSpec       ErrorCode = "INVALID_EVENT_SPEC"
	ErrConflictDetected       ErrorCode = "CONFLICT_DETECTED"
	ErrConflictAtConfirmation ErrorCode = "CONFLICT_AT_CONFIRMATION"
	ErrNotAnApprover          ErrorCode = "NOT_AN_APPROVER"
	ErrAlreadyDecided         ErrorCode = "ALREADY_DECIDED"
	ErrEventNotPending        ErrorCode = "EVENT_NOT_PENDING"

	// OverlapDetected means the availability invariant was violated despite the
	// conflict guard. It indicates a concurrency-control bug, never user error.
	ErrOverlapDetected ErrorCode = "OVERLAP_DETECTED"
)

// AppError is the error type surfaced by services to controllers.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails attaches caller-facing detail data (e.g. conflicting event IDs).
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
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
