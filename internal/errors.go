package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidNotes     ErrorCode = "INVALID_NOTES"
	ErrCodeInvalidResult    ErrorCode = "INVALID_RESULT"
	ErrCodeInvalidDecision  ErrorCode = "INVALID_DECISION"
	ErrCodeInvalidRole      ErrorCode = "INVALID_ROLE"
	ErrCodeInvalidNationID  ErrorCode = "INVALID_NATIONAL_ID"
	ErrCodeInvalidURL       ErrorCode = "INVALID_URL"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"

	ErrCodeCandidateNotFound        ErrorCode = "CANDIDATE_NOT_FOUND"
	ErrCodePositionNotFound         ErrorCode = "POSITION_NOT_FOUND"
	ErrCodeUserNotFound             ErrorCode = "USER_NOT_FOUND"
	ErrCodeInterviewNotFound        ErrorCode = "INTERVIEW_NOT_FOUND"
	ErrCodeInterviewSessionNotFound ErrorCode = "INTERVIEW_SESSION_NOT_FOUND"
	ErrCodeEmployeeNotFound         ErrorCode = "EMPLOYEE_NOT_FOUND"

	ErrCodeInvalidTransition          ErrorCode = "INVALID_TRANSITION"
	ErrCodeCandidateNotEligible       ErrorCode = "CANDIDATE_NOT_ELIGIBLE_FOR_INTERVIEW"
	ErrCodeCandidateNotHired          ErrorCode = "CANDIDATE_NOT_HIRED"
	ErrCodeNoInterviewerSelected      ErrorCode = "NO_INTERVIEWER_SELECTED"
	ErrCodeDuplicateInterviewer       ErrorCode = "DUPLICATE_INTERVIEWER"
	ErrCodeInvalidInterviewer         ErrorCode = "INVALID_INTERVIEWER"
	ErrCodeSessionClosed              ErrorCode = "SESSION_CLOSED"
	ErrCodeInvalidSessionStatus       ErrorCode = "INVALID_SESSION_STATUS"
	ErrCodeDuplicateApplication       ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodePositionClosed             ErrorCode = "POSITION_CLOSED"
	ErrCodeUniqueConstraintViolation  ErrorCode = "UNIQUE_CONSTRAINT_VIOLATION"
	ErrCodeConcurrentModification     ErrorCode = "CONCURRENT_MODIFICATION"
	ErrCodeCannotDisableSelf          ErrorCode = "CANNOT_DISABLE_SELF"
	ErrCodeEmployeeProfileExists      ErrorCode = "EMPLOYEE_PROFILE_EXISTS"
	ErrCodeUsernameGenerationExceeded ErrorCode = "USERNAME_GENERATION_EXHAUSTED"

	ErrCodeUnauthorizedAccess ErrorCode = "UNAUTHORIZED_ACCESS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on Code so sentinel values compare equal to freshly built errors.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// TransitionDetails is attached to INVALID_TRANSITION errors.
type TransitionDetails struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInvalidTransitionError(from, to string) *AppError {
	return NewConflictError(
		fmt.Sprintf("cannot transition candidate from %s to %s", from, to),
		ErrCodeInvalidTransition,
	).WithDetails(TransitionDetails{From: from, To: to})
}

func NewInvalidInterviewerError(interviewerID, reason string) *AppError {
	return NewValidationFieldError("interviewer_ids",
		fmt.Sprintf("interviewer %s %s", interviewerID, reason),
		ErrCodeInvalidInterviewer)
}

// NewUniqueConstraintError reports which field collided. It matches ErrUniqueConstraintViolation.
func NewUniqueConstraintError(message, field string, code ErrorCode) *AppError {
	return NewConflictError(message, ErrUniqueConstraintViolation.Code).
		WithDetails(ValidationErrors{Errors: []ValidationError{
			{Field: field, Message: message, Code: string(code)},
		}})
}

var (
	ErrCandidateNotFound        = NewNotFoundError("Candidate not found", ErrCodeCandidateNotFound)
	ErrPositionNotFound         = NewNotFoundError("Position not found", ErrCodePositionNotFound)
	ErrUserNotFound             = NewNotFoundError("User not found", ErrCodeUserNotFound)
	ErrInterviewNotFound        = NewNotFoundError("Interview not found", ErrCodeInterviewNotFound)
	ErrInterviewSessionNotFound = NewNotFoundError("Interview session not found", ErrCodeInterviewSessionNotFound)
	ErrEmployeeNotFound         = NewNotFoundError("Employee not found", ErrCodeEmployeeNotFound)

	ErrCandidateNotEligible      = NewConflictError("Candidate is not eligible for interview", ErrCodeCandidateNotEligible)
	ErrCandidateNotHired         = NewConflictError("Candidate has not been offered or hired", ErrCodeCandidateNotHired)
	ErrNoInterviewerSelected     = NewValidationError("At least one interviewer must be selected", ErrCodeNoInterviewerSelected)
	ErrDuplicateInterviewer      = NewValidationError("Interviewer list contains duplicates", ErrCodeDuplicateInterviewer)
	ErrSessionClosed             = NewConflictError("Interview session is closed", ErrCodeSessionClosed)
	ErrInvalidSessionStatus      = NewConflictError("Operation not allowed in current session status", ErrCodeInvalidSessionStatus)
	ErrDuplicateApplication      = NewConflictError("An application for this position already exists for this email", ErrCodeDuplicateApplication)
	ErrPositionClosed            = NewConflictError("Position is not open for applications", ErrCodePositionClosed)
	ErrUniqueConstraintViolation = NewConflictError("Value already in use", ErrCodeUniqueConstraintViolation)
	ErrConcurrentModification    = NewConflictError("Record was modified by another request", ErrCodeConcurrentModification)
	ErrCannotDisableSelf         = NewConflictError("Administrators cannot disable their own account", ErrCodeCannotDisableSelf)
	ErrEmployeeProfileExists     = NewConflictError("Employee profile already exists for this user", ErrCodeEmployeeProfileExists)

	ErrUnauthorizedAccess = NewForbiddenError("Insufficient role for this operation", ErrCodeUnauthorizedAccess)
	ErrUserInactive       = NewForbiddenError("User account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError("Invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("Token has expired", ErrCodeTokenExpired)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
