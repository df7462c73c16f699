package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeAlreadyInProgress = "ALREADY_IN_PROGRESS"
	ErrCodeConfiguration     = "CONFIGURATION_ERROR"
	ErrCodeTransientProvider = "TRANSIENT_PROVIDER_ERROR"
	ErrCodeUnavailable       = "UNAVAILABLE"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyQuestion      = NewDomainError(ErrCodeValidation, "question cannot be empty")
	ErrInvalidContentType = NewDomainError(ErrCodeValidation, "invalid content type")
	ErrRecordIncomplete   = NewDomainError(ErrCodeValidation, "record is missing a required field")
)

// Not found errors
var (
	ErrVideoNotFound   = NewDomainError(ErrCodeNotFound, "video not found")
	ErrEpisodeNotFound = NewDomainError(ErrCodeNotFound, "podcast episode not found")
	ErrIdeaNotFound    = NewDomainError(ErrCodeNotFound, "startup idea not found")
	ErrTweetNotFound   = NewDomainError(ErrCodeNotFound, "tweet not found")
)

// Configuration errors (fatal at startup, never per-request)
var (
	ErrInvalidChunkConfig = NewDomainError(ErrCodeConfiguration, "chunk overlap must be smaller than chunk size")
	ErrNoOpenAIKey        = NewDomainError(ErrCodeConfiguration, "OpenAI API key not configured")
)

// Operation errors
var (
	ErrReindexInProgress = NewDomainError(ErrCodeAlreadyInProgress, "a reindex is already in progress")
	ErrAnswerUnavailable = NewDomainError(ErrCodeUnavailable, "answer unavailable: completion provider failed")
	ErrAnswerTimedOut    = NewDomainError(ErrCodeTransientProvider, "answer timed out")
	ErrStatsUnavailable  = NewDomainError(ErrCodeTransientProvider, "stats provider temporarily unavailable")
)
