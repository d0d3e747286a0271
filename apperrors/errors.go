// Package apperrors provides the two-kind error model used around model calls.
package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the top-level classification surfaced to the user.
type Kind string

const (
	// KindTransient covers network, quota and malformed-response failures.
	// The user is asked to resubmit; nothing retries automatically.
	KindTransient Kind = "TRANSIENT_SERVICE_FAILURE"
	// KindCredential forces credential re-entry before any further request.
	KindCredential Kind = "CREDENTIAL_INVALID"
)

// ErrorCode is the finer grained reason within a Kind.
type ErrorCode string

const (
	ErrCodeModelCallFailed   ErrorCode = "MODEL_CALL_FAILED"
	ErrCodeModelTimeout      ErrorCode = "MODEL_TIMEOUT"
	ErrCodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"

	ErrCodeCredentialMissing ErrorCode = "CREDENTIAL_MISSING"
	ErrCodeCredentialInvalid ErrorCode = "CREDENTIAL_INVALID"
)

// CredentialRevokedMessage is what the service answers with when the key
// in use has been invalidated.
const CredentialRevokedMessage = "Requested entity was not found."

// StandardError represents a structured application error.
type StandardError struct {
	Kind      Kind      `json:"kind"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Retryable bool      `json:"retryable"`
	Timestamp time.Time `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Code, e.Message)
	}
	return fmt.Sprintf("%s[%s]: %s: %s", e.Kind, e.Code, e.Message, e.Details)
}

func (e *StandardError) Unwrap() error { return e.cause }

// NewModelCallFailedError wraps a transport, quota or service error.
func NewModelCallFailedError(err error) *StandardError {
	return &StandardError{
		Kind:      KindTransient,
		Code:      ErrCodeModelCallFailed,
		Message:   "Model request failed",
		Details:   errString(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewModelTimeoutError reports a model call that outlived its deadline.
func NewModelTimeoutError(err error) *StandardError {
	return &StandardError{
		Kind:      KindTransient,
		Code:      ErrCodeModelTimeout,
		Message:   "Model request timed out",
		Details:   errString(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewMalformedResponseError reports a response no JSON could be recovered from.
func NewMalformedResponseError(err error) *StandardError {
	return &StandardError{
		Kind:      KindTransient,
		Code:      ErrCodeMalformedResponse,
		Message:   "Model response could not be parsed",
		Details:   errString(err),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewCredentialMissingError reports that no API key is configured.
func NewCredentialMissingError() *StandardError {
	return &StandardError{
		Kind:      KindCredential,
		Code:      ErrCodeCredentialMissing,
		Message:   "API key not configured",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCredentialInvalidError reports that the service rejected the API key.
func NewCredentialInvalidError(err error) *StandardError {
	return &StandardError{
		Kind:      KindCredential,
		Code:      ErrCodeCredentialInvalid,
		Message:   "API key was rejected, select a key again",
		Details:   errString(err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// As returns the StandardError in err's chain, if any.
func As(err error) (*StandardError, bool) {
	var se *StandardError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsCredentialInvalid reports whether err requires credential re-entry.
func IsCredentialInvalid(err error) bool {
	se, ok := As(err)
	return ok && se.Kind == KindCredential
}

// IsTransient reports whether err is a transient service failure.
func IsTransient(err error) bool {
	se, ok := As(err)
	return ok && se.Kind == KindTransient
}

// Normalize ensures we always have a StandardError. Unknown errors are
// treated as transient model failures.
func Normalize(err error) *StandardError {
	if err == nil {
		return nil
	}
	if se, ok := As(err); ok {
		return se
	}
	return NewModelCallFailedError(err)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
