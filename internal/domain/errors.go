package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing experiments, steps and precaution rows.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateExperiment is returned when ingestion reuses an
	// experiment_id that already exists.
	ErrDuplicateExperiment = errors.New("experiment already exists")

	// ErrExperimentComplete means current_step has moved past the final
	// step. Terminal for the caller, not retryable.
	ErrExperimentComplete = errors.New("experiment already complete")
)

// ValidationError reports a structural invariant violation, e.g. step
// numbers that are not contiguous from 1 or equipment tokens missing from
// the apparatus list.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamKind classifies why a call to the language or speech service
// failed. All kinds share retry-later semantics except that the caller may
// want to distinguish a timeout from a hard failure.
type UpstreamKind string

const (
	UpstreamRateLimited UpstreamKind = "rate_limited"
	UpstreamUnavailable UpstreamKind = "unavailable"
	UpstreamTimeout     UpstreamKind = "timeout"
	UpstreamOther       UpstreamKind = "other"
)

// UpstreamError means the external service call itself failed.
type UpstreamError struct {
	Kind    UpstreamKind
	Message string
	Cause   error
}

func (e *UpstreamError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *UpstreamError) Unwrap() error { return e.Cause }

// MalformedResponseError means the service replied but the payload did not
// parse as the required structured shape. Often a symptom of rate limiting
// or a truncated reply, so the message suggests retrying.
type MalformedResponseError struct {
	Message string
	Cause   error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *MalformedResponseError) Unwrap() error { return e.Cause }

// TranscriptionError covers malformed base64 input and speech service
// payloads that could not be transcribed.
type TranscriptionError struct {
	Message string
	Cause   error
}

func (e *TranscriptionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranscriptionError) Unwrap() error { return e.Cause }
