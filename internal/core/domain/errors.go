package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	// Storage adapters return it for content-hash uniqueness conflicts,
	// which the orchestrator treats as a deduplication skip.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown source kind or media type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrExtractorUnavailable indicates no extractor capability is
	// installed for a required format (e.g. pdftotext missing).
	ErrExtractorUnavailable = errors.New("extractor unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Vector search is disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrContentTooLarge indicates input above the extraction size limit.
	ErrContentTooLarge = errors.New("content too large")

	// ErrEmptyContent indicates extraction yielded only whitespace.
	ErrEmptyContent = errors.New("empty content")
)

// ValidationError reports bad caller input: invalid chunk configuration,
// an unsupported source/kind combination, malformed filter arguments.
// Validation errors are never retried and are reported synchronously.
type ValidationError struct {
	// Field names the offending input, when known.
	Field string

	// Reason describes why the input was rejected.
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Reason)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Is reports ValidationError as a kind of ErrInvalidInput so callers can
// classify with errors.Is without knowing the concrete type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ProcessingError reports a pipeline failure after local recovery was
// exhausted: extraction failure, a missing format parser, embedding
// provider exhaustion, oversized input. It names the pipeline stage and
// carries the underlying cause.
type ProcessingError struct {
	// Stage names the pipeline stage that failed
	// (e.g. "extract", "chunk", "embed", "fetch").
	Stage string

	// Message describes the failure.
	Message string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ProcessingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/As.
func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

// NewProcessingError creates a ProcessingError for the given stage.
func NewProcessingError(stage, message string, cause error) *ProcessingError {
	return &ProcessingError{Stage: stage, Message: message, Cause: cause}
}

// IsValidation returns true when err is caller input that should not be
// retried.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsProcessing returns true when err is a pipeline failure reported
// after local recovery attempts were exhausted.
func IsProcessing(err error) bool {
	var pe *ProcessingError
	return errors.As(err, &pe)
}
