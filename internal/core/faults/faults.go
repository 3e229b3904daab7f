// Package faults defines the error kinds every pipeline stage surfaces to its
// caller. Stages never mask one kind as another and never retry; callers
// branch with errors.As and decide on retry or degradation themselves.
package faults

import (
	"context"
	"errors"
	"fmt"
)

// FetchError means retrieving the source bytes failed (network error or a
// non-2xx upstream status). Distinct from ExtractionError so callers can tell
// a bad download from a bad file.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: upstream status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError means the byte stream could not be parsed as a document.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string { return fmt.Sprintf("extract text: %v", e.Err) }
func (e *ExtractionError) Unwrap() error { return e.Err }

// InvalidConfigError rejects bad chunking parameters.
type InvalidConfigError struct {
	Reason string
}

func (e *InvalidConfigError) Error() string { return "invalid config: " + e.Reason }

// EmbeddingServiceError means the external embed/store call was rejected or
// failed. The batch it carried is considered not-ingested.
type EmbeddingServiceError struct {
	Err error
}

func (e *EmbeddingServiceError) Error() string { return fmt.Sprintf("embedding service: %v", e.Err) }
func (e *EmbeddingServiceError) Unwrap() error { return e.Err }

// GenerationError means the generative call failed or produced no usable
// text. Reason is safe to show to the caller.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation: %s: %v", e.Reason, e.Err)
	}
	return "generation: " + e.Reason
}

func (e *GenerationError) Unwrap() error { return e.Err }

// TimeoutError means an external call exceeded its bound.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("%s: timed out: %v", e.Op, e.Err) }
func (e *TimeoutError) Unwrap() error { return e.Err }

// AsTimeout wraps err as a TimeoutError when it carries a context deadline,
// otherwise returns err unchanged.
func AsTimeout(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Op: op, Err: err}
	}
	return err
}
