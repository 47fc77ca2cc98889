package services

import (
  "errors"
  "fmt"
  "time"
)

// ErrGenerationInFlight means another generation for the same student holds
// the advisory lock.
var ErrGenerationInFlight = errors.New("plan generation already in flight for student")

// SchemaViolationError reports model output that does not satisfy the study
// plan contract. Field is a path into the payload, e.g.
// "performance_projection[4].month".
type SchemaViolationError struct {
  Field  string
  Reason string
}

func (e *SchemaViolationError) Error() string {
  return fmt.Sprintf("study plan schema violation at %s: %s", e.Field, e.Reason)
}

// GenerationFailedError wraps transport or provider failures from the
// generation call itself.
type GenerationFailedError struct {
  Err error
}

func (e *GenerationFailedError) Error() string {
  return fmt.Sprintf("plan generation failed: %v", e.Err)
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

// ThrottleActiveError means the student's current plan is still fresh.
type ThrottleActiveError struct {
  NextEligibleAt time.Time
}

func (e *ThrottleActiveError) Error() string {
  return fmt.Sprintf("regeneration throttle active until %s", e.NextEligibleAt.UTC().Format(time.RFC3339))
}

// StorageUnavailableError wraps persistence failures. A generated plan is
// discarded when this occurs; it never reaches the caller as active.
type StorageUnavailableError struct {
  Err error
}

func (e *StorageUnavailableError) Error() string {
  return fmt.Sprintf("recommendation storage unavailable: %v", e.Err)
}

func (e *StorageUnavailableError) Unwrap() error { return e.Err }
