package entity

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput marks malformed or out-of-range request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks a referenced plan, day, slot, item or recipe that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrGenerationFailure marks a model call that failed or returned unusable content.
	ErrGenerationFailure = errors.New("generation failure")
	// ErrConflict marks a write that collides with existing state, such as a
	// second feedback for the same meal.
	ErrConflict = errors.New("conflict")
)

// GenerationError describes which stage of a model call failed.
type GenerationError struct {
	Stage string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrGenerationFailure) match any GenerationError.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailure
}
