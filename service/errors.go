package service

import (
	"errors"
	"fmt"
)

// Base error classes. Every error returned by the services matches at most one of them.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
)

var (
	ErrInsufficientBalance = fmt.Errorf("insufficient points: %w", ErrValidation)
	ErrProfileNotLinked    = fmt.Errorf("leetcode profile not linked: %w", ErrValidation)
	ErrJoinWindowClosed    = fmt.Errorf("join window has closed: %w", ErrValidation)
	ErrLessonLocked        = fmt.Errorf("lesson is locked: %w", ErrValidation)

	ErrAlreadyJoined = fmt.Errorf("already joined this tournament: %w", ErrConflict)

	ErrProfileUnavailable = fmt.Errorf("leetcode profile unavailable: %w", ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", ErrNotFound)
)

// IsNotFound reports whether err belongs to the not-found class
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation reports whether err belongs to the validation class
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflict reports whether err belongs to the conflict class
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}
