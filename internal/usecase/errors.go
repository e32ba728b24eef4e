package usecase

import (
	"errors"

	"movie-catalog/pkg/auth"
	"movie-catalog/pkg/utils"
)

var (
	ErrUsernameExists     = errors.New("Username already exists")
	ErrEmailExists        = errors.New("Email already exists")
	ErrProfileExists      = errors.New("User already has profile")
	ErrInvalidCredentials = auth.ErrInvalidCredentials
	ErrActivationEmail    = errors.New("failed to send activation email")
	ErrMovieNotFound      = errors.New("movie not found")
	ErrMovieExists        = errors.New("movie already exists")
)

// ActivationError is returned for every failed activation attempt
type ActivationError struct {
	msg string
}

func (e *ActivationError) Error() string { return e.msg }

var (
	ErrInvalidActivationToken = &ActivationError{"Invalid activation token"}
	ErrActivationTokenExpired = &ActivationError{"Token has expired"}
	ErrUserAlreadyActive      = &ActivationError{"User already activated"}
)

// ValidationError carries field -> message for rejected input
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}
