package api

import (
	"errors"
	"fmt"
)

// ServiceError is a non-2xx reply from the QA service.
type ServiceError struct {
	Operation  string
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: status %d: %s", e.Operation, e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("%s: status %d", e.Operation, e.StatusCode)
}

// ValidationError is raised before any request is sent. Its message is shown
// to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
