package models

import (
	"fmt"

	"wonderland/internal/story/generator"
)

// UnavailableError reports a model backend that could not be reached or
// answered with something other than a model reply.
type UnavailableError struct {
	Provider string
	Body     string
	Cause    error
}

func (e *UnavailableError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s unavailable: %v", e.Provider, e.Cause)
	case e.Body != "":
		return fmt.Sprintf("%s unavailable: %s", e.Provider, e.Body)
	default:
		return fmt.Sprintf("%s unavailable", e.Provider)
	}
}

func (e *UnavailableError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, generator.ErrServiceUnavailable) match.
func (e *UnavailableError) Is(target error) bool {
	return target == generator.ErrServiceUnavailable
}
