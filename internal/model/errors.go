package model

import (
	"errors"
	"fmt"
)

var (
	// ErrCollaboratorUnavailable covers network, transport and 5xx failures.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrValidationRejected is a 4xx rejection describing a violated constraint.
	ErrValidationRejected = errors.New("validation rejected")
	// ErrNotFound is returned for id-keyed operations on a missing record.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedMediaType is returned when an upload is not an image.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrInvalidRecord is a local validation failure raised before any
	// collaborator call. It matches ErrValidationRejected.
	ErrInvalidRecord = fmt.Errorf("%w: invalid record", ErrValidationRejected)
)

// RejectedError carries the collaborator's explanation of a 4xx rejection.
type RejectedError struct {
	Status int
	Detail string
}

func (e *RejectedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("validation rejected (status %d)", e.Status)
	}
	return fmt.Sprintf("validation rejected (status %d): %s", e.Status, e.Detail)
}

func (e *RejectedError) Unwrap() error { return ErrValidationRejected }

// UserMessage returns the short banner text shown for err.
func UserMessage(err error) string {
	var rejected *RejectedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rejected) && rejected.Detail != "":
		return "The collection service rejected the item: " + rejected.Detail
	case errors.Is(err, ErrInvalidRecord):
		return "Please fill in a name and choose at least one outfit type."
	case errors.Is(err, ErrValidationRejected):
		return "The collection service rejected the item."
	case errors.Is(err, ErrNotFound):
		return "That item no longer exists."
	case errors.Is(err, ErrUnsupportedMediaType):
		return "Please select an image file (JPG, PNG or WEBP)."
	case errors.Is(err, ErrCollaboratorUnavailable):
		return "The collection service is unavailable. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}
