//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"fmt"
)

var (
	errRatingRange      = fmt.Errorf("rating must be between %d and %d", minRating, maxRating)
	errCommentTooLong   = errors.New("comment is too long")
	errPasswordTooShort = fmt.Errorf("password must be at least %d characters", minPasswordLen)
	errCoordinatesPair  = errors.New("latitude and longitude must be given together")
	errLatitudeRange    = errors.New("latitude must be between -90 and 90")
	errLongitudeRange   = errors.New("longitude must be between -180 and 180")
)

// FieldError reports a missing or invalid input field.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string { return e.Field + " is required" }

func errFieldRequired(field string) error { return &FieldError{Field: field} }
