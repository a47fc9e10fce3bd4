//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "strings"

const minPasswordLen = 6

// AdminStats is the moderation dashboard summary.
type AdminStats struct {
	TotalEvents     int64 `json:"totalEvents"`
	PendingEvents   int64 `json:"pendingEvents"`
	ApprovedEvents  int64 `json:"approvedEvents"`
	TotalUsers      int64 `json:"totalUsers"`
	TotalCategories int64 `json:"totalCategories"`
}

// User is an account as listed to administrators.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// CategoryInput is the body for creating a category.
type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Validate checks the category name.
func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errFieldRequired("name")
	}
	return nil
}

// CityInput is the body for creating a city. Coordinates are optional but
// must be given together.
type CityInput struct {
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// Validate checks the city name and coordinate ranges.
func (in CityInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return errFieldRequired("name")
	case (in.Latitude == nil) != (in.Longitude == nil):
		return errCoordinatesPair
	case in.Latitude != nil && (*in.Latitude < -90 || *in.Latitude > 90):
		return errLatitudeRange
	case in.Longitude != nil && (*in.Longitude < -180 || *in.Longitude > 180):
		return errLongitudeRange
	}
	return nil
}

// SignInInput is the credential login body.
type SignInInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUpInput is the registration body.
type SignUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks required registration fields before the request is sent.
func (in SignUpInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Username) == "":
		return errFieldRequired("username")
	case !strings.Contains(in.Email, "@"):
		return errFieldRequired("email")
	case len(in.Password) < minPasswordLen:
		return errPasswordTooShort
	}
	return nil
}

// ForgotPasswordInput requests a password reset link.
type ForgotPasswordInput struct {
	Email string `json:"email"`
}

// ResetPasswordInput is the body sent with a reset token.
type ResetPasswordInput struct {
	Password string `json:"password"`
}

// Validate applies the registration password rule.
func (in ResetPasswordInput) Validate() error {
	if len(in.Password) < minPasswordLen {
		return errPasswordTooShort
	}
	return nil
}

// MessageResponse is the generic status body returned by several endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
