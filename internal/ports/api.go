package ports

import (
	"context"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
)

// AuthAPI covers the unauthenticated account endpoints.
type AuthAPI interface {
	// SignIn exchanges credentials for a full identity including the bearer token.
	SignIn(ctx context.Context, in model.SignInInput) (domainauth.Identity, error)
	// SignUp registers a new account. It does not sign the user in.
	SignUp(ctx context.Context, in model.SignUpInput) (model.MessageResponse, error)
	// ForgotPassword asks the server to e-mail a reset link to email.
	ForgotPassword(ctx context.Context, email string) error
	// ResetPassword sets a new password using the token from the reset link.
	ResetPassword(ctx context.Context, token, password string) error
}

// ProfileAPI fetches the authoritative profile. The request is authenticated
// by the given credential, not by whatever the session holds at send time.
type ProfileAPI interface {
	FetchProfile(ctx context.Context, token string) (domainauth.Profile, error)
}

// FavoritesAPI covers the user-scoped favorites endpoints.
type FavoritesAPI interface {
	ListFavorites(ctx context.Context, userID int64) ([]model.Event, error)
	AddFavorite(ctx context.Context, userID, eventID int64) error
	RemoveFavorite(ctx context.Context, userID, eventID int64) error
}

// CatalogAPI covers public event reads and the authenticated write intents
// that are not part of the session core.
type CatalogAPI interface {
	ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error)
	GetEvent(ctx context.Context, id int64) (model.Event, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListCities(ctx context.Context) ([]model.City, error)
	ListReviews(ctx context.Context, eventID int64) ([]model.Review, error)
	CreateReview(ctx context.Context, eventID int64, in model.ReviewInput) (model.Review, error)
	SetReminder(ctx context.Context, in model.ReminderInput) (model.ReminderResult, error)
	SubmitEvent(ctx context.Context, in model.CreateEventInput) (model.Event, error)
}

// AdminAPI covers the moderation and reference data endpoints reserved for
// administrators.
type AdminAPI interface {
	Stats(ctx context.Context) (model.AdminStats, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id int64) error
	// ListAllEvents returns events in every moderation state.
	ListAllEvents(ctx context.Context) ([]model.Event, error)
	CreateEvent(ctx context.Context, in model.CreateEventInput) (model.Event, error)
	UpdateEvent(ctx context.Context, id int64, in model.CreateEventInput) (model.Event, error)
	DeleteEvent(ctx context.Context, id int64) error
	UpdateEventStatus(ctx context.Context, eventID int64, status model.EventStatus) (model.Event, error)
	CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
	CreateCity(ctx context.Context, in model.CityInput) (model.City, error)
	DeleteCity(ctx context.Context, id int64) error
}
