// Package mocks provides mock implementations for testing the session client.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the API ports.
// The mocks are generated using go:generate directives and provide a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	favs := mocks.NewMockFavoritesAPI(ctrl)
//	favs.EXPECT().ListFavorites(gomock.Any(), int64(42)).Return(events, nil)
package mocks

// AuthAPI: SignIn, SignUp, ForgotPassword, ResetPassword
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_api_mock.go github.com/target/saarevents/internal/ports AuthAPI

// ProfileAPI: FetchProfile
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_api_mock.go github.com/target/saarevents/internal/ports ProfileAPI

// FavoritesAPI: ListFavorites, AddFavorite, RemoveFavorite
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=favorites_api_mock.go github.com/target/saarevents/internal/ports FavoritesAPI

// CatalogAPI: public reads plus review, reminder and submission writes
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=catalog_api_mock.go github.com/target/saarevents/internal/ports CatalogAPI

// AdminAPI: moderation, users and reference data
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=admin_api_mock.go github.com/target/saarevents/internal/ports AdminAPI
