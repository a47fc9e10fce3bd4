package eventsapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
	apperrors "github.com/target/saarevents/internal/errors"
)

// SignIn posts credentials to /auth/signin. The response body is the full
// identity including the token.
func (c *Client) SignIn(ctx context.Context, in model.SignInInput) (domainauth.Identity, error) {
	if strings.TrimSpace(in.Username) == "" || in.Password == "" {
		return domainauth.Identity{}, apperrors.Validation("username and password are required")
	}
	var id domainauth.Identity
	if err := c.do(ctx, call{method: http.MethodPost, path: "/auth/signin", body: in}, &id); err != nil {
		return domainauth.Identity{}, err
	}
	if strings.TrimSpace(id.Token) == "" {
		return domainauth.Identity{}, apperrors.Internal("sign-in response carried no token")
	}
	if id.Roles == nil {
		id.Roles = []domainauth.Role{}
	}
	return id, nil
}

// SignUp registers an account via /auth/signup.
func (c *Client) SignUp(ctx context.Context, in model.SignUpInput) (model.MessageResponse, error) {
	if err := in.Validate(); err != nil {
		return model.MessageResponse{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}
	var out model.MessageResponse
	err := c.do(ctx, call{method: http.MethodPost, path: "/auth/signup", body: in}, &out)
	return out, err
}

// ForgotPassword asks /auth/forgot-password to e-mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/forgot-password",
		body:   model.ForgotPasswordInput{Email: email},
	}, nil)
}

// ResetPassword posts the new password to /auth/reset-password. The token
// from the reset link travels as a query parameter.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/auth/reset-password",
		query:  url.Values{"token": {token}},
		body:   model.ResetPasswordInput{Password: password},
	}, nil)
}

// FetchProfile fetches /auth/profile authenticated by token. It is never
// retried: a failed fetch ends the session, so one attempt is all there is.
func (c *Client) FetchProfile(ctx context.Context, token string) (domainauth.Profile, error) {
	if strings.TrimSpace(token) == "" {
		return domainauth.Profile{}, &apperrors.AppError{Code: apperrors.ErrCodeUnauthorized, Message: "not signed in"}
	}
	var p domainauth.Profile
	err := c.do(ctx, call{
		method:  http.MethodGet,
		path:    "/auth/profile",
		client:  c.withToken(token),
		noRetry: true,
	}, &p)
	return p, err
}
