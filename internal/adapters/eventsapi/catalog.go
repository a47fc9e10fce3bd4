package eventsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/target/saarevents/internal/domain/model"
)

// ListEvents lists published events matching filter.
func (c *Client) ListEvents(ctx context.Context, filter model.EventFilter) ([]model.Event, error) {
	var events []model.Event
	err := c.do(ctx, call{method: http.MethodGet, path: "/events", query: filter.Values()}, &events)
	return events, err
}

// GetEvent fetches one event by id.
func (c *Client) GetEvent(ctx context.Context, id int64) (model.Event, error) {
	var ev model.Event
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/events/%d", id)}, &ev)
	return ev, err
}

// ListCategories lists all categories.
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	err := c.do(ctx, call{method: http.MethodGet, path: "/categories"}, &out)
	return out, err
}

// ListCities lists all cities.
func (c *Client) ListCities(ctx context.Context) ([]model.City, error) {
	var out []model.City
	err := c.do(ctx, call{method: http.MethodGet, path: "/cities"}, &out)
	return out, err
}

// ListReviews lists the reviews of an event.
func (c *Client) ListReviews(ctx context.Context, eventID int64) ([]model.Review, error) {
	var out []model.Review
	err := c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/events/%d/reviews", eventID)}, &out)
	return out, err
}

// CreateReview posts a review as the signed-in user.
func (c *Client) CreateReview(ctx context.Context, eventID int64, in model.ReviewInput) (model.Review, error) {
	var out model.Review
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/events/%d/reviews", eventID),
		body:   in,
		client: c.authed,
	}, &out)
	return out, err
}

// SetReminder schedules a reminder e-mail.
func (c *Client) SetReminder(ctx context.Context, in model.ReminderInput) (model.ReminderResult, error) {
	var out model.ReminderResult
	err := c.do(ctx, call{method: http.MethodPost, path: "/reminders", body: in, client: c.authed}, &out)
	return out, err
}

// SubmitEvent proposes an event for moderation via /user/events.
func (c *Client) SubmitEvent(ctx context.Context, in model.CreateEventInput) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, call{method: http.MethodPost, path: "/user/events", body: in, client: c.authed}, &out)
	return out, err
}
