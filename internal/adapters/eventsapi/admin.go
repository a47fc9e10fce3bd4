package eventsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/target/saarevents/internal/domain/model"
)

// Stats fetches the moderation dashboard summary from /admin/events/stats.
func (c *Client) Stats(ctx context.Context) (model.AdminStats, error) {
	var out model.AdminStats
	err := c.do(ctx, call{method: http.MethodGet, path: "/admin/events/stats", client: c.authed}, &out)
	return out, err
}

// ListUsers lists every account via /admin/users.
func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := c.do(ctx, call{method: http.MethodGet, path: "/admin/users", client: c.authed}, &out)
	return out, err
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/admin/users/%d", id), client: c.authed}, nil)
}

// ListAllEvents lists events in every moderation state via /admin/events.
func (c *Client) ListAllEvents(ctx context.Context) ([]model.Event, error) {
	var out []model.Event
	err := c.do(ctx, call{method: http.MethodGet, path: "/admin/events", client: c.authed}, &out)
	return out, err
}

// CreateEvent publishes an event directly, bypassing the submission queue.
func (c *Client) CreateEvent(ctx context.Context, in model.CreateEventInput) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, call{method: http.MethodPost, path: "/admin/events", body: in, client: c.authed}, &out)
	return out, err
}

// UpdateEvent replaces an event with PUT /admin/events/{id}.
func (c *Client) UpdateEvent(ctx context.Context, id int64, in model.CreateEventInput) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   fmt.Sprintf("/admin/events/%d", id),
		body:   in,
		client: c.authed,
	}, &out)
	return out, err
}

// DeleteEvent removes an event.
func (c *Client) DeleteEvent(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/admin/events/%d", id), client: c.authed}, nil)
}

// UpdateEventStatus approves or rejects an event with PATCH /admin/events/{id}/status.
func (c *Client) UpdateEventStatus(ctx context.Context, eventID int64, status model.EventStatus) (model.Event, error) {
	var out model.Event
	err := c.do(ctx, call{
		method: http.MethodPatch,
		path:   fmt.Sprintf("/admin/events/%d/status", eventID),
		body:   map[string]model.EventStatus{"status": status},
		client: c.authed,
	}, &out)
	return out, err
}

// CreateCategory adds a category.
func (c *Client) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	var out model.Category
	err := c.do(ctx, call{method: http.MethodPost, path: "/admin/categories", body: in, client: c.authed}, &out)
	return out, err
}

// DeleteCategory removes a category.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/admin/categories/%d", id), client: c.authed}, nil)
}

// CreateCity adds a city.
func (c *Client) CreateCity(ctx context.Context, in model.CityInput) (model.City, error) {
	var out model.City
	err := c.do(ctx, call{method: http.MethodPost, path: "/admin/cities", body: in, client: c.authed}, &out)
	return out, err
}

// DeleteCity removes a city.
func (c *Client) DeleteCity(ctx context.Context, id int64) error {
	return c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/admin/cities/%d", id), client: c.authed}, nil)
}
