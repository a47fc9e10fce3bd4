package eventsapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/target/saarevents/internal/domain/model"
)

// ListFavorites returns the user's favorited events.
func (c *Client) ListFavorites(ctx context.Context, userID int64) ([]model.Event, error) {
	var events []model.Event
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/favorites/%d", userID),
		client: c.authed,
	}, &events)
	return events, err
}

// AddFavorite marks eventID as a favorite of userID.
func (c *Client) AddFavorite(ctx context.Context, userID, eventID int64) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("/favorites/%d/%d", userID, eventID),
		client: c.authed,
	}, nil)
}

// RemoveFavorite unmarks eventID as a favorite of userID.
func (c *Client) RemoveFavorite(ctx context.Context, userID, eventID int64) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/favorites/%d/%d", userID, eventID),
		client: c.authed,
	}, nil)
}
