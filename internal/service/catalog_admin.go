package service

import (
	"context"
	"fmt"

	"github.com/target/saarevents/internal/domain/model"
	apperrors "github.com/target/saarevents/internal/errors"
)

// AdminStats returns the moderation summary. Administrators only.
func (c *CatalogService) AdminStats(ctx context.Context) (model.AdminStats, error) {
	if err := c.requireAdmin(); err != nil {
		return model.AdminStats{}, err
	}
	stats, err := c.admin.Stats(ctx)
	if err != nil {
		return model.AdminStats{}, fmt.Errorf("admin stats: %w", err)
	}
	return stats, nil
}

// AdminUsers lists all accounts. Administrators only.
func (c *CatalogService) AdminUsers(ctx context.Context) ([]model.User, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	users, err := c.admin.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ModerateEvent approves or rejects an event. Administrators only.
func (c *CatalogService) ModerateEvent(ctx context.Context, eventID int64, status model.EventStatus) (model.Event, error) {
	if eventID <= 0 {
		return model.Event{}, apperrors.ValidationField("eventID", "event id must be positive")
	}
	if status != model.EventStatusApproved && status != model.EventStatusRejected {
		return model.Event{}, apperrors.ValidationField("status", "status must be APPROVED or REJECTED")
	}
	if err := c.requireAdmin(); err != nil {
		return model.Event{}, err
	}
	ev, err := c.admin.UpdateEventStatus(ctx, eventID, status)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event status: %w", err)
	}
	return ev, nil
}

// DeleteUser removes an account. Administrators only. An administrator
// cannot delete their own account.
func (c *CatalogService) DeleteUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return apperrors.ValidationField("userID", "user id must be positive")
	}
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if id, _ := c.sessions.Current(); id.ID == userID {
		return apperrors.ValidationField("userID", "cannot delete the signed-in account")
	}
	if err := c.admin.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user %d: %w", userID, err)
	}
	return nil
}

// AdminEvents lists events in every moderation state. Administrators only.
func (c *CatalogService) AdminEvents(ctx context.Context) ([]model.Event, error) {
	if err := c.requireAdmin(); err != nil {
		return nil, err
	}
	events, err := c.admin.ListAllEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list all events: %w", err)
	}
	return events, nil
}

// CreateEvent publishes an event without moderation. Administrators only.
func (c *CatalogService) CreateEvent(ctx context.Context, in model.CreateEventInput) (model.Event, error) {
	if err := in.Validate(); err != nil {
		return model.Event{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid event")
	}
	if err := c.requireAdmin(); err != nil {
		return model.Event{}, err
	}
	ev, err := c.admin.CreateEvent(ctx, in)
	if err != nil {
		return model.Event{}, fmt.Errorf("create event: %w", err)
	}
	return ev, nil
}

// UpdateEvent replaces an event. Administrators only.
func (c *CatalogService) UpdateEvent(ctx context.Context, eventID int64, in model.CreateEventInput) (model.Event, error) {
	if eventID <= 0 {
		return model.Event{}, apperrors.ValidationField("eventID", "event id must be positive")
	}
	if err := in.Validate(); err != nil {
		return model.Event{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid event")
	}
	if err := c.requireAdmin(); err != nil {
		return model.Event{}, err
	}
	ev, err := c.admin.UpdateEvent(ctx, eventID, in)
	if err != nil {
		return model.Event{}, fmt.Errorf("update event %d: %w", eventID, err)
	}
	return ev, nil
}

// DeleteEvent removes an event. Administrators only.
func (c *CatalogService) DeleteEvent(ctx context.Context, eventID int64) error {
	if eventID <= 0 {
		return apperrors.ValidationField("eventID", "event id must be positive")
	}
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.admin.DeleteEvent(ctx, eventID); err != nil {
		return fmt.Errorf("delete event %d: %w", eventID, err)
	}
	return nil
}

// CreateCategory adds a category and drops the cached reference data.
// Administrators only.
func (c *CatalogService) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	if err := in.Validate(); err != nil {
		return model.Category{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid category")
	}
	if err := c.requireAdmin(); err != nil {
		return model.Category{}, err
	}
	cat, err := c.admin.CreateCategory(ctx, in)
	if err != nil {
		return model.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.referenceDataChanged(ctx)
	return cat, nil
}

// DeleteCategory removes a category and drops the cached reference data.
// Administrators only.
func (c *CatalogService) DeleteCategory(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.ValidationField("id", "category id must be positive")
	}
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.admin.DeleteCategory(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	c.referenceDataChanged(ctx)
	return nil
}

// CreateCity adds a city and drops the cached reference data.
// Administrators only.
func (c *CatalogService) CreateCity(ctx context.Context, in model.CityInput) (model.City, error) {
	if err := in.Validate(); err != nil {
		return model.City{}, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid city")
	}
	if err := c.requireAdmin(); err != nil {
		return model.City{}, err
	}
	city, err := c.admin.CreateCity(ctx, in)
	if err != nil {
		return model.City{}, fmt.Errorf("create city: %w", err)
	}
	c.referenceDataChanged(ctx)
	return city, nil
}

// DeleteCity removes a city and drops the cached reference data.
// Administrators only.
func (c *CatalogService) DeleteCity(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperrors.ValidationField("id", "city id must be positive")
	}
	if err := c.requireAdmin(); err != nil {
		return err
	}
	if err := c.admin.DeleteCity(ctx, id); err != nil {
		return fmt.Errorf("delete city %d: %w", id, err)
	}
	c.referenceDataChanged(ctx)
	return nil
}

// referenceDataChanged drops cached categories and cities after a successful
// change. A failure only leaves entries to expire by TTL.
func (c *CatalogService) referenceDataChanged(ctx context.Context) {
	if err := c.InvalidateReferenceData(ctx); err != nil {
		c.logger.WarnContext(ctx, "reference cache invalidation failed", "error", err)
	}
}
