//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// EventStatus is the moderation state of a submitted event.
type EventStatus string

const (
	EventStatusPending  EventStatus = "PENDING"
	EventStatusApproved EventStatus = "APPROVED"
	EventStatusRejected EventStatus = "REJECTED"
)

// Valid reports whether the status is one the API accepts.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusPending, EventStatusApproved, EventStatusRejected:
		return true
	default:
		return false
	}
}

// ParseModerationStatus normalizes a status for the moderation endpoint.
// Only APPROVED and REJECTED may be set by an administrator.
func ParseModerationStatus(value string) (EventStatus, bool) {
	s := EventStatus(strings.ToUpper(strings.TrimSpace(value)))
	if s == EventStatusApproved || s == EventStatusRejected {
		return s, true
	}
	return "", false
}

// Translation is the localized name/description of an event.
type Translation struct {
	Locale      string `json:"locale"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Category groups events by kind.
type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// City is where an event takes place. Coordinates are optional.
type City struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Event is an event summary as listed by the API.
type Event struct {
	ID           int64         `json:"id"`
	EventDate    string        `json:"eventDate"`
	ImageURL     string        `json:"imageUrl"`
	Category     Category      `json:"category"`
	City         City          `json:"city"`
	Translations []Translation `json:"translations"`
	Status       EventStatus   `json:"status"`
}

// Title returns the name in the requested locale, falling back to the first translation.
func (e Event) Title(locale string) string {
	for _, tr := range e.Translations {
		if strings.EqualFold(tr.Locale, locale) {
			return tr.Name
		}
	}
	if len(e.Translations) > 0 {
		return e.Translations[0].Name
	}
	return ""
}

// Date parses EventDate. The API sends ISO-8601 local date-times without offset.
func (e Event) Date() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, e.EventDate); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EventIDs extracts identifiers from a list of events, skipping non-positive ids.
func EventIDs(events []Event) []int64 {
	ids := make([]int64, 0, len(events))
	for _, ev := range events {
		if ev.ID > 0 {
			ids = append(ids, ev.ID)
		}
	}
	return ids
}

// CreateEventInput is the body for submitting a new event.
type CreateEventInput struct {
	EventDate    string        `json:"eventDate"`
	ImageURL     string        `json:"imageUrl"`
	CategoryID   int64         `json:"categoryId"`
	CityID       int64         `json:"cityId"`
	Translations []Translation `json:"translations"`
}

// Validate checks required fields before the request is sent.
func (in CreateEventInput) Validate() error {
	switch {
	case strings.TrimSpace(in.EventDate) == "":
		return errFieldRequired("eventDate")
	case in.CategoryID <= 0:
		return errFieldRequired("categoryId")
	case in.CityID <= 0:
		return errFieldRequired("cityId")
	case len(in.Translations) == 0:
		return errFieldRequired("translations")
	}
	for _, tr := range in.Translations {
		if strings.TrimSpace(tr.Locale) == "" || strings.TrimSpace(tr.Name) == "" {
			return errFieldRequired("translations.name")
		}
	}
	return nil
}
