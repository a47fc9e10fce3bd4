//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

const (
	minRating = 1
	maxRating = 5
)

// Review is a user review of an event.
type Review struct {
	ID        int64     `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// ReviewInput is the body for posting a review.
type ReviewInput struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// Validate enforces the rating range. A zero rating is rejected.
func (r ReviewInput) Validate() error {
	if r.Rating < minRating || r.Rating > maxRating {
		return errRatingRange
	}
	if len(strings.TrimSpace(r.Comment)) > 4000 {
		return errCommentTooLong
	}
	return nil
}

// ReminderInput schedules a reminder e-mail for an event.
type ReminderInput struct {
	UserID   int64     `json:"userId"`
	EventID  int64     `json:"eventId"`
	RemindAt time.Time `json:"remindAt"`
}

// ReminderResult is the API acknowledgement for a reminder.
type ReminderResult struct {
	Message string `json:"message"`
}
