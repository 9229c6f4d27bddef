package models

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidFeedbackStatus = errors.New("invalid feedback status")

// FeedbackStatus enum
type FeedbackStatus string

const (
	InReview         FeedbackStatus = "In Review"
	Acknowledged     FeedbackStatus = "Acknowledged"
	FeedbackResolved FeedbackStatus = "Resolved"
)

// ParseFeedbackStatus validates a feedback status string.
func ParseFeedbackStatus(s string) (FeedbackStatus, error) {
	switch st := FeedbackStatus(s); st {
	case InReview, Acknowledged, FeedbackResolved:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidFeedbackStatus, s)
}

// Feedback is a message a citizen left for the municipality
type Feedback struct {
	ID        string         `bson:"_id" json:"id"`
	Name      string         `bson:"name" json:"name"`
	Message   string         `bson:"message" json:"message"`
	Status    FeedbackStatus `bson:"status" json:"status"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}

// Announcement is a notice posted by an administrator
type Announcement struct {
	ID       string    `bson:"_id" json:"id"`
	Title    string    `bson:"title" json:"title"`
	Message  string    `bson:"message" json:"message"`
	Author   string    `bson:"author" json:"author"`
	PostedAt time.Time `bson:"postedAt" json:"postedAt"`
}

// Event is a scheduled community event
type Event struct {
	ID       string    `bson:"_id" json:"id"`
	Title    string    `bson:"title" json:"title"`
	Location string    `bson:"location" json:"location"`
	Date     time.Time `bson:"date" json:"date"`
}

// Upcoming reports whether the event starts after now.
func (e Event) Upcoming(now time.Time) bool {
	return e.Date.After(now)
}
