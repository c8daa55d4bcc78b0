// Package events publishes video lifecycle notifications.
package events

import (
	"context"
	"time"
)

// Subjects.
const (
	SubjectIngested = "videos.ingested"
	SubjectDeleted  = "videos.deleted"
)

// VideoEvent is the payload of both subjects.
type VideoEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title,omitempty"`
	StoredPath string    `json:"storedPath,omitempty"`
	At         time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, subject string, v any) error
	Close() error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }
func (Nop) Close() error                               { return nil }
