// Package models defines server-side data models persisted by the storage
// backends.
package models

import "time"

// Video is the persisted metadata record of one ingested (or inserted) video.
// The processed artifact itself lives in the artifact store and is referenced
// by StoredPath.
type Video struct {
	ID          string `json:"id" bson:"_id"`
	Title       string `json:"title" bson:"title"`
	Description string `json:"description" bson:"description"`
	// StoredPath is the URL path (or absolute URL) the artifact is served from.
	StoredPath string `json:"storedPath" bson:"filePath"`
	// DurationSeconds is endTime-startTime for trimmed uploads, 0 otherwise.
	DurationSeconds float64   `json:"durationSeconds" bson:"duration"`
	Format          string    `json:"format" bson:"format"`
	SizeBytes       int64     `json:"sizeBytes" bson:"size"`
	CreatedAt       time.Time `json:"createdAt" bson:"createdAt"`
}
