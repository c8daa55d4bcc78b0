// Package artifacts publishes processed video files to their final,
// publicly served location and removes them again.
package artifacts

import "context"

// Store is the destination of processed artifacts.
//
// Publish moves the finished file at srcPath into the store under name and
// returns the stored path clients use to fetch it. Remove deletes the
// artifact behind a stored path; common.ErrorNotFound means there was nothing
// of ours to delete (already gone, or a path this store does not manage).
// Manages reports whether Remove would act on storedPath.
type Store interface {
	Publish(ctx context.Context, srcPath, name, contentType string) (string, error)
	Remove(ctx context.Context, storedPath string) error
	Manages(storedPath string) bool
}
