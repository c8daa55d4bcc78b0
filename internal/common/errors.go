// Package common defines sentinel errors shared by the storage, ingest and
// HTTP layers of clipvault. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound  = errors.New("not found")
	ErrDuplicateID = errors.New("duplicate id")

	// Ingest pipeline failure kinds.
	ErrInvalidInput    = errors.New("invalid input")
	ErrStagingFailed   = errors.New("staging failed")
	ErrTranscodeFailed = errors.New("transcode failed")
	ErrPersistFailed   = errors.New("persist failed")
)
