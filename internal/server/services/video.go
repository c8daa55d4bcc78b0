// Package services contains server-side business logic. This file implements
// VideoService, which answers metadata queries and handles deletion and
// direct inserts of video records.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/dmitrijs2005/clipvault/internal/logging"
	"github.com/dmitrijs2005/clipvault/internal/server/artifacts"
	"github.com/dmitrijs2005/clipvault/internal/server/events"
	"github.com/dmitrijs2005/clipvault/internal/server/models"
	"github.com/dmitrijs2005/clipvault/internal/server/repositories/videos"
	"github.com/google/uuid"
)

// InsertRequest is a metadata-only record whose artifact lives elsewhere.
type InsertRequest struct {
	Title       string
	Description string
	VideoURL    string
}

// DeleteResult reports what happened to the artifact of a deleted record.
// The record itself is always gone when DeleteVideo returns no error.
type DeleteResult struct {
	Video           *models.Video
	ArtifactRemoved bool
	// ArtifactMissing is set when there was no artifact of ours to remove.
	ArtifactMissing bool
	// ArtifactErr holds any other failure removing the artifact.
	ArtifactErr error
}

type VideoService struct {
	videos    videos.Repository
	artifacts artifacts.Store
	events    events.Publisher
	logger    logging.Logger

	now   func() time.Time
	newID func() string
}

func NewVideoService(repo videos.Repository, store artifacts.Store, pub events.Publisher, logger logging.Logger) *VideoService {
	return &VideoService{
		videos:    repo,
		artifacts: store,
		events:    pub,
		logger:    logger.With("module", "video_service"),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *VideoService) ListVideos(ctx context.Context) ([]*models.Video, error) {
	return s.videos.List(ctx)
}

func (s *VideoService) GetVideo(ctx context.Context, id string) (*models.Video, error) {
	if strings.TrimSpace(id) == "" {
		return nil, common.ErrorNotFound
	}
	return s.videos.Get(ctx, id)
}

// DeleteVideo removes the record first and the artifact second, so no reader
// can observe a record whose artifact is already gone.
func (s *VideoService) DeleteVideo(ctx context.Context, id string) (*DeleteResult, error) {
	v, err := s.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.videos.Delete(ctx, id); err != nil {
		return nil, err
	}

	ctx = context.WithoutCancel(ctx)
	res := &DeleteResult{Video: v}
	if !s.artifacts.Manages(v.StoredPath) {
		res.ArtifactMissing = true
		s.publishDeleted(ctx, v)
		return res, nil
	}
	switch err := s.artifacts.Remove(ctx, v.StoredPath); {
	case err == nil:
		res.ArtifactRemoved = true
	case errors.Is(err, common.ErrorNotFound):
		res.ArtifactMissing = true
		s.logger.Warn(ctx, "artifact already missing", "id", id, "stored_path", v.StoredPath)
	default:
		res.ArtifactErr = err
		s.logger.Error(ctx, "artifact removal failed", "id", id, "stored_path", v.StoredPath, "error", err)
	}

	s.publishDeleted(ctx, v)
	return res, nil
}

func (s *VideoService) publishDeleted(ctx context.Context, v *models.Video) {
	ev := events.VideoEvent{ID: v.ID, Title: v.Title, StoredPath: v.StoredPath, At: s.now().UTC()}
	if err := s.events.Publish(ctx, events.SubjectDeleted, ev); err != nil {
		s.logger.Warn(ctx, "event publish failed", "subject", events.SubjectDeleted, "id", v.ID, "error", err)
	}
}

// InsertVideo stores a record pointing at an externally hosted video. URLs
// owned by the artifact store are rejected: each stored artifact belongs to
// exactly one record.
func (s *VideoService) InsertVideo(ctx context.Context, req InsertRequest) (*models.Video, error) {
	title := strings.TrimSpace(req.Title)
	videoURL := strings.TrimSpace(req.VideoURL)
	if title == "" || videoURL == "" {
		return nil, fmt.Errorf("%w: title and videoUrl are required", common.ErrInvalidInput)
	}
	if s.artifacts.Manages(videoURL) {
		return nil, fmt.Errorf("%w: videoUrl points at a stored upload", common.ErrInvalidInput)
	}

	v := &models.Video{
		ID:          s.newID(),
		Title:       title,
		Description: req.Description,
		StoredPath:  videoURL,
		Format:      formatOf(videoURL),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.videos.Put(ctx, v); err != nil {
		return nil, fmt.Errorf("save record: %w", err)
	}
	return v, nil
}

func formatOf(videoURL string) string {
	p := videoURL
	if u, err := url.Parse(videoURL); err == nil && u.Path != "" {
		p = u.Path
	}
	return models.FormatByExt(path.Ext(p))
}
