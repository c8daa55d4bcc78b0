// Package ingest turns an uploaded video into a published artifact plus a
// persisted metadata record, or into nothing at all.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/dmitrijs2005/clipvault/internal/logging"
	"github.com/dmitrijs2005/clipvault/internal/server/artifacts"
	"github.com/dmitrijs2005/clipvault/internal/server/events"
	"github.com/dmitrijs2005/clipvault/internal/server/models"
	"github.com/dmitrijs2005/clipvault/internal/server/repositories/videos"
	"github.com/dmitrijs2005/clipvault/internal/server/transcoder"
	"github.com/dmitrijs2005/clipvault/internal/server/workspace"
	"github.com/google/uuid"
)

// defaultExt is used for the output when the upload name carries no usable
// extension.
const defaultExt = ".mp4"

// Upload is the file part of an ingest request.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
	Size     int64
}

// Params are the optional form fields of an ingest request. StartTime and
// EndTime are seconds; both or neither must be set.
type Params struct {
	StartTime   *float64
	EndTime     *float64
	Title       string
	Description string
}

type Pipeline struct {
	workspace  *workspace.Manager
	transcoder transcoder.Invoker
	artifacts  artifacts.Store
	videos     videos.Repository
	events     events.Publisher
	logger     logging.Logger

	now   func() time.Time
	newID func() string
}

func NewPipeline(ws *workspace.Manager, tr transcoder.Invoker, store artifacts.Store, repo videos.Repository,
	pub events.Publisher, logger logging.Logger) *Pipeline {
	return &Pipeline{
		workspace:  ws,
		transcoder: tr,
		artifacts:  store,
		videos:     repo,
		events:     pub,
		logger:     logger.With("module", "ingest"),
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// Ingest validates, stages, transcodes, publishes and persists one upload.
// When it returns, either both the artifact and the record exist or neither
// does, and the scratch workspace is gone. Cancellation of ctx is ignored so
// that a disconnecting client cannot interrupt cleanup; the transcoder
// timeout bounds the work instead.
func (p *Pipeline) Ingest(ctx context.Context, up Upload, params Params) (_ *models.Video, err error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	defer func() {
		observe(err, time.Since(start))
		if err != nil {
			p.logger.Warn(ctx, "ingest failed", "filename", up.Filename, "outcome", outcomeOf(err), "error", err)
		}
	}()

	trim, title, err := validate(up, params)
	if err != nil {
		return nil, err
	}

	ext := workspace.SanitizeExt(filepath.Ext(up.Filename))
	h, err := p.workspace.Stage(up.Data, ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrStagingFailed, err)
	}
	defer func() {
		if rerr := h.Release(); rerr != nil {
			p.logger.Warn(ctx, "workspace release failed", "dir", h.Dir(), "error", rerr)
		}
	}()

	if ext == "" {
		ext = defaultExt
	}
	output := h.OutputPath(ext)
	job := transcoder.Job{Input: h.InputPath(), Output: output, Trim: trim}
	if err := p.transcoder.Transcode(ctx, job); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrTranscodeFailed, err)
	}

	createdAt := p.now().UTC()
	format := up.MimeType
	if format == "" {
		format = models.FormatByExt(ext)
	}

	name := fmt.Sprintf("%d-%s%s", createdAt.UnixNano(), uuid.NewString(), ext)
	storedPath, err := p.artifacts.Publish(ctx, output, name, format)
	if err != nil {
		return nil, fmt.Errorf("%w: publish artifact: %w", common.ErrPersistFailed, err)
	}

	v := &models.Video{
		ID:          p.newID(),
		Title:       title,
		Description: params.Description,
		StoredPath:  storedPath,
		Format:      format,
		SizeBytes:   up.Size,
		CreatedAt:   createdAt,
	}
	if trim != nil {
		v.DurationSeconds = trim.End - trim.Start
	}

	if err := p.videos.Put(ctx, v); err != nil {
		if rerr := p.artifacts.Remove(ctx, storedPath); rerr != nil && !errors.Is(rerr, common.ErrorNotFound) {
			p.logger.Error(ctx, "failed to remove artifact after persist failure", "stored_path", storedPath, "error", rerr)
		}
		return nil, fmt.Errorf("%w: save record: %w", common.ErrPersistFailed, err)
	}

	p.logger.Info(ctx, "video ingested", "id", v.ID, "stored_path", v.StoredPath, "size", v.SizeBytes)

	ev := events.VideoEvent{ID: v.ID, Title: v.Title, StoredPath: v.StoredPath, At: createdAt}
	if perr := p.events.Publish(ctx, events.SubjectIngested, ev); perr != nil {
		p.logger.Warn(ctx, "event publish failed", "subject", events.SubjectIngested, "id", v.ID, "error", perr)
	}

	return v, nil
}

func validate(up Upload, params Params) (*transcoder.Range, string, error) {
	if len(up.Data) == 0 || up.Size <= 0 {
		return nil, "", fmt.Errorf("%w: no file data provided", common.ErrInvalidInput)
	}

	var trim *transcoder.Range
	switch {
	case params.StartTime == nil && params.EndTime == nil:
	case params.StartTime == nil || params.EndTime == nil:
		return nil, "", fmt.Errorf("%w: startTime and endTime must be given together", common.ErrInvalidInput)
	default:
		s, e := *params.StartTime, *params.EndTime
		if !finite(s) || !finite(e) || s < 0 || e < 0 {
			return nil, "", fmt.Errorf("%w: trim bounds must be non-negative numbers", common.ErrInvalidInput)
		}
		if e <= s {
			return nil, "", fmt.Errorf("%w: endTime must be greater than startTime", common.ErrInvalidInput)
		}
		trim = &transcoder.Range{Start: s, End: e}
	}

	title := strings.TrimSpace(params.Title)
	if title == "" {
		base := filepath.Base(strings.ReplaceAll(up.Filename, `\`, "/"))
		title = strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
		if title == "." || title == "/" {
			title = ""
		}
	}
	if title == "" {
		return nil, "", fmt.Errorf("%w: title is required", common.ErrInvalidInput)
	}

	return trim, title, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
