package rest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/clipvault/internal/common"
	"github.com/dmitrijs2005/clipvault/internal/server/ingest"
	"github.com/dmitrijs2005/clipvault/internal/server/services"
	"github.com/gin-gonic/gin"
)

func (s *HTTPServer) upload(c *gin.Context) {
	if s.opts.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.opts.MaxUploadBytes)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			writeError(c, http.StatusBadRequest, fmt.Sprintf("upload exceeds %d bytes", s.opts.MaxUploadBytes))
			return
		}
		writeError(c, http.StatusBadRequest, "No file uploaded")
		return
	}

	params, err := parseParams(c)
	if err != nil {
		s.respondError(c, err)
		return
	}

	f, err := fh.Open()
	if err != nil {
		s.respondError(c, fmt.Errorf("%w: open upload: %w", common.ErrStagingFailed, err))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.respondError(c, fmt.Errorf("%w: read upload: %w", common.ErrStagingFailed, err))
		return
	}

	v, err := s.ingester.Ingest(c.Request.Context(), ingest.Upload{
		Filename: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Data:     data,
		Size:     fh.Size,
	}, params)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Video uploaded and processed successfully",
		"filePath": v.StoredPath,
		"video":    v,
	})
}

func parseParams(c *gin.Context) (ingest.Params, error) {
	p := ingest.Params{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	var err error
	if p.StartTime, err = optionalSeconds(c.PostForm("startTime")); err != nil {
		return p, fmt.Errorf("%w: startTime: %w", common.ErrInvalidInput, err)
	}
	if p.EndTime, err = optionalSeconds(c.PostForm("endTime")); err != nil {
		return p, fmt.Errorf("%w: endTime: %w", common.ErrInvalidInput, err)
	}
	return p, nil
}

func optionalSeconds(v string) (*float64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, errors.New("not a number")
	}
	return &f, nil
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func (s *HTTPServer) listVideos(c *gin.Context) {
	items, err := s.videos.ListVideos(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	if len(items) == 0 {
		writeError(c, http.StatusNotFound, "no videos found")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (s *HTTPServer) getVideo(c *gin.Context) {
	v, err := s.videos.GetVideo(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (s *HTTPServer) deleteVideo(c *gin.Context) {
	id := c.Param("id")
	res, err := s.videos.DeleteVideo(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Video deleted successfully",
		"id":              id,
		"artifactRemoved": res.ArtifactRemoved,
		"artifactMissing": res.ArtifactMissing,
		"artifactError":   res.ArtifactErr != nil,
	})
}

type insertVideoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
}

func (s *HTTPServer) insertVideo(c *gin.Context) {
	var req insertVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid JSON body")
		return
	}

	v, err := s.videos.InsertVideo(c.Request.Context(), services.InsertRequest{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (s *HTTPServer) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
