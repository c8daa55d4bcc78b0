package models

import (
	"mime"
	"strings"
)

// videoTypes covers containers the platform MIME table often lacks.
var videoTypes = map[string]string{
	".avi":  "video/x-msvideo",
	".m4v":  "video/x-m4v",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".mp4":  "video/mp4",
	".mpeg": "video/mpeg",
	".webm": "video/webm",
}

// FormatByExt returns the MIME type for a file extension such as ".mp4", or
// "" when unknown.
func FormatByExt(ext string) string {
	ext = strings.ToLower(ext)
	if t, ok := videoTypes[ext]; ok {
		return t
	}
	if ext == "" {
		return ""
	}
	return mime.TypeByExtension(ext)
}
