package models

import "testing"

func TestFormatByExt(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".mp4", "video/mp4"},
		{".MOV", "video/quicktime"},
		{".webm", "video/webm"},
		{".json", "application/json"},
		{"", ""},
		{".nosuchext", ""},
	}
	for _, tt := range tests {
		if got := FormatByExt(tt.ext); got != tt.want {
			t.Errorf("FormatByExt(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
