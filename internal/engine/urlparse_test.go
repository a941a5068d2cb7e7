package engine

import (
	"strings"
	"testing"
)

func TestParseVideoURL(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		valid   bool
		videoID string
		norm    string
		errSub  string
	}{
		{
			name:    "standard watch URL",
			in:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
			norm:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:    "short link",
			in:      "https://youtu.be/dQw4w9WgXcQ",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
			norm:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:    "short link with timestamp",
			in:      "https://youtu.be/dQw4w9WgXcQ?t=42",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
			norm:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:    "embed path",
			in:      "https://www.youtube.com/embed/dQw4w9WgXcQ",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
			norm:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:    "legacy /v/ path",
			in:      "https://www.youtube.com/v/dQw4w9WgXcQ",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
			norm:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:    "vi parameter",
			in:      "https://www.youtube.com/watch?vi=dQw4w9WgXcQ",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
		},
		{
			name:    "mobile subdomain",
			in:      "https://m.youtube.com/watch?v=dQw4w9WgXcQ",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
		},
		{
			name:    "no scheme",
			in:      "youtube.com/watch?v=dQw4w9WgXcQ",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
		},
		{
			name:    "bare ID directly under root",
			in:      "https://www.youtube.com/dQw4w9WgXcQ",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
		},
		{
			name:    "video beats playlist when both present",
			in:      "https://www.youtube.com/watch?v=dQw4w9WgXcQ&list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG",
			valid:   true,
			videoID: "dQw4w9WgXcQ",
			norm:    "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:  "playlist only",
			in:    "https://www.youtube.com/playlist?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG",
			valid: true,
			norm:  "https://www.youtube.com/playlist?list=PLx0sYbCqOb8TBPRdmBHs5Iftvv9TPboYG",
		},
		{
			name:   "empty input",
			in:     "",
			errSub: "URL is empty",
		},
		{
			name:   "whitespace only",
			in:     "   ",
			errSub: "URL is empty",
		},
		{
			name:   "foreign domain",
			in:     "https://vimeo.com/watch?v=dQw4w9WgXcQ",
			errSub: "Not a YouTube URL",
		},
		{
			name:   "lookalike domain rejected",
			in:     "https://notyoutube.com/watch?v=dQw4w9WgXcQ",
			errSub: "Not a YouTube URL",
		},
		{
			name:   "ID too short",
			in:     "https://www.youtube.com/watch?v=short",
			errSub: "expected 11 characters, got 5",
		},
		{
			name:   "ID too long",
			in:     "https://www.youtube.com/watch?v=dQw4w9WgXcQtoolong",
			errSub: "expected 11 characters, got 18",
		},
		{
			name:   "no ID and no playlist",
			in:     "https://www.youtube.com/feed/subscriptions",
			errSub: "no video ID found",
		},
		{
			name:   "youtube home page",
			in:     "https://www.youtube.com/",
			errSub: "no video ID found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVideoURL(tt.in)
			if got.Valid != tt.valid {
				t.Fatalf("Valid = %v, want %v (error %q)", got.Valid, tt.valid, got.Error)
			}
			if got.VideoID != tt.videoID {
				t.Errorf("VideoID = %q, want %q", got.VideoID, tt.videoID)
			}
			if tt.norm != "" && got.NormalizedURL != tt.norm {
				t.Errorf("NormalizedURL = %q, want %q", got.NormalizedURL, tt.norm)
			}
			if tt.errSub != "" && !strings.Contains(got.Error, tt.errSub) {
				t.Errorf("Error = %q, want substring %q", got.Error, tt.errSub)
			}
			if tt.valid && got.Error != "" {
				t.Errorf("valid result carries error %q", got.Error)
			}
		})
	}
}

func TestParseVideoURLDeterministic(t *testing.T) {
	in := "https://youtu.be/dQw4w9WgXcQ"
	a := ParseVideoURL(in)
	b := ParseVideoURL(in)
	if a != b {
		t.Errorf("same input produced different results: %+v vs %+v", a, b)
	}
}

func TestHasPlaylistParam(t *testing.T) {
	if !hasPlaylistParam("https://www.youtube.com/playlist?list=PL123") {
		t.Error("expected playlist param to be detected")
	}
	if hasPlaylistParam("https://www.youtube.com/watch?v=dQw4w9WgXcQ") {
		t.Error("plain watch URL should not count as playlist")
	}
}
