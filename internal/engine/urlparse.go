package engine

import (
	"fmt"
	"regexp"
	"strings"
)

// Canonical forms and markers for the two recognized root domains.
const (
	videoIDLength   = 11
	siteRoot        = "https://www.youtube.com"
	watchURLPrefix  = "https://www.youtube.com/watch?v="
	watchPathMarker = "/watch"
)

// domainRE accepts an optional scheme, optional www. or mobile subdomain,
// and exactly the primary and short-link root domains — nothing else.
var domainRE = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.|m\.)?(?:youtube\.com|youtu\.be)(?:[/?#]|$)`)

// videoIDPatterns is the fixed-priority extraction cascade; the first match
// wins. A v= parameter outranks everything, so an address carrying both a
// video ID and a list= parameter classifies as a video, not a playlist.
var videoIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)[?&]vi?=([^&#]+)`),                      // v= / vi= query parameter
	regexp.MustCompile(`(?i)youtu\.be/([^?&#/]+)`),                  // short-link path segment
	regexp.MustCompile(`(?i)/(?:v|embed)/([^?&#/]+)`),               // /v/ and /embed/ segments
	regexp.MustCompile(`(?i)youtube\.com/([\w-]{11})(?:[?&]|$)`),    // bare ID directly under the root
}

// ParseVideoURL validates a raw YouTube address and reduces it to the
// canonical watch form. Pure: identical input always yields an identical
// result, and failures surface in ParsedURL.Error, never as a panic.
func ParseVideoURL(raw string) ParsedURL {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ParsedURL{Error: "URL is empty"}
	}
	if !domainRE.MatchString(trimmed) {
		return ParsedURL{Error: "Not a YouTube URL"}
	}

	for _, re := range videoIDPatterns {
		m := re.FindStringSubmatch(trimmed)
		if m == nil {
			continue
		}
		id := m[1]
		if len(id) != videoIDLength {
			return ParsedURL{Error: fmt.Sprintf("invalid video ID %q: expected %d characters, got %d", id, videoIDLength, len(id))}
		}
		return ParsedURL{Valid: true, VideoID: id, NormalizedURL: watchURLPrefix + id}
	}

	if hasPlaylistParam(trimmed) {
		return ParsedURL{Valid: true, NormalizedURL: trimmed}
	}
	return ParsedURL{Error: "no video ID found in URL"}
}

// hasPlaylistParam reports whether the address carries a playlist parameter.
// The same check classifies a page as a playlist listing during scans.
func hasPlaylistParam(u string) bool {
	return strings.Contains(u, "list=")
}
