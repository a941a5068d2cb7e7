package engine

// Message types exchanged with hosting layers. Requests arrive as
// scan/metadata commands; every response is one of the typed results below.
const (
	MsgScanPlaylist        = "SCAN_PLAYLIST"
	MsgScanResult          = "SCAN_RESULT"
	MsgGetCurrentVideoInfo = "GET_CURRENT_VIDEO_INFO"
	MsgCurrentVideoInfo    = "CURRENT_VIDEO_INFO"
)

// Placeholder values used when a field cannot be resolved by any strategy.
const (
	UnknownTitle   = "Unknown Title"
	UnknownChannel = "Unknown Channel"
)

// ParsedURL is the result of normalizing a raw YouTube address.
// When Valid is true and VideoID is set, VideoID is exactly 11 characters
// and NormalizedURL is the canonical watch form. When Valid is true and
// VideoID is empty, the input was a playlist-only address and NormalizedURL
// is the trimmed input. Produced fresh per call, never shared.
type ParsedURL struct {
	Valid         bool   `json:"is_valid"`
	VideoID       string `json:"video_id,omitempty"`
	NormalizedURL string `json:"normalized_url,omitempty"`
	Error         string `json:"error,omitempty"`
}

// VideoRecord is one harvested playlist entry. URL is always a
// NormalizedURL from a successful parse. Never mutated after creation.
type VideoRecord struct {
	Channel string `json:"channel"`
	URL     string `json:"url"`
	Title   string `json:"title"`
}

// ScanResult is the response to a playlist scan. Videos are in
// first-encounter order and unique by video ID. Warning carries soft
// conditions (pass cap reached); Error means the whole pipeline failed and
// Videos is empty but non-nil.
type ScanResult struct {
	Type    string        `json:"type"`
	Videos  []VideoRecord `json:"videos"`
	Error   string        `json:"error,omitempty"`
	Warning string        `json:"warning,omitempty"`
}

// CurrentVideoInfo is the response to a single-item metadata lookup.
// On failure Title/Channel hold placeholder values and Error explains why;
// the request itself never fails.
type CurrentVideoInfo struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Channel string `json:"channel"`
	Error   string `json:"error,omitempty"`
}
