package sources

import (
	"context"
	"fmt"
	stdhtml "html"
	"strings"

	"golang.org/x/time/rate"

	"github.com/tubescan/tubescan/internal/engine"
)

// playlistShell is the empty page a live scan starts from; batches land in
// the contents container as the driver keeps scrolling.
const playlistShell = `<html><body><div id="contents"></div></body></html>`

// PlaylistLoader materializes a public playlist the way the web client
// does: an initial rendered batch from the playlist page, then one
// continuation batch per load-more activation. Each batch is rendered as
// the standard item markup, so the same extraction cascades serve live
// scans and captured DOM snapshots.
type PlaylistLoader struct {
	url     string
	limiter *rate.Limiter
	started bool
	token   string
}

// NewPlaylistLoader creates a loader for a playlist URL. Requests are
// paced by engine.Cfg.RequestsPerSec to stay polite.
func NewPlaylistLoader(playlistURL string) *PlaylistLoader {
	rps := engine.Cfg.RequestsPerSec
	if rps <= 0 {
		rps = 1
	}
	return &PlaylistLoader{
		url:     playlistURL,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Next implements engine.ChunkLoader.
func (l *PlaylistLoader) Next(ctx context.Context) (string, bool, error) {
	if l.started && l.token == "" {
		return "", false, nil
	}
	if err := l.limiter.Wait(ctx); err != nil {
		return "", false, err
	}

	if !l.started {
		l.started = true
		body, err := fetchPage(ctx, l.url)
		if err != nil {
			return "", false, err
		}
		data, err := extractInitialData(body)
		if err != nil {
			return "", false, err
		}
		videos, token, err := parseInitialBatch(data)
		if err != nil {
			return "", false, err
		}
		l.token = token
		return renderItems(videos), true, nil
	}

	videos, next, err := requestContinuation(ctx, l.token)
	if err != nil {
		return "", false, err
	}
	l.token = next
	if len(videos) == 0 {
		return "", false, nil
	}
	return renderItems(videos), true, nil
}

// renderItems turns Innertube entries into the item markup the extraction
// cascades understand — the same shape the web client renders from this
// exact data.
func renderItems(videos []PlaylistVideo) string {
	var b strings.Builder
	for _, v := range videos {
		fmt.Fprintf(&b,
			`<ytd-playlist-video-renderer>`+
				`<a id="video-title" href="/watch?v=%s">%s</a>`+
				`<ytd-channel-name><div id="text">%s</div></ytd-channel-name>`+
				`</ytd-playlist-video-renderer>`,
			stdhtml.EscapeString(v.ID),
			stdhtml.EscapeString(v.Title),
			stdhtml.EscapeString(v.Channel))
	}
	return b.String()
}

// NewPlaylistPage builds the snapshot page a live playlist scan drives.
func NewPlaylistPage(playlistURL string) (*engine.SnapshotPage, error) {
	page, err := engine.NewSnapshotPage(playlistShell, playlistURL)
	if err != nil {
		return nil, err
	}
	page.SetLoader(NewPlaylistLoader(playlistURL), "#contents")
	return page, nil
}
