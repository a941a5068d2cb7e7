package sources

import (
	"context"

	"github.com/tubescan/tubescan/internal/engine"
)

// FetchWatchPage loads a watch page into a snapshot for the single-item
// metadata path. Watch pages carry the document title and microdata the
// current-video cascades read, no lazy loading involved.
func FetchWatchPage(ctx context.Context, videoURL string) (*engine.SnapshotPage, error) {
	body, err := fetchPage(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	return engine.NewSnapshotPage(string(body), videoURL)
}
