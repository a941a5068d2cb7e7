package harvestserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tubescan/tubescan/internal/engine"
	"github.com/tubescan/tubescan/internal/engine/sources"
)

// VideoInfoInput is a GET_CURRENT_VIDEO_INFO request: a watch URL to fetch,
// or a captured watch-page snapshot.
type VideoInfoInput struct {
	URL  string `json:"url,omitempty"`
	HTML string `json:"html,omitempty"`
}

func registerCurrentVideoInfo(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_current_video_info",
		Description: "Read title and channel for a single YouTube video. Pass a watch URL or a captured watch-page snapshot via html. Always returns a CURRENT_VIDEO_INFO response; unresolvable fields come back as placeholders with an error string.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input VideoInfoInput) (*mcp.CallToolResult, engine.CurrentVideoInfo, error) {
		var (
			page engine.Page
			err  error
		)
		switch {
		case input.HTML != "":
			page, err = engine.NewSnapshotPage(input.HTML, input.URL)
		case input.URL != "":
			watchURL := strings.TrimSpace(input.URL)
			parsed := engine.ParseVideoURL(watchURL)
			if !parsed.Valid || parsed.VideoID == "" {
				return nil, engine.CurrentVideoInfo{}, fmt.Errorf("invalid video URL: %s", parsed.Error)
			}
			page, err = sources.FetchWatchPage(ctx, parsed.NormalizedURL)
		default:
			return nil, engine.CurrentVideoInfo{}, errors.New("url or html is required")
		}
		if err != nil {
			return nil, engine.CurrentVideoInfo{}, err
		}
		return nil, engine.CurrentVideo(page), nil
	})
}
