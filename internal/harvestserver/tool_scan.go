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

// ScanPlaylistInput is a SCAN_PLAYLIST request. Either a playlist URL
// (harvested live) or a captured DOM snapshot (html plus optional
// append-only chunks) must be supplied.
type ScanPlaylistInput struct {
	URL    string   `json:"url,omitempty"`
	HTML   string   `json:"html,omitempty"`
	Chunks []string `json:"chunks,omitempty"`
	Wait   bool     `json:"wait,omitempty"`
}

// ScanPlaylistOutput acknowledges the request. Without wait, SessionID is
// the first-phase acknowledgment and the result is delivered via
// scan_result; with wait, Result carries the full SCAN_RESULT directly.
type ScanPlaylistOutput struct {
	SessionID string             `json:"session_id,omitempty"`
	Status    string             `json:"status,omitempty"`
	Result    *engine.ScanResult `json:"result,omitempty"`
}

func registerScanPlaylist(server *mcp.Server, pipeline *engine.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_playlist",
		Description: "Harvest every video (channel, url, title) from a YouTube playlist. Pass a playlist URL to scan it live, or a captured DOM snapshot via html (plus optional chunks). By default returns a session_id immediately; poll scan_result for the outcome. Set wait=true to block until the scan finishes.",
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input ScanPlaylistInput) (*mcp.CallToolResult, ScanPlaylistOutput, error) {
		source, build, err := pageBuilder(input)
		if err != nil {
			return nil, ScanPlaylistOutput{}, err
		}

		if input.Wait {
			page, err := build(ctx)
			if err != nil {
				return nil, ScanPlaylistOutput{}, err
			}
			res := engine.Scan(ctx, page)
			return nil, ScanPlaylistOutput{Status: engine.StatusDone, Result: &res}, nil
		}

		// The scan outlives this call; the session owns its own timeout.
		id := pipeline.Start(context.Background(), source, build)
		return nil, ScanPlaylistOutput{SessionID: id, Status: engine.StatusAccepted}, nil
	})
}

// pageBuilder decides how the scanned page gets materialized.
func pageBuilder(input ScanPlaylistInput) (string, engine.PageBuilder, error) {
	switch {
	case input.HTML != "":
		return "", snapshotBuilder(input), nil
	case input.URL != "":
		source := strings.TrimSpace(input.URL)
		parsed := engine.ParseVideoURL(source)
		if !parsed.Valid {
			return "", nil, fmt.Errorf("invalid playlist URL: %s", parsed.Error)
		}
		return source, func(context.Context) (engine.Page, error) {
			return sources.NewPlaylistPage(source)
		}, nil
	default:
		return "", nil, errors.New("url or html is required")
	}
}

func snapshotBuilder(input ScanPlaylistInput) engine.PageBuilder {
	return func(context.Context) (engine.Page, error) {
		page, err := engine.NewSnapshotPage(input.HTML, input.URL)
		if err != nil {
			return nil, err
		}
		if len(input.Chunks) > 0 {
			chunks := input.Chunks
			i := 0
			page.SetLoader(engine.ChunkLoaderFunc(func(context.Context) (string, bool, error) {
				if i >= len(chunks) {
					return "", false, nil
				}
				c := chunks[i]
				i++
				return c, true, nil
			}), "")
		}
		return page, nil
	}
}

// ScanResultInput asks for the second phase of a scan acknowledgment.
type ScanResultInput struct {
	SessionID string `json:"session_id"`
}

// ScanResultOutput is the session state, including the delivered
// SCAN_RESULT once the scan completed.
type ScanResultOutput struct {
	Session *engine.Session `json:"session"`
}

func registerScanResult(server *mcp.Server, pipeline *engine.Pipeline) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_result",
		Description: "Fetch the state of a scan session started by scan_playlist. Returns status (accepted, scanning, done, error) and, once done, the SCAN_RESULT with all harvested videos.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(_ context.Context, _ *mcp.CallToolRequest, input ScanResultInput) (*mcp.CallToolResult, ScanResultOutput, error) {
		if input.SessionID == "" {
			return nil, ScanResultOutput{}, errors.New("session_id is required")
		}
		s, ok := pipeline.Get(input.SessionID)
		if !ok {
			return nil, ScanResultOutput{}, fmt.Errorf("session %q not found", input.SessionID)
		}
		return nil, ScanResultOutput{Session: s}, nil
	})
}
