// Package harvestserver exposes the harvesting engine as MCP tools:
// scan_playlist / scan_result implement the two-phase SCAN_PLAYLIST
// contract, get_current_video_info the single-item metadata lookup, and
// scan_history the local scan log.
package harvestserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tubescan/tubescan/internal/engine"
)

// RegisterTools registers all harvesting tools on the given MCP server.
// history may be nil; the scan_history tool then reports it as disabled.
func RegisterTools(server *mcp.Server, pipeline *engine.Pipeline, history *engine.History) {
	registerScanPlaylist(server, pipeline)
	registerScanResult(server, pipeline)
	registerCurrentVideoInfo(server)
	registerScanHistory(server, history)
}
