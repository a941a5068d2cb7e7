package harvestserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tubescan/tubescan/internal/engine"
)

type HistoryInput struct {
	Limit int `json:"limit,omitempty"`
}

type HistoryOutput struct {
	Scans []engine.ScanRecord `json:"scans"`
	Total int                 `json:"total"`
}

func registerScanHistory(server *mcp.Server, history *engine.History) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "scan_history",
		Description: "List recent playlist scans: source, video count, warnings, timing. Default limit 20, max 200.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, _ *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, HistoryOutput, error) {
		if history == nil {
			return nil, HistoryOutput{}, errors.New("scan history disabled")
		}
		scans, err := history.List(ctx, input.Limit)
		if err != nil {
			return nil, HistoryOutput{}, err
		}
		return nil, HistoryOutput{Scans: scans, Total: len(scans)}, nil
	})
}
