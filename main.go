// tubescan — YouTube playlist harvesting MCP server.
//
// Exposes four MCP tools: scan_playlist, scan_result, get_current_video_info,
// scan_history. Runs as HTTP MCP server or stdio transport.
package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/tubescan/tubescan/internal/engine"
	"github.com/tubescan/tubescan/internal/harvestserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8890")
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	initEngine()

	slog.Info("starting tubescan",
		slog.String("port", mcpPort),
	)

	history, err := engine.OpenHistory(engine.Cfg.HistoryPath)
	if err != nil {
		slog.Warn("scan history unavailable", slog.Any("error", err))
	} else {
		defer history.Close()
	}

	pipeline := engine.NewPipeline(history)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "tubescan",
		Version: version,
	}, nil)

	harvestserver.RegisterTools(server, pipeline, history)
	slog.Info("tools registered", slog.Int("count", 4))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "tubescan",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: 600 * time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
	}
}

func initEngine() {
	c := engine.Config{
		MaxScanPasses:  env.Int("MAX_SCAN_PASSES", 100),
		LoadDelay:      env.Duration("LOAD_DELAY", 1200*time.Millisecond),
		ScrollDelay:    env.Duration("SCROLL_DELAY", 600*time.Millisecond),
		StableSamples:  env.Int("STABLE_SAMPLES", 3),
		SampleInterval: env.Duration("SAMPLE_INTERVAL", time.Second),
		SettleDelay:    env.Duration("SETTLE_DELAY", 500*time.Millisecond),
		ScanTimeout:    env.Duration("SCAN_TIMEOUT", 5*time.Minute),
		FetchTimeout:   env.Duration("FETCH_TIMEOUT", 10*time.Second),
		RequestsPerSec: env.Float("REQUESTS_PER_SEC", 1.0),
		HistoryPath:    env.Str("HISTORY_PATH", ""),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}

	engine.Init(c)
}
