package engine

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Metrics tracks operational counters across the engine.
var metrics struct {
	ScanRequests         atomic.Int64
	ScanErrors           atomic.Int64
	CurrentVideoRequests atomic.Int64
	VideosExtracted      atomic.Int64
	ItemsSkipped         atomic.Int64
	DuplicatesSuppressed atomic.Int64
	CapReached           atomic.Int64
	PageFetches          atomic.Int64
	PageFetchErrors      atomic.Int64
	ContinuationFetches  atomic.Int64
}

// Incr helpers for sub-packages (sources).
func IncrPageFetch()      { metrics.PageFetches.Add(1) }
func IncrPageFetchError() { metrics.PageFetchErrors.Add(1) }
func IncrContinuation()   { metrics.ContinuationFetches.Add(1) }

// GetMetrics returns a snapshot of all counters.
func GetMetrics() map[string]int64 {
	return map[string]int64{
		"scan_requests":          metrics.ScanRequests.Load(),
		"scan_errors":            metrics.ScanErrors.Load(),
		"current_video_requests": metrics.CurrentVideoRequests.Load(),
		"videos_extracted":       metrics.VideosExtracted.Load(),
		"items_skipped":          metrics.ItemsSkipped.Load(),
		"duplicates_suppressed":  metrics.DuplicatesSuppressed.Load(),
		"cap_reached":            metrics.CapReached.Load(),
		"page_fetches":           metrics.PageFetches.Load(),
		"page_fetch_errors":      metrics.PageFetchErrors.Load(),
		"continuation_fetches":   metrics.ContinuationFetches.Load(),
	}
}

// FormatMetrics returns metrics as a simple text format for HTTP endpoint.
func FormatMetrics() string {
	m := GetMetrics()
	var sb strings.Builder
	keys := []string{
		"scan_requests", "scan_errors",
		"current_video_requests",
		"videos_extracted", "items_skipped", "duplicates_suppressed",
		"cap_reached",
		"page_fetches", "page_fetch_errors", "continuation_fetches",
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s %d\n", k, m[k])
	}
	return sb.String()
}
