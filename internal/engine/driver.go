package engine

import (
	"context"
	"log/slog"
	"time"
)

// loadMoreSelectors identify "load more" style controls, tried in order;
// the first visible match is activated each pass.
var loadMoreSelectors = []string{
	"ytd-continuation-item-renderer button",
	"yt-next-continuation tp-yt-paper-button",
	"button[aria-label*='more']",
	".load-more-button",
	".browse-items-load-more-button",
}

// DriverResult reports how a lazy-load run ended. CapReached is a soft
// condition: extraction still proceeds on whatever materialized.
type DriverResult struct {
	Passes     int
	Items      int
	CapReached bool
}

// DriveToConvergence forces a scroll-triggered, append-only list to fully
// materialize: each pass activates a load-more control when one is visible,
// scrolls the tracked container and the viewport to the bottom, waits for
// content to arrive, and recounts. Convergence is declared when the count
// stays flat across cfg.StableSamples re-samples; the re-sampling tolerates
// bursty asynchronous rendering without assuming a fixed settle time.
func DriveToConvergence(ctx context.Context, page Page) DriverResult {
	prev := countItems(page)
	res := DriverResult{Items: prev}

	for pass := 0; pass < cfg.MaxScanPasses; pass++ {
		res.Passes = pass + 1

		fired := page.ClickFirst(ctx, loadMoreSelectors)
		if !page.ScrollBottom(ctx, ScrollContainer) {
			slog.Debug("no scrollable container, viewport scrolling only", slog.String("url", page.URL()))
		}
		page.ScrollBottom(ctx, ScrollViewport)

		delay := cfg.ScrollDelay
		if fired {
			// Triggered loads take longer to arrive than plain scrolls.
			delay = cfg.LoadDelay
		}
		if err := wait(ctx, delay); err != nil {
			res.Items = countItems(page)
			return res
		}

		n := countItems(page)
		if n > prev {
			prev = n
			continue
		}

		stable := true
		for s := 0; s < cfg.StableSamples; s++ {
			if err := wait(ctx, cfg.SampleInterval); err != nil {
				res.Items = countItems(page)
				return res
			}
			if m := countItems(page); m > n {
				prev = m
				stable = false
				break
			}
		}
		if stable {
			res.Items = n
			slog.Debug("list converged", slog.String("url", page.URL()), slog.Int("items", n), slog.Int("passes", res.Passes))
			return res
		}
	}

	res.Items = countItems(page)
	res.CapReached = true
	metrics.CapReached.Add(1)
	slog.Warn("item count never stabilized, proceeding with partial list",
		slog.String("url", page.URL()), slog.Int("items", res.Items), slog.Int("passes", res.Passes))
	return res
}

// wait suspends for d or until the context expires.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
