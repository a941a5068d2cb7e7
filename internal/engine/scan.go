package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// itemSelectors identify one rendered playlist entry, ordered from current
// markup generations to older fallbacks. Item discovery uses the first
// strategy that matches anything.
var itemSelectors = []string{
	"ytd-playlist-video-renderer",
	"ytd-playlist-panel-video-renderer",
	"ytd-video-renderer",
	".playlist-video-item",
	"li.yt-uix-scroller-scroll-unit",
}

// Watch-page selectors for the single-item metadata path.
var (
	currentTitleSelectors = []string{
		"h1.ytd-watch-metadata yt-formatted-string",
		"ytd-watch-metadata #title h1",
		"#title h1",
		"h1.title",
		"meta[property='og:title']",
		"meta[name='title']",
	}

	currentChannelSelectors = []string{
		"ytd-watch-metadata ytd-channel-name #text a",
		"ytd-video-owner-renderer ytd-channel-name #text",
		"#owner #channel-name",
	}
)

// discoverItems returns the rendered playlist entries, or nil when no
// strategy matches.
func discoverItems(page Page) *goquery.Selection {
	for _, s := range itemSelectors {
		if sel := page.Find(s); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

// countItems samples the materialized item count for the lazy-load driver.
func countItems(page Page) int {
	if sel := discoverItems(page); sel != nil {
		return sel.Length()
	}
	return 0
}

// aggregate runs the extractor over every discovered item, deduplicating by
// video ID. The seen-ID set lives and dies with this call: output order is
// first-encounter order, and on duplicate IDs the first record wins.
func aggregate(page Page) []VideoRecord {
	seen := make(map[string]struct{})
	var out []VideoRecord

	if items := discoverItems(page); items != nil {
		items.Each(func(_ int, item *goquery.Selection) {
			out = appendRecord(out, seen, item)
		})
	}

	if len(out) == 0 && hasPlaylistParam(page.URL()) {
		// The narrow item strategies found nothing on a playlist listing.
		// Re-scan page-wide for watch links and extract relative to each
		// link's nearest item-like ancestor. Only ever a fallback for the
		// zero-candidate case, never a supplement.
		ancestors := strings.Join(itemSelectors, ", ")
		page.Find("a[href*='" + watchPathMarker + "']").Each(func(_ int, a *goquery.Selection) {
			scope := a.Closest(ancestors)
			if scope.Length() == 0 {
				scope = a
			}
			out = appendRecord(out, seen, scope)
		})
	}
	return out
}

func appendRecord(out []VideoRecord, seen map[string]struct{}, item *goquery.Selection) []VideoRecord {
	rec, id := extractRecord(item)
	if rec == nil {
		metrics.ItemsSkipped.Add(1)
		slog.Debug("item skipped: no valid watch link")
		return out
	}
	if _, dup := seen[id]; dup {
		// Duplicate links to the same video are common and expected.
		metrics.DuplicatesSuppressed.Add(1)
		return out
	}
	seen[id] = struct{}{}
	return append(out, *rec)
}

// Scan materializes the playlist and harvests every unique video on it.
// Callers always receive a well-formed result: a failure anywhere in the
// pipeline surfaces as ScanResult.Error on an empty (non-nil) video list,
// never as a panic.
func Scan(ctx context.Context, page Page) (result ScanResult) {
	metrics.ScanRequests.Add(1)
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.ScanErrors.Add(1)
			slog.Error("scan pipeline failed", slog.String("url", page.URL()), slog.Any("panic", r))
			result = ScanResult{Type: MsgScanResult, Videos: []VideoRecord{}, Error: fmt.Sprintf("scan failed: %v", r)}
		}
	}()

	drv := DriveToConvergence(ctx, page)

	// Let trailing transition animations finish, then force one last
	// scroll so late stragglers are in the tree before extraction.
	_ = wait(ctx, cfg.SettleDelay)
	page.ScrollBottom(ctx, ScrollContainer)
	page.ScrollBottom(ctx, ScrollViewport)

	videos := aggregate(page)
	if videos == nil {
		videos = []VideoRecord{}
	}
	metrics.VideosExtracted.Add(int64(len(videos)))

	result = ScanResult{Type: MsgScanResult, Videos: videos}
	if drv.CapReached {
		result.Warning = fmt.Sprintf("list never stabilized after %d passes; result may be incomplete", drv.Passes)
	}
	slog.Info("scan complete",
		slog.String("url", page.URL()),
		slog.Int("videos", len(videos)),
		slog.Int("passes", drv.Passes),
		slog.Duration("took", time.Since(started)))
	return result
}

// CurrentVideo reads title and channel for the single item currently being
// viewed. On failure it returns placeholder values plus an error string —
// the request itself never fails.
func CurrentVideo(page Page) (info CurrentVideoInfo) {
	metrics.CurrentVideoRequests.Add(1)
	info = CurrentVideoInfo{Type: MsgCurrentVideoInfo, Title: UnknownTitle, Channel: UnknownChannel}
	defer func() {
		if r := recover(); r != nil {
			info = CurrentVideoInfo{
				Type: MsgCurrentVideoInfo, Title: UnknownTitle, Channel: UnknownChannel,
				Error: fmt.Sprintf("metadata lookup failed: %v", r),
			}
		}
	}()

	for _, s := range currentTitleSelectors {
		el := page.Find(s).First()
		if el.Length() == 0 {
			continue
		}
		if t := strings.TrimSpace(el.Text()); t != "" {
			info.Title = t
			break
		}
		if t := strings.TrimSpace(el.AttrOr("content", "")); t != "" {
			info.Title = t
			break
		}
	}
	if info.Title == UnknownTitle {
		if t := pageTitle(page); t != "" {
			info.Title = t
		}
	}

	// Watch pages embed the channel in microdata as well as the rendered
	// owner block; try the metadata first, then the usual cascade.
	if c := strings.TrimSpace(page.Find("span[itemprop='author'] link[itemprop='name']").AttrOr("content", "")); c != "" {
		info.Channel = c
	} else {
		body := page.Find("body")
		info.Channel = resolveChannelFrom(body, append(currentChannelSelectors, channelSelectors...))
	}

	if info.Title == UnknownTitle && info.Channel == UnknownChannel {
		info.Error = "no video metadata found on page"
	}
	return info
}

// pageTitle returns the document title with the site suffix stripped.
func pageTitle(page Page) string {
	t := strings.TrimSpace(page.Find("title").First().Text())
	t = strings.TrimSuffix(t, " - YouTube")
	return strings.TrimSpace(t)
}
