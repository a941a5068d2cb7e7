package sources

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	stealth "github.com/anatolykoptev/go-stealth"

	"github.com/tubescan/tubescan/internal/engine"
)

// YouTube Innertube plumbing — constants, JSON mirrors of the renderer
// tree, and the HTTP primitives the playlist loader builds on.

const (
	siteRoot          = "https://www.youtube.com"
	ytBrowseURL       = "https://www.youtube.com/youtubei/v1/browse"
	ytWebVersion      = "2.20250222.10.00"
	initialDataMarker = "var ytInitialData = "
)

// PlaylistVideo is one entry pulled from Innertube data.
type PlaylistVideo struct {
	ID      string
	Title   string
	Channel string
}

// --- WEB client context ---

type ytWebClientCtx struct {
	ClientName    string `json:"clientName"`
	ClientVersion string `json:"clientVersion"`
	Hl            string `json:"hl,omitempty"`
	Gl            string `json:"gl,omitempty"`
}

// ytWebContext builds the standard WEB client context for Innertube payloads.
func ytWebContext() map[string]any {
	return map[string]any{
		"client": ytWebClientCtx{
			ClientName:    "WEB",
			ClientVersion: ytWebVersion,
			Hl:            "en",
			Gl:            "US",
		},
	}
}

// --- Renderer tree mirrors ---

type ytText struct {
	Runs []struct {
		Text string `json:"text"`
	} `json:"runs"`
	SimpleText string `json:"simpleText"`
}

func (t ytText) text() string {
	if t.SimpleText != "" {
		return t.SimpleText
	}
	var b strings.Builder
	for _, r := range t.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

type ytPlaylistItem struct {
	PlaylistVideoRenderer *struct {
		VideoID         string `json:"videoId"`
		Title           ytText `json:"title"`
		ShortBylineText ytText `json:"shortBylineText"`
	} `json:"playlistVideoRenderer"`
	ContinuationItemRenderer *struct {
		ContinuationEndpoint struct {
			ContinuationCommand struct {
				Token string `json:"token"`
			} `json:"continuationCommand"`
		} `json:"continuationEndpoint"`
	} `json:"continuationItemRenderer"`
}

type ytInitialData struct {
	Contents struct {
		TwoColumnBrowseResultsRenderer struct {
			Tabs []struct {
				TabRenderer struct {
					Content struct {
						SectionListRenderer struct {
							Contents []struct {
								ItemSectionRenderer struct {
									Contents []struct {
										PlaylistVideoListRenderer struct {
											Contents []ytPlaylistItem `json:"contents"`
										} `json:"playlistVideoListRenderer"`
									} `json:"contents"`
								} `json:"itemSectionRenderer"`
							} `json:"contents"`
						} `json:"sectionListRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"twoColumnBrowseResultsRenderer"`
	} `json:"contents"`
}

type ytBrowseResp struct {
	OnResponseReceivedActions []struct {
		AppendContinuationItemsAction struct {
			ContinuationItems []ytPlaylistItem `json:"continuationItems"`
		} `json:"appendContinuationItemsAction"`
	} `json:"onResponseReceivedActions"`
}

// extractInitialData slices the ytInitialData JSON blob out of a page.
// The decoder reads exactly one JSON value, so the trailing script text
// after the blob is ignored.
func extractInitialData(page []byte) ([]byte, error) {
	idx := bytes.Index(page, []byte(initialDataMarker))
	if idx < 0 {
		return nil, fmt.Errorf("ytInitialData marker not found")
	}
	rest := page[idx+len(initialDataMarker):]
	var raw json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(rest)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode ytInitialData: %w", err)
	}
	return raw, nil
}

// parseInitialBatch walks the playlist page's renderer tree and returns the
// first rendered batch plus the continuation token, if any.
func parseInitialBatch(data []byte) ([]PlaylistVideo, string, error) {
	var root ytInitialData
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, "", fmt.Errorf("parse initial data: %w", err)
	}
	for _, tab := range root.Contents.TwoColumnBrowseResultsRenderer.Tabs {
		for _, sec := range tab.TabRenderer.Content.SectionListRenderer.Contents {
			for _, c := range sec.ItemSectionRenderer.Contents {
				if items := c.PlaylistVideoListRenderer.Contents; len(items) > 0 {
					videos, token := collectItems(items)
					return videos, token, nil
				}
			}
		}
	}
	return nil, "", fmt.Errorf("no playlist items in initial data")
}

// collectItems splits a renderer batch into videos and the trailing
// continuation token.
func collectItems(items []ytPlaylistItem) ([]PlaylistVideo, string) {
	var (
		videos []PlaylistVideo
		token  string
	)
	for _, it := range items {
		if r := it.PlaylistVideoRenderer; r != nil && r.VideoID != "" {
			videos = append(videos, PlaylistVideo{
				ID:      r.VideoID,
				Title:   r.Title.text(),
				Channel: r.ShortBylineText.text(),
			})
			continue
		}
		if c := it.ContinuationItemRenderer; c != nil {
			token = c.ContinuationEndpoint.ContinuationCommand.Token
		}
	}
	return videos, token
}

// requestContinuation fetches the next renderer batch for a token.
func requestContinuation(ctx context.Context, token string) ([]PlaylistVideo, string, error) {
	engine.IncrContinuation()

	payload, err := json.Marshal(map[string]any{
		"context":      ytWebContext(),
		"continuation": token,
	})
	if err != nil {
		return nil, "", err
	}

	body, err := postJSON(ctx, ytBrowseURL, payload)
	if err != nil {
		return nil, "", fmt.Errorf("continuation request: %w", err)
	}

	var resp ytBrowseResp
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, "", fmt.Errorf("parse continuation: %w", err)
	}
	for _, a := range resp.OnResponseReceivedActions {
		if items := a.AppendContinuationItemsAction.ContinuationItems; len(items) > 0 {
			videos, next := collectItems(items)
			return videos, next, nil
		}
	}
	return nil, "", nil
}

// --- HTTP primitives ---

func httpClient() *http.Client {
	if engine.Cfg.HTTPClient != nil {
		return engine.Cfg.HTTPClient
	}
	return &http.Client{Timeout: 15 * time.Second}
}

// fetchPage GETs a page with Chrome-like headers and retry on transient
// failures.
func fetchPage(ctx context.Context, pageURL string) ([]byte, error) {
	engine.IncrPageFetch()
	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	resp, err := stealth.RetryHTTP(ctx, stealth.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range stealth.ChromeHeaders() {
			req.Header.Set(k, v)
		}
		req.Header.Set("User-Agent", stealth.RandomUserAgent())
		return httpClient().Do(req)
	})
	if err != nil {
		engine.IncrPageFetchError()
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	return readResponseBody(resp)
}

// postJSON POSTs an Innertube payload with WEB client headers.
func postJSON(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, engine.Cfg.FetchTimeout)
	defer cancel()

	resp, err := stealth.RetryHTTP(ctx, stealth.DefaultRetryConfig, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", stealth.RandomUserAgent())
		req.Header.Set("Origin", siteRoot)
		return httpClient().Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return readResponseBody(resp)
}

// readResponseBody reads the response body, handling gzip if needed.
func readResponseBody(resp *http.Response) ([]byte, error) {
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		return io.ReadAll(gz)
	}
	return io.ReadAll(resp.Body)
}
