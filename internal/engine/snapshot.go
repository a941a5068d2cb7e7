package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ChunkLoader feeds additional rendered markup to a SnapshotPage, modelling
// the append-only growth of a virtualized list. Next returns the next chunk
// of item markup; ok=false means no more content is available.
type ChunkLoader interface {
	Next(ctx context.Context) (html string, ok bool, err error)
}

// ChunkLoaderFunc adapts a function to the ChunkLoader interface.
type ChunkLoaderFunc func(ctx context.Context) (string, bool, error)

func (f ChunkLoaderFunc) Next(ctx context.Context) (string, bool, error) { return f(ctx) }

// SnapshotPage is a Page over a parsed HTML snapshot. Load-more clicks and
// scroll gestures pull markup from the attached loader and append it to the
// item container — the list only grows in response to input, the same way a
// live virtualized list does.
type SnapshotPage struct {
	doc       *goquery.Document
	url       string
	loader    ChunkLoader
	container string
	exhausted bool
}

// NewSnapshotPage parses rawHTML into a page rooted at pageURL.
func NewSnapshotPage(rawHTML, pageURL string) (*SnapshotPage, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &SnapshotPage{doc: doc, url: pageURL}, nil
}

// SetLoader attaches a chunk loader. Chunks are appended under the first
// element matching containerSelector (the page body when nothing matches);
// the same element doubles as the tracked scrollable container.
func (p *SnapshotPage) SetLoader(l ChunkLoader, containerSelector string) {
	p.loader = l
	p.container = containerSelector
	p.exhausted = false
}

func (p *SnapshotPage) Find(selector string) *goquery.Selection {
	return p.doc.Find(selector)
}

func (p *SnapshotPage) URL() string { return p.url }

func (p *SnapshotPage) ClickFirst(ctx context.Context, selectors []string) bool {
	for _, s := range selectors {
		clicked := false
		p.doc.Find(s).EachWithBreak(func(_ int, el *goquery.Selection) bool {
			if !selectionVisible(el) {
				return true
			}
			clicked = true
			return false
		})
		if clicked {
			p.advance(ctx)
			return true
		}
	}
	return false
}

func (p *SnapshotPage) ScrollBottom(ctx context.Context, target ScrollTarget) bool {
	if target == ScrollContainer {
		if p.container == "" || p.doc.Find(p.container).Length() == 0 {
			return false
		}
	}
	p.advance(ctx)
	return true
}

// advance pulls the next chunk from the loader, if any, and materializes it.
// Loader failures degrade to "no more growth" — the scan proceeds on what
// has loaded so far.
func (p *SnapshotPage) advance(ctx context.Context) {
	if p.loader == nil || p.exhausted {
		return
	}
	chunk, ok, err := p.loader.Next(ctx)
	if err != nil {
		slog.Debug("snapshot: loader stopped", slog.String("url", p.url), slog.Any("error", err))
		p.exhausted = true
		return
	}
	if !ok {
		p.exhausted = true
		return
	}
	target := p.doc.Find("body").First()
	if p.container != "" {
		if t := p.doc.Find(p.container).First(); t.Length() > 0 {
			target = t
		}
	}
	target.AppendHtml(chunk)
}
