package engine

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ScrollTarget selects what a scroll gesture applies to.
type ScrollTarget int

const (
	// ScrollContainer targets the tracked scrollable list container.
	ScrollContainer ScrollTarget = iota
	// ScrollViewport targets the top-level page viewport.
	ScrollViewport
)

// Page is the narrow rendered-tree capability the engine drives. Extraction
// and the lazy-load driver consume this interface instead of a global DOM,
// so tests substitute synthetic trees and hosts substitute live pages.
type Page interface {
	// Find returns every node matching the selector, in document order.
	Find(selector string) *goquery.Selection

	// ClickFirst activates the first visible element matching any of the
	// selectors, tried in order. Reports whether anything was activated.
	ClickFirst(ctx context.Context, selectors []string) bool

	// ScrollBottom scrolls the target to its bottom. Reports whether the
	// target exists; a page without a scrollable container is normal, not
	// an error.
	ScrollBottom(ctx context.Context, target ScrollTarget) bool

	// URL returns the page address.
	URL() string
}

// renderedText returns the text a user would actually see inside sel: text
// nodes reachable without crossing a hidden subtree. Raw text content may
// concatenate visually-hidden duplicate copies of a value, so the channel
// cascade prefers this.
func renderedText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeVisibleText(n, &b)
	}
	return strings.TrimSpace(b.String())
}

func writeVisibleText(n *html.Node, b *strings.Builder) {
	if n.Type == html.ElementNode && nodeHidden(n) {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeVisibleText(c, b)
	}
}

// nodeHidden recognizes the markup-level hiding mechanisms a static
// snapshot can see. Computed styles are out of reach without a layout
// engine; inline styles and ARIA attributes cover the duplicated-copy
// markup in practice.
func nodeHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "aria-hidden":
			if a.Val == "true" {
				return true
			}
		case "style":
			s := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(s, "display:none") || strings.Contains(s, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// selectionVisible reports whether the first node of sel is rendered:
// neither the node nor any ancestor is hidden.
func selectionVisible(sel *goquery.Selection) bool {
	if len(sel.Nodes) == 0 {
		return false
	}
	for n := sel.Nodes[0]; n != nil; n = n.Parent {
		if n.Type == html.ElementNode && nodeHidden(n) {
			return false
		}
	}
	return true
}
