package engine

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector cascades for one rendered playlist item. Markup for the same
// item varies across page generations, so every field is resolved by an
// ordered list of independent strategies tried until one yields a value.
var (
	titleSelectors = []string{
		"a#video-title",
		"#video-title",
		"h3 a.yt-simple-endpoint",
		"span.title",
		".title",
	}

	channelSelectors = []string{
		"ytd-channel-name #text",
		"ytd-channel-name",
		".ytd-channel-name",
		"#channel-name yt-formatted-string",
		"#byline",
		".byline-title",
	}
)

// extractRecord resolves one rendered item into a VideoRecord plus its
// video ID. A nil record means the item is skipped — a per-item soft
// failure, never an error for the batch.
func extractRecord(item *goquery.Selection) (*VideoRecord, string) {
	link, parsed := resolveLink(item)
	if link == nil {
		return nil, ""
	}
	return &VideoRecord{
		Channel: resolveChannel(item),
		URL:     parsed.NormalizedURL,
		Title:   resolveTitle(item, link),
	}, parsed.VideoID
}

// resolveLink finds the first anchor in the item whose resolved address is a
// valid watch link: the item itself when it is an anchor, then direct child
// anchors, then nested descendants.
func resolveLink(item *goquery.Selection) (*goquery.Selection, ParsedURL) {
	scopes := []*goquery.Selection{
		item.Filter("a"),
		item.ChildrenFiltered("a"),
		item.Find("a"),
	}
	for _, scope := range scopes {
		var (
			found  *goquery.Selection
			parsed ParsedURL
		)
		scope.EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, ok := a.Attr("href")
			if !ok || !strings.Contains(href, watchPathMarker) {
				return true
			}
			p := ParseVideoURL(resolveHref(href))
			if !p.Valid || p.VideoID == "" {
				return true
			}
			found, parsed = a, p
			return false
		})
		if found != nil {
			return found, parsed
		}
	}
	return nil, ParsedURL{}
}

// resolveHref resolves a relative address against the site root.
func resolveHref(href string) string {
	if strings.HasPrefix(href, "/") {
		return siteRoot + href
	}
	return href
}

// resolveTitle resolves an item title: title-marker element text, its title
// attribute, its accessibility label, then the link's own text and
// attributes, the literal placeholder last.
func resolveTitle(item, link *goquery.Selection) string {
	for _, s := range titleSelectors {
		el := item.Find(s).First()
		if el.Length() == 0 {
			continue
		}
		if t := strings.TrimSpace(el.Text()); t != "" {
			return t
		}
		if t := strings.TrimSpace(el.AttrOr("title", "")); t != "" {
			return t
		}
		if t := strings.TrimSpace(el.AttrOr("aria-label", "")); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(link.Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(link.AttrOr("title", "")); t != "" {
		return t
	}
	if t := strings.TrimSpace(link.AttrOr("aria-label", "")); t != "" {
		return t
	}
	return UnknownTitle
}

// resolveChannel resolves an item's channel name using channelSelectors.
func resolveChannel(item *goquery.Selection) string {
	return resolveChannelFrom(item, channelSelectors)
}

// resolveChannelFrom prefers the visually-rendered text of the first
// matching channel-marker element: raw text content may concatenate
// duplicated, visually-hidden copies of the name joined by line breaks.
// When the rendered text is empty or still multi-line, the raw content is
// split on line breaks and the first non-empty segment wins; attribute
// fallbacks come after that, the placeholder last.
func resolveChannelFrom(scope *goquery.Selection, selectors []string) string {
	for _, s := range selectors {
		el := scope.Find(s).First()
		if el.Length() == 0 {
			continue
		}
		txt := renderedText(el)
		if txt != "" && !strings.Contains(txt, "\n") {
			return txt
		}
		for _, seg := range strings.Split(el.Text(), "\n") {
			if seg = strings.TrimSpace(seg); seg != "" {
				return seg
			}
		}
		if t := strings.TrimSpace(el.AttrOr("title", "")); t != "" {
			return t
		}
		if t := strings.TrimSpace(el.AttrOr("aria-label", "")); t != "" {
			return t
		}
	}
	return UnknownChannel
}
