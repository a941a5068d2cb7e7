package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// fakePage serves a scripted item count: each recount consumes the next
// entry of counts (sticking on the last), or grows by one forever when
// unbounded is set.
type fakePage struct {
	t         *testing.T
	counts    []int
	idx       int
	unbounded bool
	last      int
	clicks    int
	scrolls   int
}

func (p *fakePage) Find(selector string) *goquery.Selection {
	if selector != itemSelectors[0] {
		return emptySelection(p.t)
	}
	if p.unbounded {
		p.last++
	} else {
		if p.idx < len(p.counts) {
			p.last = p.counts[p.idx]
			p.idx++
		}
	}
	return itemsSelection(p.t, p.last)
}

func (p *fakePage) ClickFirst(context.Context, []string) bool { p.clicks++; return false }
func (p *fakePage) ScrollBottom(context.Context, ScrollTarget) bool {
	p.scrolls++
	return true
}
func (p *fakePage) URL() string { return "https://www.youtube.com/playlist?list=PLtest" }

func emptySelection(t *testing.T) *goquery.Selection {
	return mustDoc(t, "<div></div>").Find(".nothing")
}

func itemsSelection(t *testing.T, n int) *goquery.Selection {
	raw := strings.Repeat("<ytd-playlist-video-renderer></ytd-playlist-video-renderer>", n)
	return mustDoc(t, "<body>"+raw+"</body>").Find(itemSelectors[0])
}

func fastConfig(t *testing.T, passes int) {
	t.Helper()
	c := DefaultConfig()
	c.MaxScanPasses = passes
	c.LoadDelay = 0
	c.ScrollDelay = 0
	c.SampleInterval = 0
	c.SettleDelay = 0
	Init(c)
	t.Cleanup(func() { Init(DefaultConfig()) })
}

func TestDriveToConvergenceStops(t *testing.T) {
	fastConfig(t, 100)
	page := &fakePage{t: t, counts: []int{1, 2, 3, 3}}

	res := DriveToConvergence(context.Background(), page)

	if res.Items != 3 {
		t.Errorf("Items = %d, want 3", res.Items)
	}
	if res.Passes != 3 {
		t.Errorf("Passes = %d, want 3", res.Passes)
	}
	if res.CapReached {
		t.Error("CapReached should be false for a converging list")
	}
}

func TestDriveToConvergenceResumesOnLateGrowth(t *testing.T) {
	fastConfig(t, 100)
	// Flat after the first pass, then growth arrives mid-confirmation.
	page := &fakePage{t: t, counts: []int{1, 1, 2, 2}}

	res := DriveToConvergence(context.Background(), page)

	if res.Items != 2 {
		t.Errorf("Items = %d, want 2 (late growth must be picked up)", res.Items)
	}
	if res.CapReached {
		t.Error("CapReached should be false")
	}
}

func TestDriveToConvergenceCap(t *testing.T) {
	fastConfig(t, 5)
	page := &fakePage{t: t, unbounded: true}

	res := DriveToConvergence(context.Background(), page)

	if !res.CapReached {
		t.Fatal("endless growth must trip the pass cap")
	}
	if res.Passes != 5 {
		t.Errorf("Passes = %d, want 5", res.Passes)
	}
	if res.Items == 0 {
		t.Error("partial items should still be reported at the cap")
	}
}

func TestDriveToConvergenceCancelled(t *testing.T) {
	c := DefaultConfig()
	c.ScrollDelay = 50 * time.Millisecond // long enough for the wait to observe cancellation
	c.LoadDelay = 0
	c.SampleInterval = 0
	Init(c)
	t.Cleanup(func() { Init(DefaultConfig()) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page := &fakePage{t: t, unbounded: true}
	res := DriveToConvergence(ctx, page)

	if res.Passes != 1 {
		t.Errorf("Passes = %d, want 1 after immediate cancellation", res.Passes)
	}
	if res.CapReached {
		t.Error("cancellation is not the cap condition")
	}
}

func TestDriveToConvergenceScrollsEveryPass(t *testing.T) {
	fastConfig(t, 100)
	page := &fakePage{t: t, counts: []int{1, 1}}

	DriveToConvergence(context.Background(), page)

	if page.clicks == 0 {
		t.Error("load-more probe never ran")
	}
	// Container plus viewport per pass.
	if page.scrolls < 2 {
		t.Errorf("scrolls = %d, want at least 2", page.scrolls)
	}
}
